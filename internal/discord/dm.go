package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// DMSender delivers direct messages through a bot session
type DMSender struct {
	Session *discordgo.Session
}

// SendDM opens (or reuses) the DM channel with the user and posts msg
func (d DMSender) SendDM(ctx context.Context, discordUserID, msg string) error {
	ch, err := d.Session.UserChannelCreate(discordUserID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("open dm channel: %w", err)
	}
	if _, err := d.Session.ChannelMessageSend(ch.ID, msg, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send dm: %w", err)
	}
	return nil
}
