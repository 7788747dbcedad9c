package commands

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"lockdin/internal/db"
	"lockdin/internal/discord"
)

// registeredUser loads the invoker's account. It responds and returns nil
// when the user has not registered or the lookup fails.
func (h *handler) registeredUser(s *discordgo.Session, i *discordgo.InteractionCreate) *db.User {
	u, err := db.GetUserByDiscordID(h.db, discord.InvokerID(i))
	if errors.Is(err, sql.ErrNoRows) {
		discord.RespondEphemeral(s, i, "You are not registered yet. Run /register first.")
		return nil
	}
	if err != nil {
		h.logger.Error("lookup user", slog.String("discord_user_id", discord.InvokerID(i)), slog.Any("error", err))
		discord.RespondEphemeral(s, i, "Failed to load your account. Please try again.")
		return nil
	}
	return u
}

// memberOrSelf resolves the optional "member" option to a registered
// account, defaulting to the invoker.
func (h *handler) memberOrSelf(s *discordgo.Session, i *discordgo.InteractionCreate) *db.User {
	var target *discordgo.User
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "member" {
			target = opt.UserValue(s)
		}
	}
	if target == nil {
		return h.registeredUser(s, i)
	}

	u, err := db.GetUserByDiscordID(h.db, target.ID)
	if errors.Is(err, sql.ErrNoRows) {
		discord.RespondEphemeral(s, i, target.Mention()+" has not registered with LOCKDIN.")
		return nil
	}
	if err != nil {
		h.logger.Error("lookup member", slog.String("discord_user_id", target.ID), slog.Any("error", err))
		discord.RespondEphemeral(s, i, "Failed to load that member. Please try again.")
		return nil
	}
	return u
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func statusIcon(status string) string {
	switch status {
	case db.StatusCompleted:
		return "✅"
	case db.StatusFailed:
		return "❌"
	default:
		return "⏳"
	}
}
