package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"lockdin/internal"
	"lockdin/internal/db"
	"lockdin/internal/discord"
)

func (h *handler) handleRegister(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var raw string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "username" {
			raw = opt.StringValue()
		}
	}

	username, err := internal.NormalizeUsername(raw)
	if err != nil {
		discord.RespondEphemeral(s, i, "Usernames are 3-32 characters of letters, digits, '.', '-' or '_'.")
		return
	}

	discordUserID := discord.InvokerID(i)
	userID, err := db.UpsertUser(h.db, discordUserID, username)
	if errors.Is(err, db.ErrUsernameTaken) {
		discord.RespondEphemeral(s, i, fmt.Sprintf("Username '%s' is already taken.", username))
		return
	}
	if err != nil {
		h.logger.Error("register user",
			slog.String("discord_user_id", discordUserID),
			slog.Any("error", err))
		discord.RespondEphemeral(s, i, "Failed to register. Please try again.")
		return
	}

	h.logger.Info("user registered", slog.Int64("user_id", userID), slog.String("username", username))
	discord.RespondEphemeral(s, i, fmt.Sprintf("You are registered as **%s**. Add your first task with /addtask.", username))
}
