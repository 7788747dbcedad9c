package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"lockdin/internal/discord"
	"lockdin/internal/easterntime"
)

// convert applies a /convert request and returns the reply text
func convert(input, direction string) (string, error) {
	switch direction {
	case DirectionToUTC:
		local, err := easterntime.ParseLocal(input)
		if err != nil {
			return "", err
		}
		utc, err := easterntime.LocalToUTC(local)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s is %s", local.Format(true), easterntime.FormatInstant(utc)), nil

	case DirectionToEastern:
		utc, err := easterntime.ParseInstant(input)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s is %s", easterntime.FormatInstant(utc), easterntime.UTCToLocal(utc).Format(true)), nil
	}
	return "", fmt.Errorf("unknown direction %q", direction)
}

func handleConvert(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var when, direction string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "when":
			when = opt.StringValue()
		case "direction":
			direction = opt.StringValue()
		}
	}

	msg, err := convert(when, direction)
	if err != nil {
		discord.RespondEphemeral(s, i, fmt.Sprintf("Could not convert: %v", err))
		return
	}
	discord.RespondEphemeral(s, i, msg)
}
