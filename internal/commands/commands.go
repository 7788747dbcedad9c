package commands

import (
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"

	"lockdin/internal/discord"
)

// Conversion directions for /convert
const (
	DirectionToUTC     = "to_utc"
	DirectionToEastern = "to_eastern"
)

const (
	listLimit         = 10
	maxDescriptionLen = 512
)

func getDirectionChoices() []*discordgo.ApplicationCommandOptionChoice {
	return []*discordgo.ApplicationCommandOptionChoice{
		{Name: "Eastern → UTC", Value: DirectionToUTC},
		{Name: "UTC → Eastern", Value: DirectionToEastern},
	}
}

func GetCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "ping",
			Description: "health check",
		},
		{
			Name:        "register",
			Description: "Link your Discord account to a LOCKDIN username",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "username",
					Description: "3-32 letters, digits, '.', '-' or '_'",
					Required:    true,
				},
			},
		},
		{
			Name:        "addtask",
			Description: "Commit to a task with a deadline in Eastern time",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "description",
					Description: "What you will get done",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "due",
					Description: "Deadline in Eastern time: YYYY-MM-DD HH:MM",
					Required:    true,
				},
			},
		},
		{
			Name:        "tasks",
			Description: "List your most recent tasks",
		},
		{
			Name:        "complete",
			Description: "Mark one of your pending tasks as done",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "task_id",
					Description: "Task number shown by /tasks",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionAttachment,
					Name:        "proof",
					Description: "Photo proof posted to the feed",
					Required:    false,
				},
			},
		},
		{
			Name:        "feed",
			Description: "Show the latest community feed posts",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "member",
					Description: "Only show this member's posts",
					Required:    false,
				},
			},
		},
		{
			Name:        "stats",
			Description: "Show points, level and streak",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "member",
					Description: "Member to show (defaults to you)",
					Required:    false,
				},
			},
		},
		{
			Name:        "leaderboard",
			Description: "Show the top members by points",
		},
		{
			Name:        "convert",
			Description: "Convert a time between US Eastern and UTC",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "when",
					Description: "Eastern YYYY-MM-DD HH:MM, or UTC 2024-07-15T16:00:00.000Z",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "direction",
					Description: "Conversion direction",
					Required:    true,
					Choices:     getDirectionChoices(),
				},
			},
		},
	}
}

// handler carries what every command needs
type handler struct {
	db     *sqlx.DB
	logger *slog.Logger
	now    func() time.Time
}

// CreateInteractionHandler creates the interaction handler for commands
func CreateInteractionHandler(database *sqlx.DB, logger *slog.Logger) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handler{db: database, logger: logger, now: time.Now}

	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}

		name := i.ApplicationCommandData().Name
		h.logger.Debug("command received",
			slog.String("command", name),
			slog.String("user", discord.InvokerID(i)))

		switch name {

		case "ping":
			discord.RespondText(s, i, "pong")

		case "register":
			h.handleRegister(s, i)

		case "addtask":
			h.handleAddTask(s, i)

		case "tasks":
			h.handleTasks(s, i)

		case "complete":
			h.handleComplete(s, i)

		case "feed":
			h.handleFeed(s, i)

		case "stats":
			h.handleStats(s, i)

		case "leaderboard":
			h.handleLeaderboard(s, i)

		case "convert":
			handleConvert(s, i)

		default:
			discord.RespondEphemeral(s, i, "Unknown command.")
		}
	}
}
