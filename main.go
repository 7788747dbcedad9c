package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	"lockdin/internal"
	"lockdin/internal/commands"
	"lockdin/internal/db"
	"lockdin/internal/discord"
	"lockdin/internal/metrics"
	"lockdin/internal/reminder"
)

func main() {
	// .env is optional.
	_ = godotenv.Load()

	cfg, err := internal.LoadConfigFromEnv()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("lockdin bot stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg internal.Config, logger *slog.Logger) error {
	database, err := db.Open(db.Config{
		DSN:             cfg.DatabaseDSN,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		return err
	}

	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsDirectMessages

	dg.AddHandler(commands.CreateInteractionHandler(database, logger))

	if err := dg.Open(); err != nil {
		return err
	}
	defer dg.Close()

	appID := dg.State.User.ID
	for _, cmd := range commands.GetCommands() {
		if _, err := dg.ApplicationCommandCreate(appID, "", cmd); err != nil {
			return err
		}
		logger.Info("registered global command", slog.String("command", cmd.Name))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()
	rem, err := reminder.New(
		reminder.DBStore{DB: database},
		discord.DMSender{Session: dg},
		reminder.Config{
			PollInterval:  cfg.ReminderPollInterval,
			Lookahead:     cfg.ReminderLookahead,
			SweepInterval: cfg.OverdueSweepInterval,
		},
		reminder.WithMetrics(reminder.NewMetrics(reg)),
		reminder.WithLogger(logger.With(slog.String("component", "reminder"))),
	)
	if err != nil {
		return err
	}
	if err := rem.Start(); err != nil {
		return err
	}
	defer func() {
		if err := rem.Stop(); err != nil {
			logger.Error("stop reminder", slog.Any("error", err))
		}
	}()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, reg, logger); err != nil {
				logger.Error("metrics server", slog.Any("error", err))
			}
		}()
	}

	logger.Info("bot ready", slog.String("app_id", appID))
	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}
