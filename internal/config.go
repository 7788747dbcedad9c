package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

const (
	defaultReminderPollInterval = time.Minute
	defaultReminderLookahead    = 5 * time.Minute
	defaultOverdueSweepInterval = 5 * time.Minute
)

// Config holds application configuration
type Config struct {
	DiscordToken         string
	DatabaseDSN          string
	MetricsAddr          string
	ReminderPollInterval time.Duration
	ReminderLookahead    time.Duration
	OverdueSweepInterval time.Duration
	LogLevel             slog.Level
}

// LoadConfigFromEnv loads configuration from environment variables
func LoadConfigFromEnv() (Config, error) {
	get := func(key string) string { return strings.TrimSpace(os.Getenv(key)) }
	c := Config{
		DiscordToken: get("DISCORD_BOT_TOKEN"),
		DatabaseDSN:  get("DATABASE_DSN"),
		MetricsAddr:  get("METRICS_ADDR"),
	}
	if c.DiscordToken == "" {
		return c, errors.New("DISCORD_BOT_TOKEN is not set")
	}
	if c.DatabaseDSN == "" {
		return c, errors.New("DATABASE_DSN is not set")
	}

	var err error
	if c.ReminderPollInterval, err = durationFromEnv("REMINDER_POLL_INTERVAL", defaultReminderPollInterval); err != nil {
		return c, err
	}
	if c.ReminderLookahead, err = durationFromEnv("REMINDER_LOOKAHEAD", defaultReminderLookahead); err != nil {
		return c, err
	}
	if c.OverdueSweepInterval, err = durationFromEnv("OVERDUE_SWEEP_INTERVAL", defaultOverdueSweepInterval); err != nil {
		return c, err
	}

	if lvl := get("LOG_LEVEL"); lvl != "" {
		if err := c.LogLevel.UnmarshalText([]byte(lvl)); err != nil {
			return c, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}
	return c, nil
}

func durationFromEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
