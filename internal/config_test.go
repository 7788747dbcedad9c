package internal

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadConfigFromEnv(t *testing.T) {
	tests := []struct {
		name          string
		discordToken  string
		databaseDSN   string
		expectedError bool
		errorContains string
	}{
		{
			name:          "valid configuration",
			discordToken:  "test-token-123",
			databaseDSN:   "user:pass@tcp(localhost:3306)/lockdin",
			expectedError: false,
		},
		{
			name:          "missing discord token",
			discordToken:  "",
			databaseDSN:   "user:pass@tcp(localhost:3306)/lockdin",
			expectedError: true,
			errorContains: "DISCORD_BOT_TOKEN is not set",
		},
		{
			name:          "missing database DSN",
			discordToken:  "test-token-123",
			databaseDSN:   "",
			expectedError: true,
			errorContains: "DATABASE_DSN is not set",
		},
		{
			name:          "whitespace only discord token",
			discordToken:  "   ",
			databaseDSN:   "user:pass@tcp(localhost:3306)/lockdin",
			expectedError: true,
			errorContains: "DISCORD_BOT_TOKEN is not set",
		},
		{
			name:          "both missing",
			discordToken:  "",
			databaseDSN:   "",
			expectedError: true,
			errorContains: "DISCORD_BOT_TOKEN is not set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DISCORD_BOT_TOKEN", tt.discordToken)
			t.Setenv("DATABASE_DSN", tt.databaseDSN)

			cfg, err := LoadConfigFromEnv()

			if tt.expectedError {
				if err == nil {
					t.Errorf("expected error but got none")
					return
				}
				if tt.errorContains != "" && err.Error() != tt.errorContains {
					t.Errorf("expected error containing %q, got %q", tt.errorContains, err.Error())
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if cfg.DiscordToken != tt.discordToken {
				t.Errorf("expected DiscordToken %q, got %q", tt.discordToken, cfg.DiscordToken)
			}
			if cfg.DatabaseDSN != tt.databaseDSN {
				t.Errorf("expected DatabaseDSN %q, got %q", tt.databaseDSN, cfg.DatabaseDSN)
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "token")
	t.Setenv("DATABASE_DSN", "dsn")
	t.Setenv("REMINDER_POLL_INTERVAL", "")
	t.Setenv("REMINDER_LOOKAHEAD", "")
	t.Setenv("OVERDUE_SWEEP_INTERVAL", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ReminderPollInterval != time.Minute {
		t.Errorf("expected 1m poll interval, got %v", cfg.ReminderPollInterval)
	}
	if cfg.ReminderLookahead != 5*time.Minute {
		t.Errorf("expected 5m lookahead, got %v", cfg.ReminderLookahead)
	}
	if cfg.OverdueSweepInterval != 5*time.Minute {
		t.Errorf("expected 5m sweep interval, got %v", cfg.OverdueSweepInterval)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info log level, got %v", cfg.LogLevel)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	tests := []struct {
		name          string
		key           string
		value         string
		expectedError bool
		check         func(t *testing.T, cfg Config)
	}{
		{
			name:  "poll interval",
			key:   "REMINDER_POLL_INTERVAL",
			value: "30s",
			check: func(t *testing.T, cfg Config) {
				if cfg.ReminderPollInterval != 30*time.Second {
					t.Errorf("expected 30s, got %v", cfg.ReminderPollInterval)
				}
			},
		},
		{
			name:  "lookahead",
			key:   "REMINDER_LOOKAHEAD",
			value: "10m",
			check: func(t *testing.T, cfg Config) {
				if cfg.ReminderLookahead != 10*time.Minute {
					t.Errorf("expected 10m, got %v", cfg.ReminderLookahead)
				}
			},
		},
		{
			name:  "debug logging",
			key:   "LOG_LEVEL",
			value: "debug",
			check: func(t *testing.T, cfg Config) {
				if cfg.LogLevel != slog.LevelDebug {
					t.Errorf("expected debug, got %v", cfg.LogLevel)
				}
			},
		},
		{name: "malformed duration", key: "REMINDER_LOOKAHEAD", value: "soon", expectedError: true},
		{name: "negative duration", key: "REMINDER_POLL_INTERVAL", value: "-1m", expectedError: true},
		{name: "unknown log level", key: "LOG_LEVEL", value: "loud", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DISCORD_BOT_TOKEN", "token")
			t.Setenv("DATABASE_DSN", "dsn")
			t.Setenv(tt.key, tt.value)

			cfg, err := LoadConfigFromEnv()
			if tt.expectedError {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}
