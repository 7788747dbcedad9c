package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestInvokerID(t *testing.T) {
	tests := []struct {
		name     string
		i        *discordgo.InteractionCreate
		expected string
	}{
		{
			name: "guild member",
			i: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
				Member: &discordgo.Member{User: &discordgo.User{ID: "111"}},
			}},
			expected: "111",
		},
		{
			name: "direct message",
			i: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
				User: &discordgo.User{ID: "222"},
			}},
			expected: "222",
		},
		{
			name: "member without user falls back",
			i: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
				Member: &discordgo.Member{},
				User:   &discordgo.User{ID: "333"},
			}},
			expected: "333",
		},
		{
			name:     "neither",
			i:        &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InvokerID(tt.i); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
