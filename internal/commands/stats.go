package commands

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"lockdin/internal"
	"lockdin/internal/db"
	"lockdin/internal/discord"
)

const (
	colorHealthy   = 0x2ecc71
	colorUnhealthy = 0xe74c3c

	streakWindowDays = 366
	activityWeeks    = 4
)

func progressBar(pct float64, width int) string {
	filled := int(pct / 100 * float64(width))
	filled = max(0, min(filled, width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func buildStatsEmbed(stats *db.UserStats, p internal.Progress, streak int, weekly internal.WeeklyActivity) *discordgo.MessageEmbed {
	color := colorUnhealthy
	if p.Healthy {
		color = colorHealthy
	}

	return &discordgo.MessageEmbed{
		Title: stats.Username,
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Level", Value: strconv.Itoa(p.Level), Inline: true},
			{Name: "Points", Value: strconv.Itoa(p.Points), Inline: true},
			{Name: "Streak", Value: fmt.Sprintf("%d day(s)", streak), Inline: true},
			{
				Name:  "Progress",
				Value: fmt.Sprintf("%s %.0f%% (%d XP to level %d)", progressBar(p.ProgressPercentage, 10), p.ProgressPercentage, p.XPToNextLevel, p.Level+1),
			},
			{
				Name:  "Tasks",
				Value: fmt.Sprintf("%d total | %d completed | %d failed", stats.TasksTotal, stats.TasksCompleted, stats.TasksFailed),
			},
			{
				Name:  "This week",
				Value: fmt.Sprintf("%d completed | active %d of the last %d week(s)", weekly.ThisWeek(), weekly.ActiveWeeks, len(weekly.Weeks)),
			},
		},
	}
}

func formatLeaderboard(entries []internal.RankedEntry) string {
	var b strings.Builder
	b.WriteString("**LOCKDIN leaderboard**\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%d. **%s** %d points, %d tasks\n", e.Rank, e.Username, e.Points, e.Tasks)
	}
	return b.String()
}

func (h *handler) handleStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	u := h.memberOrSelf(s, i)
	if u == nil {
		return
	}

	stats, err := db.GetUserStats(h.db, u.ID)
	if err != nil {
		h.logger.Error("load stats", slog.Int64("user_id", u.ID), slog.Any("error", err))
		discord.RespondEphemeral(s, i, "Failed to load stats. Please try again.")
		return
	}

	now := h.now()
	completions, err := db.GetCompletionTimes(h.db, u.ID, now.AddDate(0, 0, -streakWindowDays))
	if err != nil {
		h.logger.Error("load completions", slog.Int64("user_id", u.ID), slog.Any("error", err))
		discord.RespondEphemeral(s, i, "Failed to load stats. Please try again.")
		return
	}

	embed := buildStatsEmbed(stats,
		internal.CalculateProgress(stats.Points),
		internal.CurrentStreak(completions, now),
		internal.CheckWeeklyActivity(completions, u.CreatedAt, now, activityWeeks))
	discord.RespondEmbed(s, i, embed)
}

func (h *handler) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	rows, err := db.Leaderboard(h.db, listLimit)
	if err != nil {
		h.logger.Error("load leaderboard", slog.Any("error", err))
		discord.RespondEphemeral(s, i, "Failed to load the leaderboard. Please try again.")
		return
	}
	if len(rows) == 0 {
		discord.RespondEphemeral(s, i, "Nobody has registered yet.")
		return
	}
	discord.RespondText(s, i, formatLeaderboard(internal.RankLeaderboard(rows)))
}
