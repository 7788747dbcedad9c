package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"lockdin/internal/db"
	"lockdin/internal/discord"
)

func formatFeedPost(p db.FeedPost) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s **%s**", statusIcon(p.Status), p.Username)
	if p.PostContent.Valid {
		fmt.Fprintf(&b, ": %s", truncate(p.PostContent.String, 120))
	}
	fmt.Fprintf(&b, " (%s)", formatDue(p.CreatedAt))
	if p.ImageURL.Valid {
		fmt.Fprintf(&b, " [proof](%s)", p.ImageURL.String)
	}
	return b.String()
}

func (h *handler) handleFeed(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var member *discordgo.User
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "member" {
			member = opt.UserValue(s)
		}
	}

	var posts []db.FeedPost
	var err error
	title := "**LOCKDIN feed**\n"
	if member == nil {
		posts, err = db.GetFeed(h.db, listLimit)
	} else {
		u := h.memberOrSelf(s, i)
		if u == nil {
			return
		}
		title = fmt.Sprintf("**%s's feed**\n", u.Username)
		posts, err = db.GetUserFeed(h.db, u.ID, listLimit)
	}
	if err != nil {
		h.logger.Error("load feed", slog.Any("error", err))
		discord.RespondEphemeral(s, i, "Failed to load the feed. Please try again.")
		return
	}
	if len(posts) == 0 {
		discord.RespondEphemeral(s, i, "Nothing in the feed yet.")
		return
	}

	var b strings.Builder
	b.WriteString(title)
	for _, p := range posts {
		b.WriteString(formatFeedPost(p))
		b.WriteString("\n")
	}
	discord.RespondText(s, i, b.String())
}
