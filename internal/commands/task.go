package commands

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"lockdin/internal"
	"lockdin/internal/db"
	"lockdin/internal/discord"
	"lockdin/internal/easterntime"
)

var errDueNotFuture = errors.New("due time must be in the future")

// parseDue reads an Eastern deadline and returns it with its UTC instant.
// Deadlines at or before now are rejected.
func parseDue(input string, now time.Time) (easterntime.LocalDateTime, time.Time, error) {
	local, err := easterntime.ParseLocal(input)
	if err != nil {
		return easterntime.LocalDateTime{}, time.Time{}, err
	}
	due, err := easterntime.LocalToUTC(local)
	if err != nil {
		return easterntime.LocalDateTime{}, time.Time{}, err
	}
	if !due.After(now) {
		return local, due, errDueNotFuture
	}
	return local, due, nil
}

// formatDue renders a stored UTC deadline on the Eastern clock
func formatDue(due time.Time) string {
	return easterntime.UTCToLocal(due).Format(true)
}

func formatTaskLine(t db.Task) string {
	line := fmt.Sprintf("`#%d` %s %s | due %s", t.ID, statusIcon(t.Status), truncate(t.Description, 80), formatDue(t.DueTime))
	if t.CompletedAt.Valid {
		line += fmt.Sprintf(" | done %s", formatDue(t.CompletedAt.Time))
	}
	return line
}

func (h *handler) handleAddTask(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var description, dueInput string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "description":
			description = strings.TrimSpace(opt.StringValue())
		case "due":
			dueInput = opt.StringValue()
		}
	}

	if description == "" {
		discord.RespondEphemeral(s, i, "Description is required.")
		return
	}
	if len([]rune(description)) > maxDescriptionLen {
		discord.RespondEphemeral(s, i, fmt.Sprintf("Description must be at most %d characters.", maxDescriptionLen))
		return
	}

	local, due, err := parseDue(dueInput, h.now())
	if errors.Is(err, errDueNotFuture) {
		discord.RespondEphemeral(s, i, fmt.Sprintf("%s is not in the future.", local.Format(true)))
		return
	}
	if err != nil {
		discord.RespondEphemeral(s, i, fmt.Sprintf("Invalid due time: %v. Use YYYY-MM-DD HH:MM in Eastern time (e.g. 2024-07-15 18:30).", err))
		return
	}

	u := h.registeredUser(s, i)
	if u == nil {
		return
	}

	taskID, err := db.CreateTask(h.db, db.NewTask{
		UserID:      u.ID,
		Description: description,
		DueTime:     due,
		Points:      internal.TaskCreatedPoints,
	})
	if err != nil {
		h.logger.Error("create task", slog.Int64("user_id", u.ID), slog.Any("error", err))
		discord.RespondEphemeral(s, i, "Failed to create task. Please try again.")
		return
	}

	h.logger.Info("task created",
		slog.Int64("task_id", taskID),
		slog.Int64("user_id", u.ID),
		slog.String("due", easterntime.FormatInstant(due)))

	msg := fmt.Sprintf("Task `#%d` locked in: **%s**\nDue %s (%s). +%d points",
		taskID, description, formatDue(due), easterntime.FormatInstant(due), internal.TaskCreatedPoints)
	if !easterntime.RoundTrips(local) {
		msg += fmt.Sprintf("\n%s does not exist on the clock change day, so the deadline is %s.", local.Format(false), formatDue(due))
	}
	discord.RespondText(s, i, msg)
}

func (h *handler) handleTasks(s *discordgo.Session, i *discordgo.InteractionCreate) {
	u := h.registeredUser(s, i)
	if u == nil {
		return
	}

	tasks, err := db.GetTasksForUser(h.db, u.ID, listLimit)
	if err != nil {
		h.logger.Error("list tasks", slog.Int64("user_id", u.ID), slog.Any("error", err))
		discord.RespondEphemeral(s, i, "Failed to load your tasks. Please try again.")
		return
	}
	if len(tasks) == 0 {
		discord.RespondEphemeral(s, i, "You have no tasks yet. Add one with /addtask.")
		return
	}

	var b strings.Builder
	b.WriteString("**Your tasks**\n")
	for _, t := range tasks {
		b.WriteString(formatTaskLine(t))
		b.WriteString("\n")
	}
	discord.RespondEphemeral(s, i, b.String())
}

func (h *handler) handleComplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()

	var taskID int64
	var proofURL string
	for _, opt := range data.Options {
		switch opt.Name {
		case "task_id":
			taskID = opt.IntValue()
		case "proof":
			proofURL = attachmentURL(data, opt)
		}
	}
	if taskID <= 0 {
		discord.RespondEphemeral(s, i, "Task number is required.")
		return
	}

	u := h.registeredUser(s, i)
	if u == nil {
		return
	}

	err := db.CompleteTask(h.db, taskID, u.ID, proofURL, internal.TaskCompletedPoints, h.now())
	switch {
	case errors.Is(err, sql.ErrNoRows):
		task, lookupErr := db.GetTask(h.db, taskID)
		if lookupErr != nil && !errors.Is(lookupErr, sql.ErrNoRows) {
			h.logger.Error("look up task", slog.Int64("task_id", taskID), slog.Any("error", lookupErr))
			discord.RespondEphemeral(s, i, "Failed to complete task. Please try again.")
			return
		}
		discord.RespondEphemeral(s, i, missingTaskReply(taskID, u.ID, task))
		return
	case errors.Is(err, db.ErrTaskNotPending):
		discord.RespondEphemeral(s, i, fmt.Sprintf("Task `#%d` is already completed or failed.", taskID))
		return
	case err != nil:
		h.logger.Error("complete task", slog.Int64("task_id", taskID), slog.Any("error", err))
		discord.RespondEphemeral(s, i, "Failed to complete task. Please try again.")
		return
	}

	h.logger.Info("task completed", slog.Int64("task_id", taskID), slog.Int64("user_id", u.ID))
	msg := fmt.Sprintf("Task `#%d` completed. +%d points", taskID, internal.TaskCompletedPoints)
	if proofURL != "" {
		msg += "\n" + proofURL
	}
	discord.RespondText(s, i, msg)
}

// missingTaskReply explains why a task could not be found among userID's
// tasks. task is nil when no task has that ID.
func missingTaskReply(taskID, userID int64, task *db.Task) string {
	switch {
	case task == nil:
		return fmt.Sprintf("Task `#%d` does not exist.", taskID)
	case task.UserID != userID:
		return fmt.Sprintf("Task `#%d` belongs to another member.", taskID)
	}
	return fmt.Sprintf("Task `#%d` could not be completed. Please try again.", taskID)
}

// attachmentURL resolves an attachment option to its CDN URL
func attachmentURL(data discordgo.ApplicationCommandInteractionData, opt *discordgo.ApplicationCommandInteractionDataOption) string {
	if data.Resolved == nil {
		return ""
	}
	id, ok := opt.Value.(string)
	if !ok {
		return ""
	}
	if a, ok := data.Resolved.Attachments[id]; ok && a != nil {
		return a.URL
	}
	return ""
}
