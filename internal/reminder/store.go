package reminder

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"lockdin/internal/db"
)

// Store is the task data the reminder needs.
type Store interface {
	DueTasks(ctx context.Context, from, to time.Time) ([]db.DueTask, error)
	TaskStatus(ctx context.Context, taskID int64) (string, error)
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

// Notifier delivers a direct message to a Discord user.
type Notifier interface {
	SendDM(ctx context.Context, discordUserID, msg string) error
}

// DBStore implements Store on the MySQL database.
type DBStore struct {
	DB *sqlx.DB
}

func (s DBStore) DueTasks(ctx context.Context, from, to time.Time) ([]db.DueTask, error) {
	return db.GetDueTasks(ctx, s.DB, from, to)
}

func (s DBStore) TaskStatus(ctx context.Context, taskID int64) (string, error) {
	return db.GetTaskStatus(ctx, s.DB, taskID)
}

func (s DBStore) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	return db.MarkOverdueTasksFailed(ctx, s.DB, now)
}
