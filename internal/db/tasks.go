package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// Task statuses
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

var (
	// ErrInvalidStatus is returned for a status outside pending/completed/failed
	ErrInvalidStatus = errors.New("invalid task status")
	// ErrTaskNotPending is returned when completing a task that is not pending
	ErrTaskNotPending = errors.New("task is not pending")
)

// Task represents a row of the tasks table
type Task struct {
	ID              int64           `db:"id"`
	UserID          int64           `db:"user_id"`
	Description     string          `db:"description"`
	DueTime         time.Time       `db:"due_time"`
	Status          string          `db:"status"`
	ConfidenceScore sql.NullFloat64 `db:"confidence_score"`
	CompletedAt     sql.NullTime    `db:"completed_at"`
	CreatedAt       time.Time       `db:"created_at"`
}

// DueTask is a pending task joined with its owner's Discord ID
type DueTask struct {
	ID            int64     `db:"id"`
	Description   string    `db:"description"`
	DueTime       time.Time `db:"due_time"`
	DiscordUserID string    `db:"discord_user_id"`
}

// NewTask carries everything written when a user submits a task
type NewTask struct {
	UserID      int64
	Description string
	DueTime     time.Time
	Points      int
}

// ValidStatus reports whether s is a known task status
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// CreateTask inserts a pending task, posts it to the feed and awards the
// creation points in one transaction. Returns the task ID.
func CreateTask(db *sqlx.DB, t NewTask) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO tasks (user_id, description, due_time, status)
		VALUES (?, ?, ?, ?)
	`, t.UserID, t.Description, t.DueTime.UTC(), StatusPending)
	if err != nil {
		return 0, fmt.Errorf("failed to create task: %w", err)
	}
	taskID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get task ID: %w", err)
	}

	if strings.TrimSpace(t.Description) != "" {
		if err := insertFeedPost(ctx, tx, FeedPostParams{
			UserID:      t.UserID,
			TaskID:      &taskID,
			PostContent: t.Description,
			Status:      StatusPending,
		}); err != nil {
			return 0, err
		}
	}

	if t.Points != 0 {
		if _, err := tx.ExecContext(ctx, `
			UPDATE users SET points = points + ? WHERE id = ?
		`, t.Points, t.UserID); err != nil {
			return 0, fmt.Errorf("failed to award points: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return taskID, nil
}

// CompleteTask marks a pending task owned by userID as completed, posts the
// proof to the feed and awards points.
func CompleteTask(db *sqlx.DB, taskID, userID int64, imageURL string, points int, now time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var task Task
	err = tx.GetContext(ctx, &task, `
		SELECT id, user_id, description, due_time, status, confidence_score, completed_at, created_at
		FROM tasks
		WHERE id = ? AND user_id = ?
		FOR UPDATE
	`, taskID, userID)
	if err != nil {
		return err
	}
	if task.Status != StatusPending {
		return ErrTaskNotPending
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE tasks SET status = ?, completed_at = ? WHERE id = ?
	`, StatusCompleted, now.UTC(), taskID); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if err := setTaskFeedStatus(ctx, tx, taskID, StatusCompleted); err != nil {
		return err
	}

	if err := insertFeedPost(ctx, tx, FeedPostParams{
		UserID:      userID,
		TaskID:      &taskID,
		ImageURL:    imageURL,
		PostContent: task.Description,
		Status:      StatusCompleted,
	}); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE users SET points = points + ? WHERE id = ?
	`, points, userID); err != nil {
		return fmt.Errorf("failed to award points: %w", err)
	}

	return tx.Commit()
}

// GetTask retrieves a task by ID
func GetTask(db *sqlx.DB, taskID int64) (*Task, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var task Task
	err := db.GetContext(ctx, &task, `
		SELECT id, user_id, description, due_time, status, confidence_score, completed_at, created_at
		FROM tasks
		WHERE id = ?
	`, taskID)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTasksForUser retrieves a user's tasks, latest due first
func GetTasksForUser(db *sqlx.DB, userID int64, limit int) ([]Task, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tasks := []Task{}
	err := db.SelectContext(ctx, &tasks, `
		SELECT id, user_id, description, due_time, status, confidence_score, completed_at, created_at
		FROM tasks
		WHERE user_id = ?
		ORDER BY due_time DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTaskStatus returns the current status of a task
func GetTaskStatus(ctx context.Context, db *sqlx.DB, taskID int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var status string
	err := db.GetContext(ctx, &status, `SELECT status FROM tasks WHERE id = ?`, taskID)
	if err != nil {
		return "", err
	}
	return status, nil
}

// GetDueTasks returns pending tasks due in [from, to] whose owner has a
// linked Discord account
func GetDueTasks(ctx context.Context, db *sqlx.DB, from, to time.Time) ([]DueTask, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tasks := []DueTask{}
	err := db.SelectContext(ctx, &tasks, `
		SELECT t.id, t.description, t.due_time, u.discord_user_id
		FROM tasks t
		JOIN users u ON u.id = t.user_id
		WHERE t.status = ?
		  AND t.due_time BETWEEN ? AND ?
		  AND u.discord_user_id IS NOT NULL
		ORDER BY t.due_time
	`, StatusPending, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// MarkOverdueTasksFailed fails every pending task due before now along with
// their pending feed posts. Returns the number of tasks updated.
func MarkOverdueTasksFailed(ctx context.Context, db *sqlx.DB, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	n, err := failOverdueTasks(ctx, tx, now)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return n, nil
}

// failOverdueTasks updates the feed first, while the tasks it joins on are
// still pending.
func failOverdueTasks(ctx context.Context, ext sqlx.ExecerContext, now time.Time) (int64, error) {
	if _, err := ext.ExecContext(ctx, `
		UPDATE feed f
		JOIN tasks t ON t.id = f.task_id
		SET f.status = ?
		WHERE f.status = ? AND t.status = ? AND t.due_time < ?
	`, StatusFailed, StatusPending, StatusPending, now.UTC()); err != nil {
		return 0, fmt.Errorf("failed to update feed: %w", err)
	}

	res, err := ext.ExecContext(ctx, `
		UPDATE tasks SET status = ? WHERE status = ? AND due_time < ?
	`, StatusFailed, StatusPending, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to update tasks: %w", err)
	}
	return res.RowsAffected()
}
