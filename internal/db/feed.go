package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// FeedPost represents a community feed entry joined with its author
type FeedPost struct {
	ID          int64          `db:"id"`
	UserID      int64          `db:"user_id"`
	Username    string         `db:"username"`
	TaskID      sql.NullInt64  `db:"task_id"`
	ImageURL    sql.NullString `db:"image_url"`
	PostContent sql.NullString `db:"post_content"`
	Status      string         `db:"status"`
	CreatedAt   time.Time      `db:"created_at"`
}

// FeedPostParams holds the values of a new feed entry
type FeedPostParams struct {
	UserID      int64
	TaskID      *int64
	ImageURL    string
	PostContent string
	Status      string
}

func nullStringFromEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt64FromPtr(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func insertFeedPost(ctx context.Context, ext sqlx.ExecerContext, p FeedPostParams) error {
	status := p.Status
	if status == "" {
		status = StatusPending
	}
	if !ValidStatus(status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	_, err := ext.ExecContext(ctx, `
		INSERT INTO feed (user_id, task_id, image_url, post_content, status)
		VALUES (?, ?, ?, ?, ?)
	`, p.UserID, nullInt64FromPtr(p.TaskID), nullStringFromEmpty(p.ImageURL), nullStringFromEmpty(p.PostContent), status)
	if err != nil {
		return fmt.Errorf("failed to create feed post: %w", err)
	}
	return nil
}

// setTaskFeedStatus moves a task's pending feed posts to status.
func setTaskFeedStatus(ctx context.Context, ext sqlx.ExecerContext, taskID int64, status string) error {
	if !ValidStatus(status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	_, err := ext.ExecContext(ctx, `
		UPDATE feed SET status = ? WHERE task_id = ? AND status = ?
	`, status, taskID, StatusPending)
	if err != nil {
		return fmt.Errorf("failed to update feed status: %w", err)
	}
	return nil
}

// GetFeed returns the newest community feed entries
func GetFeed(db *sqlx.DB, limit int) ([]FeedPost, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	posts := []FeedPost{}
	err := db.SelectContext(ctx, &posts, `
		SELECT f.id, f.user_id, u.username, f.task_id, f.image_url, f.post_content, f.status, f.created_at
		FROM feed f
		JOIN users u ON u.id = f.user_id
		ORDER BY f.created_at DESC, f.id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetUserFeed returns the newest feed entries of one user
func GetUserFeed(db *sqlx.DB, userID int64, limit int) ([]FeedPost, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	posts := []FeedPost{}
	err := db.SelectContext(ctx, &posts, `
		SELECT f.id, f.user_id, u.username, f.task_id, f.image_url, f.post_content, f.status, f.created_at
		FROM feed f
		JOIN users u ON u.id = f.user_id
		WHERE f.user_id = ?
		ORDER BY f.created_at DESC, f.id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	return posts, nil
}
