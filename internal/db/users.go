package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// ErrUsernameTaken is returned when a username belongs to another Discord user
var ErrUsernameTaken = errors.New("username is already taken")

const mysqlErrDuplicateEntry = 1062

// User represents a LOCKDIN account
type User struct {
	ID            int64          `db:"id"`
	Username      string         `db:"username"`
	DiscordUserID sql.NullString `db:"discord_user_id"`
	Points        int            `db:"points"`
	CreatedAt     time.Time      `db:"created_at"`
}

// UserStats aggregates a user's points and task counts
type UserStats struct {
	UserID         int64  `db:"id"`
	Username       string `db:"username"`
	Points         int    `db:"points"`
	TasksTotal     int    `db:"tasks_total"`
	TasksCompleted int    `db:"tasks_completed"`
	TasksFailed    int    `db:"tasks_failed"`
}

// LeaderboardRow is one ranked entry on the leaderboard
type LeaderboardRow struct {
	Username string `db:"username"`
	Points   int    `db:"points"`
	Tasks    int    `db:"tasks"`
}

func isDuplicateEntry(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlErrDuplicateEntry
}

// UpsertUser links a Discord user to a LOCKDIN username, creating the user
// row if needed. Returns the user ID.
func UpsertUser(db *sqlx.DB, discordUserID, username string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (username, discord_user_id)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE
			username = VALUES(username)
	`, username, discordUserID)
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, ErrUsernameTaken
		}
		return 0, err
	}

	// A new row whose username collides with another account matches that
	// account's key instead of inserting.
	var owner sql.NullString
	if err := tx.GetContext(ctx, &owner, `
		SELECT discord_user_id FROM users WHERE username = ?
	`, username); err != nil {
		return 0, err
	}
	if owner.String != discordUserID {
		return 0, ErrUsernameTaken
	}

	var id int64
	err = tx.GetContext(ctx, &id, `
		SELECT id FROM users WHERE discord_user_id = ?
	`, discordUserID)
	if err != nil {
		return 0, err
	}

	return id, tx.Commit()
}

// GetUserByDiscordID retrieves a user by Discord user ID
func GetUserByDiscordID(db *sqlx.DB, discordUserID string) (*User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var u User
	err := db.GetContext(ctx, &u, `
		SELECT id, username, discord_user_id, points, created_at
		FROM users
		WHERE discord_user_id = ?
	`, discordUserID)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserStats returns points and task counts for a user
func GetUserStats(db *sqlx.DB, userID int64) (*UserStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var s UserStats
	err := db.GetContext(ctx, &s, `
		SELECT u.id, u.username, u.points,
		       COUNT(t.id) AS tasks_total,
		       COALESCE(SUM(t.status = 'completed'), 0) AS tasks_completed,
		       COALESCE(SUM(t.status = 'failed'), 0) AS tasks_failed
		FROM users u
		LEFT JOIN tasks t ON t.user_id = u.id
		WHERE u.id = ?
		GROUP BY u.id, u.username, u.points
	`, userID)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetCompletionTimes returns the UTC completion instants of a user's tasks,
// newest first.
func GetCompletionTimes(db *sqlx.DB, userID int64, since time.Time) ([]time.Time, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var times []time.Time
	err := db.SelectContext(ctx, &times, `
		SELECT completed_at FROM tasks
		WHERE user_id = ? AND status = 'completed' AND completed_at >= ?
		ORDER BY completed_at DESC
	`, userID, since.UTC())
	if err != nil {
		return nil, err
	}
	return times, nil
}

// Leaderboard returns the top users by points
func Leaderboard(db *sqlx.DB, limit int) ([]LeaderboardRow, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows := []LeaderboardRow{}
	err := db.SelectContext(ctx, &rows, `
		SELECT u.username, u.points, COUNT(t.id) AS tasks
		FROM users u
		LEFT JOIN tasks t ON t.user_id = u.id
		GROUP BY u.id, u.username, u.points
		ORDER BY u.points DESC, u.username ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
