package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
)

func TestErrorSentinels(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expectedMsg string
	}{
		{name: "username taken", err: ErrUsernameTaken, expectedMsg: "username is already taken"},
		{name: "invalid status", err: ErrInvalidStatus, expectedMsg: "invalid task status"},
		{name: "not pending", err: ErrTaskNotPending, expectedMsg: "task is not pending"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Fatal("error should not be nil")
			}
			if tt.err.Error() != tt.expectedMsg {
				t.Errorf("expected error message %q, got %q", tt.expectedMsg, tt.err.Error())
			}
		})
	}
}

func TestValidStatus(t *testing.T) {
	tests := []struct {
		status   string
		expected bool
	}{
		{StatusPending, true},
		{StatusCompleted, true},
		{StatusFailed, true},
		{"active", false},
		{"", false},
		{"Completed", false},
	}

	for _, tt := range tests {
		if got := ValidStatus(tt.status); got != tt.expected {
			t.Errorf("ValidStatus(%q) = %v, expected %v", tt.status, got, tt.expected)
		}
	}
}

type execCall struct {
	query string
	args  []any
}

type fakeResult int64

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return int64(r), nil }

// recordingExecer captures statements instead of running them
type recordingExecer struct {
	calls    []execCall
	affected int64
	failOn   int
}

func (e *recordingExecer) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	e.calls = append(e.calls, execCall{query: strings.Join(strings.Fields(query), " "), args: args})
	if e.failOn == len(e.calls) {
		return nil, errors.New("connection reset")
	}
	return fakeResult(e.affected), nil
}

func TestSetTaskFeedStatus(t *testing.T) {
	ext := &recordingExecer{}
	if err := setTaskFeedStatus(context.Background(), ext, 42, StatusCompleted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ext.calls) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(ext.calls))
	}
	call := ext.calls[0]
	if call.query != "UPDATE feed SET status = ? WHERE task_id = ? AND status = ?" {
		t.Errorf("unexpected query %q", call.query)
	}
	if fmt.Sprint(call.args) != "[completed 42 pending]" {
		t.Errorf("unexpected args %v", call.args)
	}
}

func TestSetTaskFeedStatusRejectsUnknownStatus(t *testing.T) {
	// Validation happens before the database is touched.
	ext := &recordingExecer{}
	err := setTaskFeedStatus(context.Background(), ext, 1, "archived")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if len(ext.calls) != 0 {
		t.Errorf("expected no statements, got %d", len(ext.calls))
	}
}

func TestFailOverdueTasks(t *testing.T) {
	now := time.Date(2024, 7, 15, 12, 0, 0, 0, time.FixedZone("EDT", -4*3600))
	ext := &recordingExecer{affected: 3}

	n, err := failOverdueTasks(context.Background(), ext, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 tasks failed, got %d", n)
	}
	if len(ext.calls) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(ext.calls))
	}

	// Feed posts must move while their tasks are still pending.
	feed, tasks := ext.calls[0], ext.calls[1]
	if !strings.HasPrefix(feed.query, "UPDATE feed f JOIN tasks t ON t.id = f.task_id SET f.status = ?") {
		t.Errorf("expected feed update first, got %q", feed.query)
	}
	if !strings.HasPrefix(tasks.query, "UPDATE tasks SET status = ?") {
		t.Errorf("expected tasks update second, got %q", tasks.query)
	}
	for _, call := range ext.calls {
		if call.args[0] != StatusFailed {
			t.Errorf("expected status %q, got %v", StatusFailed, call.args[0])
		}
		cutoff, ok := call.args[len(call.args)-1].(time.Time)
		if !ok || cutoff.Location() != time.UTC || !cutoff.Equal(now) {
			t.Errorf("expected UTC cutoff %s, got %v", now.UTC(), call.args[len(call.args)-1])
		}
	}
}

func TestFailOverdueTasksStopsOnFeedError(t *testing.T) {
	ext := &recordingExecer{failOn: 1}
	if _, err := failOverdueTasks(context.Background(), ext, time.Now()); err == nil {
		t.Fatal("expected error")
	}
	if len(ext.calls) != 1 {
		t.Errorf("expected tasks update to be skipped, got %d statements", len(ext.calls))
	}
}

func TestIsDuplicateEntry(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "duplicate key", err: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, expected: true},
		{name: "wrapped duplicate key", err: fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062}), expected: true},
		{name: "other mysql error", err: &mysql.MySQLError{Number: 1146}, expected: false},
		{name: "plain error", err: errors.New("boom"), expected: false},
		{name: "nil", err: nil, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDuplicateEntry(tt.err); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestNormalizeDSN(t *testing.T) {
	dsn, err := normalizeDSN("user:pass@tcp(localhost:3306)/lockdin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		t.Fatalf("normalized DSN does not parse: %v", err)
	}
	if !cfg.ParseTime {
		t.Error("expected parseTime to be enabled")
	}
	if cfg.Loc != time.UTC {
		t.Errorf("expected UTC loc, got %v", cfg.Loc)
	}
	if !cfg.ClientFoundRows {
		t.Error("expected clientFoundRows to be enabled")
	}
	if cfg.DBName != "lockdin" {
		t.Errorf("expected db name to be kept, got %q", cfg.DBName)
	}

	if _, err := normalizeDSN("not a dsn"); err == nil {
		t.Error("expected error for malformed DSN")
	}
}

func TestSplitStatements(t *testing.T) {
	input := `-- leading comment
CREATE TABLE a (id INT);

-- another
CREATE TABLE b (
	id INT -- trailing comments stay
);
`
	stmts := splitStatements(input)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(stmts), stmts)
	}
	if stmts[0] != "CREATE TABLE a (id INT)" {
		t.Errorf("unexpected first statement %q", stmts[0])
	}
	if !strings.HasPrefix(stmts[1], "CREATE TABLE b (") {
		t.Errorf("unexpected second statement %q", stmts[1])
	}
}

func TestEmbeddedSchema(t *testing.T) {
	stmts := splitStatements(schema)
	if len(stmts) != 3 {
		t.Fatalf("expected 3 schema statements, got %d", len(stmts))
	}
	for _, table := range []string{"users", "tasks", "feed"} {
		if !strings.Contains(schema, "CREATE TABLE IF NOT EXISTS "+table) {
			t.Errorf("schema is missing table %s", table)
		}
	}
}

func TestNullHelpers(t *testing.T) {
	if v := nullStringFromEmpty(""); v.Valid {
		t.Error("expected empty string to be NULL")
	}
	if v := nullStringFromEmpty("proof.png"); !v.Valid || v.String != "proof.png" {
		t.Errorf("unexpected value %+v", v)
	}

	if v := nullInt64FromPtr(nil); v.Valid {
		t.Error("expected nil pointer to be NULL")
	}
	id := int64(42)
	if v := nullInt64FromPtr(&id); !v.Valid || v.Int64 != 42 {
		t.Errorf("unexpected value %+v", v)
	}
}
