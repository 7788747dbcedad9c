// Package reminder sends escalating Discord DMs for tasks that are about to
// fall due, and fails tasks whose due time has passed.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"lockdin/internal/db"
)

// DefaultIntervals are the waits between consecutive reminders.
var DefaultIntervals = []time.Duration{
	1 * time.Minute,
	2 * time.Minute,
	3 * time.Minute,
	4 * time.Minute,
	5 * time.Minute,
}

// Config controls polling and escalation.
type Config struct {
	PollInterval  time.Duration
	Lookahead     time.Duration
	SweepInterval time.Duration
	Intervals     []time.Duration
}

// Reminder polls for due tasks and runs one reminder sequence per task.
type Reminder struct {
	store    Store
	notifier Notifier
	metrics  *Metrics
	logger   *slog.Logger
	cfg      Config

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	scheduler gocron.Scheduler

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
	stopErr  error

	mu     sync.Mutex
	active map[int64]struct{}
}

// Option customizes a Reminder.
type Option func(*Reminder)

// WithMetrics records activity on m.
func WithMetrics(m *Metrics) Option { return func(r *Reminder) { r.metrics = m } }

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(r *Reminder) { r.logger = l } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(r *Reminder) { r.now = now } }

// WithSleep replaces the context-aware wait between reminders.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(r *Reminder) { r.sleep = sleep }
}

// New creates a Reminder. Start must be called to begin polling.
func New(store Store, notifier Notifier, cfg Config, opts ...Option) (*Reminder, error) {
	if store == nil || notifier == nil {
		return nil, errors.New("reminder: store and notifier are required")
	}
	if cfg.PollInterval <= 0 || cfg.Lookahead <= 0 || cfg.SweepInterval <= 0 {
		return nil, errors.New("reminder: poll interval, lookahead and sweep interval must be positive")
	}
	if cfg.Intervals == nil {
		cfg.Intervals = DefaultIntervals
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Reminder{
		store:    store,
		notifier: notifier,
		logger:   slog.Default(),
		cfg:      cfg,
		now:      time.Now,
		sleep:    sleepContext,
		ctx:      ctx,
		cancel:   cancel,
		active:   make(map[int64]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Start schedules the due-task poll and the overdue sweep.
func (r *Reminder) Start() error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	if _, err := s.NewJob(
		gocron.DurationJob(r.cfg.PollInterval),
		gocron.NewTask(func() {
			if _, err := r.CheckUpcoming(r.ctx); err != nil {
				r.logger.Error("check upcoming tasks", slog.Any("error", err))
			}
		}),
		gocron.WithName("reminder-poll"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		_ = s.Shutdown()
		return fmt.Errorf("failed to create reminder job: %w", err)
	}

	if _, err := s.NewJob(
		gocron.DurationJob(r.cfg.SweepInterval),
		gocron.NewTask(func() {
			if _, err := r.SweepOverdue(r.ctx); err != nil {
				r.logger.Error("sweep overdue tasks", slog.Any("error", err))
			}
		}),
		gocron.WithName("overdue-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		_ = s.Shutdown()
		return fmt.Errorf("failed to create sweep job: %w", err)
	}

	r.scheduler = s
	r.logger.Info("starting reminder scheduler",
		slog.Duration("poll_interval", r.cfg.PollInterval),
		slog.Duration("lookahead", r.cfg.Lookahead))
	s.Start()
	return nil
}

// Stop halts polling, cancels running sequences and waits for them.
func (r *Reminder) Stop() error {
	r.stopOnce.Do(func() {
		r.cancel()
		if r.scheduler != nil {
			r.stopErr = r.scheduler.Shutdown()
		}
		r.wait()
	})
	return r.stopErr
}

// wait blocks until every running sequence has finished.
func (r *Reminder) wait() { r.wg.Wait() }

func (r *Reminder) isActive(taskID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.active[taskID]
	return ok
}

func (r *Reminder) claim(taskID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.active[taskID]; ok {
		return false
	}
	r.active[taskID] = struct{}{}
	return true
}

func (r *Reminder) release(taskID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, taskID)
}

// CheckUpcoming starts a sequence for each pending task due within the
// lookahead window that has no sequence yet. Returns how many started.
func (r *Reminder) CheckUpcoming(ctx context.Context) (int, error) {
	now := r.now().UTC()
	tasks, err := r.store.DueTasks(ctx, now, now.Add(r.cfg.Lookahead))
	if err != nil {
		return 0, fmt.Errorf("query due tasks: %w", err)
	}

	started := 0
	for _, task := range tasks {
		if task.DiscordUserID == "" || !r.claim(task.ID) {
			continue
		}
		started++
		r.metrics.sequenceStarted()
		r.wg.Add(1)
		go func(task db.DueTask) {
			defer r.wg.Done()
			defer r.release(task.ID)
			outcome := r.runSequence(r.ctx, task)
			r.metrics.sequenceFinished(outcome)
			r.logger.Info("reminder sequence finished",
				slog.Int64("task_id", task.ID),
				slog.String("outcome", outcome))
		}(task)
	}
	return started, nil
}

// SweepOverdue fails pending tasks whose due time has passed.
func (r *Reminder) SweepOverdue(ctx context.Context) (int64, error) {
	n, err := r.store.MarkOverdue(ctx, r.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("mark overdue tasks: %w", err)
	}
	r.metrics.addOverdue(n)
	if n > 0 {
		r.logger.Info("marked overdue tasks failed", slog.Int64("count", n))
	}
	return n, nil
}

// stillPending reports whether the task still wants reminders. Lookup
// errors end the sequence.
func (r *Reminder) stillPending(ctx context.Context, taskID int64) (bool, error) {
	status, err := r.store.TaskStatus(ctx, taskID)
	if err != nil {
		return false, err
	}
	return status == db.StatusPending, nil
}

func (r *Reminder) send(ctx context.Context, task db.DueTask, level int) error {
	msg := Message(task.Description, level, MinutesLeft(task.DueTime, r.now()))
	if err := r.notifier.SendDM(ctx, task.DiscordUserID, msg); err != nil {
		return err
	}
	r.metrics.incSent(min(level, MaxUrgency))
	r.logger.Debug("sent reminder",
		slog.Int64("task_id", task.ID),
		slog.Int("level", level))
	return nil
}

func (r *Reminder) runSequence(ctx context.Context, task db.DueTask) string {
	fail := func(step string, err error) string {
		if ctx.Err() != nil {
			return OutcomeCancelled
		}
		r.logger.Error("reminder sequence failed",
			slog.Int64("task_id", task.ID),
			slog.String("step", step),
			slog.Any("error", err))
		return OutcomeError
	}

	if err := r.send(ctx, task, 0); err != nil {
		return fail("send", err)
	}

	for i, interval := range r.cfg.Intervals {
		pending, err := r.stillPending(ctx, task.ID)
		if err != nil {
			return fail("status", err)
		}
		if !pending {
			return OutcomeResolved
		}

		if err := r.sleep(ctx, interval); err != nil {
			return OutcomeCancelled
		}

		pending, err = r.stillPending(ctx, task.ID)
		if err != nil {
			return fail("status", err)
		}
		if !pending {
			return OutcomeResolved
		}

		if err := r.send(ctx, task, i+1); err != nil {
			return fail("send", err)
		}
	}
	return OutcomeExhausted
}
