// Package scanner periodically looks for overdue goals and announces them.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nzoschke/goalbot/internal/model"
)

// GoalSource lists goals that are overdue at now.
type GoalSource interface {
	Overdue(ctx context.Context, now time.Time) ([]*model.Goal, error)
}

// Announcer is notified once per overdue goal per tick.
type Announcer interface {
	AnnounceOverdue(ctx context.Context, goal *model.Goal) error
}

type Options struct {
	Interval time.Duration
	// Repeat re-announces a goal on every tick until it is deleted.
	// When false each goal is announced once per process.
	Repeat bool
	Now    func() time.Time
}

type Scanner struct {
	goals     GoalSource
	announcer Announcer
	opts      Options

	runMu sync.Mutex // guards run
	run   *Run

	mu        sync.Mutex // guards announced
	announced map[int64]bool
}

func New(goals GoalSource, announcer Announcer, opts Options) *Scanner {
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Scanner{
		goals:     goals,
		announcer: announcer,
		opts:      opts,
		announced: make(map[int64]bool),
	}
}

// Run is the handle of one started scan loop.
type Run struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Stop cancels the loop and waits for it to exit. Safe to call repeatedly.
func (r *Run) Stop() {
	r.once.Do(r.cancel)
	<-r.done
}

// Done is closed when the loop has exited.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Start begins ticking every Interval. A run that is already active is
// stopped first, so at most one loop exists per Scanner.
func (s *Scanner) Start(ctx context.Context) *Run {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if s.run != nil {
		s.run.Stop()
	}

	ctx, cancel := context.WithCancel(ctx)
	r := &Run{cancel: cancel, done: make(chan struct{})}
	s.run = r

	go s.loop(ctx, r)

	slog.Info("overdue scanner started", "interval", s.opts.Interval, "repeat", s.opts.Repeat)
	return r
}

// Stop stops the current run, if any.
func (s *Scanner) Stop() {
	s.runMu.Lock()
	r := s.run
	s.run = nil
	s.runMu.Unlock()

	if r != nil {
		r.Stop()
		slog.Info("overdue scanner stopped")
	}
}

func (s *Scanner) loop(ctx context.Context, r *Run) {
	defer close(r.done)

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// A stop racing with the ticker wins
			if ctx.Err() != nil {
				return
			}
			s.safeTick(ctx)
		}
	}
}

// safeTick keeps the loop alive across failing or panicking passes.
func (s *Scanner) safeTick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("overdue scan panicked", "panic", r)
		}
	}()

	n, err := s.Tick(ctx, s.opts.Now())
	if err != nil {
		slog.Error("overdue scan failed", "error", err)
		return
	}
	if n > 0 {
		slog.Info("overdue goals announced", "count", n)
	}
}

// Tick runs one pass and returns how many goals were announced. Failures
// for single goals are logged and skipped.
func (s *Scanner) Tick(ctx context.Context, now time.Time) (int, error) {
	goals, err := s.goals.Overdue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list overdue goals: %w", err)
	}

	n := 0
	for _, goal := range goals {
		if ctx.Err() != nil {
			return n, ctx.Err()
		}
		if !s.opts.Repeat && s.wasAnnounced(goal.ID) {
			continue
		}

		err := s.announcer.AnnounceOverdue(ctx, goal)
		if err != nil {
			slog.Error("failed to announce overdue goal", "error", err, "goal_id", goal.ID)
			continue
		}

		if !s.opts.Repeat {
			s.markAnnounced(goal.ID)
		}
		n++
	}
	return n, nil
}

func (s *Scanner) wasAnnounced(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.announced[id]
}

func (s *Scanner) markAnnounced(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.announced[id] = true
}
