package scanner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nzoschke/goalbot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGoals struct {
	goals []*model.Goal
	err   error
}

func (f *fakeGoals) Overdue(ctx context.Context, now time.Time) ([]*model.Goal, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.Goal
	for _, g := range f.goals {
		if g.Overdue(now) {
			out = append(out, g)
		}
	}
	return out, nil
}

type fakeAnnouncer struct {
	mu    sync.Mutex
	seen  []model.Goal
	fail  map[int64]bool
	calls chan struct{}
}

func newFakeAnnouncer() *fakeAnnouncer {
	return &fakeAnnouncer{fail: map[int64]bool{}, calls: make(chan struct{}, 100)}
}

func (f *fakeAnnouncer) AnnounceOverdue(ctx context.Context, goal *model.Goal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	select {
	case f.calls <- struct{}{}:
	default:
	}
	if f.fail[goal.ID] {
		return errors.New("send failed")
	}
	f.seen = append(f.seen, *goal)
	return nil
}

func (f *fakeAnnouncer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seen)
}

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestTick_AnnouncesOriginalGoal(t *testing.T) {
	goal := &model.Goal{ID: 7, UserID: "alice", ChannelID: "c1", Description: "ship v2", DueDate: now.Add(-time.Hour)}
	future := &model.Goal{ID: 8, UserID: "bob", Description: "later", DueDate: now.Add(time.Hour)}
	exact := &model.Goal{ID: 9, UserID: "bob", Description: "now", DueDate: now}

	a := newFakeAnnouncer()
	s := New(&fakeGoals{goals: []*model.Goal{goal, future, exact}}, a, Options{Repeat: true})

	n, err := s.Tick(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, a.seen, 1)
	assert.Equal(t, *goal, a.seen[0])
}

func TestTick_Repeat(t *testing.T) {
	goals := &fakeGoals{goals: []*model.Goal{{ID: 1, DueDate: now.Add(-time.Minute)}}}

	t.Run("repeat", func(t *testing.T) {
		a := newFakeAnnouncer()
		s := New(goals, a, Options{Repeat: true})
		s.Tick(context.Background(), now)
		s.Tick(context.Background(), now)
		assert.Equal(t, 2, a.count())
	})

	t.Run("once", func(t *testing.T) {
		a := newFakeAnnouncer()
		s := New(goals, a, Options{Repeat: false})
		s.Tick(context.Background(), now)
		s.Tick(context.Background(), now)
		assert.Equal(t, 1, a.count())
	})
}

func TestTick_FailuresDoNotAbortPass(t *testing.T) {
	goals := &fakeGoals{goals: []*model.Goal{
		{ID: 1, DueDate: now.Add(-time.Minute)},
		{ID: 2, DueDate: now.Add(-time.Minute)},
	}}
	a := newFakeAnnouncer()
	a.fail[1] = true
	s := New(goals, a, Options{Repeat: false})

	n, err := s.Tick(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// The failed goal is retried on the next pass
	a.fail[1] = false
	n, err = s.Tick(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestTick_ListError(t *testing.T) {
	s := New(&fakeGoals{err: assert.AnError}, newFakeAnnouncer(), Options{})
	_, err := s.Tick(context.Background(), now)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestStartStop(t *testing.T) {
	goals := &fakeGoals{goals: []*model.Goal{{ID: 1, DueDate: now.Add(-time.Minute)}}}
	a := newFakeAnnouncer()
	s := New(goals, a, Options{Interval: 5 * time.Millisecond, Repeat: true, Now: func() time.Time { return now }})

	run := s.Start(context.Background())
	select {
	case <-a.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("scanner never ticked")
	}

	s.Stop()
	<-run.Done()
	after := a.count()

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, a.count(), "no tick after Stop returns")

	// Stopping again is a no-op
	s.Stop()
	run.Stop()
}

func TestStart_ReplacesRun(t *testing.T) {
	s := New(&fakeGoals{}, newFakeAnnouncer(), Options{Interval: time.Hour})

	first := s.Start(context.Background())
	second := s.Start(context.Background())

	select {
	case <-first.Done():
	case <-time.After(time.Second):
		t.Fatal("first run still active")
	}

	s.Stop()
	<-second.Done()
}

func TestStart_ListErrorKeepsLoopAlive(t *testing.T) {
	goals := &fakeGoals{err: assert.AnError}
	s := New(goals, newFakeAnnouncer(), Options{Interval: 5 * time.Millisecond})

	run := s.Start(context.Background())
	time.Sleep(30 * time.Millisecond)

	select {
	case <-run.Done():
		t.Fatal("loop exited after a failing tick")
	default:
	}
	run.Stop()
}
