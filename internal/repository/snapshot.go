package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nzoschke/goalbot/internal/model"
	"github.com/nzoschke/goalbot/internal/storage"
)

type goalSnapshot struct {
	NextGoalID int64         `json:"next_goal_id" msgpack:"next_goal_id"`
	Goals      []*model.Goal `json:"goals" msgpack:"goals"`
}

type voteSnapshot struct {
	Votes []*model.Vote `json:"votes" msgpack:"votes"`
}

// SnapshotGoalRepository holds all goals in memory and rewrites the whole
// snapshot object on every change. A failed write leaves memory untouched.
type SnapshotGoalRepository struct {
	mu      sync.RWMutex
	storage storage.Storage
	codec   Codec
	path    string
	state   goalSnapshot
}

// NewSnapshotGoalRepository loads goals.<ext> if it exists.
func NewSnapshotGoalRepository(ctx context.Context, s storage.Storage, codec Codec) (*SnapshotGoalRepository, error) {
	r := &SnapshotGoalRepository{
		storage: s,
		codec:   codec,
		path:    "goals." + codec.Ext(),
	}
	if err := load(ctx, s, codec, r.path, &r.state); err != nil {
		return nil, err
	}

	// Older snapshots may lack the counter
	for _, g := range r.state.Goals {
		if g.ID > r.state.NextGoalID {
			r.state.NextGoalID = g.ID
		}
	}
	return r, nil
}

func (r *SnapshotGoalRepository) Create(ctx context.Context, goal *model.Goal) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := *goal
	saved.ID = r.state.NextGoalID + 1

	next := goalSnapshot{
		NextGoalID: saved.ID,
		Goals:      append(append([]*model.Goal(nil), r.state.Goals...), &saved),
	}
	if err := r.write(ctx, next); err != nil {
		return 0, err
	}

	r.state = next
	goal.ID = saved.ID
	return saved.ID, nil
}

func (r *SnapshotGoalRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make([]*model.Goal, 0, len(r.state.Goals))
	for _, g := range r.state.Goals {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	if len(kept) == len(r.state.Goals) {
		return nil
	}

	next := goalSnapshot{NextGoalID: r.state.NextGoalID, Goals: kept}
	if err := r.write(ctx, next); err != nil {
		return err
	}

	r.state = next
	return nil
}

func (r *SnapshotGoalRepository) ByID(ctx context.Context, id int64) (*model.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, g := range r.state.Goals {
		if g.ID == id {
			goal := *g
			return &goal, nil
		}
	}
	return nil, ErrGoalNotFound
}

func (r *SnapshotGoalRepository) Goals(ctx context.Context) ([]*model.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	goals := make([]*model.Goal, 0, len(r.state.Goals))
	for _, g := range r.state.Goals {
		goal := *g
		goals = append(goals, &goal)
	}
	sortGoals(goals)
	return goals, nil
}

func (r *SnapshotGoalRepository) write(ctx context.Context, state goalSnapshot) error {
	data, err := r.codec.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding goal snapshot: %w", err)
	}
	return r.storage.Write(ctx, r.path, data)
}

// SnapshotVoteRepository is the vote counterpart of SnapshotGoalRepository.
type SnapshotVoteRepository struct {
	mu      sync.RWMutex
	storage storage.Storage
	codec   Codec
	path    string
	votes   []model.Vote
}

func NewSnapshotVoteRepository(ctx context.Context, s storage.Storage, codec Codec) (*SnapshotVoteRepository, error) {
	r := &SnapshotVoteRepository{
		storage: s,
		codec:   codec,
		path:    "votes." + codec.Ext(),
	}

	var state voteSnapshot
	if err := load(ctx, s, codec, r.path, &state); err != nil {
		return nil, err
	}
	for _, v := range state.Votes {
		r.votes = append(r.votes, *v)
	}
	return r, nil
}

func (r *SnapshotVoteRepository) Create(ctx context.Context, vote *model.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := voteSnapshot{Votes: make([]*model.Vote, 0, len(r.votes)+1)}
	for i := range r.votes {
		state.Votes = append(state.Votes, &r.votes[i])
	}
	state.Votes = append(state.Votes, vote)

	data, err := r.codec.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding vote snapshot: %w", err)
	}
	if err := r.storage.Write(ctx, r.path, data); err != nil {
		return err
	}

	r.votes = append(r.votes, *vote)
	return nil
}

func (r *SnapshotVoteRepository) ByGoal(ctx context.Context, goalID int64) ([]*model.Vote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return filterVotes(r.votes, goalID), nil
}

func (r *SnapshotVoteRepository) GoalIDs(ctx context.Context) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return distinctGoalIDs(r.votes), nil
}

func load(ctx context.Context, s storage.Storage, codec Codec, path string, into any) error {
	data, err := s.Read(ctx, path)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := codec.Unmarshal(data, into); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}
