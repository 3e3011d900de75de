package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/nzoschke/goalbot/internal/model"
)

// MemoryGoalRepository keeps goals in a map. Used in tests and for
// STORE_DRIVER=memory.
type MemoryGoalRepository struct {
	mu     sync.RWMutex
	goals  map[int64]model.Goal
	nextID int64
}

func NewMemoryGoalRepository() *MemoryGoalRepository {
	return &MemoryGoalRepository{goals: make(map[int64]model.Goal)}
}

func (r *MemoryGoalRepository) Create(ctx context.Context, goal *model.Goal) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	goal.ID = r.nextID
	r.goals[goal.ID] = *goal
	return goal.ID, nil
}

func (r *MemoryGoalRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.goals, id)
	return nil
}

func (r *MemoryGoalRepository) ByID(ctx context.Context, id int64) (*model.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	goal, ok := r.goals[id]
	if !ok {
		return nil, ErrGoalNotFound
	}
	return &goal, nil
}

func (r *MemoryGoalRepository) Goals(ctx context.Context) ([]*model.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	goals := make([]*model.Goal, 0, len(r.goals))
	for _, g := range r.goals {
		goal := g
		goals = append(goals, &goal)
	}
	sortGoals(goals)
	return goals, nil
}

// MemoryVoteRepository appends votes to a slice.
type MemoryVoteRepository struct {
	mu    sync.RWMutex
	votes []model.Vote
}

func NewMemoryVoteRepository() *MemoryVoteRepository {
	return &MemoryVoteRepository{}
}

func (r *MemoryVoteRepository) Create(ctx context.Context, vote *model.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.votes = append(r.votes, *vote)
	return nil
}

func (r *MemoryVoteRepository) ByGoal(ctx context.Context, goalID int64) ([]*model.Vote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return filterVotes(r.votes, goalID), nil
}

func (r *MemoryVoteRepository) GoalIDs(ctx context.Context) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return distinctGoalIDs(r.votes), nil
}

func sortGoals(goals []*model.Goal) {
	sort.Slice(goals, func(i, j int) bool { return goals[i].ID < goals[j].ID })
}

func filterVotes(votes []model.Vote, goalID int64) []*model.Vote {
	var out []*model.Vote
	for _, v := range votes {
		if v.GoalID == goalID {
			vote := v
			out = append(out, &vote)
		}
	}
	return out
}

func distinctGoalIDs(votes []model.Vote) []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, v := range votes {
		if !seen[v.GoalID] {
			seen[v.GoalID] = true
			ids = append(ids, v.GoalID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
