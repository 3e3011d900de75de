package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nzoschke/goalbot/internal/model"
	"github.com/nzoschke/goalbot/internal/repository"
)

// GoalLookup is the slice of GoalService the vote side needs for orphan
// detection. Casting and tallying never consult it.
type GoalLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type VoteService struct {
	repo repository.VoteRepository
	now  func() time.Time
}

func NewVoteService(repo repository.VoteRepository) *VoteService {
	return &VoteService{
		repo: repo,
		now:  time.Now,
	}
}

// Cast appends a vote. The goal is not checked for existence and repeat
// votes by the same user all count.
func (s *VoteService) Cast(ctx context.Context, userID string, goalID int64, vote bool) error {
	err := s.repo.Create(ctx, &model.Vote{
		UserID:    userID,
		GoalID:    goalID,
		Vote:      vote,
		CreatedAt: s.now(),
	})
	if err != nil {
		return fmt.Errorf("failed to cast vote: %w", err)
	}

	slog.Debug("vote cast", "goal_id", goalID, "user_id", userID, "vote", vote)
	return nil
}

// Tally counts votes for goalID from the store on every call.
func (s *VoteService) Tally(ctx context.Context, goalID int64) (model.Tally, error) {
	votes, err := s.repo.ByGoal(ctx, goalID)
	if err != nil {
		return model.Tally{}, fmt.Errorf("failed to tally votes: %w", err)
	}
	return model.TallyVotes(votes), nil
}

// OrphanGoalIDs lists goal IDs that have votes but no stored goal.
func (s *VoteService) OrphanGoalIDs(ctx context.Context, goals GoalLookup) ([]int64, error) {
	ids, err := s.repo.GoalIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list voted goals: %w", err)
	}

	var orphans []int64
	for _, id := range ids {
		ok, err := goals.Exists(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check goal %d: %w", id, err)
		}
		if !ok {
			orphans = append(orphans, id)
		}
	}
	return orphans, nil
}
