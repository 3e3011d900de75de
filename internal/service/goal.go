package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nzoschke/goalbot/internal/model"
	"github.com/nzoschke/goalbot/internal/repository"
	"github.com/nzoschke/goalbot/internal/validation"
)

var (
	ErrEmptyDescription = validation.ErrDescriptionRequired
	ErrInvalidDueDate   = errors.New("goal due date is required")
)

type GoalService struct {
	repo repository.GoalRepository
	now  func() time.Time
}

func NewGoalService(repo repository.GoalRepository) *GoalService {
	return &GoalService{
		repo: repo,
		now:  time.Now,
	}
}

// Create stores a new goal and returns the ID assigned by the store.
func (s *GoalService) Create(ctx context.Context, userID, channelID, description string, dueDate time.Time) (int64, error) {
	err := validation.ValidateDescription(description)
	if err != nil {
		return 0, err
	}
	if dueDate.IsZero() {
		return 0, ErrInvalidDueDate
	}

	goal := &model.Goal{
		UserID:      userID,
		ChannelID:   channelID,
		Description: strings.TrimSpace(description),
		DueDate:     dueDate,
		CreatedAt:   s.now(),
	}

	id, err := s.repo.Create(ctx, goal)
	if err != nil {
		return 0, fmt.Errorf("failed to create goal: %w", err)
	}

	slog.Debug("goal created", "goal_id", id, "user_id", userID, "due_date", dueDate)
	return id, nil
}

// Delete is idempotent: unknown IDs are not an error.
func (s *GoalService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ByID returns repository.ErrGoalNotFound for unknown IDs.
func (s *GoalService) ByID(ctx context.Context, id int64) (*model.Goal, error) {
	return s.repo.ByID(ctx, id)
}

func (s *GoalService) Goals(ctx context.Context) ([]*model.Goal, error) {
	return s.repo.Goals(ctx)
}

// Overdue returns goals whose due date is strictly before now.
func (s *GoalService) Overdue(ctx context.Context, now time.Time) ([]*model.Goal, error) {
	goals, err := s.repo.Goals(ctx)
	if err != nil {
		return nil, err
	}

	var overdue []*model.Goal
	for _, g := range goals {
		if g.Overdue(now) {
			overdue = append(overdue, g)
		}
	}
	return overdue, nil
}

// Exists reports whether a goal with id is stored.
func (s *GoalService) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := s.repo.ByID(ctx, id)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
