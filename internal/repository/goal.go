package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/nzoschke/goalbot/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

// GoalRepository persists goals. Create assigns goal.ID from a counter owned
// by the backend, so IDs never collide within one store. Delete is
// idempotent. ByID returns ErrGoalNotFound for unknown IDs.
type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) (int64, error)
	Delete(ctx context.Context, id int64) error
	ByID(ctx context.Context, id int64) (*model.Goal, error)
	Goals(ctx context.Context) ([]*model.Goal, error)
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) (int64, error) {
	query := `INSERT INTO goals (user_id, channel_id, description, due_date, created_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`

	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		goal.UserID,
		goal.ChannelID,
		goal.Description,
		goal.DueDate.UTC(),
		goal.CreatedAt.UTC(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting goal: %w", err)
	}

	goal.ID = id
	return id, nil
}

func (r *goalRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM goals WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting goal %d: %w", id, err)
	}

	return nil
}

func (r *goalRepository) ByID(ctx context.Context, id int64) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT id, user_id, channel_id, description, due_date, created_at FROM goals WHERE id = $1`

	err := r.db.GetContext(ctx, goal, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading goal %d: %w", id, err)
	}

	return goal, nil
}

func (r *goalRepository) Goals(ctx context.Context) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT id, user_id, channel_id, description, due_date, created_at FROM goals ORDER BY id ASC`

	err := r.db.SelectContext(ctx, &goals, query)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}

	return goals, nil
}
