package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/nzoschke/goalbot/internal/model"
)

// VoteRepository is append-only. Votes are kept even when their goal is
// deleted; GoalIDs lists every goal ID that has at least one vote.
type VoteRepository interface {
	Create(ctx context.Context, vote *model.Vote) error
	ByGoal(ctx context.Context, goalID int64) ([]*model.Vote, error)
	GoalIDs(ctx context.Context) ([]int64, error)
}

type voteRepository struct {
	db *sqlx.DB
}

func NewVoteRepository(db *sqlx.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Create(ctx context.Context, vote *model.Vote) error {
	query := `INSERT INTO votes (user_id, goal_id, vote, created_at)
	          VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query,
		vote.UserID,
		vote.GoalID,
		vote.Vote,
		vote.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting vote: %w", err)
	}

	return nil
}

func (r *voteRepository) ByGoal(ctx context.Context, goalID int64) ([]*model.Vote, error) {
	var votes []*model.Vote
	query := `SELECT user_id, goal_id, vote, created_at FROM votes WHERE goal_id = $1 ORDER BY id ASC`

	err := r.db.SelectContext(ctx, &votes, query, goalID)
	if err != nil {
		return nil, fmt.Errorf("listing votes for goal %d: %w", goalID, err)
	}

	return votes, nil
}

func (r *voteRepository) GoalIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	query := `SELECT DISTINCT goal_id FROM votes ORDER BY goal_id ASC`

	err := r.db.SelectContext(ctx, &ids, query)
	if err != nil {
		return nil, fmt.Errorf("listing voted goal ids: %w", err)
	}

	return ids, nil
}
