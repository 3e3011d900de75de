package service

import (
	"context"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/nzoschke/goalbot/internal/model"
	"github.com/nzoschke/goalbot/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingVoteRepository struct {
	repository.VoteRepository
}

func (failingVoteRepository) Create(ctx context.Context, vote *model.Vote) error {
	return assert.AnError
}

func (failingVoteRepository) ByGoal(ctx context.Context, goalID int64) ([]*model.Vote, error) {
	return nil, assert.AnError
}

func TestVoteService_CastAndTally(t *testing.T) {
	ctx := context.Background()
	svc := NewVoteService(repository.NewMemoryVoteRepository())

	require.NoError(t, svc.Cast(ctx, "user1", 1, true))
	require.NoError(t, svc.Cast(ctx, "user2", 1, false))
	require.NoError(t, svc.Cast(ctx, "user3", 1, true))
	require.NoError(t, svc.Cast(ctx, "user3", 2, false))

	tally, err := svc.Tally(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.Tally{For: 2, Against: 1}, tally)
	assert.True(t, tally.Passed())

	tally, err = svc.Tally(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, model.Tally{}, tally)
	assert.False(t, tally.Passed())
}

func TestVoteService_NoDedupAndNoGoalCheck(t *testing.T) {
	ctx := context.Background()
	svc := NewVoteService(repository.NewMemoryVoteRepository())

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Cast(ctx, "same-user", 404, true))
	}

	tally, err := svc.Tally(ctx, 404)
	require.NoError(t, err)
	assert.Equal(t, 3, tally.For)
}

func TestVoteService_TallyIsFresh(t *testing.T) {
	ctx := context.Background()
	svc := NewVoteService(repository.NewMemoryVoteRepository())

	require.NoError(t, svc.Cast(ctx, "a", 1, false))
	tally, err := svc.Tally(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.Tally{Against: 1}, tally)

	require.NoError(t, svc.Cast(ctx, "b", 1, true))
	require.NoError(t, svc.Cast(ctx, "c", 1, true))
	tally, err = svc.Tally(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.Tally{For: 2, Against: 1}, tally)
}

func TestVoteService_OrphanGoalIDs(t *testing.T) {
	ctx := context.Background()
	goals := NewGoalService(repository.NewMemoryGoalRepository())
	votes := NewVoteService(repository.NewMemoryVoteRepository())

	kept, err := goals.Create(ctx, "u", "c", "kept", time.Now())
	require.NoError(t, err)
	deleted, err := goals.Create(ctx, "u", "c", "deleted", time.Now())
	require.NoError(t, err)

	require.NoError(t, votes.Cast(ctx, "v", kept, true))
	require.NoError(t, votes.Cast(ctx, "v", deleted, true))
	require.NoError(t, votes.Cast(ctx, "v", 1000, false))
	require.NoError(t, goals.Delete(ctx, deleted))

	orphans, err := votes.OrphanGoalIDs(ctx, goals)
	require.NoError(t, err)
	assert.Equal(t, []int64{deleted, 1000}, orphans)

	// Votes outlive their goal
	tally, err := votes.Tally(ctx, deleted)
	require.NoError(t, err)
	assert.Equal(t, 1, tally.For)
}

func TestVoteService_StoreFailure(t *testing.T) {
	svc := NewVoteService(failingVoteRepository{})

	assert.ErrorIs(t, svc.Cast(context.Background(), "u", 1, true), assert.AnError)

	_, err := svc.Tally(context.Background(), 1)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestVoteService_TallyProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("tally equals count of true and false votes", prop.ForAll(
		func(choices []bool) bool {
			ctx := context.Background()
			svc := NewVoteService(repository.NewMemoryVoteRepository())

			want := model.Tally{}
			for i, c := range choices {
				if c {
					want.For++
				} else {
					want.Against++
				}
				if err := svc.Cast(ctx, "user", 1, c); err != nil {
					return false
				}
				// Noise on another goal must not leak in
				if i%2 == 0 {
					if err := svc.Cast(ctx, "user", 2, !c); err != nil {
						return false
					}
				}
			}

			got, err := svc.Tally(ctx, 1)
			return err == nil && got == want
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}
