package handler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nzoschke/goalbot/internal/command"
	"github.com/nzoschke/goalbot/internal/model"
	"github.com/nzoschke/goalbot/internal/repository"
	"github.com/nzoschke/goalbot/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu   sync.Mutex
	sent map[string][]string
	err  error
}

func (f *fakeSender) Send(ctx context.Context, channelID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.sent == nil {
		f.sent = map[string][]string{}
	}
	f.sent[channelID] = append(f.sent[channelID], text)
	return nil
}

type failingGoals struct{ repository.GoalRepository }

func (failingGoals) Create(ctx context.Context, goal *model.Goal) (int64, error) {
	return 0, assert.AnError
}

func (failingGoals) ByID(ctx context.Context, id int64) (*model.Goal, error) {
	return nil, assert.AnError
}

func (failingGoals) Delete(ctx context.Context, id int64) error {
	return assert.AnError
}

type failingVotes struct{ repository.VoteRepository }

func (failingVotes) Create(ctx context.Context, vote *model.Vote) error {
	return assert.AnError
}

type fixture struct {
	goals  *service.GoalService
	votes  *service.VoteService
	sender *fakeSender
	goal   *GoalHandler
	vote   *VoteHandler
}

func newFixture(goalRepo repository.GoalRepository, voteRepo repository.VoteRepository) *fixture {
	f := &fixture{
		goals:  service.NewGoalService(goalRepo),
		votes:  service.NewVoteService(voteRepo),
		sender: &fakeSender{},
	}
	f.goal = NewGoalHandler(f.goals, f.votes, f.sender, time.UTC, "fallback")
	f.vote = NewVoteHandler(f.votes)
	return f
}

func memoryFixture() *fixture {
	return newFixture(repository.NewMemoryGoalRepository(), repository.NewMemoryVoteRepository())
}

func cmd(t command.Type, params ...string) *command.Command {
	return &command.Command{Type: t, UserID: "alice", ChannelID: "c1", Params: params}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	f := memoryFixture()

	assert.Equal(t, "Goal 1 created.", f.goal.Create(ctx, cmd(command.TypeCreateGoal, "ship v2", "2025-01-01")))
	assert.Equal(t, "Goal 2 created.", f.goal.Create(ctx, cmd(command.TypeCreateGoal, "demo", "2025-01-01", "18:00")))

	goal, err := f.goals.ByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "demo", goal.Description)
	assert.Equal(t, "alice", goal.UserID)
	assert.Equal(t, "c1", goal.ChannelID)
	assert.Equal(t, time.Date(2025, 1, 1, 18, 0, 0, 0, time.UTC), goal.DueDate.UTC())
}

func TestCreate_Invalid(t *testing.T) {
	ctx := context.Background()
	f := memoryFixture()

	tests := []struct {
		name   string
		params []string
		want   string
	}{
		{"no params", nil, `Usage: createGoal "<description>" <dueDate>`},
		{"no date", []string{"ship"}, `Usage: createGoal "<description>" <dueDate>`},
		{"empty description", []string{"  ", "2025-01-01"}, `Goal description cannot be empty. Usage: createGoal "<description>" <dueDate>`},
		{"multi-line description", []string{"ship\nv2", "2025-01-01"}, "Invalid goal description: goal description contains control characters."},
		{"bad date", []string{"ship", "tomorrow"}, `Invalid due date "tomorrow". Use YYYY-MM-DD, YYYY-MM-DD HH:MM or RFC3339.`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.goal.Create(ctx, cmd(command.TypeCreateGoal, tt.params...)))
		})
	}

	goals, err := f.goals.Goals(ctx)
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestCheck(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		votes   []bool
		wantHas string
	}{
		{"passed", []bool{true, true, false}, "Goal 1 status: For: 2, Against: 1"},
		{"tie", []bool{true, false}, "Goal 1 status: Vote is not completed. For: 1, Against: 1"},
		{"no votes", nil, "Goal 1 status: Vote is not completed. For: 0, Against: 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := memoryFixture()
			_, err := f.goals.Create(ctx, "alice", "c1", "ship v2", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
			require.NoError(t, err)
			for _, v := range tt.votes {
				require.NoError(t, f.votes.Cast(ctx, "bob", 1, v))
			}

			reply := f.goal.Check(ctx, cmd(command.TypeCheckGoal, "1"))
			assert.Equal(t, tt.wantHas+"\n\"ship v2\" due 2025-01-01 00:00 UTC", reply)
		})
	}
}

func TestCheck_MissingGoal(t *testing.T) {
	ctx := context.Background()
	f := memoryFixture()

	// Votes for unknown goals still count
	require.NoError(t, f.votes.Cast(ctx, "bob", 42, true))

	assert.Equal(t, "Goal 42 status: For: 1, Against: 0", f.goal.Check(ctx, cmd(command.TypeCheckGoal, "42")))
	assert.Equal(t, "Goal 7 status: Vote is not completed. For: 0, Against: 0", f.goal.Check(ctx, cmd(command.TypeCheckGoal, "7")))
}

func TestCheck_Invalid(t *testing.T) {
	ctx := context.Background()
	f := memoryFixture()

	assert.Equal(t, "Usage: checkGoal <goalId>", f.goal.Check(ctx, cmd(command.TypeCheckGoal)))
	assert.Equal(t, `Invalid goal id "abc". Usage: checkGoal <goalId>`, f.goal.Check(ctx, cmd(command.TypeCheckGoal, "abc")))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	f := memoryFixture()
	_, err := f.goals.Create(ctx, "alice", "c1", "ship", time.Now())
	require.NoError(t, err)

	assert.Equal(t, "Goal 1 deleted.", f.goal.Delete(ctx, cmd(command.TypeDeleteGoal, "1")))
	assert.Equal(t, "Goal 1 deleted.", f.goal.Delete(ctx, cmd(command.TypeDeleteGoal, "1")))

	exists, err := f.goals.Exists(ctx, 1)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCast(t *testing.T) {
	ctx := context.Background()
	f := memoryFixture()

	assert.Equal(t, "Vote casted for goal 3 with choice true.", f.vote.Cast(ctx, cmd(command.TypeCastVote, "3", "true")))
	assert.Equal(t, "Vote casted for goal 3 with choice false.", f.vote.Cast(ctx, cmd(command.TypeCastVote, "#3", "No")))
	assert.Equal(t, "Usage: castVote <goalId> <true|false>", f.vote.Cast(ctx, cmd(command.TypeCastVote, "3")))
	assert.Equal(t, `Invalid goal id "x". Usage: castVote <goalId> <true|false>`, f.vote.Cast(ctx, cmd(command.TypeCastVote, "x", "true")))
	assert.Equal(t, `Invalid vote "maybe". Use true or false.`, f.vote.Cast(ctx, cmd(command.TypeCastVote, "3", "maybe")))

	tally, err := f.votes.Tally(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, model.Tally{For: 1, Against: 1}, tally)
}

func TestStoreFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(failingGoals{}, failingVotes{})

	assert.Equal(t, "Failed to create goal. Please try again later.", f.goal.Create(ctx, cmd(command.TypeCreateGoal, "ship", "2025-01-01")))
	assert.Equal(t, "Failed to check goal. Please try again later.", f.goal.Check(ctx, cmd(command.TypeCheckGoal, "1")))
	assert.Equal(t, "Failed to delete goal. Please try again later.", f.goal.Delete(ctx, cmd(command.TypeDeleteGoal, "1")))
	assert.Equal(t, "Failed to cast vote. Please try again later.", f.vote.Cast(ctx, cmd(command.TypeCastVote, "1", "true")))
}

func TestAnnounceOverdue(t *testing.T) {
	ctx := context.Background()
	f := memoryFixture()
	due := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	goal := &model.Goal{ID: 5, UserID: "alice", ChannelID: "c1", Description: "ship v2", DueDate: due}
	require.NoError(t, f.votes.Cast(ctx, "bob", 5, true))
	require.NoError(t, f.goal.AnnounceOverdue(ctx, goal))

	assert.Equal(t, []string{
		`Goal 5 by <@alice> is overdue: "ship v2" (due 2025-01-01 00:00 UTC). For: 1, Against: 0. Vote with: castVote 5 true|false`,
	}, f.sender.sent["c1"])

	// Goals without a channel use the fallback
	goal.ChannelID = ""
	require.NoError(t, f.goal.AnnounceOverdue(ctx, goal))
	assert.Len(t, f.sender.sent["fallback"], 1)

	// Announcing never creates goals
	goals, err := f.goals.Goals(ctx)
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestAnnounceOverdue_NoChannel(t *testing.T) {
	f := memoryFixture()
	h := NewGoalHandler(f.goals, f.votes, f.sender, nil, "")
	err := h.AnnounceOverdue(context.Background(), &model.Goal{ID: 1})
	assert.ErrorIs(t, err, ErrNoAnnounceChannel)
}

func TestParseDueDate(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-01-01", time.Date(2025, 1, 1, 0, 0, 0, 0, loc)},
		{"2025-01-01 18:30", time.Date(2025, 1, 1, 18, 30, 0, 0, loc)},
		{"2025-01-01T18:30", time.Date(2025, 1, 1, 18, 30, 0, 0, loc)},
		{"2025-01-01T18:30:00Z", time.Date(2025, 1, 1, 18, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDueDate(tt.in, loc)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}

	_, err = ParseDueDate("01/02/2025", loc)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestParseGoalID(t *testing.T) {
	id, err := ParseGoalID("#12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	for _, s := range []string{"", "0", "-1", "1.5", "abc"} {
		_, err := ParseGoalID(s)
		assert.ErrorIs(t, err, ErrInvalidGoalID, s)
	}
}

func TestHelpAndUnknown(t *testing.T) {
	ctx := context.Background()
	h := NewHelpHandler("!")

	help := h.Help(ctx, cmd(command.TypeHelp))
	assert.Contains(t, help, `!createGoal "<description>" <dueDate>`)
	assert.Contains(t, help, "!castVote <goalId> <true|false>")

	assert.Equal(t, "Unknown command: fooBar. Please check your command..", h.Unknown(ctx, cmd("fooBar")))
}
