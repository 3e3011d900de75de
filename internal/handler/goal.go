package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nzoschke/goalbot/internal/command"
	"github.com/nzoschke/goalbot/internal/ctxkeys"
	"github.com/nzoschke/goalbot/internal/model"
	"github.com/nzoschke/goalbot/internal/repository"
	"github.com/nzoschke/goalbot/internal/service"
	"github.com/nzoschke/goalbot/internal/transport"
	"github.com/nzoschke/goalbot/internal/validation"
)

var ErrNoAnnounceChannel = errors.New("no channel to announce goal in")

type GoalHandler struct {
	goalService     *service.GoalService
	voteService     *service.VoteService
	sender          transport.Sender
	location        *time.Location
	announceChannel string
}

func NewGoalHandler(
	goalService *service.GoalService,
	voteService *service.VoteService,
	sender transport.Sender,
	location *time.Location,
	announceChannel string,
) *GoalHandler {
	if location == nil {
		location = time.UTC
	}
	return &GoalHandler{
		goalService:     goalService,
		voteService:     voteService,
		sender:          sender,
		location:        location,
		announceChannel: announceChannel,
	}
}

// HandleGoal is the create entry point behind createGoal.
func (h *GoalHandler) HandleGoal(ctx context.Context, userID, channelID, description string, dueDate time.Time) (int64, error) {
	return h.goalService.Create(ctx, userID, channelID, description, dueDate)
}

// AnnounceOverdue posts a reminder for an overdue goal to the channel it was
// proposed in, falling back to the configured announce channel.
func (h *GoalHandler) AnnounceOverdue(ctx context.Context, goal *model.Goal) error {
	channelID := goal.ChannelID
	if channelID == "" {
		channelID = h.announceChannel
	}
	if channelID == "" {
		return ErrNoAnnounceChannel
	}

	tally, err := h.voteService.Tally(ctx, goal.ID)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("Goal %d by <@%s> is overdue: %q (due %s). %s. Vote with: castVote %d true|false",
		goal.ID, goal.UserID, goal.Description, formatDate(goal.DueDate, h.location), tally, goal.ID)

	return h.sender.Send(ctx, channelID, text)
}

func (h *GoalHandler) Create(ctx context.Context, cmd *command.Command) string {
	if len(cmd.Params) < 2 {
		return usage(command.TypeCreateGoal)
	}

	description := strings.TrimSpace(cmd.Param(0))
	if description == "" {
		return "Goal description cannot be empty. " + usage(command.TypeCreateGoal)
	}

	// Unquoted trailing words such as "2025-01-01 18:00" are joined back
	dueDate, err := ParseDueDate(strings.Join(cmd.Params[1:], " "), h.location)
	if err != nil {
		return fmt.Sprintf("Invalid due date %q. Use YYYY-MM-DD, YYYY-MM-DD HH:MM or RFC3339.", strings.Join(cmd.Params[1:], " "))
	}

	id, err := h.HandleGoal(ctx, cmd.UserID, cmd.ChannelID, description, dueDate)
	if validation.IsDescriptionError(err) {
		return "Invalid goal description: " + err.Error() + "."
	}
	if err != nil {
		slog.Error("failed to create goal", "error", err, "user_id", cmd.UserID, "request_id", ctxkeys.RequestID(ctx))
		return failed("create goal")
	}

	return fmt.Sprintf("Goal %d created.", id)
}

func (h *GoalHandler) Check(ctx context.Context, cmd *command.Command) string {
	if len(cmd.Params) < 1 {
		return usage(command.TypeCheckGoal)
	}

	goalID, err := ParseGoalID(cmd.Param(0))
	if err != nil {
		return fmt.Sprintf("Invalid goal id %q. %s", cmd.Param(0), usage(command.TypeCheckGoal))
	}

	// A missing goal is reported with a zero tally
	goal, err := h.goalService.ByID(ctx, goalID)
	if err != nil && !errors.Is(err, repository.ErrGoalNotFound) {
		slog.Error("failed to get goal", "error", err, "goal_id", goalID, "request_id", ctxkeys.RequestID(ctx))
		return failed("check goal")
	}

	tally, err := h.voteService.Tally(ctx, goalID)
	if err != nil {
		slog.Error("failed to tally votes", "error", err, "goal_id", goalID, "request_id", ctxkeys.RequestID(ctx))
		return failed("check goal")
	}

	status := tally.String()
	if !tally.Passed() {
		status = "Vote is not completed. " + status
	}

	reply := fmt.Sprintf("Goal %d status: %s", goalID, status)
	if goal != nil {
		reply += fmt.Sprintf("\n%q due %s", goal.Description, formatDate(goal.DueDate, h.location))
	}
	return reply
}

func (h *GoalHandler) Delete(ctx context.Context, cmd *command.Command) string {
	if len(cmd.Params) < 1 {
		return usage(command.TypeDeleteGoal)
	}

	goalID, err := ParseGoalID(cmd.Param(0))
	if err != nil {
		return fmt.Sprintf("Invalid goal id %q. %s", cmd.Param(0), usage(command.TypeDeleteGoal))
	}

	err = h.goalService.Delete(ctx, goalID)
	if err != nil {
		slog.Error("failed to delete goal", "error", err, "goal_id", goalID, "request_id", ctxkeys.RequestID(ctx))
		return failed("delete goal")
	}

	return fmt.Sprintf("Goal %d deleted.", goalID)
}
