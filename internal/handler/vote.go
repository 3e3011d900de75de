package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nzoschke/goalbot/internal/command"
	"github.com/nzoschke/goalbot/internal/ctxkeys"
	"github.com/nzoschke/goalbot/internal/service"
)

type VoteHandler struct {
	voteService *service.VoteService
}

func NewVoteHandler(voteService *service.VoteService) *VoteHandler {
	return &VoteHandler{
		voteService: voteService,
	}
}

// Cast records a vote without checking that the goal exists.
func (h *VoteHandler) Cast(ctx context.Context, cmd *command.Command) string {
	if len(cmd.Params) < 2 {
		return usage(command.TypeCastVote)
	}

	goalID, err := ParseGoalID(cmd.Param(0))
	if err != nil {
		return fmt.Sprintf("Invalid goal id %q. %s", cmd.Param(0), usage(command.TypeCastVote))
	}

	vote, err := ParseVote(cmd.Param(1))
	if err != nil {
		return fmt.Sprintf("Invalid vote %q. Use true or false.", cmd.Param(1))
	}

	err = h.voteService.Cast(ctx, cmd.UserID, goalID, vote)
	if err != nil {
		slog.Error("failed to cast vote", "error", err, "goal_id", goalID, "user_id", cmd.UserID, "request_id", ctxkeys.RequestID(ctx))
		return failed("cast vote")
	}

	return fmt.Sprintf("Vote casted for goal %d with choice %t.", goalID, vote)
}
