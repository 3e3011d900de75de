package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/nzoschke/goalbot/internal/command"
)

type HelpHandler struct {
	prefix string
}

func NewHelpHandler(prefix string) *HelpHandler {
	return &HelpHandler{prefix: prefix}
}

func (h *HelpHandler) Help(ctx context.Context, cmd *command.Command) string {
	var b strings.Builder
	b.WriteString("Commands:")
	for _, t := range []command.Type{
		command.TypeCreateGoal,
		command.TypeCastVote,
		command.TypeCheckGoal,
		command.TypeDeleteGoal,
		command.TypeHelp,
	} {
		b.WriteString("\n  ")
		b.WriteString(h.prefix)
		b.WriteString(Usage[t])
	}
	return b.String()
}

// Unknown answers any command type without a route.
func (h *HelpHandler) Unknown(ctx context.Context, cmd *command.Command) string {
	return fmt.Sprintf("Unknown command: %s. Please check your command..", cmd.Type)
}
