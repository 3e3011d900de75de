// Package command turns raw chat messages into typed commands.
package command

type Type string

const (
	TypeCreateGoal Type = "createGoal"
	TypeCastVote   Type = "castVote"
	TypeCheckGoal  Type = "checkGoal"
	TypeDeleteGoal Type = "deleteGoal"
	TypeHelp       Type = "help"
)

// Command is built per inbound message and consumed by the router. Type holds
// whatever the sender typed first; unrecognized types are kept verbatim.
type Command struct {
	Type      Type
	UserID    string
	ChannelID string
	Params    []string
	Raw       string
}

// Param returns the i-th positional parameter, or "" when absent.
func (c *Command) Param(i int) string {
	if i < 0 || i >= len(c.Params) {
		return ""
	}
	return c.Params[i]
}
