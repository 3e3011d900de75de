package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nzoschke/goalbot/internal/command"
)

// Func handles one command and returns the reply text. A Func never returns
// an empty reply.
type Func func(ctx context.Context, cmd *command.Command) string

var (
	ErrInvalidGoalID = errors.New("invalid goal id")
	ErrInvalidVote   = errors.New("invalid vote")
	ErrInvalidDate   = errors.New("invalid date")
)

// Usage lines, also listed by help.
var Usage = map[command.Type]string{
	command.TypeCreateGoal: `createGoal "<description>" <dueDate>`,
	command.TypeCastVote:   `castVote <goalId> <true|false>`,
	command.TypeCheckGoal:  `checkGoal <goalId>`,
	command.TypeDeleteGoal: `deleteGoal <goalId>`,
	command.TypeHelp:       `help`,
}

func usage(t command.Type) string {
	return "Usage: " + Usage[t]
}

// failed is the generic reply for store errors.
func failed(action string) string {
	return fmt.Sprintf("Failed to %s. Please try again later.", action)
}

// dateLayouts are tried in order. Layouts without an offset are read in the
// handler's location.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDueDate accepts RFC3339 or a local date/time such as 2025-01-01 or
// 2025-01-01T18:00.
func ParseDueDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w %q", ErrInvalidDate, s)
}

func ParseGoalID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w %q", ErrInvalidGoalID, s)
	}
	return id, nil
}

// ParseVote accepts the usual boolean spellings plus for/against and yes/no.
func ParseVote(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1", "for":
		return true, nil
	case "false", "f", "no", "n", "0", "against":
		return false, nil
	}
	return false, fmt.Errorf("%w %q", ErrInvalidVote, s)
}

func formatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2006-01-02 15:04 MST")
}
