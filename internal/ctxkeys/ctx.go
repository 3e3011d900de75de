package ctxkeys

import (
	"context"

	"github.com/nzoschke/goalbot/internal/command"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	CommandKey   contextKey = "command"
)

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func Command(ctx context.Context) *command.Command {
	cmd, _ := ctx.Value(CommandKey).(*command.Command)
	return cmd
}

func WithCommand(ctx context.Context, cmd *command.Command) context.Context {
	return context.WithValue(ctx, CommandKey, cmd)
}
