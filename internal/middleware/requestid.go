package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/nzoschke/goalbot/internal/command"
	"github.com/nzoschke/goalbot/internal/ctxkeys"
	"github.com/nzoschke/goalbot/internal/handler"
)

// RequestID tags the context with a fresh request id and the command
func RequestID(next handler.Func) handler.Func {
	return func(ctx context.Context, cmd *command.Command) string {
		ctx = ctxkeys.WithRequestID(ctx, uuid.NewString())
		ctx = ctxkeys.WithCommand(ctx, cmd)
		return next(ctx, cmd)
	}
}
