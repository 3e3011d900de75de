package middleware

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/nzoschke/goalbot/internal/command"
	"github.com/nzoschke/goalbot/internal/ctxkeys"
	"github.com/nzoschke/goalbot/internal/handler"
)

const panicReply = "Something went wrong. Please try again later."

// Recover turns a panicking handler into a generic failure reply so the
// listener keeps processing messages.
func Recover(next handler.Func) handler.Func {
	return func(ctx context.Context, cmd *command.Command) (reply string) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("command panicked",
					"panic", r,
					"type", string(cmd.Type),
					"request_id", ctxkeys.RequestID(ctx),
					"stack", string(debug.Stack()),
				)
				reply = panicReply
			}
		}()
		return next(ctx, cmd)
	}
}
