package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/nzoschke/goalbot/internal/command"
	"github.com/nzoschke/goalbot/internal/ctxkeys"
	"github.com/nzoschke/goalbot/internal/handler"
)

// CommandLogging logs each command with type, sender, channel and duration
func CommandLogging(next handler.Func) handler.Func {
	return func(ctx context.Context, cmd *command.Command) string {
		start := time.Now()

		reply := next(ctx, cmd)

		slog.Info("command handled",
			"type", string(cmd.Type),
			"params", len(cmd.Params),
			"user_id", cmd.UserID,
			"channel_id", cmd.ChannelID,
			"request_id", ctxkeys.RequestID(ctx),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return reply
	}
}
