package routes

import (
	"context"

	"github.com/nzoschke/goalbot/internal/app"
	"github.com/nzoschke/goalbot/internal/command"
	"github.com/nzoschke/goalbot/internal/handler"
	"github.com/nzoschke/goalbot/internal/middleware"
)

// Router maps command types to handlers. Types without a route go to the
// not-found handler so every command gets exactly one reply.
type Router struct {
	routes      map[command.Type]handler.Func
	notFound    handler.Func
	middlewares []middleware.Middleware
}

func NewRouter() *Router {
	return &Router{
		routes: make(map[command.Type]handler.Func),
		notFound: func(ctx context.Context, cmd *command.Command) string {
			return "Unknown command: " + string(cmd.Type)
		},
	}
}

func (r *Router) Handle(t command.Type, h handler.Func) {
	r.routes[t] = h
}

func (r *Router) NotFound(h handler.Func) {
	r.notFound = h
}

// Use appends middleware applied around every route, including not-found.
func (r *Router) Use(mws ...middleware.Middleware) {
	r.middlewares = append(r.middlewares, mws...)
}

func (r *Router) Dispatch(ctx context.Context, cmd *command.Command) string {
	h, ok := r.routes[cmd.Type]
	if !ok {
		h = r.notFound
	}
	return middleware.Chain(h, r.middlewares...)(ctx, cmd)
}

func SetupRoutes(app *app.App, goal *handler.GoalHandler) *Router {
	// Handlers
	vote := handler.NewVoteHandler(app.VoteService)
	help := handler.NewHelpHandler(app.Cfg.CommandPrefix)

	r := NewRouter()

	// Middleware: outermost first
	r.Use(
		middleware.RequestID,
		middleware.CommandLogging,
		middleware.Recover,
	)

	// Goals
	r.Handle(command.TypeCreateGoal, goal.Create)
	r.Handle(command.TypeCheckGoal, goal.Check)
	r.Handle(command.TypeDeleteGoal, goal.Delete)

	// Votes
	r.Handle(command.TypeCastVote, vote.Cast)

	// Help
	r.Handle(command.TypeHelp, help.Help)
	r.NotFound(help.Unknown)

	return r
}
