package middleware

import "github.com/nzoschke/goalbot/internal/handler"

// Middleware wraps a command handler
type Middleware func(handler.Func) handler.Func

// Chain applies multiple middleware in order (first to last)
// The middleware are executed in the order they are provided
//
// Example:
//
//	h := Chain(dispatch,
//	    RequestID,      // Executes first
//	    CommandLogging, // Executes second
//	    Recover,        // Executes third
//	)
func Chain(h handler.Func, middlewares ...Middleware) handler.Func {
	// Apply middleware in reverse order so they execute in the order provided
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
