// ABOUTME: Middleware chaining utility for composing HTTP middleware
// ABOUTME: Applies middleware in declaration order (first is outermost)

package middleware

import "net/http"

// Middleware wraps a handler
type Middleware func(http.HandlerFunc) http.HandlerFunc

// Chain applies middlewares so the first listed runs first.
// Chain(h, logging, auth) behaves as logging(auth(h)). Nil entries are skipped.
func Chain(h http.HandlerFunc, middlewares ...Middleware) http.HandlerFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] != nil {
			h = middlewares[i](h)
		}
	}
	return h
}
