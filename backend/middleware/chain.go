// ABOUTME: Middleware chaining utility for composing HTTP middleware
// ABOUTME: Applies middleware in declaration order (first is outermost)

package middleware

import "net/http"

// Middleware wraps a handler with extra behaviour
type Middleware = func(http.HandlerFunc) http.HandlerFunc

// Chain wraps h so that Chain(h, logging, cors) runs as logging(cors(h)).
// Nil entries are skipped, which lets routes leave out optional layers.
func Chain(h http.HandlerFunc, middlewares ...Middleware) http.HandlerFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] != nil {
			h = middlewares[i](h)
		}
	}
	return h
}
