// ABOUTME: Request counting middleware
// ABOUTME: Counts responses per route pattern and status code

package middleware

import (
	"net/http"
	"strconv"

	"github.com/arthurportas/tech-diving-app/backend/metrics"
)

// Instrument counts each request against route, labelled with the response
// code. Pass the registered pattern, not the raw path, to bound cardinality.
func Instrument(route string, requests *metrics.CounterVec) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if requests == nil {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			rec := wrap(w)
			next(rec, r)
			requests.Inc(route, strconv.Itoa(rec.code()))
		}
	}
}
