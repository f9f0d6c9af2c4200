package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const cartTokenHeader = "X-Cart-Token"

// CartToken reads the shopper's cart token and seeds the request context
// with it. First-time shoppers get a fresh token; it is echoed back on the
// response so the client can persist it.
func CartToken() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(cartTokenHeader))
			if token == "" || uuid.Validate(token) != nil {
				token = uuid.NewString()
			}

			w.Header().Set(cartTokenHeader, token)
			next.ServeHTTP(w, r.WithContext(WithCartToken(r.Context(), token)))
		})
	}
}
