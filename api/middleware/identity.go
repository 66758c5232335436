package middleware

import (
	"net/http"
	"strings"

	"github.com/printdeskhq/printdesk-backend/pkg/logger"
)

const (
	actorHeader        = "X-Actor"
	workingGroupHeader = "X-Working-Group-Id"
)

// Identity lifts the acting identity and working group headers into the
// request context. Identity is asserted by the gateway in front of this
// service, so the values are trusted as-is.
func Identity(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if actor := strings.TrimSpace(r.Header.Get(actorHeader)); actor != "" {
				ctx = WithActor(ctx, actor)
				if logg != nil {
					ctx = logg.WithActor(ctx, actor)
				}
			}
			if wg := strings.TrimSpace(r.Header.Get(workingGroupHeader)); wg != "" {
				ctx = WithWorkingGroupID(ctx, wg)
				if logg != nil {
					ctx = logg.WithWorkingGroupID(ctx, wg)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
