package controllers

import (
	"net/http"

	"github.com/printdeskhq/printdesk-backend/api/responses"
	"github.com/printdeskhq/printdesk-backend/internal/statuses"
	pkgerrors "github.com/printdeskhq/printdesk-backend/pkg/errors"
	"github.com/printdeskhq/printdesk-backend/pkg/logger"
)

type statusCatalogResponse struct {
	Statuses    map[string]statuses.StatusDefinition `json:"statuses"`
	Transitions map[string][]string                  `json:"transitions"`
}

// ListStatuses exposes the status catalog and transition table the server was
// started with, so clients render exactly the states the machine enforces.
func ListStatuses(catalog *statuses.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if catalog == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "status catalog unavailable"))
			return
		}

		resp := statusCatalogResponse{
			Statuses:    map[string]statuses.StatusDefinition{},
			Transitions: map[string][]string{},
		}
		for _, key := range catalog.Keys() {
			definition, ok := catalog.Get(key)
			if !ok {
				continue
			}
			resp.Statuses[key] = definition
			resp.Transitions[key] = catalog.AllowedTransitions(key)
		}

		responses.WriteSuccess(w, resp)
	}
}
