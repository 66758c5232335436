package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/printdeskhq/printdesk-backend/api/responses"
	"github.com/printdeskhq/printdesk-backend/api/validators"
	"github.com/printdeskhq/printdesk-backend/internal/timeline"
	"github.com/printdeskhq/printdesk-backend/pkg/db/models"
	"github.com/printdeskhq/printdesk-backend/pkg/enums"
	pkgerrors "github.com/printdeskhq/printdesk-backend/pkg/errors"
	"github.com/printdeskhq/printdesk-backend/pkg/logger"
	"github.com/printdeskhq/printdesk-backend/pkg/pagination"
)

type orderEventResponse struct {
	ID         uuid.UUID      `json:"id"`
	OrderID    uuid.UUID      `json:"order_id"`
	EventType  string         `json:"event_type"`
	Visibility string         `json:"visibility"`
	OldStatus  *string        `json:"old_status,omitempty"`
	NewStatus  *string        `json:"new_status,omitempty"`
	Message    *string        `json:"message,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	Actor      string         `json:"actor"`
	CreatedAt  time.Time      `json:"created_at"`
}

type orderEventListResponse struct {
	Events     []orderEventResponse `json:"events"`
	NextCursor string               `json:"next_cursor,omitempty"`
}

// ListOrderEvents pages the order timeline, newest first. The visibility
// query narrows to a comma-separated audience list.
func ListOrderEvents(svc timeline.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "timeline service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID("orderID", chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := timeline.ListParams{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("visibility")); raw != "" {
			for _, part := range strings.Split(raw, ",") {
				visibility, parseErr := enums.ParseEventVisibility(strings.TrimSpace(part))
				if parseErr != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid visibility filter"))
					return
				}
				params.Visibilities = append(params.Visibilities, visibility)
			}
		}

		page, err := svc.ListByOrder(r.Context(), orderID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := orderEventListResponse{
			Events:     make([]orderEventResponse, 0, len(page.Events)),
			NextCursor: page.NextCursor,
		}
		for i := range page.Events {
			resp.Events = append(resp.Events, buildOrderEventResponse(&page.Events[i]))
		}
		responses.WriteSuccess(w, resp)
	}
}

func buildOrderEventResponse(event *models.OrderEvent) orderEventResponse {
	return orderEventResponse{
		ID:         event.ID,
		OrderID:    event.OrderID,
		EventType:  event.EventType.String(),
		Visibility: event.Visibility.String(),
		OldStatus:  event.OldStatus,
		NewStatus:  event.NewStatus,
		Message:    event.Message,
		Data:       event.Data,
		Actor:      event.Actor,
		CreatedAt:  event.CreatedAt,
	}
}
