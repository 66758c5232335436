package timeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printdeskhq/printdesk-backend/pkg/db/models"
	"github.com/printdeskhq/printdesk-backend/pkg/enums"
	"github.com/printdeskhq/printdesk-backend/pkg/pagination"
	"github.com/printdeskhq/printdesk-backend/pkg/types"
)

// Service appends and reads the order timeline.
type Service interface {
	WithTx(tx *gorm.DB) Service
	Record(ctx context.Context, input RecordEventInput) (*models.OrderEvent, error)
	Append(ctx context.Context, event *models.OrderEvent) error
	ListByOrder(ctx context.Context, orderID uuid.UUID, params ListParams) (*EventPage, error)
}

// RecordEventInput captures the immutable data a timeline entry requires.
type RecordEventInput struct {
	OrderID    uuid.UUID
	EventType  enums.OrderEventType
	Visibility enums.EventVisibility
	OldStatus  *string
	NewStatus  *string
	Message    *string
	Data       types.JSONMap
	Actor      string
}

// ListParams narrows and pages a timeline listing.
type ListParams struct {
	Visibilities []enums.EventVisibility
	Limit        int
	Cursor       string
}

// EventPage is one page of timeline entries, newest first.
type EventPage struct {
	Events     []models.OrderEvent
	NextCursor string
}

type service struct {
	repo Repository
}

// NewService wires a timeline service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("timeline repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) WithTx(tx *gorm.DB) Service {
	if tx == nil {
		return s
	}
	return &service{repo: s.repo.WithTx(tx)}
}

func (s *service) Record(ctx context.Context, input RecordEventInput) (*models.OrderEvent, error) {
	if input.OrderID == uuid.Nil {
		return nil, fmt.Errorf("order id is required")
	}
	if !input.EventType.IsValid() {
		return nil, fmt.Errorf("invalid event type %q", input.EventType)
	}

	visibility := input.Visibility
	if visibility == "" {
		visibility = enums.EventVisibilityAdmin
	}
	if !visibility.IsValid() {
		return nil, fmt.Errorf("invalid visibility %q", visibility)
	}

	actor := input.Actor
	if actor == "" {
		actor = "system"
	}

	event := &models.OrderEvent{
		OrderID:    input.OrderID,
		EventType:  input.EventType,
		Visibility: visibility,
		OldStatus:  input.OldStatus,
		NewStatus:  input.NewStatus,
		Message:    input.Message,
		Data:       input.Data,
		Actor:      actor,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Append persists an event built elsewhere, such as by the state machine.
func (s *service) Append(ctx context.Context, event *models.OrderEvent) error {
	if event == nil {
		return fmt.Errorf("event is required")
	}
	if event.OrderID == uuid.Nil {
		return fmt.Errorf("order id is required")
	}
	return s.repo.Create(ctx, event)
}

func (s *service) ListByOrder(ctx context.Context, orderID uuid.UUID, params ListParams) (*EventPage, error) {
	if orderID == uuid.Nil {
		return nil, fmt.Errorf("order id is required")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	limit := pagination.NormalizeLimit(params.Limit)
	events, err := s.repo.ListByOrderID(ctx, orderID, ListFilter{
		Visibilities: params.Visibilities,
		Limit:        pagination.LimitWithBuffer(params.Limit),
		Cursor:       cursor,
	})
	if err != nil {
		return nil, err
	}

	page := &EventPage{Events: events}
	if len(events) > limit {
		page.Events = events[:limit]
		last := page.Events[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}
