package statuses

import (
	"fmt"
	"strings"

	"github.com/printdeskhq/printdesk-backend/pkg/db/models"
	"github.com/printdeskhq/printdesk-backend/pkg/enums"
	pkgerrors "github.com/printdeskhq/printdesk-backend/pkg/errors"
)

// TransitionPayload carries the operator input accompanying a status change.
type TransitionPayload struct {
	Message    string
	Visibility *enums.EventVisibility
	Actor      string
}

// Machine validates and applies status changes against an injected catalog.
// It mutates the order's status and describes the change as a timeline event;
// persisting both is the caller's transaction.
type Machine struct {
	catalog *Catalog
}

// NewMachine builds a state machine over the given catalog.
func NewMachine(catalog *Catalog) (*Machine, error) {
	if catalog == nil {
		return nil, fmt.Errorf("status catalog required")
	}
	return &Machine{catalog: catalog}, nil
}

// Catalog exposes the injected catalog for lock-flag and metadata lookups.
func (m *Machine) Catalog() *Catalog {
	return m.catalog
}

// Transition moves the order to a new status if the catalog permits the edge.
// The returned event records old and new status; side-effect flags on the
// target definition are left for collaborator layers to act on.
func (m *Machine) Transition(order *models.Order, to string, payload TransitionPayload) (*models.OrderEvent, error) {
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order is required")
	}

	from := order.Status
	target, ok := m.catalog.Get(to)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown status %q", to))
	}

	if !m.catalog.CanTransition(from, to) {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition,
			fmt.Sprintf("cannot transition from %q to %q", from, to)).
			WithDetails(map[string]any{
				"from":    from,
				"to":      to,
				"allowed": m.catalog.AllowedTransitions(from),
			})
	}

	if target.RequiresNote && strings.TrimSpace(payload.Message) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("status %q requires a note", to)).
			WithDetails(map[string]any{"to": to})
	}

	visibility := target.Visibility
	if payload.Visibility != nil && payload.Visibility.IsValid() {
		visibility = *payload.Visibility
	}

	actor := payload.Actor
	if actor == "" {
		actor = "system"
	}

	order.Status = to

	oldStatus := from
	newStatus := to
	event := &models.OrderEvent{
		OrderID:    order.ID,
		EventType:  enums.OrderEventTypeStatusChanged,
		Visibility: visibility,
		OldStatus:  &oldStatus,
		NewStatus:  &newStatus,
		Actor:      actor,
	}
	if payload.Message != "" {
		event.Message = &payload.Message
	}
	return event, nil
}
