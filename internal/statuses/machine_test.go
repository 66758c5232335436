package statuses

import (
	"testing"

	"github.com/google/uuid"

	"github.com/printdeskhq/printdesk-backend/pkg/db/models"
	"github.com/printdeskhq/printdesk-backend/pkg/enums"
	pkgerrors "github.com/printdeskhq/printdesk-backend/pkg/errors"
)

func newTestMachine(t *testing.T) *Machine {
	t.Helper()
	catalog, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("unexpected catalog error: %v", err)
	}
	machine, err := NewMachine(catalog)
	if err != nil {
		t.Fatalf("unexpected machine error: %v", err)
	}
	return machine
}

func TestMachine_Transition(t *testing.T) {
	machine := newTestMachine(t)
	order := &models.Order{ID: uuid.New(), Status: "pending"}

	event, err := machine.Transition(order, "confirmed", TransitionPayload{Actor: "admin:jane"})
	if err != nil {
		t.Fatalf("Transition error: %v", err)
	}

	if order.Status != "confirmed" {
		t.Fatalf("order status not updated: %s", order.Status)
	}
	if event.EventType != enums.OrderEventTypeStatusChanged {
		t.Fatalf("unexpected event type: %s", event.EventType)
	}
	if event.OldStatus == nil || *event.OldStatus != "pending" {
		t.Fatalf("unexpected old status: %v", event.OldStatus)
	}
	if event.NewStatus == nil || *event.NewStatus != "confirmed" {
		t.Fatalf("unexpected new status: %v", event.NewStatus)
	}
	if event.Visibility != enums.EventVisibilityCustomer {
		t.Fatalf("expected target-state visibility, got %s", event.Visibility)
	}
	if event.Actor != "admin:jane" {
		t.Fatalf("unexpected actor: %s", event.Actor)
	}
}

func TestMachine_TransitionRejectsInvalidEdge(t *testing.T) {
	machine := newTestMachine(t)
	order := &models.Order{ID: uuid.New(), Status: "pending"}

	_, err := machine.Transition(order, "completed", TransitionPayload{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeInvalidTransition) {
		t.Fatalf("expected invalid transition error, got %v", err)
	}
	if order.Status != "pending" {
		t.Fatalf("failed transition must not mutate the order: %s", order.Status)
	}
}

func TestMachine_TerminalStatesRejectEverything(t *testing.T) {
	machine := newTestMachine(t)
	catalog := machine.Catalog()

	for _, terminal := range []string{"completed", "cancelled"} {
		if !catalog.IsTerminal(terminal) {
			t.Fatalf("%s should be terminal", terminal)
		}
		for _, target := range catalog.Keys() {
			if target == terminal {
				continue
			}
			order := &models.Order{ID: uuid.New(), Status: terminal}
			_, err := machine.Transition(order, target, TransitionPayload{Message: "note"})
			if !pkgerrors.IsCode(err, pkgerrors.CodeInvalidTransition) {
				t.Fatalf("transition %s -> %s should fail, got %v", terminal, target, err)
			}
		}
	}
}

func TestMachine_TransitionRequiresNote(t *testing.T) {
	machine := newTestMachine(t)
	order := &models.Order{ID: uuid.New(), Status: "pending"}

	_, err := machine.Transition(order, "on_hold", TransitionPayload{Message: "  "})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	event, err := machine.Transition(order, "on_hold", TransitionPayload{Message: "waiting on artwork"})
	if err != nil {
		t.Fatalf("Transition error: %v", err)
	}
	if event.Message == nil || *event.Message != "waiting on artwork" {
		t.Fatalf("unexpected message: %v", event.Message)
	}
}

func TestMachine_TransitionVisibilityOverride(t *testing.T) {
	machine := newTestMachine(t)
	order := &models.Order{ID: uuid.New(), Status: "pending"}

	visibility := enums.EventVisibilityAdmin
	event, err := machine.Transition(order, "confirmed", TransitionPayload{Visibility: &visibility})
	if err != nil {
		t.Fatalf("Transition error: %v", err)
	}
	if event.Visibility != enums.EventVisibilityAdmin {
		t.Fatalf("expected visibility override, got %s", event.Visibility)
	}
}

func TestMachine_TransitionUnknownStatus(t *testing.T) {
	machine := newTestMachine(t)
	order := &models.Order{ID: uuid.New(), Status: "pending"}

	_, err := machine.Transition(order, "teleported", TransitionPayload{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMachine_DefaultActor(t *testing.T) {
	machine := newTestMachine(t)
	order := &models.Order{ID: uuid.New(), Status: "pending"}

	event, err := machine.Transition(order, "confirmed", TransitionPayload{})
	if err != nil {
		t.Fatalf("Transition error: %v", err)
	}
	if event.Actor != "system" {
		t.Fatalf("expected system actor, got %s", event.Actor)
	}
}
