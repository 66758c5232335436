package timeline

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printdeskhq/printdesk-backend/pkg/db/models"
	"github.com/printdeskhq/printdesk-backend/pkg/enums"
)

type fakeRepository struct {
	createFn func(ctx context.Context, event *models.OrderEvent) error
	listFn   func(ctx context.Context, orderID uuid.UUID, filter ListFilter) ([]models.OrderEvent, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, event *models.OrderEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeRepository) ListByOrderID(ctx context.Context, orderID uuid.UUID, filter ListFilter) ([]models.OrderEvent, error) {
	if f.listFn != nil {
		return f.listFn(ctx, orderID, filter)
	}
	return nil, nil
}

func TestService_Record(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	var created *models.OrderEvent
	repo.createFn = func(ctx context.Context, event *models.OrderEvent) error {
		created = event
		return nil
	}

	orderID := uuid.New()
	message := "payment received"
	got, err := svc.Record(context.Background(), RecordEventInput{
		OrderID:    orderID,
		EventType:  enums.OrderEventTypePaymentReceived,
		Visibility: enums.EventVisibilityCustomer,
		Message:    &message,
		Actor:      "admin:jane",
	})
	if err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if created == nil {
		t.Fatal("expected event to be created")
	}
	if created.OrderID != orderID || created.EventType != enums.OrderEventTypePaymentReceived {
		t.Fatalf("unexpected event data: %+v", created)
	}
	if created.Visibility != enums.EventVisibilityCustomer {
		t.Fatalf("unexpected visibility: %s", created.Visibility)
	}
	if created.Message == nil || *created.Message != message {
		t.Fatalf("unexpected message: %v", created.Message)
	}
	if got != created {
		t.Fatal("service should return the created event")
	}
}

func TestService_RecordDefaults(t *testing.T) {
	repo := &fakeRepository{}
	svc, _ := NewService(repo)

	var created *models.OrderEvent
	repo.createFn = func(ctx context.Context, event *models.OrderEvent) error {
		created = event
		return nil
	}

	_, err := svc.Record(context.Background(), RecordEventInput{
		OrderID:   uuid.New(),
		EventType: enums.OrderEventTypeOrderCreated,
	})
	if err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if created.Visibility != enums.EventVisibilityAdmin {
		t.Fatalf("expected admin default visibility, got %s", created.Visibility)
	}
	if created.Actor != "system" {
		t.Fatalf("expected system default actor, got %s", created.Actor)
	}
}

func TestService_RecordValidation(t *testing.T) {
	svc, _ := NewService(&fakeRepository{})

	tests := []struct {
		name  string
		input RecordEventInput
	}{
		{
			name: "missing order id",
			input: RecordEventInput{
				EventType: enums.OrderEventTypeOrderCreated,
			},
		},
		{
			name: "invalid event type",
			input: RecordEventInput{
				OrderID:   uuid.New(),
				EventType: "order_teleported",
			},
		},
		{
			name: "invalid visibility",
			input: RecordEventInput{
				OrderID:    uuid.New(),
				EventType:  enums.OrderEventTypeOrderCreated,
				Visibility: "secret",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Record(context.Background(), tc.input); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestService_ListByOrderPaging(t *testing.T) {
	repo := &fakeRepository{}
	svc, _ := NewService(repo)

	orderID := uuid.New()
	now := time.Now().UTC()
	events := make([]models.OrderEvent, 0, 4)
	for i := 0; i < 4; i++ {
		events = append(events, models.OrderEvent{
			ID:        uuid.New(),
			OrderID:   orderID,
			EventType: enums.OrderEventTypeOrderUpdated,
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		})
	}

	var gotFilter ListFilter
	repo.listFn = func(ctx context.Context, id uuid.UUID, filter ListFilter) ([]models.OrderEvent, error) {
		gotFilter = filter
		return events, nil
	}

	page, err := svc.ListByOrder(context.Background(), orderID, ListParams{Limit: 3})
	if err != nil {
		t.Fatalf("ListByOrder error: %v", err)
	}
	if gotFilter.Limit != 4 {
		t.Fatalf("expected buffered limit 4, got %d", gotFilter.Limit)
	}
	if len(page.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(page.Events))
	}
	if page.NextCursor == "" {
		t.Fatal("expected next cursor when more rows exist")
	}

	repo.listFn = func(ctx context.Context, id uuid.UUID, filter ListFilter) ([]models.OrderEvent, error) {
		return events[:2], nil
	}
	page, err = svc.ListByOrder(context.Background(), orderID, ListParams{Limit: 3})
	if err != nil {
		t.Fatalf("ListByOrder error: %v", err)
	}
	if page.NextCursor != "" {
		t.Fatal("expected no cursor on the final page")
	}
}

func TestService_ListByOrderBadCursor(t *testing.T) {
	svc, _ := NewService(&fakeRepository{})

	_, err := svc.ListByOrder(context.Background(), uuid.New(), ListParams{Cursor: "not-base64!!"})
	if err == nil {
		t.Fatal("expected cursor parse error")
	}
}
