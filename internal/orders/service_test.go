package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/printdeskhq/printdesk-backend/internal/pricing"
	"github.com/printdeskhq/printdesk-backend/internal/statuses"
	"github.com/printdeskhq/printdesk-backend/internal/timeline"
	"github.com/printdeskhq/printdesk-backend/pkg/db/models"
	"github.com/printdeskhq/printdesk-backend/pkg/enums"
	pkgerrors "github.com/printdeskhq/printdesk-backend/pkg/errors"
	"github.com/printdeskhq/printdesk-backend/pkg/outbox"
)

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeRepository struct {
	orders map[uuid.UUID]*models.Order
	items  map[uuid.UUID]*models.OrderItem
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		orders: map[uuid.UUID]*models.Order{},
		items:  map[uuid.UUID]*models.OrderItem{},
	}
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	f.orders[order.ID] = order
	return nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	items, _ := f.ListItems(ctx, id)
	order.Items = items
	return order, nil
}

func (f *fakeRepository) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Order, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeRepository) Update(ctx context.Context, order *models.Order) error {
	f.orders[order.ID] = order
	return nil
}

func (f *fakeRepository) List(ctx context.Context, filter ListFilter) ([]models.Order, error) {
	var out []models.Order
	for _, order := range f.orders {
		if order.WorkingGroupID != filter.WorkingGroupID {
			continue
		}
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		out = append(out, *order)
	}
	return out, nil
}

func (f *fakeRepository) NextOrderNumber(ctx context.Context, workingGroupID uuid.UUID) (int64, error) {
	return int64(1001 + len(f.orders)), nil
}

func (f *fakeRepository) ListItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	var out []models.OrderItem
	for _, item := range f.items {
		if item.OrderID == orderID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeRepository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		row := items[i]
		f.items[row.ID] = &row
	}
	return nil
}

func (f *fakeRepository) UpdateItem(ctx context.Context, item *models.OrderItem) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeRepository) DeleteItems(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(f.items, id)
	}
	return nil
}

type fakePricer struct {
	quote *pricing.Quote
	err   error
	calls int
}

func (f *fakePricer) Compute(ctx context.Context, requests []pricing.LineItemRequest) (*pricing.Quote, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.quote, nil
}

type fakeTimelineRepo struct {
	events []*models.OrderEvent
}

func (f *fakeTimelineRepo) WithTx(tx *gorm.DB) timeline.Repository { return f }

func (f *fakeTimelineRepo) Create(ctx context.Context, event *models.OrderEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeTimelineRepo) ListByOrderID(ctx context.Context, orderID uuid.UUID, filter timeline.ListFilter) ([]models.OrderEvent, error) {
	return nil, nil
}

type fakeOutbox struct {
	events []outbox.DomainEvent
}

func (f *fakeOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	f.events = append(f.events, event)
	return nil
}

type ordersFixture struct {
	svc      Service
	repo     *fakeRepository
	pricer   *fakePricer
	timeline *fakeTimelineRepo
	outbox   *fakeOutbox
}

func newOrdersFixture(t *testing.T) *ordersFixture {
	t.Helper()

	catalog, err := statuses.DefaultCatalog()
	if err != nil {
		t.Fatalf("unexpected catalog error: %v", err)
	}
	machine, err := statuses.NewMachine(catalog)
	if err != nil {
		t.Fatalf("unexpected machine error: %v", err)
	}

	repo := newFakeRepository()
	timelineRepo := &fakeTimelineRepo{}
	timelineSvc, err := timeline.NewService(timelineRepo)
	if err != nil {
		t.Fatalf("unexpected timeline error: %v", err)
	}
	engine := &fakePricer{quote: standardQuote()}
	publisher := &fakeOutbox{}

	svc, err := NewService(fakeTxRunner{}, repo, engine, machine, timelineSvc, publisher)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return &ordersFixture{
		svc:      svc,
		repo:     repo,
		pricer:   engine,
		timeline: timelineRepo,
		outbox:   publisher,
	}
}

func standardQuote() *pricing.Quote {
	return &pricing.Quote{
		Items: []pricing.ComputedLineItem{
			{
				ProductID:     1,
				Name:          "Business Cards",
				Quantity:      2,
				Unit:          "box",
				PricingMethod: enums.PricingMethodStandard,
				UnitPrice:     decimal.NewFromInt(500),
				LineTotal:     decimal.NewFromInt(1000),
			},
		},
		Subtotal: decimal.NewFromInt(1000),
	}
}

func TestService_Create(t *testing.T) {
	fx := newOrdersFixture(t)

	order, err := fx.svc.Create(context.Background(), CreateOrderInput{
		WorkingGroupID: uuid.New(),
		Items:          []pricing.LineItemRequest{{ProductID: 1, Quantity: 2}},
		DiscountMode:   enums.AdjustmentModePercent,
		DiscountValue:  10,
		TaxMode:        enums.AdjustmentModePercent,
		TaxValue:       15,
		Shipping:       50,
		Actor:          "admin:jane",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if order.Status != "pending" {
		t.Fatalf("unexpected initial status: %s", order.Status)
	}
	if order.SubtotalAmount.StringFixed(2) != "1000.00" {
		t.Fatalf("unexpected subtotal: %s", order.SubtotalAmount)
	}
	if order.DiscountAmount.StringFixed(2) != "100.00" {
		t.Fatalf("unexpected discount: %s", order.DiscountAmount)
	}
	if order.TaxAmount.StringFixed(2) != "135.00" {
		t.Fatalf("unexpected tax: %s", order.TaxAmount)
	}
	if order.TotalAmount.StringFixed(2) != "1085.00" {
		t.Fatalf("unexpected total: %s", order.TotalAmount)
	}
	if len(order.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(order.Items))
	}

	if len(fx.timeline.events) != 1 || fx.timeline.events[0].EventType != enums.OrderEventTypeOrderCreated {
		t.Fatalf("expected order_created event, got %+v", fx.timeline.events)
	}
	if len(fx.outbox.events) != 1 || fx.outbox.events[0].EventType != enums.EventOrderTotalsRecomputed {
		t.Fatalf("expected totals outbox event, got %+v", fx.outbox.events)
	}
}

func TestService_CreateRequiresWorkingGroup(t *testing.T) {
	fx := newOrdersFixture(t)

	_, err := fx.svc.Create(context.Background(), CreateOrderInput{
		Items: []pricing.LineItemRequest{{ProductID: 1, Quantity: 1}},
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_UpdateRepricesItems(t *testing.T) {
	fx := newOrdersFixture(t)

	order, err := fx.svc.Create(context.Background(), CreateOrderInput{
		WorkingGroupID: uuid.New(),
		Items:          []pricing.LineItemRequest{{ProductID: 1, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	originalItemID := order.Items[0].ID

	fx.pricer.quote = &pricing.Quote{
		Items: []pricing.ComputedLineItem{
			{
				ProductID:     1,
				Name:          "Business Cards",
				Quantity:      5,
				Unit:          "box",
				PricingMethod: enums.PricingMethodStandard,
				UnitPrice:     decimal.NewFromInt(500),
				LineTotal:     decimal.NewFromInt(2500),
			},
		},
		Subtotal: decimal.NewFromInt(2500),
	}

	items := []pricing.LineItemRequest{{ProductID: 1, Quantity: 5}}
	updated, err := fx.svc.Update(context.Background(), order.ID, UpdateOrderInput{
		Items: &items,
		Actor: "admin:jane",
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}

	if updated.SubtotalAmount.StringFixed(2) != "2500.00" {
		t.Fatalf("unexpected subtotal: %s", updated.SubtotalAmount)
	}
	if updated.TotalAmount.StringFixed(2) != "2500.00" {
		t.Fatalf("unexpected total: %s", updated.TotalAmount)
	}
	if len(updated.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(updated.Items))
	}
	if updated.Items[0].ID != originalItemID {
		t.Fatal("matching item must keep its identity across edits")
	}
	if updated.Items[0].Quantity != 5 {
		t.Fatalf("item not re-priced: qty=%d", updated.Items[0].Quantity)
	}
}

func TestService_UpdateStatusChange(t *testing.T) {
	fx := newOrdersFixture(t)

	order, err := fx.svc.Create(context.Background(), CreateOrderInput{
		WorkingGroupID: uuid.New(),
		Items:          []pricing.LineItemRequest{{ProductID: 1, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	status := "confirmed"
	updated, err := fx.svc.Update(context.Background(), order.ID, UpdateOrderInput{
		Status: &status,
		Actor:  "admin:jane",
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Status != "confirmed" {
		t.Fatalf("status not applied: %s", updated.Status)
	}

	var statusEvents int
	for _, event := range fx.timeline.events {
		if event.EventType == enums.OrderEventTypeStatusChanged {
			statusEvents++
		}
	}
	if statusEvents != 1 {
		t.Fatalf("expected 1 status_changed event, got %d", statusEvents)
	}

	var statusOutbox int
	for _, event := range fx.outbox.events {
		if event.EventType == enums.EventOrderStatusChanged {
			statusOutbox++
		}
	}
	if statusOutbox != 1 {
		t.Fatalf("expected 1 status outbox event, got %d", statusOutbox)
	}
}

func TestService_UpdateInvalidTransition(t *testing.T) {
	fx := newOrdersFixture(t)

	order, err := fx.svc.Create(context.Background(), CreateOrderInput{
		WorkingGroupID: uuid.New(),
		Items:          []pricing.LineItemRequest{{ProductID: 1, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	status := "completed"
	_, err = fx.svc.Update(context.Background(), order.ID, UpdateOrderInput{Status: &status})
	if !pkgerrors.IsCode(err, pkgerrors.CodeInvalidTransition) {
		t.Fatalf("expected invalid transition error, got %v", err)
	}
}

func TestService_UpdateEnforcesLocks(t *testing.T) {
	fx := newOrdersFixture(t)

	order, err := fx.svc.Create(context.Background(), CreateOrderInput{
		WorkingGroupID: uuid.New(),
		Items:          []pricing.LineItemRequest{{ProductID: 1, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	// in_production locks pricing and items.
	fx.repo.orders[order.ID].Status = "in_production"

	items := []pricing.LineItemRequest{{ProductID: 1, Quantity: 9}}
	_, err = fx.svc.Update(context.Background(), order.ID, UpdateOrderInput{Items: &items})
	if !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}

	shipping := 25.0
	_, err = fx.svc.Update(context.Background(), order.ID, UpdateOrderInput{Shipping: &shipping})
	if !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict for pricing edit, got %v", err)
	}

	// The explicit bypass permits the edit.
	_, err = fx.svc.Update(context.Background(), order.ID, UpdateOrderInput{
		Items:             &items,
		EditLockedPricing: true,
	})
	if err != nil {
		t.Fatalf("bypass should permit the edit: %v", err)
	}
}

func TestService_ChangeStatus(t *testing.T) {
	fx := newOrdersFixture(t)

	order, err := fx.svc.Create(context.Background(), CreateOrderInput{
		WorkingGroupID: uuid.New(),
		Items:          []pricing.LineItemRequest{{ProductID: 1, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	updated, err := fx.svc.ChangeStatus(context.Background(), order.ID, "confirmed", statuses.TransitionPayload{
		Actor: "admin:jane",
	})
	if err != nil {
		t.Fatalf("ChangeStatus error: %v", err)
	}
	if updated.Status != "confirmed" {
		t.Fatalf("status not applied: %s", updated.Status)
	}
	if fx.repo.orders[order.ID].Status != "confirmed" {
		t.Fatal("status not persisted")
	}
}

func TestService_ListValidatesStatus(t *testing.T) {
	fx := newOrdersFixture(t)

	bogus := "warp_speed"
	_, err := fx.svc.List(context.Background(), ListParams{
		WorkingGroupID: uuid.New(),
		Status:         &bogus,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
