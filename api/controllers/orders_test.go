package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/printdeskhq/printdesk-backend/api/middleware"
	internalorders "github.com/printdeskhq/printdesk-backend/internal/orders"
	"github.com/printdeskhq/printdesk-backend/internal/statuses"
	"github.com/printdeskhq/printdesk-backend/pkg/db/models"
	"github.com/printdeskhq/printdesk-backend/pkg/enums"
)

type fakeOrdersService struct {
	createFn       func(ctx context.Context, input internalorders.CreateOrderInput) (*models.Order, error)
	updateFn       func(ctx context.Context, orderID uuid.UUID, input internalorders.UpdateOrderInput) (*models.Order, error)
	changeStatusFn func(ctx context.Context, orderID uuid.UUID, to string, payload statuses.TransitionPayload) (*models.Order, error)
	getFn          func(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	listFn         func(ctx context.Context, params internalorders.ListParams) (*internalorders.OrderPage, error)
}

func (f *fakeOrdersService) Create(ctx context.Context, input internalorders.CreateOrderInput) (*models.Order, error) {
	if f.createFn != nil {
		return f.createFn(ctx, input)
	}
	return nil, nil
}

func (f *fakeOrdersService) Update(ctx context.Context, orderID uuid.UUID, input internalorders.UpdateOrderInput) (*models.Order, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, orderID, input)
	}
	return nil, nil
}

func (f *fakeOrdersService) ChangeStatus(ctx context.Context, orderID uuid.UUID, to string, payload statuses.TransitionPayload) (*models.Order, error) {
	if f.changeStatusFn != nil {
		return f.changeStatusFn(ctx, orderID, to, payload)
	}
	return nil, nil
}

func (f *fakeOrdersService) GetByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if f.getFn != nil {
		return f.getFn(ctx, orderID)
	}
	return nil, nil
}

func (f *fakeOrdersService) List(ctx context.Context, params internalorders.ListParams) (*internalorders.OrderPage, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return &internalorders.OrderPage{}, nil
}

func sampleOrder(workingGroupID uuid.UUID) *models.Order {
	return &models.Order{
		ID:             uuid.New(),
		WorkingGroupID: workingGroupID,
		OrderNumber:    1001,
		Status:         "pending",
		SubtotalAmount: decimal.NewFromInt(1000),
		DiscountMode:   enums.AdjustmentModePercent,
		DiscountValue:  decimal.NewFromInt(10),
		DiscountAmount: decimal.NewFromInt(100),
		TaxMode:        enums.AdjustmentModePercent,
		TaxValue:       decimal.NewFromInt(15),
		TaxAmount:      decimal.NewFromInt(135),
		ShippingAmount: decimal.NewFromInt(50),
		TotalAmount:    decimal.NewFromInt(1085),
		Items: []models.OrderItem{{
			ID:            uuid.New(),
			ProductID:     1,
			Name:          "Banner",
			Quantity:      2,
			Unit:          "each",
			PricingMethod: enums.PricingMethodStandard,
			UnitPrice:     decimal.NewFromInt(500),
			LineTotal:     decimal.NewFromInt(1000),
		}},
	}
}

func TestCreateOrderSuccess(t *testing.T) {
	workingGroupID := uuid.New()
	svc := &fakeOrdersService{
		createFn: func(ctx context.Context, input internalorders.CreateOrderInput) (*models.Order, error) {
			if input.WorkingGroupID != workingGroupID {
				t.Fatalf("unexpected working group %s", input.WorkingGroupID)
			}
			if input.Actor != "admin@shop" {
				t.Fatalf("unexpected actor %q", input.Actor)
			}
			if input.DiscountMode != enums.AdjustmentModePercent {
				t.Fatalf("unexpected discount mode %s", input.DiscountMode)
			}
			return sampleOrder(workingGroupID), nil
		},
	}

	body := `{"working_group_id":"` + workingGroupID.String() + `","items":[{"product_id":1,"quantity":2}],"discount_mode":"percent","discount_value":10,"tax_mode":"percent","tax_value":15,"shipping_amount":50}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	req = req.WithContext(middleware.WithActor(req.Context(), "admin@shop"))
	resp := httptest.NewRecorder()

	CreateOrder(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data orderResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Total != 1085 {
		t.Fatalf("total = %v, want 1085", envelope.Data.Total)
	}
	if len(envelope.Data.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(envelope.Data.Items))
	}
}

func TestGetOrderNotFound(t *testing.T) {
	svc := &fakeOrdersService{
		getFn: func(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}

	orderID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+orderID.String(), nil)
	req = addRouteParam(req, "orderID", orderID.String())
	resp := httptest.NewRecorder()

	GetOrder(svc, testLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestChangeOrderStatusPassesPayload(t *testing.T) {
	orderID := uuid.New()
	svc := &fakeOrdersService{
		changeStatusFn: func(ctx context.Context, id uuid.UUID, to string, payload statuses.TransitionPayload) (*models.Order, error) {
			if id != orderID {
				t.Fatalf("unexpected order %s", id)
			}
			if to != "confirmed" {
				t.Fatalf("unexpected target %q", to)
			}
			if payload.Message != "ready to print" {
				t.Fatalf("unexpected message %q", payload.Message)
			}
			if payload.Visibility == nil || *payload.Visibility != enums.EventVisibilityCustomer {
				t.Fatalf("unexpected visibility %v", payload.Visibility)
			}
			order := sampleOrder(uuid.New())
			order.Status = to
			return order, nil
		},
	}

	body := `{"status":"confirmed","message":"ready to print","visibility":"customer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/status", strings.NewReader(body))
	req = addRouteParam(req, "orderID", orderID.String())
	resp := httptest.NewRecorder()

	ChangeOrderStatus(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}

func TestUpdateOrderInvalidMode(t *testing.T) {
	orderID := uuid.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/"+orderID.String(), strings.NewReader(`{"discount_mode":"half-off"}`))
	req = addRouteParam(req, "orderID", orderID.String())
	resp := httptest.NewRecorder()

	UpdateOrder(&fakeOrdersService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestListOrdersRequiresWorkingGroup(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()

	ListOrders(&fakeOrdersService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
