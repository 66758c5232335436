package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printdeskhq/printdesk-backend/api/middleware"
	"github.com/printdeskhq/printdesk-backend/api/responses"
	"github.com/printdeskhq/printdesk-backend/api/validators"
	internalorders "github.com/printdeskhq/printdesk-backend/internal/orders"
	"github.com/printdeskhq/printdesk-backend/internal/pricing"
	"github.com/printdeskhq/printdesk-backend/internal/statuses"
	"github.com/printdeskhq/printdesk-backend/pkg/db/models"
	"github.com/printdeskhq/printdesk-backend/pkg/enums"
	pkgerrors "github.com/printdeskhq/printdesk-backend/pkg/errors"
	"github.com/printdeskhq/printdesk-backend/pkg/logger"
	"github.com/printdeskhq/printdesk-backend/pkg/pagination"
)

type createOrderRequest struct {
	WorkingGroupID string                    `json:"working_group_id" validate:"required,uuid"`
	CustomerID     *string                   `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	Items          []pricing.LineItemRequest `json:"items" validate:"required,min=1,dive"`
	DiscountMode   string                    `json:"discount_mode,omitempty" validate:"omitempty,oneof=none fixed percent"`
	DiscountValue  float64                   `json:"discount_value,omitempty" validate:"omitempty,gte=0"`
	TaxMode        string                    `json:"tax_mode,omitempty" validate:"omitempty,oneof=none fixed percent"`
	TaxValue       float64                   `json:"tax_value,omitempty" validate:"omitempty,gte=0"`
	Shipping       float64                   `json:"shipping_amount,omitempty" validate:"omitempty,gte=0"`
	Notes          *string                   `json:"notes,omitempty"`
}

type updateOrderRequest struct {
	Items             *[]pricing.LineItemRequest `json:"items,omitempty" validate:"omitempty,min=1,dive"`
	DiscountMode      *string                    `json:"discount_mode,omitempty" validate:"omitempty,oneof=none fixed percent"`
	DiscountValue     *float64                   `json:"discount_value,omitempty" validate:"omitempty,gte=0"`
	TaxMode           *string                    `json:"tax_mode,omitempty" validate:"omitempty,oneof=none fixed percent"`
	TaxValue          *float64                   `json:"tax_value,omitempty" validate:"omitempty,gte=0"`
	Shipping          *float64                   `json:"shipping_amount,omitempty" validate:"omitempty,gte=0"`
	Notes             *string                    `json:"notes,omitempty"`
	Status            *string                    `json:"status,omitempty"`
	StatusMessage     string                     `json:"status_message,omitempty"`
	StatusVisibility  *string                    `json:"status_visibility,omitempty" validate:"omitempty,oneof=admin customer public"`
	EditLockedPricing bool                       `json:"edit_locked_pricing,omitempty"`
}

type changeStatusRequest struct {
	Status     string  `json:"status" validate:"required"`
	Message    string  `json:"message,omitempty"`
	Visibility *string `json:"visibility,omitempty" validate:"omitempty,oneof=admin customer public"`
}

type orderItemResponse struct {
	ID            uuid.UUID      `json:"id"`
	ProductID     int64          `json:"product_id"`
	VariantID     *int64         `json:"variant_id,omitempty"`
	SubvariantID  *int64         `json:"subvariant_id,omitempty"`
	Name          string         `json:"name"`
	Quantity      int            `json:"quantity"`
	Unit          string         `json:"unit"`
	PricingMethod string         `json:"pricing_method"`
	UnitPrice     float64        `json:"unit_price"`
	LineTotal     float64        `json:"line_total"`
	Fingerprint   *string        `json:"fingerprint,omitempty"`
	Options       map[string]any `json:"options,omitempty"`
	Meta          quoteItemMeta  `json:"meta"`
}

type orderResponse struct {
	ID             uuid.UUID           `json:"id"`
	WorkingGroupID uuid.UUID           `json:"working_group_id"`
	CustomerID     *uuid.UUID          `json:"customer_id,omitempty"`
	OrderNumber    int64               `json:"order_number"`
	Status         string              `json:"status"`
	Subtotal       float64             `json:"subtotal"`
	DiscountMode   string              `json:"discount_mode"`
	DiscountValue  float64             `json:"discount_value"`
	DiscountAmount float64             `json:"discount_amount"`
	TaxMode        string              `json:"tax_mode"`
	TaxValue       float64             `json:"tax_value"`
	TaxAmount      float64             `json:"tax_amount"`
	ShippingAmount float64             `json:"shipping_amount"`
	Total          float64             `json:"total"`
	Notes          *string             `json:"notes,omitempty"`
	Items          []orderItemResponse `json:"items"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

type orderListResponse struct {
	Orders     []orderResponse `json:"orders"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// CreateOrder prices the requested lines and persists a new order.
func CreateOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		workingGroupID, err := uuid.Parse(req.WorkingGroupID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid working group id"))
			return
		}

		var customerID *uuid.UUID
		if req.CustomerID != nil {
			parsed, parseErr := uuid.Parse(*req.CustomerID)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid customer id"))
				return
			}
			customerID = &parsed
		}

		discountMode, taxMode, err := parseAdjustmentModes(req.DiscountMode, req.TaxMode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), internalorders.CreateOrderInput{
			WorkingGroupID: workingGroupID,
			CustomerID:     customerID,
			Items:          req.Items,
			DiscountMode:   discountMode,
			DiscountValue:  req.DiscountValue,
			TaxMode:        taxMode,
			TaxValue:       req.TaxValue,
			Shipping:       req.Shipping,
			Notes:          req.Notes,
			Actor:          middleware.ActorFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, buildOrderResponse(order))
	}
}

// GetOrder returns one order with its priced items.
func GetOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID("orderID", chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetByID(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, translateOrderError(err))
			return
		}

		responses.WriteSuccess(w, buildOrderResponse(order))
	}
}

// UpdateOrder applies an admin edit: items, adjustments, notes, and optional
// status change in one transaction.
func UpdateOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID("orderID", chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalorders.UpdateOrderInput{
			Items:             req.Items,
			DiscountValue:     req.DiscountValue,
			TaxValue:          req.TaxValue,
			Shipping:          req.Shipping,
			Notes:             req.Notes,
			Status:            req.Status,
			StatusMessage:     req.StatusMessage,
			Actor:             middleware.ActorFromContext(r.Context()),
			EditLockedPricing: req.EditLockedPricing,
		}

		if req.DiscountMode != nil {
			mode, parseErr := enums.ParseAdjustmentMode(*req.DiscountMode)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid discount mode"))
				return
			}
			input.DiscountMode = &mode
		}
		if req.TaxMode != nil {
			mode, parseErr := enums.ParseAdjustmentMode(*req.TaxMode)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid tax mode"))
				return
			}
			input.TaxMode = &mode
		}
		if req.StatusVisibility != nil {
			visibility, parseErr := enums.ParseEventVisibility(*req.StatusVisibility)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid status visibility"))
				return
			}
			input.StatusVisibility = &visibility
		}

		order, err := svc.Update(r.Context(), orderID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, translateOrderError(err))
			return
		}

		responses.WriteSuccess(w, buildOrderResponse(order))
	}
}

// ChangeOrderStatus moves an order along the configured transition table.
func ChangeOrderStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID("orderID", chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req changeStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := statuses.TransitionPayload{
			Message: req.Message,
			Actor:   middleware.ActorFromContext(r.Context()),
		}
		if req.Visibility != nil {
			visibility, parseErr := enums.ParseEventVisibility(*req.Visibility)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid visibility"))
				return
			}
			payload.Visibility = &visibility
		}

		order, err := svc.ChangeStatus(r.Context(), orderID, strings.TrimSpace(req.Status), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, translateOrderError(err))
			return
		}

		responses.WriteSuccess(w, buildOrderResponse(order))
	}
}

// ListOrders pages orders for one working group, newest first.
func ListOrders(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawWorkingGroup := strings.TrimSpace(r.URL.Query().Get("working_group_id"))
		if rawWorkingGroup == "" {
			rawWorkingGroup = middleware.WorkingGroupIDFromContext(r.Context())
		}
		workingGroupID, err := uuid.Parse(rawWorkingGroup)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "working group id is required"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := internalorders.ListParams{
			WorkingGroupID: workingGroupID,
			Limit:          limit,
			Cursor:         strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
			params.Status = &status
		}
		if rawCustomer := strings.TrimSpace(r.URL.Query().Get("customer_id")); rawCustomer != "" {
			customerID, parseErr := uuid.Parse(rawCustomer)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid customer id"))
				return
			}
			params.CustomerID = &customerID
		}

		page, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := orderListResponse{
			Orders:     make([]orderResponse, 0, len(page.Orders)),
			NextCursor: page.NextCursor,
		}
		for i := range page.Orders {
			resp.Orders = append(resp.Orders, buildOrderResponse(&page.Orders[i]))
		}
		responses.WriteSuccess(w, resp)
	}
}

func translateOrderError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return err
}

func buildOrderResponse(order *models.Order) orderResponse {
	resp := orderResponse{
		ID:             order.ID,
		WorkingGroupID: order.WorkingGroupID,
		CustomerID:     order.CustomerID,
		OrderNumber:    order.OrderNumber,
		Status:         order.Status,
		Subtotal:       order.SubtotalAmount.InexactFloat64(),
		DiscountMode:   order.DiscountMode.String(),
		DiscountValue:  order.DiscountValue.InexactFloat64(),
		DiscountAmount: order.DiscountAmount.InexactFloat64(),
		TaxMode:        order.TaxMode.String(),
		TaxValue:       order.TaxValue.InexactFloat64(),
		TaxAmount:      order.TaxAmount.InexactFloat64(),
		ShippingAmount: order.ShippingAmount.InexactFloat64(),
		Total:          order.TotalAmount.InexactFloat64(),
		Notes:          order.Notes,
		Items:          make([]orderItemResponse, 0, len(order.Items)),
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}

	for i := range order.Items {
		resp.Items = append(resp.Items, buildOrderItemResponse(&order.Items[i]))
	}
	return resp
}

func buildOrderItemResponse(item *models.OrderItem) orderItemResponse {
	resp := orderItemResponse{
		ID:            item.ID,
		ProductID:     item.ProductID,
		VariantID:     item.VariantID,
		SubvariantID:  item.SubvariantID,
		Name:          item.Name,
		Quantity:      item.Quantity,
		Unit:          item.Unit,
		PricingMethod: item.PricingMethod.String(),
		UnitPrice:     item.UnitPrice.InexactFloat64(),
		LineTotal:     item.LineTotal.InexactFloat64(),
		Fingerprint:   item.Fingerprint,
		Options:       item.Options,
	}

	if item.PricingMethod == enums.PricingMethodRoll &&
		item.FixedAreaFt2 != nil && item.OffcutAreaFt2 != nil &&
		item.PricePerSqFt != nil && item.OffcutRate != nil {
		resp.Meta.Roll = &quoteRollMeta{
			FixedAreaFt2:  item.FixedAreaFt2.InexactFloat64(),
			OffcutAreaFt2: item.OffcutAreaFt2.InexactFloat64(),
			PricePerSqFt:  item.PricePerSqFt.InexactFloat64(),
			OffcutRate:    item.OffcutRate.InexactFloat64(),
		}
	}
	return resp
}
