package orders

import (
	"context"
	"fmt"

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
	"github.com/printdeskhq/printdesk-backend/pkg/pagination"
	"github.com/printdeskhq/printdesk-backend/pkg/types"
)

const initialStatus = "pending"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type pricer interface {
	Compute(ctx context.Context, requests []pricing.LineItemRequest) (*pricing.Quote, error)
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service orchestrates order writes: pricing, totals, status transitions, and
// the audit trail, all inside one transaction per operation.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Update(ctx context.Context, orderID uuid.UUID, input UpdateOrderInput) (*models.Order, error)
	ChangeStatus(ctx context.Context, orderID uuid.UUID, to string, payload statuses.TransitionPayload) (*models.Order, error)
	GetByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, params ListParams) (*OrderPage, error)
}

// OrderPage is one page of orders, newest first.
type OrderPage struct {
	Orders     []models.Order
	NextCursor string
}

type service struct {
	tx       txRunner
	repo     Repository
	pricer   pricer
	machine  *statuses.Machine
	timeline timeline.Service
	outbox   outboxPublisher
}

// NewService wires the orders service.
func NewService(
	tx txRunner,
	repo Repository,
	engine pricer,
	machine *statuses.Machine,
	timelineSvc timeline.Service,
	publisher outboxPublisher,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if engine == nil {
		return nil, fmt.Errorf("pricing engine required")
	}
	if machine == nil {
		return nil, fmt.Errorf("status machine required")
	}
	if timelineSvc == nil {
		return nil, fmt.Errorf("timeline service required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		tx:       tx,
		repo:     repo,
		pricer:   engine,
		machine:  machine,
		timeline: timelineSvc,
		outbox:   publisher,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.WorkingGroupID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "working group id is required")
	}
	if input.DiscountMode == "" {
		input.DiscountMode = enums.AdjustmentModeNone
	}
	if input.TaxMode == "" {
		input.TaxMode = enums.AdjustmentModeNone
	}
	if err := validateAdjustments(input.DiscountMode, input.TaxMode); err != nil {
		return nil, err
	}

	quote, err := s.pricer.Compute(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	cascade := pricing.ApplyCascade(pricing.CascadeInput{
		Subtotal:      quote.Subtotal,
		DiscountMode:  input.DiscountMode,
		DiscountValue: decimal.NewFromFloat(input.DiscountValue),
		TaxMode:       input.TaxMode,
		TaxValue:      decimal.NewFromFloat(input.TaxValue),
		Shipping:      decimal.NewFromFloat(input.Shipping),
	})

	var order *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		number, err := repo.NextOrderNumber(ctx, input.WorkingGroupID)
		if err != nil {
			return err
		}

		order = &models.Order{
			WorkingGroupID: input.WorkingGroupID,
			CustomerID:     input.CustomerID,
			OrderNumber:    number,
			Status:         initialStatus,
			SubtotalAmount: quote.Subtotal,
			DiscountMode:   input.DiscountMode,
			DiscountValue:  decimal.NewFromFloat(input.DiscountValue).Round(2),
			DiscountAmount: cascade.Discount,
			TaxMode:        input.TaxMode,
			TaxValue:       decimal.NewFromFloat(input.TaxValue).Round(2),
			TaxAmount:      cascade.Tax,
			ShippingAmount: cascade.Shipping,
			TotalAmount:    cascade.Total,
			Notes:          input.Notes,
		}
		if err := repo.Create(ctx, order); err != nil {
			return err
		}

		plan := diffItems(order.ID, nil, quote.Items)
		if err := repo.CreateItems(ctx, plan.creates); err != nil {
			return err
		}

		items, err := repo.ListItems(ctx, order.ID)
		if err != nil {
			return err
		}
		order.Items = items

		if _, err := s.timeline.WithTx(tx).Record(ctx, timeline.RecordEventInput{
			OrderID:   order.ID,
			EventType: enums.OrderEventTypeOrderCreated,
			Data: types.JSONMap{
				"order_number": order.OrderNumber,
				"total":        order.TotalAmount.InexactFloat64(),
			},
			Actor: input.Actor,
		}); err != nil {
			return err
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderTotalsRecomputed,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         input.Actor,
			Data:          totalsPayload(order),
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Update applies an admin edit as one atomic transaction: re-price items if
// provided, recompute the cascade, and run any status change through the
// state machine. Lock flags on the order's current status gate pricing and
// item edits unless the caller holds the explicit bypass.
func (s *service) Update(ctx context.Context, orderID uuid.UUID, input UpdateOrderInput) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.GetByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}

		pricingEdit := input.DiscountMode != nil || input.DiscountValue != nil ||
			input.TaxMode != nil || input.TaxValue != nil || input.Shipping != nil
		itemsEdit := input.Items != nil

		if err := s.enforceLocks(current, pricingEdit, itemsEdit, input.EditLockedPricing); err != nil {
			return err
		}

		subtotal := current.SubtotalAmount
		if itemsEdit {
			quote, err := s.pricer.Compute(ctx, *input.Items)
			if err != nil {
				return err
			}

			plan := diffItems(current.ID, current.Items, quote.Items)
			if err := repo.DeleteItems(ctx, plan.deletes); err != nil {
				return err
			}
			for _, item := range plan.updates {
				if err := repo.UpdateItem(ctx, item); err != nil {
					return err
				}
			}
			if err := repo.CreateItems(ctx, plan.creates); err != nil {
				return err
			}
			subtotal = quote.Subtotal
		}

		if input.DiscountMode != nil {
			current.DiscountMode = *input.DiscountMode
		}
		if input.DiscountValue != nil {
			current.DiscountValue = decimal.NewFromFloat(*input.DiscountValue).Round(2)
		}
		if input.TaxMode != nil {
			current.TaxMode = *input.TaxMode
		}
		if input.TaxValue != nil {
			current.TaxValue = decimal.NewFromFloat(*input.TaxValue).Round(2)
		}
		if err := validateAdjustments(current.DiscountMode, current.TaxMode); err != nil {
			return err
		}

		shipping := current.ShippingAmount
		if input.Shipping != nil {
			shipping = decimal.NewFromFloat(*input.Shipping)
		}

		cascade := pricing.ApplyCascade(pricing.CascadeInput{
			Subtotal:      subtotal,
			DiscountMode:  current.DiscountMode,
			DiscountValue: current.DiscountValue,
			TaxMode:       current.TaxMode,
			TaxValue:      current.TaxValue,
			Shipping:      shipping,
		})
		current.SubtotalAmount = subtotal
		current.DiscountAmount = cascade.Discount
		current.TaxAmount = cascade.Tax
		current.ShippingAmount = cascade.Shipping
		current.TotalAmount = cascade.Total

		if input.Notes != nil {
			current.Notes = input.Notes
		}

		var statusEvent *models.OrderEvent
		if input.Status != nil && *input.Status != current.Status {
			statusEvent, err = s.machine.Transition(current, *input.Status, statuses.TransitionPayload{
				Message:    input.StatusMessage,
				Visibility: input.StatusVisibility,
				Actor:      input.Actor,
			})
			if err != nil {
				return err
			}
		}

		if err := repo.Update(ctx, current); err != nil {
			return err
		}

		items, err := repo.ListItems(ctx, current.ID)
		if err != nil {
			return err
		}
		current.Items = items

		timelineTx := s.timeline.WithTx(tx)
		if statusEvent != nil {
			if err := timelineTx.Append(ctx, statusEvent); err != nil {
				return err
			}
			if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventOrderStatusChanged,
				AggregateType: enums.AggregateOrder,
				AggregateID:   current.ID,
				Actor:         input.Actor,
				Data: map[string]any{
					"old_status": *statusEvent.OldStatus,
					"new_status": *statusEvent.NewStatus,
				},
			}); err != nil {
				return err
			}
		}

		if _, err := timelineTx.Record(ctx, timeline.RecordEventInput{
			OrderID:   current.ID,
			EventType: enums.OrderEventTypeOrderUpdated,
			Data: types.JSONMap{
				"subtotal": current.SubtotalAmount.InexactFloat64(),
				"total":    current.TotalAmount.InexactFloat64(),
			},
			Actor: input.Actor,
		}); err != nil {
			return err
		}

		if pricingEdit || itemsEdit {
			if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventOrderTotalsRecomputed,
				AggregateType: enums.AggregateOrder,
				AggregateID:   current.ID,
				Actor:         input.Actor,
				Data:          totalsPayload(current),
			}); err != nil {
				return err
			}
		}

		order = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ChangeStatus runs a bare status transition without touching pricing.
func (s *service) ChangeStatus(ctx context.Context, orderID uuid.UUID, to string, payload statuses.TransitionPayload) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.GetByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}

		event, err := s.machine.Transition(current, to, payload)
		if err != nil {
			return err
		}

		if err := repo.Update(ctx, current); err != nil {
			return err
		}
		if err := s.timeline.WithTx(tx).Append(ctx, event); err != nil {
			return err
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   current.ID,
			Actor:         event.Actor,
			Data: map[string]any{
				"old_status": *event.OldStatus,
				"new_status": *event.NewStatus,
			},
		}); err != nil {
			return err
		}

		order = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) GetByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	return s.repo.GetByID(ctx, orderID)
}

func (s *service) List(ctx context.Context, params ListParams) (*OrderPage, error) {
	if params.WorkingGroupID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "working group id is required")
	}
	if params.Status != nil {
		if _, ok := s.machine.Catalog().Get(*params.Status); !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("unknown status %q", *params.Status))
		}
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, ListFilter{
		WorkingGroupID: params.WorkingGroupID,
		Status:         params.Status,
		CustomerID:     params.CustomerID,
		Limit:          pagination.LimitWithBuffer(params.Limit),
		Cursor:         cursor,
	})
	if err != nil {
		return nil, err
	}

	page := &OrderPage{Orders: rows}
	if len(rows) > limit {
		page.Orders = rows[:limit]
		last := page.Orders[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}

// enforceLocks gates pricing and item edits on the current status's lock
// flags. The bypass mirrors an explicit admin permission, not a default.
func (s *service) enforceLocks(order *models.Order, pricingEdit, itemsEdit, bypass bool) error {
	if bypass || (!pricingEdit && !itemsEdit) {
		return nil
	}

	def, ok := s.machine.Catalog().Get(order.Status)
	if !ok {
		return nil
	}

	if itemsEdit && def.LocksItems {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("items are locked while the order is %s", order.Status)).
			WithDetails(map[string]any{"status": order.Status, "locked": "items"})
	}
	if pricingEdit && def.LocksPricing {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("pricing is locked while the order is %s", order.Status)).
			WithDetails(map[string]any{"status": order.Status, "locked": "pricing"})
	}
	return nil
}

func validateAdjustments(discountMode, taxMode enums.AdjustmentMode) error {
	if !discountMode.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid discount mode %q", discountMode))
	}
	if !taxMode.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid tax mode %q", taxMode))
	}
	return nil
}

func totalsPayload(order *models.Order) map[string]any {
	return map[string]any{
		"subtotal": order.SubtotalAmount.InexactFloat64(),
		"discount": order.DiscountAmount.InexactFloat64(),
		"tax":      order.TaxAmount.InexactFloat64(),
		"shipping": order.ShippingAmount.InexactFloat64(),
		"total":    order.TotalAmount.InexactFloat64(),
	}
}
