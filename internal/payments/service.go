package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/printdeskhq/printdesk-backend/internal/timeline"
	"github.com/printdeskhq/printdesk-backend/pkg/db/models"
	"github.com/printdeskhq/printdesk-backend/pkg/enums"
	pkgerrors "github.com/printdeskhq/printdesk-backend/pkg/errors"
	"github.com/printdeskhq/printdesk-backend/pkg/outbox"
	"github.com/printdeskhq/printdesk-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type orderSource interface {
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Order, error)
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service is the payment ledger: it creates and settles payment requests
// against an order while holding the allocation and monotonicity invariants.
type Service interface {
	CreateRequest(ctx context.Context, input CreateRequestInput) (*models.PaymentRequest, error)
	MarkAsPaid(ctx context.Context, requestID uuid.UUID, input MarkPaidInput) (*models.PaymentRequest, error)
	Cancel(ctx context.Context, requestID uuid.UUID, reason string, actor string) (*models.PaymentRequest, error)
	Delete(ctx context.Context, requestID uuid.UUID, actor string) error
	GetByID(ctx context.Context, requestID uuid.UUID) (*models.PaymentRequest, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.PaymentRequest, error)
	UpdateOverdueStatus(ctx context.Context, now time.Time, limit int) (int, error)
}

type service struct {
	tx       txRunner
	repo     Repository
	orders   orderSource
	timeline timeline.Service
	outbox   outboxPublisher
}

// NewService wires the payment ledger.
func NewService(
	tx txRunner,
	repo Repository,
	orders orderSource,
	timelineSvc timeline.Service,
	publisher outboxPublisher,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("payment repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order source required")
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
		orders:   orders,
		timeline: timelineSvc,
		outbox:   publisher,
	}, nil
}

// CreateRequest inserts a new pending request. The allocation check reads the
// existing requests and writes the new one in one transaction so concurrent
// creations cannot oversubscribe the order total.
func (s *service) CreateRequest(ctx context.Context, input CreateRequestInput) (*models.PaymentRequest, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}
	amount := input.Amount.Round(2)

	var request *models.PaymentRequest
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		order, err := s.orders.GetByIDForUpdate(ctx, tx, input.OrderID)
		if err != nil {
			return err
		}

		repo := s.repo.WithTx(tx)
		requested, err := repo.SumRequestedNonCancelled(ctx, order.ID)
		if err != nil {
			return err
		}

		if requested.Add(amount).GreaterThan(order.TotalAmount) {
			maxAmount := order.TotalAmount.Sub(requested)
			if maxAmount.IsNegative() {
				maxAmount = decimal.Zero
			}
			return pkgerrors.New(pkgerrors.CodeOverAllocation,
				"requested amount exceeds the order total").
				WithDetails(map[string]any{
					"message":           "requested amount exceeds the order total",
					"order_total":       order.TotalAmount.InexactFloat64(),
					"already_requested": requested.InexactFloat64(),
					"max_amount":        maxAmount.InexactFloat64(),
				})
		}

		request = &models.PaymentRequest{
			OrderID:         order.ID,
			AmountRequested: amount,
			AmountPaid:      decimal.Zero,
			Status:          enums.PaymentRequestStatusPending,
			DueDate:         input.DueDate,
			Notes:           input.Notes,
		}
		if err := repo.Create(ctx, request); err != nil {
			return err
		}

		if _, err := s.timeline.WithTx(tx).Record(ctx, timeline.RecordEventInput{
			OrderID:   order.ID,
			EventType: enums.OrderEventTypePaymentRequestCreated,
			Data: types.JSONMap{
				"payment_request_id": request.ID.String(),
				"amount_requested":   amount.InexactFloat64(),
			},
			Actor: input.Actor,
		}); err != nil {
			return err
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPaymentRequestCreated,
			AggregateType: enums.AggregatePaymentRequest,
			AggregateID:   request.ID,
			Actor:         input.Actor,
			Data: map[string]any{
				"order_id":         order.ID.String(),
				"amount_requested": amount.InexactFloat64(),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// MarkAsPaid applies a received amount. AmountPaid only ever grows; exceeding
// the outstanding balance is rejected before any write.
func (s *service) MarkAsPaid(ctx context.Context, requestID uuid.UUID, input MarkPaidInput) (*models.PaymentRequest, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment request id is required")
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}
	if input.Method != nil && !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid payment method %q", *input.Method))
	}
	amount := input.Amount.Round(2)

	var request *models.PaymentRequest
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		req, err := repo.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}

		switch req.Status {
		case enums.PaymentRequestStatusCancelled:
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot pay a cancelled request")
		case enums.PaymentRequestStatusPaid:
			return pkgerrors.New(pkgerrors.CodeStateConflict, "request is already fully paid")
		}

		remaining := RemainingAmount(req)
		if amount.GreaterThan(remaining) {
			return pkgerrors.New(pkgerrors.CodeOverpayment,
				"payment exceeds the outstanding amount").
				WithDetails(map[string]any{
					"message":   "payment exceeds the outstanding amount",
					"remaining": remaining.InexactFloat64(),
				})
		}

		req.AmountPaid = req.AmountPaid.Add(amount)
		req.PaymentMethod = input.Method
		if input.ReferenceNumber != nil {
			req.ReferenceNumber = input.ReferenceNumber
		}
		if req.AmountPaid.GreaterThanOrEqual(req.AmountRequested) {
			req.Status = enums.PaymentRequestStatusPaid
			now := time.Now().UTC()
			req.PaidAt = &now
		} else {
			req.Status = enums.PaymentRequestStatusPartiallyPaid
		}

		if err := repo.Update(ctx, req); err != nil {
			return err
		}

		if _, err := s.timeline.WithTx(tx).Record(ctx, timeline.RecordEventInput{
			OrderID:    req.OrderID,
			EventType:  enums.OrderEventTypePaymentReceived,
			Visibility: enums.EventVisibilityCustomer,
			Data: types.JSONMap{
				"payment_request_id": req.ID.String(),
				"amount":             amount.InexactFloat64(),
				"amount_paid":        req.AmountPaid.InexactFloat64(),
				"status":             req.Status.String(),
			},
			Actor: input.Actor,
		}); err != nil {
			return err
		}

		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPaymentReceived,
			AggregateType: enums.AggregatePaymentRequest,
			AggregateID:   req.ID,
			Actor:         input.Actor,
			Data: map[string]any{
				"order_id": req.OrderID.String(),
				"amount":   amount.InexactFloat64(),
				"status":   req.Status.String(),
			},
		}); err != nil {
			return err
		}

		request = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// Cancel voids an unpaid or partially paid request. Fully paid requests stay
// on the books.
func (s *service) Cancel(ctx context.Context, requestID uuid.UUID, reason string, actor string) (*models.PaymentRequest, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment request id is required")
	}

	var request *models.PaymentRequest
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		req, err := repo.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}

		if req.Status == enums.PaymentRequestStatusPaid {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot cancel a paid request")
		}
		if req.Status == enums.PaymentRequestStatusCancelled {
			request = req
			return nil
		}

		req.Status = enums.PaymentRequestStatusCancelled
		if reason != "" {
			req.AdminNotes = appendNote(req.AdminNotes, "Cancelled: "+reason)
		}
		if err := repo.Update(ctx, req); err != nil {
			return err
		}

		var message *string
		if reason != "" {
			message = &reason
		}
		if _, err := s.timeline.WithTx(tx).Record(ctx, timeline.RecordEventInput{
			OrderID:   req.OrderID,
			EventType: enums.OrderEventTypePaymentRequestCancelled,
			Message:   message,
			Data: types.JSONMap{
				"payment_request_id": req.ID.String(),
				"amount_requested":   req.AmountRequested.InexactFloat64(),
			},
			Actor: actor,
		}); err != nil {
			return err
		}

		request = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// Delete physically removes a request no money has landed on. The timeline
// entry is written before the row disappears so the audit trail survives.
func (s *service) Delete(ctx context.Context, requestID uuid.UUID, actor string) error {
	if requestID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment request id is required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		req, err := repo.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}

		if req.AmountPaid.GreaterThan(decimal.Zero) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				"cannot delete a request with recorded payments")
		}

		if _, err := s.timeline.WithTx(tx).Record(ctx, timeline.RecordEventInput{
			OrderID:   req.OrderID,
			EventType: enums.OrderEventTypePaymentRequestDeleted,
			Data: types.JSONMap{
				"payment_request_id": req.ID.String(),
				"amount_requested":   req.AmountRequested.InexactFloat64(),
			},
			Actor: actor,
		}); err != nil {
			return err
		}

		return repo.Delete(ctx, req.ID)
	})
}

func (s *service) GetByID(ctx context.Context, requestID uuid.UUID) (*models.PaymentRequest, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment request id is required")
	}
	return s.repo.GetByID(ctx, requestID)
}

func (s *service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.PaymentRequest, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	return s.repo.ListByOrderID(ctx, orderID)
}

// UpdateOverdueStatus persists overdue on every pending request whose due
// date has passed. The cron sweep calls this; the ledger never self-schedules.
func (s *service) UpdateOverdueStatus(ctx context.Context, now time.Time, limit int) (int, error) {
	candidates, err := s.repo.ListOverdueCandidates(ctx, now, limit)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, candidate := range candidates {
		err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)
			req, err := repo.GetByIDForUpdate(ctx, candidate.ID)
			if err != nil {
				return err
			}
			if !IsOverdue(req, now) {
				return nil
			}

			req.Status = enums.PaymentRequestStatusOverdue
			if err := repo.Update(ctx, req); err != nil {
				return err
			}

			if _, err := s.timeline.WithTx(tx).Record(ctx, timeline.RecordEventInput{
				OrderID:   req.OrderID,
				EventType: enums.OrderEventTypePaymentRequestOverdue,
				Data: types.JSONMap{
					"payment_request_id": req.ID.String(),
					"due_date":           req.DueDate.UTC().Format(time.RFC3339),
				},
			}); err != nil {
				return err
			}

			if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventPaymentRequestOverdue,
				AggregateType: enums.AggregatePaymentRequest,
				AggregateID:   req.ID,
				Data: map[string]any{
					"order_id": req.OrderID.String(),
				},
			}); err != nil {
				return err
			}

			updated++
			return nil
		})
		if err != nil {
			return updated, err
		}
	}
	return updated, nil
}

func appendNote(existing *string, note string) *string {
	if existing == nil || *existing == "" {
		return &note
	}
	combined := *existing + "\n" + note
	return &combined
}
