package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/printdeskhq/printdesk-backend/api/middleware"
	"github.com/printdeskhq/printdesk-backend/api/responses"
	"github.com/printdeskhq/printdesk-backend/api/validators"
	"github.com/printdeskhq/printdesk-backend/internal/payments"
	"github.com/printdeskhq/printdesk-backend/pkg/db/models"
	"github.com/printdeskhq/printdesk-backend/pkg/enums"
	pkgerrors "github.com/printdeskhq/printdesk-backend/pkg/errors"
	"github.com/printdeskhq/printdesk-backend/pkg/logger"
)

type createPaymentRequestBody struct {
	Amount  float64    `json:"amount" validate:"required,gt=0"`
	DueDate *time.Time `json:"due_date,omitempty"`
	Notes   *string    `json:"notes,omitempty"`
}

type markPaidBody struct {
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod   *string `json:"payment_method,omitempty" validate:"omitempty,oneof=cash check card bank_transfer other"`
	ReferenceNumber *string `json:"reference_number,omitempty"`
}

type cancelPaymentRequestBody struct {
	Reason string `json:"reason,omitempty"`
}

type paymentRequestResponse struct {
	ID              uuid.UUID  `json:"id"`
	OrderID         uuid.UUID  `json:"order_id"`
	AmountRequested float64    `json:"amount_requested"`
	AmountPaid      float64    `json:"amount_paid"`
	RemainingAmount float64    `json:"remaining_amount"`
	PaymentProgress float64    `json:"payment_progress"`
	Status          string     `json:"status"`
	IsOverdue       bool       `json:"is_overdue"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	PaymentMethod   *string    `json:"payment_method,omitempty"`
	ReferenceNumber *string    `json:"reference_number,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	AdminNotes      *string    `json:"admin_notes,omitempty"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type paymentRequestListResponse struct {
	PaymentRequests []paymentRequestResponse `json:"payment_requests"`
}

// CreatePaymentRequest asks for money against an order. Allocation is checked
// against the order total inside the service transaction.
func CreatePaymentRequest(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID("orderID", chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createPaymentRequestBody
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.CreateRequest(r.Context(), payments.CreateRequestInput{
			OrderID: orderID,
			Amount:  decimal.NewFromFloat(req.Amount),
			DueDate: req.DueDate,
			Notes:   req.Notes,
			Actor:   middleware.ActorFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, translatePaymentError(err))
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, buildPaymentRequestResponse(request))
	}
}

// ListPaymentRequests returns every request on one order, newest first.
func ListPaymentRequests(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID("orderID", chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requests, err := svc.ListByOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, translatePaymentError(err))
			return
		}

		resp := paymentRequestListResponse{
			PaymentRequests: make([]paymentRequestResponse, 0, len(requests)),
		}
		for i := range requests {
			resp.PaymentRequests = append(resp.PaymentRequests, buildPaymentRequestResponse(&requests[i]))
		}
		responses.WriteSuccess(w, resp)
	}
}

// MarkPaymentRequestPaid records money received against a request.
func MarkPaymentRequestPaid(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := validators.ParsePathUUID("requestID", chi.URLParam(r, "requestID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req markPaidBody
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := payments.MarkPaidInput{
			Amount:          decimal.NewFromFloat(req.Amount),
			ReferenceNumber: req.ReferenceNumber,
			Actor:           middleware.ActorFromContext(r.Context()),
		}
		if req.PaymentMethod != nil {
			method, parseErr := enums.ParsePaymentMethod(*req.PaymentMethod)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid payment method"))
				return
			}
			input.Method = &method
		}

		request, err := svc.MarkAsPaid(r.Context(), requestID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, translatePaymentError(err))
			return
		}

		responses.WriteSuccess(w, buildPaymentRequestResponse(request))
	}
}

// CancelPaymentRequest voids an unpaid request, keeping its audit trail.
func CancelPaymentRequest(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := validators.ParsePathUUID("requestID", chi.URLParam(r, "requestID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req cancelPaymentRequestBody
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Cancel(r.Context(), requestID, strings.TrimSpace(req.Reason), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, translatePaymentError(err))
			return
		}

		responses.WriteSuccess(w, buildPaymentRequestResponse(request))
	}
}

// DeletePaymentRequest removes a request that has collected no money.
func DeletePaymentRequest(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := validators.ParsePathUUID("requestID", chi.URLParam(r, "requestID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), requestID, middleware.ActorFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, translatePaymentError(err))
			return
		}

		responses.WriteSuccessStatus(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func translatePaymentError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "payment request not found")
	}
	return err
}

func buildPaymentRequestResponse(request *models.PaymentRequest) paymentRequestResponse {
	resp := paymentRequestResponse{
		ID:              request.ID,
		OrderID:         request.OrderID,
		AmountRequested: request.AmountRequested.InexactFloat64(),
		AmountPaid:      request.AmountPaid.InexactFloat64(),
		RemainingAmount: payments.RemainingAmount(request).InexactFloat64(),
		PaymentProgress: payments.PaymentProgress(request).InexactFloat64(),
		Status:          request.Status.String(),
		IsOverdue:       payments.IsOverdue(request, time.Now().UTC()),
		DueDate:         request.DueDate,
		ReferenceNumber: request.ReferenceNumber,
		Notes:           request.Notes,
		AdminNotes:      request.AdminNotes,
		PaidAt:          request.PaidAt,
		CreatedAt:       request.CreatedAt,
		UpdatedAt:       request.UpdatedAt,
	}
	if request.PaymentMethod != nil {
		method := request.PaymentMethod.String()
		resp.PaymentMethod = &method
	}
	return resp
}
