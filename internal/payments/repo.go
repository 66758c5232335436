package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/printdeskhq/printdesk-backend/pkg/db/models"
	"github.com/printdeskhq/printdesk-backend/pkg/enums"
)

// Repository manages persistence for payment requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, request *models.PaymentRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentRequest, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.PaymentRequest, error)
	Update(ctx context.Context, request *models.PaymentRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.PaymentRequest, error)
	SumRequestedNonCancelled(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)
	ListOverdueCandidates(ctx context.Context, now time.Time, limit int) ([]models.PaymentRequest, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a payment request repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, request *models.PaymentRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentRequest, error) {
	var request models.PaymentRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// GetByIDForUpdate row-locks the request so concurrent payments serialize.
func (r *repository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.PaymentRequest, error) {
	var request models.PaymentRequest
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) Update(ctx context.Context, request *models.PaymentRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.PaymentRequest{}, "id = ?", id).Error
}

func (r *repository) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.PaymentRequest, error) {
	var requests []models.PaymentRequest
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// SumRequestedNonCancelled totals amount_requested across every live request
// for the order. Must run inside the same transaction as the insert that
// depends on it.
func (r *repository) SumRequestedNonCancelled(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.PaymentRequest{}).
		Select("COALESCE(SUM(amount_requested), 0)").
		Where("order_id = ? AND status <> ?", orderID, enums.PaymentRequestStatusCancelled).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

func (r *repository) ListOverdueCandidates(ctx context.Context, now time.Time, limit int) ([]models.PaymentRequest, error) {
	query := r.db.WithContext(ctx).
		Where("status = ?", enums.PaymentRequestStatusPending).
		Where("due_date IS NOT NULL AND due_date < ?", now).
		Order("due_date ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var requests []models.PaymentRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}
