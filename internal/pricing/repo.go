package pricing

import (
	"context"

	"gorm.io/gorm"

	"github.com/printdeskhq/printdesk-backend/pkg/db/models"
)

// Repository loads catalog records for the engine. It satisfies CatalogSource
// so the engine can price against live data or a transaction snapshot.
type Repository interface {
	CatalogSource
	WithTx(tx *gorm.DB) Repository
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) GetVariant(ctx context.Context, id int64) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.WithContext(ctx).First(&variant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *repository) GetRoll(ctx context.Context, id int64) (*models.Roll, error) {
	var roll models.Roll
	if err := r.db.WithContext(ctx).First(&roll, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &roll, nil
}
