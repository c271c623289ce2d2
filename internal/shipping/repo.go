package shipping

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sarthakjns/bazaario-backend/pkg/db/models"
)

// ErrNotFound is returned when no shipping rule has been configured yet.
var ErrNotFound = errors.New("shipping rule not found")

// Repository persists the single delivery pricing rule.
type Repository interface {
	Get(ctx context.Context) (*models.ShippingRule, error)
	Save(ctx context.Context, rule *models.ShippingRule) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context) (*models.ShippingRule, error) {
	var rule models.ShippingRule
	err := r.db.WithContext(ctx).Order("updated_at DESC").First(&rule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *repository) Save(ctx context.Context, rule *models.ShippingRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}
