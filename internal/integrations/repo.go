package integrations

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sarthakjns/bazaario-backend/pkg/db/models"
)

// Repository persists integration configuration records.
type Repository interface {
	FindByName(ctx context.Context, name string) (*models.Integration, error)
	List(ctx context.Context) ([]models.Integration, error)
	EnsureDefault(ctx context.Context, record *models.Integration) error
	Save(ctx context.Context, record *models.Integration) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an integrations repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByName(ctx context.Context, name string) (*models.Integration, error) {
	var record models.Integration
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) List(ctx context.Context) ([]models.Integration, error) {
	var records []models.Integration
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// EnsureDefault inserts the record unless one with the same name exists.
func (r *repository) EnsureDefault(ctx context.Context, record *models.Integration) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(record).Error
}

func (r *repository) Save(ctx context.Context, record *models.Integration) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
