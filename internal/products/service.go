package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sarthakjns/bazaario-backend/pkg/db/models"
	pkgerrors "github.com/sarthakjns/bazaario-backend/pkg/errors"
	"github.com/sarthakjns/bazaario-backend/pkg/logger"
	"github.com/sarthakjns/bazaario-backend/pkg/pagination"
)

// TxRunner executes fn inside one database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// VariantInput creates or updates one purchasable variant. A zero ID
// creates a new variant.
type VariantInput struct {
	ID         *uuid.UUID               `json:"id" validate:"omitempty"`
	Label      string                   `json:"label" validate:"required,max=120"`
	Attributes models.VariantAttributes `json:"attributes"`
	PricePaise int                      `json:"pricePaise" validate:"required,gt=0"`
	Stock      int                      `json:"stock" validate:"gte=0"`
}

// CreateInput is the admin payload for a new catalog product.
type CreateInput struct {
	Name        string         `json:"name" validate:"required,max=200"`
	Description string         `json:"description" validate:"max=5000"`
	Category    string         `json:"category" validate:"required,max=120"`
	ImageURL    *string        `json:"imageUrl" validate:"omitempty,url"`
	Active      *bool          `json:"active"`
	Variants    []VariantInput `json:"variants" validate:"required,min=1,dive"`
}

// UpdateInput is the admin payload for editing a product. Variants not
// present in the list are removed.
type UpdateInput struct {
	Name        string         `json:"name" validate:"required,max=200"`
	Description string         `json:"description" validate:"max=5000"`
	Category    string         `json:"category" validate:"required,max=120"`
	ImageURL    *string        `json:"imageUrl" validate:"omitempty,url"`
	Active      *bool          `json:"active"`
	Variants    []VariantInput `json:"variants" validate:"required,min=1,dive"`
}

// ListParams narrows and pages catalog listings.
type ListParams struct {
	Category string
	Limit    int
	Cursor   string
}

// Page is one page of products with the cursor for the next one.
type Page struct {
	Items      []models.Product `json:"items"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

// Service manages the product catalog.
type Service interface {
	ListPublic(ctx context.Context, params ListParams) (*Page, error)
	ListAdmin(ctx context.Context, params ListParams) (*Page, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, input CreateInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	tx   TxRunner
	logg *logger.Logger
}

func NewService(repo Repository, tx TxRunner, logg *logger.Logger) Service {
	return &service{repo: repo, tx: tx, logg: logg}
}

func (s *service) ListPublic(ctx context.Context, params ListParams) (*Page, error) {
	return s.list(ctx, params, ListFilter{Category: params.Category, ActiveOnly: true})
}

func (s *service) ListAdmin(ctx context.Context, params ListParams) (*Page, error) {
	return s.list(ctx, params, ListFilter{Category: params.Category})
}

func (s *service) list(ctx context.Context, params ListParams, filter ListFilter) (*Page, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	items, err := s.repo.List(ctx, filter, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	page := &Page{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		last := page.Items[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return product, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Product, error) {
	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Category:    strings.TrimSpace(input.Category),
		ImageURL:    input.ImageURL,
		Active:      true,
	}
	if input.Active != nil {
		product.Active = *input.Active
	}
	for _, v := range input.Variants {
		product.Variants = append(product.Variants, models.ProductVariant{
			Label:      strings.TrimSpace(v.Label),
			Attributes: v.Attributes,
			PricePaise: v.PricePaise,
			Stock:      v.Stock,
		})
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}

	ctx = s.logg.WithField(ctx, "product_id", product.ID.String())
	s.logg.Info(ctx, "product created")
	return product, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Description = strings.TrimSpace(input.Description)
	product.Category = strings.TrimSpace(input.Category)
	product.ImageURL = input.ImageURL
	if input.Active != nil {
		product.Active = *input.Active
	}

	variants := make([]models.ProductVariant, 0, len(input.Variants))
	for _, v := range input.Variants {
		variant := models.ProductVariant{
			Label:      strings.TrimSpace(v.Label),
			Attributes: v.Attributes,
			PricePaise: v.PricePaise,
			Stock:      v.Stock,
		}
		if v.ID != nil {
			variant.ID = *v.ID
		}
		variants = append(variants, variant)
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Save(ctx, product); err != nil {
			return err
		}
		return repo.ReplaceVariants(ctx, product.ID, variants)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}

	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	ctx = s.logg.WithField(ctx, "product_id", id.String())
	s.logg.Info(ctx, "product deleted")
	return nil
}
