package customers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sarthakjns/bazaario-backend/internal/users"
	"github.com/sarthakjns/bazaario-backend/pkg/db/models"
	"github.com/sarthakjns/bazaario-backend/pkg/enums"
	pkgerrors "github.com/sarthakjns/bazaario-backend/pkg/errors"
	"github.com/sarthakjns/bazaario-backend/pkg/logger"
	"github.com/sarthakjns/bazaario-backend/pkg/pagination"
)

// Customer is the admin-facing view of a customer account.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Blocked   bool      `json:"blocked"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListParams pages the customer listing.
type ListParams struct {
	Limit  int
	Cursor string
}

// Page is one page of customers with the cursor for the next one.
type Page struct {
	Items      []Customer `json:"items"`
	NextCursor string     `json:"nextCursor,omitempty"`
}

// Service gives admins visibility and control over customer accounts.
type Service interface {
	List(ctx context.Context, params ListParams) (*Page, error)
	SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error
}

type service struct {
	repo users.Repository
	logg *logger.Logger
}

func NewService(repo users.Repository, logg *logger.Logger) Service {
	return &service{repo: repo, logg: logg}
}

func (s *service) List(ctx context.Context, params ListParams) (*Page, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	accounts, err := s.repo.ListByRole(ctx, enums.UserRoleCustomer, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list customers")
	}

	page := &Page{Items: make([]Customer, 0, len(accounts))}
	window := accounts
	if len(accounts) > limit {
		window = accounts[:limit]
		last := window[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	for _, account := range window {
		page.Items = append(page.Items, toCustomer(&account))
	}
	return page, nil
}

func (s *service) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	err := s.repo.SetBlocked(ctx, id, blocked)
	if errors.Is(err, users.ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update customer")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"customer_id": id.String(),
		"blocked":     blocked,
	})
	s.logg.Info(ctx, "customer block state changed")
	return nil
}

func toCustomer(user *models.User) Customer {
	return Customer{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Blocked:   user.Blocked,
		CreatedAt: user.CreatedAt,
	}
}
