package customers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sarthakjns/bazaario-backend/internal/users"
	"github.com/sarthakjns/bazaario-backend/pkg/db/models"
	"github.com/sarthakjns/bazaario-backend/pkg/enums"
	pkgerrors "github.com/sarthakjns/bazaario-backend/pkg/errors"
	"github.com/sarthakjns/bazaario-backend/pkg/logger"
	"github.com/sarthakjns/bazaario-backend/pkg/pagination"
)

type stubUserRepo struct {
	users.Repository

	listed        []models.User
	listedCursor  *pagination.Cursor
	blockedCalls  map[uuid.UUID]bool
	setBlockedErr error
}

func (s *stubUserRepo) ListByRole(_ context.Context, _ enums.UserRole, cursor *pagination.Cursor, limit int) ([]models.User, error) {
	s.listedCursor = cursor
	if limit > len(s.listed) {
		limit = len(s.listed)
	}
	return s.listed[:limit], nil
}

func (s *stubUserRepo) SetBlocked(_ context.Context, id uuid.UUID, blocked bool) error {
	if s.setBlockedErr != nil {
		return s.setBlockedErr
	}
	if s.blockedCalls == nil {
		s.blockedCalls = make(map[uuid.UUID]bool)
	}
	s.blockedCalls[id] = blocked
	return nil
}

func seedCustomers(n int) []models.User {
	now := time.Now().UTC()
	out := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.User{
			ID:        uuid.New(),
			Name:      fmt.Sprintf("Customer %d", i),
			Email:     fmt.Sprintf("customer%d@example.test", i),
			Role:      enums.UserRoleCustomer,
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		})
	}
	return out
}

func TestCustomerListPaginates(t *testing.T) {
	repo := &stubUserRepo{listed: seedCustomers(3)}
	svc := NewService(repo, logger.NewNop())

	page, err := svc.List(context.Background(), ListParams{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
	if page.NextCursor == "" {
		t.Fatalf("expected next cursor when more rows exist")
	}

	cursor, err := pagination.ParseCursor(page.NextCursor)
	if err != nil {
		t.Fatalf("parse cursor: %v", err)
	}
	if cursor.ID != page.Items[1].ID {
		t.Fatalf("cursor should point at the last returned row")
	}
}

func TestCustomerListRejectsBadCursor(t *testing.T) {
	svc := NewService(&stubUserRepo{}, logger.NewNop())

	_, err := svc.List(context.Background(), ListParams{Cursor: "not-a-cursor"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetBlockedRecordsState(t *testing.T) {
	repo := &stubUserRepo{}
	svc := NewService(repo, logger.NewNop())
	id := uuid.New()

	if err := svc.SetBlocked(context.Background(), id, true); err != nil {
		t.Fatalf("block: %v", err)
	}
	if !repo.blockedCalls[id] {
		t.Fatalf("expected block to reach the repository")
	}

	if err := svc.SetBlocked(context.Background(), id, false); err != nil {
		t.Fatalf("unblock: %v", err)
	}
	if repo.blockedCalls[id] {
		t.Fatalf("expected unblock to reach the repository")
	}
}

func TestSetBlockedMissingCustomer(t *testing.T) {
	repo := &stubUserRepo{setBlockedErr: users.ErrNotFound}
	svc := NewService(repo, logger.NewNop())

	err := svc.SetBlocked(context.Background(), uuid.New(), true)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
