package support

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/sarthakjns/bazaario-backend/pkg/db/models"
	"github.com/sarthakjns/bazaario-backend/pkg/enums"
	pkgerrors "github.com/sarthakjns/bazaario-backend/pkg/errors"
	"github.com/sarthakjns/bazaario-backend/pkg/logger"
)

type stubTicketRepo struct {
	tickets  map[uuid.UUID]*models.SupportTicket
	appended []*models.SupportMessage
}

func newStubTicketRepo() *stubTicketRepo {
	return &stubTicketRepo{tickets: map[uuid.UUID]*models.SupportTicket{}}
}

func (s *stubTicketRepo) Create(_ context.Context, ticket *models.SupportTicket) error {
	ticket.ID = uuid.New()
	s.tickets[ticket.ID] = ticket
	return nil
}

func (s *stubTicketRepo) FindByID(_ context.Context, id uuid.UUID) (*models.SupportTicket, error) {
	ticket, ok := s.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *ticket
	return &copied, nil
}

func (s *stubTicketRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.SupportTicket, error) {
	var out []models.SupportTicket
	for _, ticket := range s.tickets {
		if ticket.UserID == userID {
			out = append(out, *ticket)
		}
	}
	return out, nil
}

func (s *stubTicketRepo) ListAll(_ context.Context) ([]models.SupportTicket, error) {
	var out []models.SupportTicket
	for _, ticket := range s.tickets {
		out = append(out, *ticket)
	}
	return out, nil
}

func (s *stubTicketRepo) AppendMessage(_ context.Context, message *models.SupportMessage) error {
	s.appended = append(s.appended, message)
	return nil
}

func (s *stubTicketRepo) Save(_ context.Context, ticket *models.SupportTicket) error {
	s.tickets[ticket.ID] = ticket
	return nil
}

func expectCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected app error with code %s, got %v", want, err)
	}
	if appErr.Code() != want {
		t.Fatalf("expected code %s, got %s (%v)", want, appErr.Code(), err)
	}
}

func customerActor() Actor {
	return Actor{UserID: uuid.New(), Role: enums.UserRoleCustomer}
}

func TestCreateOpensTicketWithFirstMessage(t *testing.T) {
	repo := newStubTicketRepo()
	svc := NewService(repo, logger.NewNop())
	actor := customerActor()

	ticket, err := svc.Create(context.Background(), actor, CreateInput{
		Subject: "  Where is my order?  ",
		Body:    "Placed a week ago, no tracking yet.",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ticket.Subject != "Where is my order?" {
		t.Fatalf("expected trimmed subject, got %q", ticket.Subject)
	}
	if ticket.Status != enums.TicketStatusOpen {
		t.Fatalf("expected open ticket, got %s", ticket.Status)
	}
	if len(ticket.Messages) != 1 || ticket.Messages[0].AuthorID != actor.UserID {
		t.Fatalf("expected one first message authored by the customer")
	}
}

func TestGetHidesOtherCustomersTickets(t *testing.T) {
	repo := newStubTicketRepo()
	svc := NewService(repo, logger.NewNop())
	owner := customerActor()

	ticket, err := svc.Create(context.Background(), owner, CreateInput{Subject: "Billing", Body: "Charged twice"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Get(context.Background(), customerActor(), ticket.ID)
	expectCode(t, err, pkgerrors.CodeNotFound)

	if _, err := svc.Get(context.Background(), owner, ticket.ID); err != nil {
		t.Fatalf("owner get: %v", err)
	}

	admin := Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}
	if _, err := svc.Get(context.Background(), admin, ticket.ID); err != nil {
		t.Fatalf("admin get: %v", err)
	}
}

func TestReplyRejectedOnClosedTicket(t *testing.T) {
	repo := newStubTicketRepo()
	svc := NewService(repo, logger.NewNop())
	actor := customerActor()

	ticket, err := svc.Create(context.Background(), actor, CreateInput{Subject: "Damaged item", Body: "Mug arrived chipped"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Close(context.Background(), actor, ticket.ID); err != nil {
		t.Fatalf("close: %v", err)
	}

	_, err = svc.Reply(context.Background(), actor, ticket.ID, ReplyInput{Body: "Any update?"})
	expectCode(t, err, pkgerrors.CodeStateConflict)
	if len(repo.appended) != 0 {
		t.Fatalf("expected no message appended to a closed ticket")
	}
}

func TestReplyAppendsMessage(t *testing.T) {
	repo := newStubTicketRepo()
	svc := NewService(repo, logger.NewNop())
	actor := customerActor()

	ticket, err := svc.Create(context.Background(), actor, CreateInput{Subject: "Refund", Body: "Requesting a refund"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	admin := Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}
	updated, err := svc.Reply(context.Background(), admin, ticket.ID, ReplyInput{Body: "Refund initiated."})
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if len(repo.appended) != 1 {
		t.Fatalf("expected one appended message, got %d", len(repo.appended))
	}
	if repo.appended[0].Role != enums.UserRoleAdmin {
		t.Fatalf("expected admin-authored message")
	}
	last := updated.Messages[len(updated.Messages)-1]
	if last.Body != "Refund initiated." {
		t.Fatalf("expected reply body returned, got %q", last.Body)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	repo := newStubTicketRepo()
	svc := NewService(repo, logger.NewNop())
	actor := customerActor()

	ticket, err := svc.Create(context.Background(), actor, CreateInput{Subject: "Late delivery", Body: "Still waiting"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := svc.Close(context.Background(), actor, ticket.ID)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	second, err := svc.Close(context.Background(), actor, ticket.ID)
	if err != nil {
		t.Fatalf("second close: %v", err)
	}
	if first.Status != enums.TicketStatusClosed || second.Status != enums.TicketStatusClosed {
		t.Fatalf("expected closed ticket on both calls")
	}
}
