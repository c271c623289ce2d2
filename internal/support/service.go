package support

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/sarthakjns/bazaario-backend/pkg/db/models"
	"github.com/sarthakjns/bazaario-backend/pkg/enums"
	pkgerrors "github.com/sarthakjns/bazaario-backend/pkg/errors"
	"github.com/sarthakjns/bazaario-backend/pkg/logger"
)

// CreateInput opens a new ticket with its first message.
type CreateInput struct {
	Subject string `json:"subject" validate:"required,max=200"`
	Body    string `json:"body" validate:"required,max=5000"`
}

// ReplyInput appends a message to an existing ticket.
type ReplyInput struct {
	Body string `json:"body" validate:"required,max=5000"`
}

// Actor identifies who is acting on a ticket.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// Service runs the customer support ticket threads.
type Service interface {
	Create(ctx context.Context, actor Actor, input CreateInput) (*models.SupportTicket, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.SupportTicket, error)
	ListAll(ctx context.Context) ([]models.SupportTicket, error)
	Get(ctx context.Context, actor Actor, ticketID uuid.UUID) (*models.SupportTicket, error)
	Reply(ctx context.Context, actor Actor, ticketID uuid.UUID, input ReplyInput) (*models.SupportTicket, error)
	Close(ctx context.Context, actor Actor, ticketID uuid.UUID) (*models.SupportTicket, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

func NewService(repo Repository, logg *logger.Logger) Service {
	return &service{repo: repo, logg: logg}
}

func (s *service) Create(ctx context.Context, actor Actor, input CreateInput) (*models.SupportTicket, error) {
	ticket := &models.SupportTicket{
		UserID:  actor.UserID,
		Subject: strings.TrimSpace(input.Subject),
		Status:  enums.TicketStatusOpen,
		Messages: []models.SupportMessage{{
			AuthorID: actor.UserID,
			Role:     actor.Role,
			Body:     strings.TrimSpace(input.Body),
		}},
	}
	if err := s.repo.Create(ctx, ticket); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create ticket")
	}

	ctx = s.logg.WithField(ctx, "ticket_id", ticket.ID.String())
	s.logg.Info(ctx, "support ticket opened")
	return ticket, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.SupportTicket, error) {
	tickets, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list tickets")
	}
	return tickets, nil
}

func (s *service) ListAll(ctx context.Context) ([]models.SupportTicket, error) {
	tickets, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list tickets")
	}
	return tickets, nil
}

func (s *service) Get(ctx context.Context, actor Actor, ticketID uuid.UUID) (*models.SupportTicket, error) {
	return s.load(ctx, actor, ticketID)
}

func (s *service) Reply(ctx context.Context, actor Actor, ticketID uuid.UUID, input ReplyInput) (*models.SupportTicket, error) {
	ticket, err := s.load(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == enums.TicketStatusClosed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "ticket is closed")
	}

	message := &models.SupportMessage{
		TicketID: ticket.ID,
		AuthorID: actor.UserID,
		Role:     actor.Role,
		Body:     strings.TrimSpace(input.Body),
	}
	if err := s.repo.AppendMessage(ctx, message); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "append message")
	}
	if err := s.repo.Save(ctx, ticket); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "touch ticket")
	}

	ticket.Messages = append(ticket.Messages, *message)
	return ticket, nil
}

func (s *service) Close(ctx context.Context, actor Actor, ticketID uuid.UUID) (*models.SupportTicket, error) {
	ticket, err := s.load(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == enums.TicketStatusClosed {
		return ticket, nil
	}

	ticket.Status = enums.TicketStatusClosed
	if err := s.repo.Save(ctx, ticket); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save ticket")
	}

	ctx = s.logg.WithField(ctx, "ticket_id", ticket.ID.String())
	s.logg.Info(ctx, "support ticket closed")
	return ticket, nil
}

// load fetches the ticket and enforces that customers only see their own.
func (s *service) load(ctx context.Context, actor Actor, ticketID uuid.UUID) (*models.SupportTicket, error) {
	ticket, err := s.repo.FindByID(ctx, ticketID)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load ticket")
	}
	if actor.Role != enums.UserRoleAdmin && ticket.UserID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
	}
	return ticket, nil
}
