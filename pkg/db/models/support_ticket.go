package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sarthakjns/bazaario-backend/pkg/enums"
)

// SupportTicket is a customer-opened conversation with the support team.
type SupportTicket struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID          `gorm:"column:user_id;type:uuid;not null;index"`
	Subject   string             `gorm:"column:subject;not null"`
	Status    enums.TicketStatus `gorm:"column:status;type:text;not null;default:'open'"`
	Messages  []SupportMessage   `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// SupportMessage is one message within a ticket thread.
type SupportMessage struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TicketID  uuid.UUID      `gorm:"column:ticket_id;type:uuid;not null;index"`
	AuthorID  uuid.UUID      `gorm:"column:author_id;type:uuid;not null"`
	Role      enums.UserRole `gorm:"column:role;type:text;not null"`
	Body      string         `gorm:"column:body;not null"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
}
