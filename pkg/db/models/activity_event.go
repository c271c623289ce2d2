package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityEvent is one anonymized public feed entry, e.g.
// "Someone in Pune just bought a Ceramic Mug".
type ActivityEvent struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Message   string    `gorm:"column:message;not null"`
	City      string    `gorm:"column:city"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index"`
}
