package models

import (
	"time"

	"github.com/google/uuid"
)

// IntegrationSettings is the opaque settings blob of an integration record.
type IntegrationSettings map[string]string

// Integration is a third-party service configuration record, keyed by name
// (e.g. "razorpay"). Upserted with defaults on first read of the list.
type Integration struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string              `gorm:"column:name;not null;uniqueIndex"`
	Enabled   bool                `gorm:"column:enabled;not null;default:false"`
	Settings  IntegrationSettings `gorm:"column:settings;type:jsonb;serializer:json"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// Well-known integration names and settings keys.
const (
	IntegrationRazorpay = "razorpay"

	SettingAPIKey        = "apiKey"
	SettingAPISecret     = "apiSecret"
	SettingWebhookSecret = "webhookSecret"
)
