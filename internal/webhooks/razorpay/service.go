package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sarthakjns/bazaario-backend/pkg/db/models"
	pkgerrors "github.com/sarthakjns/bazaario-backend/pkg/errors"
	"github.com/sarthakjns/bazaario-backend/pkg/logger"
)

const (
	// Provider tags webhook dedup keys for this gateway.
	Provider = "razorpay"

	eventPaymentCaptured = "payment.captured"
	eventPaymentFailed   = "payment.failed"

	dedupTTL = 24 * time.Hour
)

// OrderSettler moves orders between payment states from gateway events.
type OrderSettler interface {
	MarkPaidByGatewayOrder(ctx context.Context, gatewayOrderID, paymentID string) error
	MarkFailedByGatewayOrder(ctx context.Context, gatewayOrderID string) error
}

// SecretSource yields the integration record holding the webhook secret.
type SecretSource interface {
	FindByName(ctx context.Context, name string) (*models.Integration, error)
}

// EventGuard deduplicates webhook deliveries across retries.
type EventGuard interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	WebhookEventKey(provider, eventID string) string
}

type event struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// Service verifies and applies Razorpay webhook deliveries.
type Service interface {
	HandleEvent(ctx context.Context, body []byte, signature, eventID string) error
}

type service struct {
	orders  OrderSettler
	secrets SecretSource
	guard   EventGuard
	logg    *logger.Logger
}

// NewService wires the webhook service. guard may be nil; deliveries are
// then applied without dedup and rely on the settlers being idempotent.
func NewService(orders OrderSettler, secrets SecretSource, guard EventGuard, logg *logger.Logger) Service {
	return &service{orders: orders, secrets: secrets, guard: guard, logg: logg}
}

func (s *service) HandleEvent(ctx context.Context, body []byte, signature, eventID string) error {
	secret, err := s.webhookSecret(ctx)
	if err != nil {
		return err
	}
	if !verifySignature(body, signature, secret) {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "webhook signature mismatch")
	}

	var evt event
	if err := json.Unmarshal(body, &evt); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "malformed webhook payload")
	}

	if eventID != "" && s.guard != nil {
		fresh, err := s.guard.SetNX(ctx, s.guard.WebhookEventKey(Provider, eventID), 1, dedupTTL)
		if err != nil {
			// Dedup is best effort; the settlers tolerate replays.
			s.logg.Warn(ctx, "webhook dedup unavailable")
		} else if !fresh {
			ctx = s.logg.WithField(ctx, "event_id", eventID)
			s.logg.Info(ctx, "webhook delivery already processed")
			return nil
		}
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"event":    evt.Event,
		"event_id": eventID,
	})

	entity := evt.Payload.Payment.Entity
	switch evt.Event {
	case eventPaymentCaptured:
		if entity.OrderID == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "webhook payment carries no order id")
		}
		if err := s.orders.MarkPaidByGatewayOrder(ctx, entity.OrderID, entity.ID); err != nil {
			return err
		}
		s.logg.Info(ctx, "webhook payment captured")
		return nil
	case eventPaymentFailed:
		if entity.OrderID == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "webhook payment carries no order id")
		}
		if err := s.orders.MarkFailedByGatewayOrder(ctx, entity.OrderID); err != nil {
			return err
		}
		s.logg.Info(ctx, "webhook payment failed")
		return nil
	default:
		s.logg.Info(ctx, "ignoring webhook event")
		return nil
	}
}

func (s *service) webhookSecret(ctx context.Context) (string, error) {
	record, err := s.secrets.FindByName(ctx, models.IntegrationRazorpay)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeDependency, "razorpay integration is not configured")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load integration")
	}
	secret := strings.TrimSpace(record.Settings[models.SettingWebhookSecret])
	if secret == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "razorpay webhook secret is not configured")
	}
	return secret, nil
}

// verifySignature checks the X-Razorpay-Signature HMAC over the raw body.
func verifySignature(body []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signature)))
}
