package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarthakjns/bazaario-backend/internal/gateway"
	pkgerrors "github.com/sarthakjns/bazaario-backend/pkg/errors"
	"github.com/sarthakjns/bazaario-backend/pkg/logger"
)

// ClientProvider yields the current gateway client, if one is configured.
type ClientProvider interface {
	Client(ctx context.Context) (gateway.Snapshot, bool)
}

// PaymentIntentInput is the storefront's request to start a gateway payment.
type PaymentIntentInput struct {
	TotalAmount decimal.Decimal `json:"totalAmount" validate:"required"`
}

// PaymentIntent is everything the storefront needs to open the payment
// widget for the created gateway order.
type PaymentIntent struct {
	GatewayOrderID string `json:"gatewayOrderId"`
	KeyID          string `json:"keyId"`
	AmountPaise    int64  `json:"amountPaise"`
	Currency       string `json:"currency"`
}

// Service creates gateway orders ahead of checkout.
type Service interface {
	CreatePaymentIntent(ctx context.Context, input PaymentIntentInput) (*PaymentIntent, error)
}

type service struct {
	provider ClientProvider
	currency string
	now      func() time.Time
	logg     *logger.Logger
}

// NewService builds the checkout service charging in the given currency.
func NewService(provider ClientProvider, currency string, logg *logger.Logger) Service {
	return &service{
		provider: provider,
		currency: currency,
		now:      time.Now,
		logg:     logg,
	}
}

func (s *service) CreatePaymentIntent(ctx context.Context, input PaymentIntentInput) (*PaymentIntent, error) {
	if !input.TotalAmount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "totalAmount must be a positive amount")
	}

	snap, ok := s.provider.Client(ctx)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeDependency,
			"online payments are not configured: enable the razorpay integration and set its API key and secret")
	}

	// The gateway bills in minor units. Round half up so 19.999 becomes
	// 2000 paise rather than truncating to 1999.
	paise := input.TotalAmount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	receipt := fmt.Sprintf("rcpt_%d", s.now().UnixMilli())

	body, err := snap.Orders.Create(map[string]interface{}{
		"amount":   paise,
		"currency": s.currency,
		"receipt":  receipt,
	}, nil)
	if err != nil {
		if isAuthFailure(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err,
				"razorpay rejected the configured API credentials: update the integration's key and secret")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create razorpay order")
	}

	orderID, _ := body["id"].(string)
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "razorpay returned an order without an id")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"gateway_order_id": orderID,
		"amount_paise":     paise,
	})
	s.logg.Info(ctx, "payment intent created")

	return &PaymentIntent{
		GatewayOrderID: orderID,
		KeyID:          snap.KeyID,
		AmountPaise:    paise,
		Currency:       s.currency,
	}, nil
}

func isAuthFailure(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "authentication") || strings.Contains(msg, "api key")
}
