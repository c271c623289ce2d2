package gateway

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
	"gorm.io/gorm"

	"github.com/sarthakjns/bazaario-backend/pkg/db/models"
	"github.com/sarthakjns/bazaario-backend/pkg/logger"
)

// ConfigSource yields the stored integration record the client is built from.
type ConfigSource interface {
	FindByName(ctx context.Context, name string) (*models.Integration, error)
}

// OrderCreator is the slice of the Razorpay SDK the checkout flow uses.
type OrderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Snapshot is one usable gateway client together with the public key the
// storefront needs to open the payment widget.
type Snapshot struct {
	Orders OrderCreator
	KeyID  string
}

// Provider hands out Razorpay clients built from admin-managed settings.
// Building a client re-reads the integration record, so the result is
// cached and reused until the TTL lapses. Snapshots stay valid after the
// TTL; only the next call rebuilds.
type Provider struct {
	source    ConfigSource
	logg      *logger.Logger
	ttl       time.Duration
	now       func() time.Time
	newClient func(key, secret string) OrderCreator

	mu      sync.Mutex
	cached  *Snapshot
	builtAt time.Time
}

// NewProvider builds a Provider caching clients for ttl.
func NewProvider(source ConfigSource, ttl time.Duration, logg *logger.Logger) *Provider {
	return &Provider{
		source:    source,
		logg:      logg,
		ttl:       ttl,
		now:       time.Now,
		newClient: sdkOrderCreator,
	}
}

func sdkOrderCreator(key, secret string) OrderCreator {
	return razorpay.NewClient(key, secret).Order
}

// Client returns a gateway snapshot, reusing the cached one while fresh.
// The second return is false when the integration is disabled, missing,
// or misconfigured; the config read never fails the caller.
func (p *Provider) Client(ctx context.Context) (Snapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil && p.now().Sub(p.builtAt) < p.ttl {
		return *p.cached, true
	}

	record, err := p.source.FindByName(ctx, models.IntegrationRazorpay)
	if err != nil {
		if !isNotFound(err) {
			p.logg.Error(ctx, "load razorpay integration", err)
		}
		p.drop()
		return Snapshot{}, false
	}
	if !record.Enabled {
		p.drop()
		return Snapshot{}, false
	}

	key := strings.TrimSpace(record.Settings[models.SettingAPIKey])
	secret := strings.TrimSpace(record.Settings[models.SettingAPISecret])
	if key == "" || secret == "" {
		p.drop()
		return Snapshot{}, false
	}

	snap := &Snapshot{Orders: p.newClient(key, secret), KeyID: key}
	p.cached = snap
	p.builtAt = p.now()
	return *snap, true
}

// Invalidate drops the cached client so the next call rebuilds from the
// stored settings. Called after an admin edits the integration.
func (p *Provider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.drop()
}

func (p *Provider) drop() {
	p.cached = nil
	p.builtAt = time.Time{}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
