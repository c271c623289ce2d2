package gateway

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/sarthakjns/bazaario-backend/pkg/db/models"
	"github.com/sarthakjns/bazaario-backend/pkg/logger"
)

type stubSource struct {
	record *models.Integration
	err    error
	reads  int
}

func (s *stubSource) FindByName(_ context.Context, _ string) (*models.Integration, error) {
	s.reads++
	if s.err != nil {
		return nil, s.err
	}
	return s.record, nil
}

type stubCreator struct{ key string }

func (s *stubCreator) Create(map[string]interface{}, map[string]string) (map[string]interface{}, error) {
	return map[string]interface{}{"id": "order_stub"}, nil
}

func enabledRecord() *models.Integration {
	return &models.Integration{
		Name:    models.IntegrationRazorpay,
		Enabled: true,
		Settings: models.IntegrationSettings{
			models.SettingAPIKey:    "rzp_test_key",
			models.SettingAPISecret: "rzp_test_secret",
		},
	}
}

func newTestProvider(source ConfigSource) (*Provider, *time.Time) {
	now := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	p := NewProvider(source, 60*time.Second, logger.NewNop())
	p.now = func() time.Time { return now }
	p.newClient = func(key, _ string) OrderCreator { return &stubCreator{key: key} }
	return p, &now
}

func TestClientCachesWithinTTL(t *testing.T) {
	source := &stubSource{record: enabledRecord()}
	p, now := newTestProvider(source)

	first, ok := p.Client(context.Background())
	if !ok {
		t.Fatal("expected a client")
	}
	if first.KeyID != "rzp_test_key" {
		t.Fatalf("key id = %q", first.KeyID)
	}

	*now = now.Add(59 * time.Second)
	second, ok := p.Client(context.Background())
	if !ok {
		t.Fatal("expected cached client")
	}
	if source.reads != 1 {
		t.Fatalf("config reads = %d, want 1", source.reads)
	}
	if first.Orders != second.Orders {
		t.Fatal("expected the same cached client instance")
	}
}

func TestClientRebuildsAfterTTL(t *testing.T) {
	source := &stubSource{record: enabledRecord()}
	p, now := newTestProvider(source)

	first, _ := p.Client(context.Background())
	*now = now.Add(60 * time.Second)
	second, ok := p.Client(context.Background())
	if !ok {
		t.Fatal("expected rebuilt client")
	}
	if source.reads != 2 {
		t.Fatalf("config reads = %d, want 2", source.reads)
	}
	if first.Orders == second.Orders {
		t.Fatal("expected a fresh client after the TTL lapsed")
	}
}

func TestClientUnavailableWhenDisabled(t *testing.T) {
	record := enabledRecord()
	record.Enabled = false
	p, _ := newTestProvider(&stubSource{record: record})

	if _, ok := p.Client(context.Background()); ok {
		t.Fatal("disabled integration must not yield a client")
	}
}

func TestClientUnavailableWhenCredentialsMissing(t *testing.T) {
	record := enabledRecord()
	record.Settings[models.SettingAPISecret] = "   "
	p, _ := newTestProvider(&stubSource{record: record})

	if _, ok := p.Client(context.Background()); ok {
		t.Fatal("blank secret must not yield a client")
	}
}

func TestClientUnavailableWhenRecordMissing(t *testing.T) {
	p, _ := newTestProvider(&stubSource{err: gorm.ErrRecordNotFound})

	if _, ok := p.Client(context.Background()); ok {
		t.Fatal("missing record must not yield a client")
	}
}

func TestInvalidateForcesRebuild(t *testing.T) {
	source := &stubSource{record: enabledRecord()}
	p, _ := newTestProvider(source)

	p.Client(context.Background())
	p.Invalidate()
	if _, ok := p.Client(context.Background()); !ok {
		t.Fatal("expected rebuilt client")
	}
	if source.reads != 2 {
		t.Fatalf("config reads = %d, want 2", source.reads)
	}
}

func TestDisabledRecordDropsCachedClient(t *testing.T) {
	source := &stubSource{record: enabledRecord()}
	p, now := newTestProvider(source)

	p.Client(context.Background())
	source.record.Enabled = false
	*now = now.Add(61 * time.Second)
	if _, ok := p.Client(context.Background()); ok {
		t.Fatal("stale client must not outlive a disable")
	}
}
