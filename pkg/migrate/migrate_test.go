package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sarthakjns/bazaario-backend/pkg/migrate"
)

const migrationsDir = "../../db/migrations"

func TestValidateDir_acceptsShippedMigrations(t *testing.T) {
	require.NoError(t, migrate.ValidateDir(migrationsDir))
}

func TestInitMigrationCoversCoreTables(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join(migrationsDir, "*_init.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, matches, "no init migration file found")

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	content := string(data)

	checks := []string{
		"CREATE TABLE users",
		"CREATE TABLE products",
		"CREATE TABLE product_variants",
		"CREATE TABLE orders",
		"CREATE TABLE order_items",
		"CREATE TABLE coupons",
		"CREATE TABLE shipping_rules",
		"CREATE TABLE integrations",
		"CREATE TABLE activity_events",
		"CREATE TABLE support_tickets",
		"CREATE TABLE support_messages",
		"-- +goose Down",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCreateSQLMigration_sanitizesName(t *testing.T) {
	dir := t.TempDir()

	path, err := migrate.CreateSQLMigration(dir, "Add Coupon Index!")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "_add_coupon_index.sql"))

	require.NoError(t, migrate.ValidateDir(dir))
}
