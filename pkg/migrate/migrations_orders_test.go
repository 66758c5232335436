package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/printdeskhq/printdesk-backend/pkg/migrate"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %q", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestOrdersMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_orders.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"FOREIGN KEY (working_group_id) REFERENCES working_groups(id) ON DELETE CASCADE",
		"CHECK (total_amount >= 0)",
		"UNIQUE (working_group_id, order_number)",
		"DROP TABLE IF EXISTS orders",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrderItemsMigrationKeepsRollColumns(t *testing.T) {
	content := readMigration(t, "*_create_order_items.sql")

	checks := []string{
		"FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE",
		"CHECK (quantity > 0)",
		"fixed_area_ft2 numeric(12,6)",
		"offcut_area_ft2 numeric(12,6)",
		"idx_order_items_fingerprint",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestRollsMigrationWidthPrecision(t *testing.T) {
	content := readMigration(t, "*_create_rolls.sql")

	// Roll widths derived from inch inputs (e.g. 40in) need six decimal places
	// of feet to keep offcut areas exact.
	if !strings.Contains(content, "roll_width numeric(10,6) NOT NULL") {
		t.Error("roll_width must be numeric(10,6)")
	}
}

func TestMigrationDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}
