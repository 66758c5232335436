package statuses

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/printdeskhq/printdesk-backend/pkg/enums"
)

func TestNewCatalog_Validation(t *testing.T) {
	tests := []struct {
		name        string
		definitions map[string]StatusDefinition
		transitions map[string][]string
	}{
		{
			name: "empty catalog",
		},
		{
			name: "missing label",
			definitions: map[string]StatusDefinition{
				"pending": {},
			},
		},
		{
			name: "unknown transition source",
			definitions: map[string]StatusDefinition{
				"pending": {Label: "Pending"},
			},
			transitions: map[string][]string{
				"ghost": {"pending"},
			},
		},
		{
			name: "unknown transition target",
			definitions: map[string]StatusDefinition{
				"pending": {Label: "Pending"},
			},
			transitions: map[string][]string{
				"pending": {"ghost"},
			},
		},
		{
			name: "invalid visibility",
			definitions: map[string]StatusDefinition{
				"pending": {Label: "Pending", Visibility: "secret"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewCatalog(tc.definitions, tc.transitions); err == nil {
				t.Fatal("expected catalog construction to fail")
			}
		})
	}
}

func TestNewCatalog_DefaultsVisibility(t *testing.T) {
	catalog, err := NewCatalog(
		map[string]StatusDefinition{"pending": {Label: "Pending"}},
		nil,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	def, ok := catalog.Get("pending")
	if !ok {
		t.Fatal("expected pending definition")
	}
	if def.Visibility != enums.EventVisibilityAdmin {
		t.Fatalf("expected admin default visibility, got %s", def.Visibility)
	}
	if def.Key != "pending" {
		t.Fatalf("expected key to be filled in, got %q", def.Key)
	}
}

func TestDefaultCatalog(t *testing.T) {
	catalog, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !catalog.CanTransition("pending", "confirmed") {
		t.Fatal("pending should allow confirmed")
	}
	if catalog.CanTransition("completed", "pending") {
		t.Fatal("completed is terminal")
	}
	if !catalog.IsTerminal("completed") || !catalog.IsTerminal("cancelled") {
		t.Fatal("completed and cancelled should be terminal")
	}

	production, ok := catalog.Get("in_production")
	if !ok {
		t.Fatal("expected in_production definition")
	}
	if !production.LocksPricing || !production.LocksItems {
		t.Fatal("in_production should lock pricing and items")
	}

	hold, _ := catalog.Get("on_hold")
	if !hold.RequiresNote {
		t.Fatal("on_hold should require a note")
	}
}

func TestLoadCatalog_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statuses.json")
	overlay := `{
  "statuses": {
    "draft":    {"label": "Draft", "visibility": "admin"},
    "approved": {"label": "Approved", "visibility": "customer", "locks_pricing": true, "locks_items": true},
    "done":     {"label": "Done", "visibility": "public", "send_email": true}
  },
  "transitions": {
    "draft":    ["approved"],
    "approved": ["done"]
  }
}`
	if err := os.WriteFile(path, []byte(overlay), 0o600); err != nil {
		t.Fatalf("write overlay: %v", err)
	}

	catalog, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := catalog.Keys(); len(got) != 3 {
		t.Fatalf("expected 3 statuses, got %v", got)
	}
	if !catalog.CanTransition("draft", "approved") {
		t.Fatal("overlay transition missing")
	}
	if !catalog.IsTerminal("done") {
		t.Fatal("done should be terminal")
	}

	approved, _ := catalog.Get("approved")
	if !approved.LocksPricing {
		t.Fatal("overlay lock flag not honored")
	}
}

func TestLoadCatalog_EmptyPathUsesDefaults(t *testing.T) {
	catalog, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := catalog.Get("pending"); !ok {
		t.Fatal("expected default catalog")
	}
}
