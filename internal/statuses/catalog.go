package statuses

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/printdeskhq/printdesk-backend/pkg/enums"
)

// StatusDefinition describes one order status: how it renders, whether it
// freezes pricing or items, and which side effects collaborator layers should
// run on entry. Definitions are configuration, loaded once and never mutated.
type StatusDefinition struct {
	Key                  string                `json:"-"`
	Label                string                `json:"label"`
	Visibility           enums.EventVisibility `json:"visibility"`
	LocksPricing         bool                  `json:"locks_pricing"`
	LocksItems           bool                  `json:"locks_items"`
	RequiresNote         bool                  `json:"requires_note"`
	SendEmail            bool                  `json:"send_email"`
	AutoLockOrder        bool                  `json:"auto_lock_order,omitempty"`
	CreateTask           bool                  `json:"create_task,omitempty"`
	RequiresConfirmation bool                  `json:"requires_confirmation,omitempty"`
}

// Catalog is the immutable status table plus its transition graph. Build one
// at startup and hand it to whatever needs it; there is no global lookup.
type Catalog struct {
	definitions map[string]StatusDefinition
	transitions map[string][]string
}

type catalogFile struct {
	Statuses    map[string]StatusDefinition `json:"statuses"`
	Transitions map[string][]string         `json:"transitions"`
}

// NewCatalog validates and freezes a status table. Every transition endpoint
// must be a defined status; a status absent from the transition table is
// terminal.
func NewCatalog(definitions map[string]StatusDefinition, transitions map[string][]string) (*Catalog, error) {
	if len(definitions) == 0 {
		return nil, fmt.Errorf("status catalog requires at least one status")
	}

	defs := make(map[string]StatusDefinition, len(definitions))
	for key, def := range definitions {
		if key == "" {
			return nil, fmt.Errorf("status key must not be empty")
		}
		if def.Label == "" {
			return nil, fmt.Errorf("status %q requires a label", key)
		}
		if def.Visibility == "" {
			def.Visibility = enums.EventVisibilityAdmin
		}
		if !def.Visibility.IsValid() {
			return nil, fmt.Errorf("status %q has invalid visibility %q", key, def.Visibility)
		}
		def.Key = key
		defs[key] = def
	}

	trans := make(map[string][]string, len(transitions))
	for from, targets := range transitions {
		if _, ok := defs[from]; !ok {
			return nil, fmt.Errorf("transition source %q is not a defined status", from)
		}
		seen := make(map[string]bool, len(targets))
		out := make([]string, 0, len(targets))
		for _, to := range targets {
			if _, ok := defs[to]; !ok {
				return nil, fmt.Errorf("transition %q -> %q targets an undefined status", from, to)
			}
			if seen[to] {
				continue
			}
			seen[to] = true
			out = append(out, to)
		}
		sort.Strings(out)
		trans[from] = out
	}

	return &Catalog{definitions: defs, transitions: trans}, nil
}

// LoadCatalog reads a catalog overlay from a JSON file. An empty path yields
// the built-in defaults.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read status catalog: %w", err)
	}

	var file catalogFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse status catalog: %w", err)
	}

	catalog, err := NewCatalog(file.Statuses, file.Transitions)
	if err != nil {
		return nil, fmt.Errorf("invalid status catalog %s: %w", path, err)
	}
	return catalog, nil
}

// Get returns the definition for a status key.
func (c *Catalog) Get(key string) (StatusDefinition, bool) {
	def, ok := c.definitions[key]
	return def, ok
}

// AllowedTransitions returns the permitted targets from a status. Terminal
// states return an empty slice.
func (c *Catalog) AllowedTransitions(from string) []string {
	targets := c.transitions[from]
	out := make([]string, len(targets))
	copy(out, targets)
	return out
}

// CanTransition reports whether from -> to is a permitted edge.
func (c *Catalog) CanTransition(from, to string) bool {
	for _, target := range c.transitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status has no outgoing transitions.
func (c *Catalog) IsTerminal(key string) bool {
	return len(c.transitions[key]) == 0
}

// Keys returns every defined status key in sorted order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.definitions))
	for key := range c.definitions {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// DefaultCatalog builds the stock print-shop lifecycle.
func DefaultCatalog() (*Catalog, error) {
	return NewCatalog(
		map[string]StatusDefinition{
			"pending": {
				Label:      "Pending",
				Visibility: enums.EventVisibilityCustomer,
				SendEmail:  true,
			},
			"confirmed": {
				Label:      "Confirmed",
				Visibility: enums.EventVisibilityCustomer,
				SendEmail:  true,
			},
			"in_production": {
				Label:        "In Production",
				Visibility:   enums.EventVisibilityCustomer,
				LocksPricing: true,
				LocksItems:   true,
				SendEmail:    true,
				CreateTask:   true,
			},
			"on_hold": {
				Label:        "On Hold",
				Visibility:   enums.EventVisibilityAdmin,
				RequiresNote: true,
			},
			"ready_for_pickup": {
				Label:        "Ready for Pickup",
				Visibility:   enums.EventVisibilityCustomer,
				LocksPricing: true,
				LocksItems:   true,
				SendEmail:    true,
			},
			"shipped": {
				Label:        "Shipped",
				Visibility:   enums.EventVisibilityCustomer,
				LocksPricing: true,
				LocksItems:   true,
				SendEmail:    true,
			},
			"completed": {
				Label:         "Completed",
				Visibility:    enums.EventVisibilityCustomer,
				LocksPricing:  true,
				LocksItems:    true,
				SendEmail:     true,
				AutoLockOrder: true,
			},
			"cancelled": {
				Label:                "Cancelled",
				Visibility:           enums.EventVisibilityCustomer,
				LocksPricing:         true,
				LocksItems:           true,
				RequiresNote:         true,
				SendEmail:            true,
				RequiresConfirmation: true,
			},
		},
		map[string][]string{
			"pending":          {"confirmed", "on_hold", "cancelled"},
			"confirmed":        {"in_production", "on_hold", "cancelled"},
			"in_production":    {"ready_for_pickup", "shipped", "on_hold", "cancelled"},
			"on_hold":          {"pending", "confirmed", "in_production", "cancelled"},
			"ready_for_pickup": {"completed", "cancelled"},
			"shipped":          {"completed"},
		},
	)
}
