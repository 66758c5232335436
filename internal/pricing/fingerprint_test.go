package pricing

import "testing"

func TestFingerprint_EmptyBag(t *testing.T) {
	if Fingerprint(nil) != nil {
		t.Fatal("nil bag should have no fingerprint")
	}
	if Fingerprint(map[string]any{}) != nil {
		t.Fatal("empty bag should have no fingerprint")
	}
}

func TestFingerprint_KeyOrderStable(t *testing.T) {
	a := Fingerprint(map[string]any{"Size": "XL", "Color": "Black"})
	b := Fingerprint(map[string]any{"Color": "Black", "Size": "XL"})
	if a == nil || b == nil {
		t.Fatal("expected fingerprints")
	}
	if *a != *b {
		t.Fatalf("key order changed the fingerprint: %s vs %s", *a, *b)
	}

	c := Fingerprint(map[string]any{"Color": "White", "Size": "XL"})
	if *a == *c {
		t.Fatal("different values must produce different fingerprints")
	}
}

func TestFingerprint_ScalarNormalization(t *testing.T) {
	// JSON decoding turns every number into float64; hand-built bags may
	// carry ints. Both forms must hash identically.
	a := Fingerprint(map[string]any{"qty": 2, "grommets": true, "note": nil})
	b := Fingerprint(map[string]any{"qty": float64(2), "grommets": true, "note": nil})
	if *a != *b {
		t.Fatalf("int and float forms diverged: %s vs %s", *a, *b)
	}
}

func TestFingerprint_NestedStructures(t *testing.T) {
	a := Fingerprint(map[string]any{
		"design": map[string]any{"file": "logo.pdf", "pages": 2},
		"sides":  []any{"front", "back"},
	})
	b := Fingerprint(map[string]any{
		"sides":  []any{"front", "back"},
		"design": map[string]any{"pages": 2, "file": "logo.pdf"},
	})
	if *a != *b {
		t.Fatalf("nested key order changed the fingerprint: %s vs %s", *a, *b)
	}

	c := Fingerprint(map[string]any{
		"design": map[string]any{"file": "logo.pdf", "pages": 2},
		"sides":  []any{"back", "front"},
	})
	if *a == *c {
		t.Fatal("slice element order is significant")
	}
}
