package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/printdeskhq/printdesk-backend/internal/statuses"
)

func TestListStatusesExposesCatalog(t *testing.T) {
	catalog, err := statuses.DefaultCatalog()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/statuses", nil)
	resp := httptest.NewRecorder()

	ListStatuses(catalog, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}

	var envelope struct {
		Data statusCatalogResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	pending, ok := envelope.Data.Statuses["pending"]
	if !ok {
		t.Fatal("catalog missing pending")
	}
	if pending.Label == "" {
		t.Fatal("pending label missing")
	}
	if len(envelope.Data.Transitions["pending"]) == 0 {
		t.Fatal("pending must allow transitions")
	}
	if len(envelope.Data.Transitions["cancelled"]) != 0 {
		t.Fatal("cancelled must be terminal")
	}
}
