package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"marketplace-portal/internal/database"
	"marketplace-portal/internal/models"

	"github.com/gin-gonic/gin"
)

func newScannerRouter(t *testing.T) (*gin.Engine, *database.GormDB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := newTestGormDB(t)
	handler := NewScannerHandler(gdb)

	r := gin.New()
	r.GET("/api/scanners", handler.List)
	r.GET("/api/scanners/:id", handler.Get)
	r.POST("/api/scanners", handler.Create)
	r.PUT("/api/scanners/:id", handler.Update)
	r.DELETE("/api/scanners/:id", handler.Delete)
	r.GET("/api/mappings", handler.ListMappings)
	r.GET("/api/mappings/:id", handler.GetMapping)
	r.PUT("/api/mappings/:id", handler.UpdateMapping)
	return r, gdb
}

type scannerResponse struct {
	Scanner            models.ActiveScanner `json:"scanner"`
	AppliedLocationIDs []int                `json:"applied_location_ids"`
	SkippedLocationIDs []int                `json:"skipped_location_ids"`
}

func TestScannerCreateReportsSkippedLocations(t *testing.T) {
	r, gdb := newScannerRouter(t)

	berlin := models.Location{Name: "Berlin", Slug: "berlin"}
	if err := gdb.CreateLocation(&berlin); err != nil {
		t.Fatalf("failed to create location: %v", err)
	}

	w := doJSON(t, r, http.MethodPost, "/api/scanners", gin.H{
		"category":     "vehicles",
		"query":        "bike",
		"location_ids": []int{berlin.ID, 777},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp scannerResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Scanner.Status != models.ScannerStatusStopped {
		t.Errorf("expected new scanner to start stopped, got %q", resp.Scanner.Status)
	}
	if len(resp.AppliedLocationIDs) != 1 || resp.AppliedLocationIDs[0] != berlin.ID {
		t.Errorf("expected applied ids [%d], got %v", berlin.ID, resp.AppliedLocationIDs)
	}
	if len(resp.SkippedLocationIDs) != 1 || resp.SkippedLocationIDs[0] != 777 {
		t.Errorf("expected skipped ids [777], got %v", resp.SkippedLocationIDs)
	}
}

func TestScannerCreateRequiresCategoryAndQuery(t *testing.T) {
	r, _ := newScannerRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/scanners", gin.H{"category": "vehicles"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without query, got %d", w.Code)
	}
}

func TestScannerUpdateKeepsStatus(t *testing.T) {
	r, gdb := newScannerRouter(t)

	scanner := models.ActiveScanner{Category: "vehicles", Query: "bike", Status: models.ScannerStatusRunning}
	if _, err := gdb.CreateScannerWithLocations(&scanner, nil); err != nil {
		t.Fatalf("failed to create scanner: %v", err)
	}

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/scanners/%d", scanner.ID), gin.H{
		"category": "sports",
		"query":    "racing bike",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp scannerResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Scanner.Category != "sports" || resp.Scanner.Query != "racing bike" {
		t.Errorf("expected updated fields, got %q/%q", resp.Scanner.Category, resp.Scanner.Query)
	}
	if resp.Scanner.Status != models.ScannerStatusRunning {
		t.Errorf("update must not change status, got %q", resp.Scanner.Status)
	}
}

func TestScannerUpdateUnknownID(t *testing.T) {
	r, _ := newScannerRouter(t)

	w := doJSON(t, r, http.MethodPut, "/api/scanners/999", gin.H{
		"category": "sports",
		"query":    "bike",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown scanner, got %d", w.Code)
	}
}

func TestScannerGetIncludesLocationIDs(t *testing.T) {
	r, gdb := newScannerRouter(t)

	berlin := models.Location{Name: "Berlin", Slug: "berlin"}
	if err := gdb.CreateLocation(&berlin); err != nil {
		t.Fatalf("failed to create location: %v", err)
	}
	scanner := models.ActiveScanner{Category: "vehicles", Query: "bike"}
	if _, err := gdb.CreateScannerWithLocations(&scanner, []int{berlin.ID}); err != nil {
		t.Fatalf("failed to create scanner: %v", err)
	}

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/scanners/%d", scanner.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Scanner     models.ActiveScanner `json:"scanner"`
		LocationIDs []int                `json:"location_ids"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.LocationIDs) != 1 || resp.LocationIDs[0] != berlin.ID {
		t.Errorf("expected location ids [%d], got %v", berlin.ID, resp.LocationIDs)
	}
}

func TestMappingUpdateRequiresIsActive(t *testing.T) {
	r, gdb := newScannerRouter(t)

	berlin := models.Location{Name: "Berlin", Slug: "berlin"}
	if err := gdb.CreateLocation(&berlin); err != nil {
		t.Fatalf("failed to create location: %v", err)
	}
	scanner := models.ActiveScanner{Category: "vehicles", Query: "bike"}
	if _, err := gdb.CreateScannerWithLocations(&scanner, []int{berlin.ID}); err != nil {
		t.Fatalf("failed to create scanner: %v", err)
	}
	mappings, err := gdb.ListMappings(&scanner.ID)
	if err != nil || len(mappings) != 1 {
		t.Fatalf("expected one mapping, got %v (%v)", mappings, err)
	}

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/mappings/%d", mappings[0].ID), gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing is_active, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/mappings/%d", mappings[0].ID), gin.H{"is_active": false})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	updated, err := gdb.GetMapping(mappings[0].ID)
	if err != nil {
		t.Fatalf("GetMapping failed: %v", err)
	}
	if updated.IsActive {
		t.Error("expected mapping deactivated")
	}
}
