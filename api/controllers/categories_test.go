package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agentmart/agentmart-backend/internal/categories"
	"github.com/agentmart/agentmart-backend/pkg/config"
	pkgerrors "github.com/agentmart/agentmart-backend/pkg/errors"
)

type stubCategoriesService struct {
	dtos []categories.CategoryDTO
	err  error
}

func (s stubCategoriesService) List(ctx context.Context) ([]categories.CategoryDTO, error) {
	return s.dtos, s.err
}

var testCatalogConfig = config.CatalogConfig{
	CategoriesCacheTTL: 5 * time.Minute,
	CategoriesStaleFor: 10 * time.Minute,
}

func TestCategoriesFlatSuccessShape(t *testing.T) {
	handler := Categories(stubCategoriesService{dtos: []categories.CategoryDTO{
		{Name: "Automation", Slug: "automation"},
	}}, testCatalogConfig, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if got := rec.Header().Get("Cache-Control"); got != "public, s-maxage=300, stale-while-revalidate=600" {
		t.Fatalf("unexpected cache-control %q", got)
	}

	var body struct {
		Success bool                     `json:"success"`
		Data    []categories.CategoryDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Success {
		t.Fatal("expected success true")
	}
	if len(body.Data) != 1 || body.Data[0].Slug != "automation" {
		t.Fatalf("unexpected data %+v", body.Data)
	}
}

func TestCategoriesFailureShape(t *testing.T) {
	handler := Categories(stubCategoriesService{err: pkgerrors.New(pkgerrors.CodeDependency, "db down")}, testCatalogConfig, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Success || body.Error == "" {
		t.Fatalf("unexpected body %+v", body)
	}
	if rec.Header().Get("Cache-Control") != "" {
		t.Fatal("failed responses must not be cacheable")
	}
}
