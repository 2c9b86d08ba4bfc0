package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	httpapi "github.com/GoSim-25-26J-441/seed-api/internal/api/http"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func runHealth(t *testing.T, storage httpapi.Pinger, path string) httpapi.HealthResponse {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	handler := httpapi.NewHealthHandler("test-service", "1.0.0", "memory", storage)
	handler.RegisterRoutes(router)

	req, err := http.NewRequest("GET", path, nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v",
			status, http.StatusOK)
	}

	var response httpapi.HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return response
}

func TestHealthCheck(t *testing.T) {
	response := runHealth(t, fakePinger{}, "/health")

	if response.Status != "healthy" {
		t.Errorf("expected status 'healthy', got %s", response.Status)
	}
	if response.Service != "test-service" {
		t.Errorf("expected service 'test-service', got %s", response.Service)
	}
	if response.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %s", response.Version)
	}
	if response.Storage != "up" {
		t.Errorf("expected storage 'up', got %s", response.Storage)
	}
	if response.Driver != "memory" {
		t.Errorf("expected driver 'memory', got %s", response.Driver)
	}
}

func TestHealthCheckStorageDown(t *testing.T) {
	response := runHealth(t, fakePinger{err: errors.New("connection refused")}, "/healthz")

	if response.Status != "healthy" {
		t.Errorf("expected status 'healthy', got %s", response.Status)
	}
	if response.Storage != "down" {
		t.Errorf("expected storage 'down', got %s", response.Storage)
	}
}

func TestHealthCheckWithoutStorage(t *testing.T) {
	response := runHealth(t, nil, "/health")

	if response.Storage != "disabled" {
		t.Errorf("expected storage 'disabled', got %s", response.Storage)
	}
}

func TestHealthCheckMethodNotAllowed(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true

	handler := httpapi.NewHealthHandler("test-service", "1.0.0", "memory", nil)
	handler.RegisterRoutes(router)

	req, err := http.NewRequest("POST", "/health", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusMethodNotAllowed {
		t.Errorf("handler returned wrong status code: got %v want %v",
			status, http.StatusMethodNotAllowed)
	}
}
