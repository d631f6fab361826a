// Package testutils wires a fully functional router over the in-memory
// repository so API tests run without a database.
package testutils

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/sharedpages/diary-server/internal/api"
	"github.com/sharedpages/diary-server/internal/logger"
	"github.com/sharedpages/diary-server/internal/repository"
	"github.com/sharedpages/diary-server/internal/service"
)

// TestContext holds all dependencies for API tests.
type TestContext struct {
	Router     *gin.Engine
	Repository *repository.MemoryRepository
	Service    service.Service
}

// SetupTestContext creates a new test context with initialized dependencies.
func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()

	log := logger.Nop()
	repo := repository.NewMemoryRepository()
	svc := service.NewDefaultService(repo, log)
	handler := api.NewHandler(svc, log)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(api.CORSMiddleware())
	handler.SetupRoutes(router)

	return &TestContext{
		Router:     router,
		Repository: repo,
		Service:    svc,
	}
}

// PerformAction posts one action request to the diary endpoint.
func PerformAction(r http.Handler, body any) *httptest.ResponseRecorder {
	jsonBody, _ := json.Marshal(body)

	req, _ := http.NewRequest(http.MethodPost, "/api/diary", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://diary.example")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// PerformPreflight sends a CORS preflight request for the diary endpoint.
func PerformPreflight(r http.Handler) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodOptions, "/api/diary", nil)
	req.Header.Set("Origin", "https://diary.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
