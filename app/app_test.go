package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/finmentor/backend/config"
	"github.com/finmentor/backend/logger"
	"github.com/gin-gonic/gin"
)

func TestBuildWithMemoryStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Port:                   "4000",
		GinMode:                gin.TestMode,
		StoreDriver:            config.StoreMemory,
		LogFormat:              "text",
		CORSOrigins:            []string{"*"},
		LineChannelSecret:      "secret",
		LineChannelAccessToken: "token",
	}

	a := Build(context.Background(), cfg, logger.Discard())
	if a.Store == nil {
		t.Fatal("memory driver should always provide a store")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"email":"a@b.in","name":"A"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("register status = %d, body = %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/webhook/line", strings.NewReader(`{"events":[]}`))
	req.Header.Set("X-Line-Signature", "invalid")
	w = httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("webhook status = %d, want 400 for a bad signature", w.Code)
	}

	if err := a.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
