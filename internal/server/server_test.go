package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/forkful/forkful-v2/backend/config"
	"github.com/forkful/forkful-v2/backend/internal/server"
	"github.com/forkful/forkful-v2/backend/internal/testhelpers"
)

func TestServerServesHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupTestDB(t)
	cfg := &config.Config{
		ServerHost:    "127.0.0.1",
		ServerPort:    "0",
		JWTSecret:     "server-test-secret-long-enough",
		SweepInterval: time.Minute,
	}

	srv := server.New(db, nil, cfg, nil, nil)

	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
