package router

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"restaurant_pos_backend/internal/config"
	"restaurant_pos_backend/internal/storage"
	"restaurant_pos_backend/pkg/metrics"
	"restaurant_pos_backend/pkg/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, *storage.ImageStore, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	images, err := storage.NewImageStore(t.TempDir(), 0)
	require.NoError(t, err)

	cfg := &config.Config{JWTSecret: "router-test", JWTTTL: time.Hour}
	engine := gin.New()
	Setup(engine, db, cfg, images, metrics.New("router_test"))
	return engine, mock, images, cfg
}

func serve(engine http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestSetup_PublicEndpoints(t *testing.T) {
	engine, _, images, _ := newEngine(t)

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/ping", "").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/metrics", "").Code)

	content := []byte("stored bytes")
	require.NoError(t, os.WriteFile(filepath.Join(images.Dir(), "a.png"), content, 0644))
	w := serve(engine, http.MethodGet, "/uploads/products/a.png", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.Equal(content, w.Body.Bytes()))

	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/uploads/products/missing.png", "").Code)
}

func TestSetup_ProtectedRoutesRequireToken(t *testing.T) {
	engine, _, _, _ := newEngine(t)

	for _, path := range []string{"/api/categories", "/api/products", "/api/tables", "/api/orders", "/api/users", "/api/auth/profile"} {
		assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, path, "").Code, path)
	}
}

func TestSetup_UsersAreAdminOnly(t *testing.T) {
	engine, mock, _, cfg := newEngine(t)
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	token, err := tokens.GenerateToken(2, "waiter", "waiter")
	require.NoError(t, err)

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "full_name", "role", "active", "created_at", "updated_at"}).
			AddRow(2, "waiter", "hash", "Waiter", "waiter", true, now, now))

	w := serve(engine, http.MethodGet, "/api/users", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
