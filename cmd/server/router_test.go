package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/palace-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: 8080, LogLevel: "debug"},
		Database: config.DatabaseConfig{URL: "postgres://localhost/palace_test"},
		Auth: config.AuthConfig{
			JWTSecret:            "router-test-secret-that-is-long-enough",
			TokenLifetimeMinutes: 5,
			BcryptCost:           4,
		},
		Review: config.ReviewConfig{QueueLimit: 20, ConflictRetryBaseMs: 1},
	}
}

func newTestApp(t *testing.T) (*application, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	app, err := newApplication(testConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)), db)
	require.NoError(t, err)
	return app, mock
}

func TestNewApplication_RejectsShortSecret(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	cfg := testConfig()
	cfg.Auth.JWTSecret = "short"

	_, err = newApplication(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), db)
	assert.Error(t, err)
}

func TestRouter_PublicRoutes(t *testing.T) {
	app, _ := newTestApp(t)
	router := app.setupRouter()

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
	})

	t.Run("register validates before touching the database", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
			strings.NewReader(`{"email":"nope","name":"Ada","password":"correct horse battery"}`))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cards", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	app, _ := newTestApp(t)
	router := app.setupRouter()

	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/palaces"},
		{http.MethodGet, "/api/palaces"},
		{http.MethodGet, "/api/palaces/1"},
		{http.MethodDelete, "/api/palaces/1"},
		{http.MethodPut, "/api/palaces/1/layout"},
		{http.MethodPost, "/api/palaces/1/furniture"},
		{http.MethodGet, "/api/palaces/1/furniture"},
		{http.MethodGet, "/api/furniture/1"},
		{http.MethodPost, "/api/furniture/1/flashcards"},
		{http.MethodGet, "/api/furniture/1/flashcards"},
		{http.MethodGet, "/api/flashcards/1"},
		{http.MethodPost, "/api/flashcards/1/review"},
		{http.MethodGet, "/api/review/queue"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(route.method, route.path, nil))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRouter_AuthenticatedListPalaces(t *testing.T) {
	app, mock := newTestApp(t)
	router := app.setupRouter()

	userID := uuid.New()
	token, err := app.jwtService.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM palaces WHERE user_id = \\$1").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "layout", "created_at", "updated_at"}).
			AddRow(int64(3), userID.String(), "Home", `[["0_","0_7_"]]`, now, now))

	req := httptest.NewRequest(http.MethodGet, "/api/palaces", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, "Home", body[0]["name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_AuthenticatedBadPathID(t *testing.T) {
	app, _ := newTestApp(t)
	router := app.setupRouter()

	token, err := app.jwtService.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/flashcards/zero", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewRootCmd(t *testing.T) {
	root := newRootCmd()

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "migrate", "seed"})
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))

	seedCommand, _, err := root.Find([]string{"seed"})
	require.NoError(t, err)
	assert.NotNil(t, seedCommand.Flags().Lookup("email"))
	assert.NotNil(t, seedCommand.Flags().Lookup("template"))
}

func TestSeedCmd_RequiresEmail(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"seed"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	err := root.ExecuteContext(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--email is required")
}
