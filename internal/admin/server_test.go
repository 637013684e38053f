package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/gamehub/internal/dependencies/clock"
	"github.com/mcoot/gamehub/internal/dependencies/random"
	"github.com/mcoot/gamehub/internal/services/catalog"
	"github.com/mcoot/gamehub/internal/services/lobby"
	"github.com/mcoot/gamehub/internal/storage/memory"
	"github.com/mcoot/gamehub/internal/testutil"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store := memory.New()
	catalogService := catalog.New(store, clock.New(), t.TempDir(), testutil.NopLogger())
	hub := lobby.New(
		store,
		catalogService,
		clock.New(),
		random.New(),
		&testutil.FakeLauncher{},
		lobby.DefaultConfig(),
		testutil.NopLogger(),
	)

	router := mux.NewRouter()
	router.HandleFunc("/healthz", handleHealthz).Methods(http.MethodGet)
	router.HandleFunc("/stats", handleStats(hub)).Methods(http.MethodGet)
	return router
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStats(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var stats lobby.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Zero(t, stats.OnlineUsers)
	assert.Zero(t, stats.Rooms)
}
