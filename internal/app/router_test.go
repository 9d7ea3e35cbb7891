package app

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolekeeper/rolekeeper/internal/session"
	"github.com/rolekeeper/rolekeeper/internal/store"
)

func newTestRouter(t *testing.T) (http.Handler, *session.Store, *store.Store) {
	t.Helper()
	sessions := session.NewStore(0, 0, nil)
	st := store.New(t.TempDir())
	r := NewRouter(RouterParams{
		Logger:   slog.New(slog.DiscardHandler),
		Config:   &Config{AppEnv: "test"},
		Sessions: sessions,
		Store:    st,
		Started:  time.Now().Add(-3 * time.Second),
	})
	return r, sessions, st
}

func TestHealthz(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStatusCountsSessionsAndGuilds(t *testing.T) {
	r, sessions, st := newTestRouter(t)

	sessions.Create(&session.Session{GuildID: "g1", ActorID: "u1"})
	_, err := st.Update("g1", func(*store.Document) error { return nil })
	require.NoError(t, err)
	_, err = st.Update("g2", func(*store.Document) error { return nil })
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test", resp.Env)
	assert.Equal(t, 1, resp.LiveSessions)
	assert.Equal(t, 2, resp.Guilds)
	assert.GreaterOrEqual(t, resp.UptimeSecs, int64(3))
}
