package rest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/repository"
	"github.com/rocketscienceinc/tictactoe-local/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-local/transport/session"
)

const testSession = "6f1c2a4e-8d3b-4f5a-9c7e-2b1d0e3f4a5c"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	games := usecase.NewGameManager(logger, repository.NewMemorySessionRepository(time.Hour))
	ws := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	return NewRouter(logger, games, ws, "")
}

func do(t *testing.T, router http.Handler, method, target string) (*httptest.ResponseRecorder, response) {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: testSession})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body response
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}

	return rec, body
}

func TestPing(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := do(t, router, http.MethodGet, "/ping")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())

	rec, _ = do(t, router, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ok\n", rec.Body.String())
}

func TestGameAPI(t *testing.T) {
	router := newTestRouter(t)

	t.Run("State of a new session", func(t *testing.T) {
		rec, body := do(t, router, http.MethodGet, "/api/game")

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, body.Game)
		assert.Equal(t, "Next Turn: X", body.Game.Headline)
		assert.False(t, body.Game.CanUndo)
		assert.False(t, body.Game.CanReset)
	})

	t.Run("Play", func(t *testing.T) {
		rec, body := do(t, router, http.MethodPost, "/api/game/play/4")

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, body.Game)
		assert.Equal(t, entity.PlayerX, body.Game.Board[4])
		assert.Equal(t, "Player O to move", body.Game.Subline)
		assert.True(t, body.Game.CanUndo)
	})

	t.Run("Occupied cell is a conflict with the unchanged view", func(t *testing.T) {
		rec, body := do(t, router, http.MethodPost, "/api/game/play/4")

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, body.Error, "illegal move")
		require.NotNil(t, body.Game)
		assert.Equal(t, 1, body.Game.Moves)
	})

	t.Run("Bad cells are rejected", func(t *testing.T) {
		for _, cell := range []string{"9", "-1", "centre"} {
			rec, body := do(t, router, http.MethodPost, "/api/game/play/"+cell)

			assert.Equal(t, http.StatusBadRequest, rec.Code, cell)
			assert.Contains(t, body.Error, "illegal move", cell)
		}
	})

	t.Run("Undo", func(t *testing.T) {
		rec, body := do(t, router, http.MethodPost, "/api/game/undo")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Zero(t, body.Game.Moves)
	})

	t.Run("Undo on a fresh game is a conflict", func(t *testing.T) {
		rec, body := do(t, router, http.MethodPost, "/api/game/undo")

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, body.Error, "no move to undo")
	})

	t.Run("Reset", func(t *testing.T) {
		do(t, router, http.MethodPost, "/api/game/play/0")

		rec, body := do(t, router, http.MethodPost, "/api/game/reset")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, entity.Board{}, body.Game.Board)
	})
}

func TestPage(t *testing.T) {
	router := newTestRouter(t)

	t.Run("Issues a session cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "Tic Tac Toe")

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, session.CookieName, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("Serves assets", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/app.js", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/javascript; charset=utf-8", rec.Header().Get("Content-Type"))
	})

	t.Run("Unknown asset", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/missing.js", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Mounts the WebSocket endpoint", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))

		assert.Equal(t, http.StatusTeapot, rec.Code)
	})
}

func TestQR(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/qr.png", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte("\x89PNG"), rec.Body.Bytes()[:4])
}

func TestPageURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/qr.png", nil)
	req.Host = "192.168.1.20:9090"
	assert.Equal(t, "http://192.168.1.20:9090/", pageURL(req))

	req.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://192.168.1.20:9090/", pageURL(req))
}
