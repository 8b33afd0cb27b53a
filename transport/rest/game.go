package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/transport/session"
	"github.com/rocketscienceinc/tictactoe-local/transport/view"
)

type response struct {
	Game  *view.Game `json:"game,omitempty"`
	Error string     `json:"error,omitempty"`
}

type gameHandler struct {
	logger *slog.Logger
	games  gameManager
}

func newGameHandler(logger *slog.Logger, games gameManager) *gameHandler {
	return &gameHandler{
		logger: logger,
		games:  games,
	}
}

func (that *gameHandler) state(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sessionID := session.Ensure(w, r)

	status, err := that.games.State(r.Context(), sessionID)
	that.writeResult(w, "state", sessionID, status, err)
}

func (that *gameHandler) play(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sessionID := session.Ensure(w, r)

	cell, err := strconv.Atoi(ps.ByName("cell"))
	if err == nil {
		err = entity.ValidateCell(cell)
	}

	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{Error: fmt.Sprintf("%v: %v", apperror.ErrIllegalMove, err)})
		return
	}

	status, err := that.games.Play(r.Context(), sessionID, cell)
	that.writeResult(w, "play", sessionID, status, err)
}

func (that *gameHandler) undo(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sessionID := session.Ensure(w, r)

	status, err := that.games.Undo(r.Context(), sessionID)
	that.writeResult(w, "undo", sessionID, status, err)
}

func (that *gameHandler) reset(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sessionID := session.Ensure(w, r)

	status, err := that.games.Reset(r.Context(), sessionID)
	that.writeResult(w, "reset", sessionID, status, err)
}

// writeResult - answers with the view; a rejected intent is a 409 that still carries the unchanged view.
func (that *gameHandler) writeResult(w http.ResponseWriter, method, sessionID string, status entity.StatusView, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, response{Game: view.New(status)})
	case errors.Is(err, apperror.ErrIllegalMove), errors.Is(err, apperror.ErrNoMoveToUndo):
		writeJSON(w, http.StatusConflict, response{Game: view.New(status), Error: err.Error()})
	default:
		that.logger.Error("failed to process request", "method", method, "session_id", sessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, response{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)

	_ = json.NewEncoder(w).Encode(body)
}
