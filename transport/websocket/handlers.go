package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/transport/view"
)

var errCellRequired = errors.New("cell is required")

// handleMessages - processes messages from the client until the connection closes.
func (that *Server) handleMessages(conn *websocket.Conn, sessionID string) error {
	log := that.logger.With("method", "handleMessages", "session_id", sessionID)

	conn.SetReadLimit(maxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// the page renders straight from the first push
	if err := that.dispatch(conn, sessionID, &Message{Action: actionState}); err != nil {
		return err
	}

	for {
		var message Message
		if err := conn.ReadJSON(&message); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				log.Warn("failed to unmarshal message", "error", err)

				reply := ResponsePayload{Error: fmt.Sprintf("%v: %v", ErrMalformedMessage, err)}
				if err = that.sendMessage(conn, actionError, reply); err != nil {
					return err
				}

				continue
			}

			return err
		}

		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		if err := that.dispatch(conn, sessionID, &message); err != nil {
			return err
		}
	}
}

// dispatch - runs the handler of msg and answers with the resulting view.
// Only write errors are returned; game errors go back to the client.
func (that *Server) dispatch(conn *websocket.Conn, sessionID string, msg *Message) error {
	log := that.logger.With("method", "dispatch", "session_id", sessionID, "action", msg.Action)

	handle, ok := that.handlers[msg.Action]
	if !ok {
		log.Error("error processing message", "error", ErrUnknownAction)
		return that.sendMessage(conn, msg.Action, ResponsePayload{Error: fmt.Sprintf("%v: %s", ErrUnknownAction, msg.Action)})
	}

	status, err := handle(that.ctx, sessionID, msg)

	var payload ResponsePayload

	switch {
	case err == nil:
		payload.Game = view.New(status)
	case errors.Is(err, apperror.ErrIllegalMove), errors.Is(err, apperror.ErrNoMoveToUndo):
		payload.Game = view.New(status)
		payload.Error = err.Error()
	default:
		log.Error("error processing message", "error", err)
		payload.Error = "internal error"
	}

	return that.sendMessage(conn, msg.Action, payload)
}

func (that *Server) handleState(ctx context.Context, sessionID string, _ *Message) (entity.StatusView, error) {
	return that.games.State(ctx, sessionID)
}

func (that *Server) handlePlay(ctx context.Context, sessionID string, msg *Message) (entity.StatusView, error) {
	var payloadReq RequestPayload

	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
			return that.currentWithError(ctx, sessionID, fmt.Errorf("%w: failed to unmarshal payload: %w", apperror.ErrIllegalMove, err))
		}
	}

	if payloadReq.Cell == nil {
		return that.currentWithError(ctx, sessionID, fmt.Errorf("%w: %w", apperror.ErrIllegalMove, errCellRequired))
	}

	return that.games.Play(ctx, sessionID, *payloadReq.Cell)
}

func (that *Server) handleUndo(ctx context.Context, sessionID string, _ *Message) (entity.StatusView, error) {
	return that.games.Undo(ctx, sessionID)
}

func (that *Server) handleReset(ctx context.Context, sessionID string, _ *Message) (entity.StatusView, error) {
	return that.games.Reset(ctx, sessionID)
}

// currentWithError - answers a malformed request with the unchanged view.
func (that *Server) currentWithError(ctx context.Context, sessionID string, cause error) (entity.StatusView, error) {
	status, err := that.games.State(ctx, sessionID)
	if err != nil {
		return status, err
	}

	return status, cause
}

func (that *Server) sendMessage(conn *websocket.Conn, action string, payload ResponsePayload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err = conn.WriteJSON(Message{Action: action, Payload: payloadJSON}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
