package websocket

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/transport/session"
)

const (
	pingInterval = 30 * time.Second
	pongWait     = 2 * pingInterval
	writeWait    = 10 * time.Second
	maxMessage   = 4096
)

var (
	ErrUnknownAction    = errors.New("unknown action")
	ErrMalformedMessage = errors.New("malformed message")
)

type gameManager interface {
	State(ctx context.Context, sessionID string) (entity.StatusView, error)
	Play(ctx context.Context, sessionID string, cell int) (entity.StatusView, error)
	Undo(ctx context.Context, sessionID string) (entity.StatusView, error)
	Reset(ctx context.Context, sessionID string) (entity.StatusView, error)
}

type handler func(ctx context.Context, sessionID string, msg *Message) (entity.StatusView, error)

type Server struct {
	ctx          context.Context
	refreshAfter time.Duration

	logger   *slog.Logger
	games    gameManager
	upgrader websocket.Upgrader

	handlers map[string]handler
}

// New - builds the /ws endpoint. Connections are closed once ctx is done.
func New(ctx context.Context, logger *slog.Logger, games gameManager) *Server {
	server := &Server{
		ctx:          ctx,
		refreshAfter: session.RefreshAfter,
		logger:       logger.With("component", "websocket"),
		games:        games,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		handlers: make(map[string]handler),
	}

	server.handlers[actionState] = server.handleState
	server.handlers[actionPlay] = server.handlePlay
	server.handlers[actionUndo] = server.handleUndo
	server.handlers[actionReset] = server.handleReset

	return server
}

// ServeHTTP - upgrades the connection to WebSocket and serves the session's game on it.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	sessionID, cookie := session.Resolve(req)

	header := http.Header{}
	header.Add("Set-Cookie", cookie.String())

	conn, err := that.upgrader.Upgrade(writer, req, header)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	defer conn.Close()

	log = log.With("session_id", sessionID)
	log.Info("WebSocket connection established")

	done := make(chan struct{})
	defer close(done)

	go that.keepAlive(conn, done)

	if err = that.handleMessages(conn, sessionID); err != nil {
		log.Info("connection closed", "error", err)
	}
}

// keepAlive - pings the client and closes the connection when the server stops.
// After refreshAfter the connection is closed normally so the page reconnects and
// picks up a session cookie with a new expiry.
func (that *Server) keepAlive(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	refresh := time.NewTimer(that.refreshAfter)
	defer refresh.Stop()

	for {
		select {
		case <-done:
			return
		case <-refresh.C:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session refresh"),
				time.Now().Add(writeWait))
			_ = conn.Close()
			return
		case <-that.ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			_ = conn.Close()
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
