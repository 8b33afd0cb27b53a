package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

const (
	timeout         = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

type gameManager interface {
	State(ctx context.Context, sessionID string) (entity.StatusView, error)
	Play(ctx context.Context, sessionID string, cell int) (entity.StatusView, error)
	Undo(ctx context.Context, sessionID string) (entity.StatusView, error)
	Reset(ctx context.Context, sessionID string) (entity.StatusView, error)
}

// NewRouter - registers the page, the JSON game API and the WebSocket endpoint ws.
// publicURL is encoded into /qr.png; when empty the request host is used.
func NewRouter(logger *slog.Logger, games gameManager, ws http.Handler, publicURL string) *httprouter.Router {
	log := logger.With("component", "rest")

	mux := httprouter.New()

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, i any) {
		log.Error("panic while serving request", "path", r.URL.Path, "panic", i)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}

	ping := NewPingHandler()
	game := newGameHandler(log, games)

	mux.GET("/", servePage)
	mux.GET("/assets/:file", serveAssets)
	mux.GET("/ping", ping.PingHandler)
	mux.GET("/healthz", ping.HealthHandler)
	mux.GET("/qr.png", serveQR(publicURL))

	mux.GET("/api/game", game.state)
	mux.POST("/api/game/play/:cell", game.play)
	mux.POST("/api/game/undo", game.undo)
	mux.POST("/api/game/reset", game.reset)

	mux.Handler(http.MethodGet, "/ws", ws)

	return mux
}

// Start - serves handler on port until ctx is done, then shuts the server down.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              net.JoinHostPort("", port),
		Handler:           handler,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: timeout,
		WriteTimeout:      timeout,
		IdleTimeout:       30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}

	return nil
}

func securityHeaders(w http.ResponseWriter) {
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'self'")
}
