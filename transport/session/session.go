package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	CookieName = "user_session"
	lifetime   = 24 * time.Hour

	// RefreshAfter is how long a long-lived connection may go before the client has to
	// come back for a cookie with a new expiry.
	RefreshAfter = lifetime / 2
)

// Resolve - returns the session id of req and the cookie to send back. The cookie always carries
// a fresh expiry so an active session never runs out; a missing or malformed id gets a new uuid.
func Resolve(req *http.Request) (string, *http.Cookie) {
	id := uuid.NewString()
	if cookie, err := req.Cookie(CookieName); err == nil {
		if parsed, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
			id = parsed.String()
		}
	}

	return id, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(lifetime),
		MaxAge:   int(lifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Ensure - resolves the session of req and (re)sets its cookie on writer.
func Ensure(writer http.ResponseWriter, req *http.Request) string {
	id, cookie := Resolve(req)
	http.SetCookie(writer, cookie)

	return id
}
