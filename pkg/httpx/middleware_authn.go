package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/wellfora/wellfora/pkg/jwtx"
	"github.com/wellfora/wellfora/pkg/slogx"
)

// SessionCookieName is the HTTP-only cookie carrying the session token.
const SessionCookieName = "access_token"

// SetSessionCookie attaches a signed session token to the response.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
	})
}

// ClearSessionCookie expires the session cookie on the client. The server
// holds no session state, so this is the whole logout.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

// SessionMiddleware authenticates requests from the session cookie. A
// missing, malformed, or expired token ends the request with 401; on
// success the decoded claims are injected into the request context.
func SessionMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				writeSessionError(w, "missing session token")
				return
			}

			claims, err := v.Verify(cookie.Value)
			if err != nil {
				log.Warn("session token verification failed", "err", err)
				writeSessionError(w, "invalid session token")
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithSession(ctx, claims)))
		})
	}
}

func writeSessionError(w http.ResponseWriter, desc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthenticated",
		"message": desc,
	})
}
