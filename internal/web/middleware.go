package web

import (
	"context"
	"net/http"
	"time"

	"flashdeck/internal/study"

	"go.uber.org/zap"
)

const sessionCookie = "session"

type contextKey string

const sessionKey contextKey = "session"

// sessionFrom returns the session attached by requireSession
func sessionFrom(ctx context.Context) *study.Session {
	sess, _ := ctx.Value(sessionKey).(*study.Session)
	return sess
}

// requireSession resolves the session cookie and rejects anonymous requests
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "please log in")
			return
		}
		sess, ok := s.sessions.Get(cookie.Value)
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "session expired, please log in again")
			return
		}
		// Get slid the expiry; keep the cookie lifetime in step
		s.setSessionCookie(w, sess)
		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next(w, r.WithContext(ctx))
	}
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sess *study.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(s.cookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
