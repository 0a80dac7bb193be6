// Package admin serves the secret-protected endpoint that creates per-user
// card tables.
package admin

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"flashdeck/internal/domain"

	"go.uber.org/zap"
)

// SecretHeader carries the shared admin secret
const SecretHeader = "x-admin-secret"

const maxBodyBytes = 4 << 10

// Provisioner creates card tables
type Provisioner interface {
	CreateCardTable(ctx context.Context, name string) error
}

type createTableRequest struct {
	Email string `json:"email"`
}

type createTableResponse struct {
	OK    bool   `json:"ok"`
	Table string `json:"table"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server handles admin requests. A nil provisioner means no database is
// configured; an empty secret rejects every provisioning request.
type Server struct {
	secret      string
	provisioner Provisioner
	logger      *zap.Logger
}

func NewServer(secret string, provisioner Provisioner, logger *zap.Logger) *Server {
	return &Server{secret: secret, provisioner: provisioner, logger: logger}
}

// Handler returns the admin routes behind the security headers
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("POST /create-table", s.createTable)
	return secureHeaders(mux)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) createTable(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r.Header.Get(SecretHeader)) {
		s.logger.Warn("Rejected create-table request", zap.String("remote", r.RemoteAddr))
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
		return
	}
	if s.provisioner == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "database is not configured"})
		return
	}

	var req createTableRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	table := domain.CardTableName(req.Email)
	if !domain.ValidIdentifier(table) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "email is too long for a table name"})
		return
	}

	if err := s.provisioner.CreateCardTable(r.Context(), table); err != nil {
		s.logger.Error("Failed to create card table", zap.String("table", table), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	s.logger.Info("Card table ready", zap.String("table", table))
	writeJSON(w, http.StatusOK, createTableResponse{OK: true, Table: table})
}

func (s *Server) authorized(given string) bool {
	if s.secret == "" || given == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(s.secret)) == 1
}

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
