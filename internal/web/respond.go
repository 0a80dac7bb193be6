package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"flashdeck/internal/generator"
	"flashdeck/internal/quiz"
	"flashdeck/internal/repository"
	"flashdeck/internal/service"
	"flashdeck/internal/study"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("invalid request body")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeError turns err into a status and a message the user can act on.
// Unexpected errors are logged and reported generically.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	if status == http.StatusInternalServerError {
		writeMessage(w, status, "something went wrong, please try again")
		return
	}
	writeMessage(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrEmptyCard),
		errors.Is(err, service.ErrEmptyLanguage),
		errors.Is(err, service.ErrEmptyDeck),
		errors.Is(err, service.ErrNothingToSave),
		errors.Is(err, service.ErrNoCards),
		errors.Is(err, service.ErrNotEnoughCards),
		errors.Is(err, service.ErrEmptyPrompt),
		errors.Is(err, quiz.ErrInvalidOption),
		errors.Is(err, quiz.ErrInvalidCount):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrDeckNotFound),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrDeckExists),
		errors.Is(err, quiz.ErrGenerationInProgress),
		errors.Is(err, quiz.ErrNoActiveQuiz),
		errors.Is(err, quiz.ErrAlreadyAnswered),
		errors.Is(err, study.ErrNoBatch):
		return http.StatusConflict
	case errors.Is(err, generator.ErrTimedOut):
		return http.StatusGatewayTimeout
	case errors.Is(err, generator.ErrGeneration),
		errors.Is(err, generator.ErrEmptyCompletion),
		errors.Is(err, quiz.ErrWrongFieldCount),
		errors.Is(err, quiz.ErrMissingBlank),
		errors.Is(err, quiz.ErrExtraBlanks),
		errors.Is(err, quiz.ErrInvalidOptions),
		errors.Is(err, quiz.ErrWordMismatch),
		errors.Is(err, quiz.ErrNoDistractors),
		errors.Is(err, quiz.ErrNoJSONFound),
		errors.Is(err, quiz.ErrInvalidJSON),
		errors.Is(err, quiz.ErrDuplicateWord),
		errors.Is(err, quiz.ErrEmptyWord):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
