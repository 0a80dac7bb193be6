// Package web serves the JSON API used by the browser front-end.
package web

import (
	"context"
	"net/http"
	"time"

	"flashdeck/internal/domain"
	"flashdeck/internal/quiz"
	"flashdeck/internal/study"

	"go.uber.org/zap"
)

// Authenticator signs accounts up and in
type Authenticator interface {
	SignUp(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
}

// CardStore reads and writes the flashcard table
type CardStore interface {
	ListCards(ctx context.Context) ([]domain.Card, error)
	AddCard(ctx context.Context, front, back string) (*domain.Card, error)
	UpdateCard(ctx context.Context, card domain.Card) error
}

// DeckManager reads and writes language decks
type DeckManager interface {
	FormatDeck(language, text string) (*domain.Deck, error)
	SaveDeck(ctx context.Context, deck *domain.Deck) error
	GetDeck(ctx context.Context, language string) (*domain.Deck, error)
	ListDecks(ctx context.Context) ([]domain.Deck, error)
	MergeCards(ctx context.Context, language string, pairs []domain.CardPair) (*domain.Deck, error)
}

// Generator produces quizzes, card batches and free-form answers
type Generator interface {
	GenerateQuiz(ctx context.Context, sess *quiz.Session, cards []domain.Card, mode quiz.Mode, language string) (*quiz.Item, error)
	GenerateBatch(ctx context.Context, language string, count int) ([]domain.CardPair, error)
	Ask(ctx context.Context, prompt string) (string, error)
	DefaultLanguage() string
}

// Server holds the handlers of the JSON API
type Server struct {
	auth      Authenticator
	cards     CardStore
	decks     DeckManager
	gen       Generator
	sessions  *study.Store
	cookieTTL time.Duration
	logger    *zap.Logger
}

func NewServer(auth Authenticator, cards CardStore, decks DeckManager, gen Generator, sessions *study.Store, cookieTTL time.Duration, logger *zap.Logger) *Server {
	return &Server{
		auth:      auth,
		cards:     cards,
		decks:     decks,
		gen:       gen,
		sessions:  sessions,
		cookieTTL: cookieTTL,
		logger:    logger,
	}
}

// Handler returns the routed API wrapped in request logging
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.health)

	mux.HandleFunc("POST /api/signup", s.signUp)
	mux.HandleFunc("POST /api/login", s.login)
	mux.HandleFunc("POST /api/logout", s.logout)

	mux.HandleFunc("GET /api/cards", s.requireSession(s.listCards))
	mux.HandleFunc("POST /api/cards", s.requireSession(s.addCard))
	mux.HandleFunc("PUT /api/cards/{id}", s.requireSession(s.updateCard))

	mux.HandleFunc("GET /api/browser", s.requireSession(s.currentCard))
	mux.HandleFunc("POST /api/browser/flip", s.requireSession(s.flipCard))
	mux.HandleFunc("POST /api/browser/next", s.requireSession(s.nextCard))
	mux.HandleFunc("POST /api/browser/prev", s.requireSession(s.prevCard))
	mux.HandleFunc("POST /api/browser/order", s.requireSession(s.setOrder))

	mux.HandleFunc("GET /api/quiz", s.requireSession(s.getQuiz))
	mux.HandleFunc("POST /api/quiz", s.requireSession(s.generateQuiz))
	mux.HandleFunc("POST /api/quiz/answer", s.requireSession(s.answerQuiz))

	mux.HandleFunc("GET /api/batch", s.requireSession(s.getBatch))
	mux.HandleFunc("POST /api/batch", s.requireSession(s.generateBatch))
	mux.HandleFunc("POST /api/batch/save", s.requireSession(s.saveBatch))
	mux.HandleFunc("DELETE /api/batch", s.requireSession(s.discardBatch))

	mux.HandleFunc("GET /api/decks", s.requireSession(s.listDecks))
	mux.HandleFunc("GET /api/decks/{language}", s.requireSession(s.getDeck))
	mux.HandleFunc("POST /api/decks/format", s.requireSession(s.formatDeck))
	mux.HandleFunc("POST /api/decks", s.requireSession(s.saveDeck))

	mux.HandleFunc("POST /api/ask", s.requireSession(s.ask))
	mux.HandleFunc("GET /api/table-sql", s.requireSession(s.tableSQL))

	return s.logRequests(mux)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
