package handler

import (
	"fmt"
	"sync"

	"flashdeck/internal/domain"
	"flashdeck/internal/service"
	"flashdeck/internal/study"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler manages all bot interactions
type Handler struct {
	bot         *tele.Bot
	authService *service.AuthService
	cardService *service.CardService
	quizService *service.QuizService
	sessions    *study.Store
	logger      *zap.Logger

	// User states (in-memory state machine)
	states   map[int64]*domain.StateData
	stateMux sync.RWMutex

	// Serialises callbacks per user so double taps don't race
	callbackLocks map[int64]*sync.Mutex
	callbackMux   sync.Mutex
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	authService *service.AuthService,
	cardService *service.CardService,
	quizService *service.QuizService,
	sessions *study.Store,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:           bot,
		authService:   authService,
		cardService:   cardService,
		quizService:   quizService,
		sessions:      sessions,
		logger:        logger,
		states:        make(map[int64]*domain.StateData),
		callbackLocks: make(map[int64]*sync.Mutex),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/logout", h.handleLogout)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnFetch, h.handleFetch)
	h.bot.Handle(&btnAdd, h.handleAddCard)
	h.bot.Handle(&btnQuiz, h.handleSingleChoice)
	h.bot.Handle(&btnFillBlank, h.handleFillBlank)
	h.bot.Handle(&btnPrev, h.handlePrev)
	h.bot.Handle(&btnFlip, h.handleFlip)
	h.bot.Handle(&btnNext, h.handleNext)
	h.bot.Handle(&btnCancel, h.handleCancel)
	h.bot.Handle(&btnMainMenu, h.handleMainMenu)

	// Generic callback handler for dynamic data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// GetState returns user's current state
func (h *Handler) GetState(userID int64) *domain.StateData {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[userID]
	if !exists {
		return &domain.StateData{State: domain.StateIdle}
	}
	return state
}

// SetState sets user's state
func (h *Handler) SetState(userID int64, state *domain.StateData) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[userID] = state
}

// ResetState resets user to idle state
func (h *Handler) ResetState(userID int64) {
	h.SetState(userID, &domain.StateData{State: domain.StateIdle})
}

// Authenticated reports whether the user has a live session
func (h *Handler) Authenticated(userID int64) bool {
	_, ok := h.sessions.Get(sessionID(userID))
	return ok
}

// InLoginFlow reports whether the user is typing their email or password
func (h *Handler) InLoginFlow(userID int64) bool {
	switch h.GetState(userID).State {
	case domain.StateWaitingEmail, domain.StateWaitingPass:
		return true
	}
	return false
}

// BeginLogin asks the user for their email on the next message
func (h *Handler) BeginLogin(userID int64) {
	h.SetState(userID, &domain.StateData{State: domain.StateWaitingEmail})
}

// session returns the user's study session, if logged in
func (h *Handler) session(userID int64) (*study.Session, bool) {
	return h.sessions.Get(sessionID(userID))
}

// userLock returns the per-user callback lock
func (h *Handler) userLock(userID int64) *sync.Mutex {
	h.callbackMux.Lock()
	defer h.callbackMux.Unlock()

	lock, exists := h.callbackLocks[userID]
	if !exists {
		lock = &sync.Mutex{}
		h.callbackLocks[userID] = lock
	}
	return lock
}

// sessionID keys Telegram users in the shared session store
func sessionID(userID int64) string {
	return fmt.Sprintf("tg:%d", userID)
}

const (
	msgMainMenu    = "🏠 Main menu\n\nChoose an action:"
	msgAskEmail    = "👋 Welcome to flashdeck! Send your email to log in:"
	msgAskPassword = "🔑 Now send your password:"
	msgError       = "Something went wrong. Please try again later."
)

// Inline keyboard buttons
var (
	btnFetch = tele.Btn{
		Unique: "fetch",
		Text:   "📚 Fetch cards",
	}
	btnAdd = tele.Btn{
		Unique: "add",
		Text:   "➕ Add card",
	}
	btnQuiz = tele.Btn{
		Unique: "quiz",
		Text:   "🎯 Quiz",
	}
	btnFillBlank = tele.Btn{
		Unique: "fill_blank",
		Text:   "✏️ Fill in the blank",
	}
	btnPrev = tele.Btn{
		Unique: "prev",
		Text:   "⬅️ Prev",
	}
	btnFlip = tele.Btn{
		Unique: "flip",
		Text:   "🔄 Flip",
	}
	btnNext = tele.Btn{
		Unique: "next",
		Text:   "➡️ Next",
	}
	btnCancel = tele.Btn{
		Unique: "cancel",
		Text:   "❌ Cancel",
	}
	btnMainMenu = tele.Btn{
		Unique: "main_menu",
		Text:   "🏠 Main menu",
	}
)

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnFetch, btnAdd),
		menu.Row(btnQuiz, btnFillBlank),
	)
	return menu
}

// browseMarkup returns the card browsing keyboard
func browseMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnPrev, btnFlip, btnNext),
		menu.Row(btnMainMenu),
	)
	return menu
}

// cancelMarkup returns a keyboard with only the cancel button
func cancelMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(menu.Row(btnCancel))
	return menu
}
