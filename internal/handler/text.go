package handler

import (
	"context"
	"errors"
	"strings"

	"flashdeck/internal/domain"
	"flashdeck/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	state := h.GetState(userID)

	switch state.State {
	case domain.StateWaitingEmail:
		h.SetState(userID, &domain.StateData{
			State:        domain.StateWaitingPass,
			PendingEmail: text,
		})
		return c.Send(msgAskPassword)

	case domain.StateWaitingPass:
		return h.login(c, state.PendingEmail, text)

	case domain.StateWaitingFront:
		h.SetState(userID, &domain.StateData{
			State:        domain.StateWaitingBack,
			PendingFront: text,
		})
		return c.Send("Now send the back of the card", cancelMarkup())

	case domain.StateWaitingBack:
		return h.saveCard(c, state.PendingFront, text)

	default:
		return c.Send(msgMainMenu, mainMenuMarkup())
	}
}

// login checks the credentials and opens the user's session
func (h *Handler) login(c tele.Context, email, password string) error {
	userID := c.Sender().ID

	// The password should not stay in the chat history
	if err := c.Delete(); err != nil {
		h.logger.Debug("Failed to delete password message", zap.Error(err))
	}

	user, err := h.authService.Login(context.Background(), email, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.BeginLogin(userID)
		return c.Send("❌ Invalid email or password.\n\nSend your email:")
	}
	if err != nil {
		h.logger.Error("Failed to log in", zap.Int64("user_id", userID), zap.Error(err))
		h.BeginLogin(userID)
		return c.Send(msgError)
	}

	u := *user
	u.PasswordHash = ""
	h.sessions.Open(sessionID(userID), u)
	h.ResetState(userID)

	h.logger.Info("User logged in", zap.Int64("user_id", userID), zap.Int64("account_id", user.ID))
	return c.Send("✅ Logged in as "+user.Email+"\n\n"+msgMainMenu, mainMenuMarkup())
}

// saveCard stores the card and reloads the user's browser
func (h *Handler) saveCard(c tele.Context, front, back string) error {
	userID := c.Sender().ID
	ctx := context.Background()

	card, err := h.cardService.AddCard(ctx, front, back)
	if errors.Is(err, service.ErrEmptyCard) {
		h.SetState(userID, &domain.StateData{State: domain.StateWaitingFront})
		return c.Send("Please enter both front and back.\n\nSend the front of the card:", cancelMarkup())
	}
	if err != nil {
		h.logger.Error("Failed to save card", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send("Could not save the card. Please try again.")
	}

	h.logger.Info("Card saved",
		zap.Int64("user_id", userID),
		zap.Int64("card_id", card.ID),
	)

	if sess, ok := h.session(userID); ok {
		if cards, err := h.cardService.ListCards(ctx); err == nil {
			sess.Browser.Load(cards)
		} else {
			h.logger.Warn("Failed to reload cards", zap.Error(err))
		}
	}

	// Wait for the next card
	h.SetState(userID, &domain.StateData{State: domain.StateWaitingFront})
	return c.Send("✅ Saved!\n\nSend the front of the next card or tap Cancel", cancelMarkup())
}
