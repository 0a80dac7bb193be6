package handler

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("User started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	if !h.Authenticated(userID) {
		h.BeginLogin(userID)
		return c.Send(msgAskEmail)
	}

	h.ResetState(userID)
	return c.Send(msgMainMenu, mainMenuMarkup())
}

// handleLogout drops the user's session
func (h *Handler) handleLogout(c tele.Context) error {
	userID := c.Sender().ID

	h.sessions.Delete(sessionID(userID))
	h.BeginLogin(userID)

	h.logger.Info("User logged out", zap.Int64("user_id", userID))
	return c.Send("👋 Logged out.\n\n" + msgAskEmail)
}
