package middleware

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// LoginGate tracks which Telegram users are signed in
type LoginGate interface {
	Authenticated(userID int64) bool
	InLoginFlow(userID int64) bool
	BeginLogin(userID int64)
}

const loginPrompt = "🔒 Please log in first. Send your email:"

// AuthMiddleware creates authentication middleware. Users without a session
// are sent into the login flow; /start and login replies pass through.
func AuthMiddleware(gate LoginGate, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return nil
			}
			userID := sender.ID

			if gate.Authenticated(userID) || c.Text() == "/start" {
				return next(c)
			}
			if c.Callback() == nil && gate.InLoginFlow(userID) {
				return next(c)
			}

			logger.Debug("Redirecting unauthenticated user to login", zap.Int64("user_id", userID))
			gate.BeginLogin(userID)
			if c.Callback() != nil {
				_ = c.Respond(&tele.CallbackResponse{Text: "Please log in first"})
			}
			return c.Send(loginPrompt)
		}
	}
}
