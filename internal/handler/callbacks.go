package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"flashdeck/internal/domain"
	"flashdeck/internal/quiz"
	"flashdeck/internal/service"
	"flashdeck/internal/study"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const answerPrefix = "answer_"

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// callbackKey returns the button id of a callback. Buttons without a
// registered handler arrive with an empty Unique and the id in Data.
func callbackKey(cb *tele.Callback) string {
	key := cb.Unique
	if key == "" {
		key = cleanCallbackData(cb.Data)
	}
	if i := strings.IndexByte(key, '|'); i >= 0 {
		key = key[:i]
	}
	return key
}

// parseAnswerIndex extracts i from "answer_<i>"
func parseAnswerIndex(key string) (int, bool) {
	if !strings.HasPrefix(key, answerPrefix) {
		return 0, false
	}
	i, err := strconv.Atoi(strings.TrimPrefix(key, answerPrefix))
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	// Message was already edited by another callback
	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		_ = c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// show edits the callback's message, or sends a new one for commands
func (h *Handler) show(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() == nil {
		return c.Send(text, markup)
	}
	if err := c.Edit(text, markup); err != nil {
		if handleErr := h.handleEditError(err, c, c.Sender().ID); handleErr == nil {
			return nil
		}
		return c.Send(text, markup)
	}
	return c.Respond()
}

// requireSession returns the user's session or restarts the login flow
func (h *Handler) requireSession(c tele.Context) (*study.Session, bool) {
	userID := c.Sender().ID
	sess, ok := h.session(userID)
	if !ok {
		h.BeginLogin(userID)
		if c.Callback() != nil {
			_ = c.Respond(&tele.CallbackResponse{Text: "Session expired"})
		}
		_ = c.Send(msgAskEmail)
	}
	return sess, ok
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	key := callbackKey(callback)
	h.logger.Debug("handleCallback: Processing callback",
		zap.String("key", key),
		zap.String("data_raw", callback.Data),
		zap.String("id", callback.ID),
		zap.Int64("user_id", c.Sender().ID),
	)

	switch key {
	case btnFetch.Unique:
		return h.handleFetch(c)
	case btnAdd.Unique:
		return h.handleAddCard(c)
	case btnQuiz.Unique:
		return h.handleSingleChoice(c)
	case btnFillBlank.Unique:
		return h.handleFillBlank(c)
	case btnPrev.Unique:
		return h.handlePrev(c)
	case btnFlip.Unique:
		return h.handleFlip(c)
	case btnNext.Unique:
		return h.handleNext(c)
	case btnCancel.Unique:
		return h.handleCancel(c)
	case btnMainMenu.Unique:
		return h.handleMainMenu(c)
	}

	if i, ok := parseAnswerIndex(key); ok {
		return h.handleAnswer(c, i)
	}

	h.logger.Warn("Unhandled callback", zap.String("key", key))
	return c.Respond()
}

// handleFetch loads the card table into the user's browser
func (h *Handler) handleFetch(c tele.Context) error {
	sess, ok := h.requireSession(c)
	if !ok {
		return nil
	}

	cards, err := h.cardService.ListCards(context.Background())
	if err != nil {
		h.logger.Error("Failed to fetch cards", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: msgError, ShowAlert: true})
	}

	sess.Browser.Load(cards)
	return h.show(c, renderCard(sess.Browser.Current()), browseMarkup())
}

func (h *Handler) handlePrev(c tele.Context) error {
	return h.browse(c, (*study.Browser).Prev)
}

func (h *Handler) handleFlip(c tele.Context) error {
	return h.browse(c, (*study.Browser).Flip)
}

func (h *Handler) handleNext(c tele.Context) error {
	return h.browse(c, (*study.Browser).Next)
}

func (h *Handler) browse(c tele.Context, move func(*study.Browser)) error {
	sess, ok := h.requireSession(c)
	if !ok {
		return nil
	}

	move(sess.Browser)
	return h.show(c, renderCard(sess.Browser.Current()), browseMarkup())
}

// handleAddCard starts the front-then-back card flow
func (h *Handler) handleAddCard(c tele.Context) error {
	h.SetState(c.Sender().ID, &domain.StateData{State: domain.StateWaitingFront})
	return h.show(c, "➕ Send the front of the card", cancelMarkup())
}

// handleCancel cancels current operation and resets state
func (h *Handler) handleCancel(c tele.Context) error {
	h.ResetState(c.Sender().ID)
	return h.show(c, msgMainMenu, mainMenuMarkup())
}

func (h *Handler) handleMainMenu(c tele.Context) error {
	h.ResetState(c.Sender().ID)
	return h.show(c, msgMainMenu, mainMenuMarkup())
}

func (h *Handler) handleSingleChoice(c tele.Context) error {
	return h.generateQuiz(c, quiz.SingleChoice)
}

func (h *Handler) handleFillBlank(c tele.Context) error {
	return h.generateQuiz(c, quiz.FillBlankSimple)
}

// generateQuiz asks for a quiz built from the browsed cards. Fill in the
// blank always re-reads the card table, as do users with nothing loaded.
func (h *Handler) generateQuiz(c tele.Context, mode quiz.Mode) error {
	userID := c.Sender().ID
	sess, ok := h.requireSession(c)
	if !ok {
		return nil
	}

	lock := h.userLock(userID)
	if !lock.TryLock() {
		return c.Respond(&tele.CallbackResponse{Text: "A quiz is already being generated"})
	}
	defer lock.Unlock()

	ctx := context.Background()
	cards := sess.Browser.Cards()
	if mode == quiz.FillBlankSimple || len(cards) == 0 {
		var err error
		if cards, err = h.cardService.ListCards(ctx); err != nil {
			h.logger.Error("Failed to fetch cards", zap.Error(err))
			return c.Respond(&tele.CallbackResponse{Text: msgError, ShowAlert: true})
		}
	}

	if c.Callback() != nil {
		_ = c.Respond(&tele.CallbackResponse{Text: "Generating..."})
	}

	_, err := h.quizService.GenerateQuiz(ctx, sess.Quiz, cards, mode, "")
	switch {
	case errors.Is(err, service.ErrNoCards), errors.Is(err, service.ErrNotEnoughCards):
		return c.Send("⚠️ "+err.Error(), mainMenuMarkup())
	case errors.Is(err, quiz.ErrGenerationInProgress):
		return c.Send("⏳ " + err.Error())
	case err != nil:
		h.logger.Warn("Quiz generation failed", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send(renderQuiz(sess.Quiz.Snapshot()), mainMenuMarkup())
	}

	view := sess.Quiz.Snapshot()
	return c.Send(renderQuiz(view), quizMarkup(view))
}

// handleAnswer grades the tapped option and removes the option buttons
func (h *Handler) handleAnswer(c tele.Context, index int) error {
	sess, ok := h.requireSession(c)
	if !ok {
		return nil
	}

	res, err := sess.Quiz.Answer(index)
	switch {
	case errors.Is(err, quiz.ErrAlreadyAnswered):
		return c.Respond(&tele.CallbackResponse{Text: "Already answered"})
	case errors.Is(err, quiz.ErrNoActiveQuiz), errors.Is(err, quiz.ErrInvalidOption):
		return c.Respond(&tele.CallbackResponse{Text: "This quiz is no longer active"})
	case err != nil:
		h.logger.Error("Failed to check answer", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: msgError})
	}

	mark := "❌"
	if res.Correct {
		mark = "✅"
	}
	_ = c.Respond(&tele.CallbackResponse{Text: mark})
	return h.show(c, renderQuiz(sess.Quiz.Snapshot()), mainMenuMarkup())
}

// renderCard formats the browser's current card
func renderCard(v study.CardView) string {
	if v.Empty {
		return "🃏 " + v.Text
	}
	return fmt.Sprintf("🃏 %s\n\n%d/%d · %s", v.Text, v.Index+1, v.Total, v.Side)
}

// renderQuiz formats a quiz snapshot; once answered the correct option is marked
func renderQuiz(v quiz.View) string {
	var b strings.Builder
	switch v.State {
	case quiz.StateGenerating:
		return "⏳ Generating quiz..."
	case quiz.StateFailed:
		return "⚠️ " + v.Feedback
	case quiz.StateIdle:
		return "No quiz yet"
	}

	b.WriteString("🎯 ")
	b.WriteString(v.Sentence)
	b.WriteString("\n")
	for i, opt := range v.Options {
		prefix := "•"
		if i == v.CorrectIndex {
			prefix = "✓"
		}
		fmt.Fprintf(&b, "\n%s %s", prefix, opt.Text)
	}
	if v.Feedback != "" {
		b.WriteString("\n\n")
		b.WriteString(v.Feedback)
	}
	return b.String()
}

// quizMarkup has one button per option while the quiz is answerable
func quizMarkup(v quiz.View) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	if !v.Interactive {
		return markup
	}

	rows := make([]tele.Row, 0, len(v.Options))
	for i, opt := range v.Options {
		rows = append(rows, markup.Row(markup.Data(opt.Text, fmt.Sprintf("%s%d", answerPrefix, i))))
	}
	markup.Inline(rows...)
	return markup
}
