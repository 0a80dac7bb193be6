package web

import (
	"net/http"

	"flashdeck/internal/quiz"
	"flashdeck/internal/study"

	"go.uber.org/zap"
)

const defaultBatchSize = 10

type quizRequest struct {
	Mode     string `json:"mode"`
	Language string `json:"language"`
}

type answerRequest struct {
	Index *int `json:"index"`
}

type quizResponse struct {
	State        string        `json:"state"`
	Sentence     string        `json:"sentence,omitempty"`
	Options      []quiz.Option `json:"options"`
	Feedback     string        `json:"feedback,omitempty"`
	Interactive  bool          `json:"interactive"`
	CorrectIndex *int          `json:"correct_index,omitempty"`
	Correct      *bool         `json:"correct,omitempty"`
}

type batchRequest struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

type saveBatchRequest struct {
	Indices []int `json:"indices"`
}

type askRequest struct {
	Prompt string `json:"prompt"`
}

func quizView(v quiz.View) quizResponse {
	resp := quizResponse{
		State:       v.State.String(),
		Sentence:    v.Sentence,
		Options:     v.Options,
		Feedback:    v.Feedback,
		Interactive: v.Interactive,
	}
	if resp.Options == nil {
		resp.Options = []quiz.Option{}
	}
	if v.CorrectIndex >= 0 {
		idx := v.CorrectIndex
		resp.CorrectIndex = &idx
	}
	return resp
}

func (s *Server) getQuiz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, quizView(sessionFrom(r.Context()).Quiz.Snapshot()))
}

// generateQuiz builds a quiz from the browsed cards. Fill in the blank
// always re-reads the card table, as do sessions with nothing loaded yet.
func (s *Server) generateQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	mode, err := quiz.ParseMode(req.Mode)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	sess := sessionFrom(r.Context())
	cards := sess.Browser.Cards()
	if mode == quiz.FillBlankSimple || len(cards) == 0 {
		cards, err = s.cards.ListCards(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	if _, err := s.gen.GenerateQuiz(r.Context(), sess.Quiz, cards, mode, req.Language); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quizView(sess.Quiz.Snapshot()))
}

func (s *Server) answerQuiz(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Index == nil {
		writeMessage(w, http.StatusBadRequest, "index is required")
		return
	}

	sess := sessionFrom(r.Context())
	res, err := sess.Quiz.Answer(*req.Index)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := quizView(sess.Quiz.Snapshot())
	resp.Correct = &res.Correct
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getBatch(w http.ResponseWriter, r *http.Request) {
	batch, ok := sessionFrom(r.Context()).Review.Pending()
	if !ok {
		s.writeError(w, r, study.ErrNoBatch)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

// generateBatch asks for new words and holds them for review
func (s *Server) generateBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Count == 0 {
		req.Count = defaultBatchSize
	}
	if req.Language == "" {
		req.Language = s.gen.DefaultLanguage()
	}

	pairs, err := s.gen.GenerateBatch(r.Context(), req.Language, req.Count)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	batch := study.Batch{Language: req.Language, Pairs: pairs}
	sessionFrom(r.Context()).Review.Set(batch)
	writeJSON(w, http.StatusOK, batch)
}

// saveBatch merges the selected pairs into the language deck. Omitting
// indices saves every pair; the batch is kept if saving fails.
func (s *Server) saveBatch(w http.ResponseWriter, r *http.Request) {
	var req saveBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	review := sessionFrom(r.Context()).Review
	full, err := review.Take(nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	batch := full.Select(req.Indices)

	deck, err := s.decks.MergeCards(r.Context(), batch.Language, batch.Pairs)
	if err != nil {
		if !review.Restore(full) {
			s.logger.Warn("Unsaved batch replaced by a newer one", zap.String("language", full.Language))
		}
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deckView(*deck))
}

func (s *Server) discardBatch(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r.Context()).Review.Discard()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	reply, err := s.gen.Ask(r.Context(), req.Prompt)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
