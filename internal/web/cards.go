package web

import (
	"net/http"
	"strconv"

	"flashdeck/internal/domain"
	"flashdeck/internal/study"
)

type cardsResponse struct {
	Cards   []domain.Card  `json:"cards"`
	Current study.CardView `json:"current"`
}

type addCardRequest struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

type orderRequest struct {
	Order string `json:"order"`
}

// listCards fetches the cards and restarts browsing at the first one
func (s *Server) listCards(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := s.reloadCards(r, sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, browserState(sess))
}

func (s *Server) addCard(w http.ResponseWriter, r *http.Request) {
	var req addCardRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if _, err := s.cards.AddCard(r.Context(), req.Front, req.Back); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess := sessionFrom(r.Context())
	if err := s.reloadCards(r, sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, browserState(sess))
}

// updateCard rewrites both sides of a card and reloads the browser
func (s *Server) updateCard(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeMessage(w, http.StatusBadRequest, "invalid card id")
		return
	}

	var req addCardRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	card := domain.Card{ID: id, Front: req.Front, Back: req.Back}
	if err := s.cards.UpdateCard(r.Context(), card); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess := sessionFrom(r.Context())
	if err := s.reloadCards(r, sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, browserState(sess))
}

func (s *Server) reloadCards(r *http.Request, sess *study.Session) error {
	cards, err := s.cards.ListCards(r.Context())
	if err != nil {
		return err
	}
	sess.Browser.Load(cards)
	return nil
}

func (s *Server) currentCard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r.Context()).Browser.Current())
}

func (s *Server) flipCard(w http.ResponseWriter, r *http.Request) {
	b := sessionFrom(r.Context()).Browser
	b.Flip()
	writeJSON(w, http.StatusOK, b.Current())
}

func (s *Server) nextCard(w http.ResponseWriter, r *http.Request) {
	b := sessionFrom(r.Context()).Browser
	b.Next()
	writeJSON(w, http.StatusOK, b.Current())
}

func (s *Server) prevCard(w http.ResponseWriter, r *http.Request) {
	b := sessionFrom(r.Context()).Browser
	b.Prev()
	writeJSON(w, http.StatusOK, b.Current())
}

func (s *Server) setOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	order, err := study.ParseOrder(req.Order)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	b := sessionFrom(r.Context()).Browser
	b.SetOrder(order)
	writeJSON(w, http.StatusOK, b.Current())
}

func browserState(sess *study.Session) cardsResponse {
	cards := sess.Browser.Cards()
	if cards == nil {
		cards = []domain.Card{}
	}
	return cardsResponse{Cards: cards, Current: sess.Browser.Current()}
}
