package web

import (
	"net/http"

	"flashdeck/internal/domain"
)

type deckRequest struct {
	Language string `json:"language"`
	Text     string `json:"text"`
}

type deckResponse struct {
	Language string            `json:"language"`
	Entries  map[string]string `json:"entries"`
	Count    int               `json:"count"`
}

type tableSQLResponse struct {
	Table string `json:"table"`
	SQL   string `json:"sql"`
}

func deckView(d domain.Deck) deckResponse {
	entries := d.Entries
	if entries == nil {
		entries = map[string]string{}
	}
	return deckResponse{Language: d.Language, Entries: entries, Count: len(entries)}
}

func (s *Server) listDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := s.decks.ListDecks(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := make([]deckResponse, 0, len(decks))
	for _, d := range decks {
		resp = append(resp, deckView(d))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getDeck(w http.ResponseWriter, r *http.Request) {
	deck, err := s.decks.GetDeck(r.Context(), r.PathValue("language"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deckView(*deck))
}

// formatDeck previews the deck built from "word:translation" lines
func (s *Server) formatDeck(w http.ResponseWriter, r *http.Request) {
	var req deckRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	deck, err := s.decks.FormatDeck(req.Language, req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deckView(*deck))
}

func (s *Server) saveDeck(w http.ResponseWriter, r *http.Request) {
	var req deckRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	deck, err := s.decks.FormatDeck(req.Language, req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.decks.SaveDeck(r.Context(), deck); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, deckView(*deck))
}

// tableSQL shows the statement that provisions the caller's own card table
func (s *Server) tableSQL(w http.ResponseWriter, r *http.Request) {
	table := domain.CardTableName(sessionFrom(r.Context()).User.Email)
	writeJSON(w, http.StatusOK, tableSQLResponse{Table: table, SQL: domain.CreateCardTableSQL(table)})
}
