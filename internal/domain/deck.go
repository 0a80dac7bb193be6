package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Deck is the word -> translation mapping stored for one language
type Deck struct {
	Language string
	Entries  map[string]string
}

// NewDeck creates an empty deck for language
func NewDeck(language string) *Deck {
	return &Deck{
		Language: language,
		Entries:  make(map[string]string),
	}
}

// Words returns the deck's words in sorted order
func (d *Deck) Words() []string {
	words := make([]string, 0, len(d.Entries))
	for w := range d.Entries {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Merge adds pairs to the deck. Front is the word, back the translation.
// An existing word is overwritten by the later pair.
func (d *Deck) Merge(pairs []CardPair) {
	if d.Entries == nil {
		d.Entries = make(map[string]string, len(pairs))
	}
	for _, p := range pairs {
		d.Entries[p.Front] = p.Back
	}
}

// MarshalEntries serializes the entries into the text blob kept in the deck row
func (d *Deck) MarshalEntries() (string, error) {
	entries := d.Entries
	if entries == nil {
		entries = map[string]string{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshal deck entries: %w", err)
	}
	return string(data), nil
}

// UnmarshalEntries parses the text blob of a deck row
func UnmarshalEntries(data string) (map[string]string, error) {
	entries := make(map[string]string)
	if strings.TrimSpace(data) == "" {
		return entries, nil
	}
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, fmt.Errorf("unmarshal deck entries: %w", err)
	}
	return entries, nil
}

// ParseDeckText builds a deck from "word:translation" lines.
// Only the first colon separates word from translation; lines
// without one, or with an empty side, are skipped.
func ParseDeckText(language, text string) *Deck {
	deck := NewDeck(strings.TrimSpace(language))
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		word, translation, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		word = strings.TrimSpace(word)
		translation = strings.TrimSpace(translation)
		if word == "" || translation == "" {
			continue
		}
		deck.Entries[word] = translation
	}
	return deck
}
