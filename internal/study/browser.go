// Package study holds the per-user study state: the card browser, the active
// quiz and the generated batch under review, bundled into sessions.
package study

import (
	"fmt"
	"strings"
	"sync"

	"flashdeck/internal/domain"
)

// Placeholder is rendered when there are no cards to show
const Placeholder = "No flashcards yet"

// Order selects which side of a card is shown first
type Order int

const (
	OrderFront Order = iota
	OrderBack
)

func (o Order) String() string {
	if o == OrderBack {
		return "back"
	}
	return "front"
}

// ParseOrder parses "front" or "back"; an empty value means OrderFront
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "front":
		return OrderFront, nil
	case "back":
		return OrderBack, nil
	default:
		return OrderFront, fmt.Errorf("unknown card order %q", s)
	}
}

// CardView is what a front-end renders for the current card
type CardView struct {
	CardID         int64  `json:"card_id,omitempty"`
	Text           string `json:"text"`
	Side           string `json:"side"`
	ShowingPrimary bool   `json:"showing_primary"`
	Index          int    `json:"index"`
	Total          int    `json:"total"`
	Empty          bool   `json:"empty"`
}

// Browser walks a list of cards one at a time
type Browser struct {
	mu      sync.RWMutex
	cards   []domain.Card
	index   int
	primary bool
	order   Order
}

func NewBrowser() *Browser {
	return &Browser{primary: true}
}

// Load replaces the cards, moves to the first one and shows its primary side
func (b *Browser) Load(cards []domain.Card) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.cards = append([]domain.Card(nil), cards...)
	b.index = 0
	b.primary = true
}

// Flip toggles the displayed side
func (b *Browser) Flip() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.primary = !b.primary
}

// Next moves forward, wrapping to the first card. No-op without cards.
func (b *Browser) Next() {
	b.move(1)
}

// Prev moves back, wrapping to the last card. No-op without cards.
func (b *Browser) Prev() {
	b.move(-1)
}

func (b *Browser) move(step int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.cards)
	if n == 0 {
		return
	}
	b.index = ((b.index+step)%n + n) % n
	b.primary = true
}

// SetOrder changes which side is primary and shows it
func (b *Browser) SetOrder(order Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.order = order
	b.primary = true
}

func (b *Browser) Order() Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.order
}

// Current renders the card under the cursor, or the placeholder
func (b *Browser) Current() CardView {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.cards) == 0 {
		return CardView{Text: Placeholder, Side: b.order.String(), ShowingPrimary: true, Empty: true}
	}

	card := b.cards[b.index]
	showFront := b.primary == (b.order == OrderFront)
	v := CardView{
		CardID:         card.ID,
		ShowingPrimary: b.primary,
		Index:          b.index,
		Total:          len(b.cards),
	}
	if showFront {
		v.Text, v.Side = card.Front, "front"
	} else {
		v.Text, v.Side = card.Back, "back"
	}
	return v
}

// Cards returns a copy of the loaded cards
func (b *Browser) Cards() []domain.Card {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]domain.Card(nil), b.cards...)
}
