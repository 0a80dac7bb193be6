// Package quiz builds generation prompts for vocabulary quizzes, parses
// the model's replies into quiz items and tracks a quiz through its lifecycle.
package quiz

import (
	"fmt"
	"math/rand"
	"strings"
)

// Blank is the marker that replaces the target word in a quiz sentence
const Blank = "_____"

// DefaultLanguage is used when a card source carries no language tag
const DefaultLanguage = "Latin"

// Mode selects the quiz prompt template and the reply format
type Mode int

const (
	// SingleChoice asks the model for a sentence with a blank, the correct
	// full sentence, two incorrect sentences and a translation.
	SingleChoice Mode = iota
	// FillBlankSimple asks the model for a sentence with a blank and its
	// translation; the options are words taken from other cards.
	FillBlankSimple
)

// String returns the wire name of the mode
func (m Mode) String() string {
	switch m {
	case SingleChoice:
		return "single_choice"
	case FillBlankSimple:
		return "fill_blank"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses the wire name of a mode. An empty name means SingleChoice.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "single_choice", "single":
		return SingleChoice, nil
	case "fill_blank", "fillblank", "fill_in_the_blank":
		return FillBlankSimple, nil
	default:
		return 0, fmt.Errorf("unknown quiz mode %q", s)
	}
}

// fieldCount is the minimum number of pipe-separated fields a reply must have
func (m Mode) fieldCount() int {
	if m == FillBlankSimple {
		return 2
	}
	return 5
}

// Option is one selectable answer. Translation is empty for sentence options.
type Option struct {
	Text        string `json:"text"`
	Translation string `json:"translation,omitempty"`
}

// Item is a parsed, ready-to-render quiz question
type Item struct {
	Mode         Mode
	Sentence     string
	Options      []Option
	CorrectIndex int
	Translation  string
	TargetWord   string
}

// Correct returns the correct option
func (it *Item) Correct() Option {
	return it.Options[it.CorrectIndex]
}

// Random is the source of randomness used to pick cards and shuffle options.
// *rand.Rand satisfies it.
type Random interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

type globalRand struct{}

func (globalRand) Intn(n int) int { return rand.Intn(n) }
func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// DefaultRandom returns a Random backed by the process-wide math/rand source,
// which is safe for concurrent use.
func DefaultRandom() Random {
	return globalRand{}
}
