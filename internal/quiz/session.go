package quiz

import (
	"errors"
	"fmt"
	"sync"
)

// State is the lifecycle position of a quiz session
type State int

const (
	StateIdle State = iota
	StateGenerating
	StateReady
	StateAnswered
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGenerating:
		return "generating"
	case StateReady:
		return "ready"
	case StateAnswered:
		return "answered"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrGenerationInProgress = errors.New("a quiz is already being generated")
	ErrNoActiveQuiz         = errors.New("no quiz is waiting for an answer")
	ErrAlreadyAnswered      = errors.New("quiz has already been answered")
	ErrInvalidOption        = errors.New("option index out of range")
)

// Result is the outcome of checking an answer
type Result struct {
	Correct  bool
	Feedback string
}

// View is a read-only copy of a session for rendering
type View struct {
	State        State
	Sentence     string
	Options      []Option
	Feedback     string
	Interactive  bool
	CorrectIndex int
}

// Session tracks one quiz: Idle -> Generating -> Ready -> Answered, or
// Generating -> Failed. Only one generation may be outstanding at a time.
type Session struct {
	mu       sync.Mutex
	state    State
	item     *Item
	feedback string
}

// NewSession creates an idle session
func NewSession() *Session {
	return &Session{state: StateIdle}
}

// Begin moves the session to Generating and clears the previous item.
// It fails with ErrGenerationInProgress while another generation is outstanding.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateGenerating {
		return ErrGenerationInProgress
	}
	s.state = StateGenerating
	s.item = nil
	s.feedback = ""
	return nil
}

// Complete stores a generated item and makes it answerable
func (s *Session) Complete(item *Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateGenerating {
		return
	}
	s.state = StateReady
	s.item = item
}

// Fail ends a generation with a user-facing message built from err
func (s *Session) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateGenerating {
		return
	}
	s.state = StateFailed
	s.item = nil
	s.feedback = "Error: " + err.Error()
}

// Reset drops any item and returns the session to Idle.
// A Generating session is left alone.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateGenerating {
		return
	}
	s.state = StateIdle
	s.item = nil
	s.feedback = ""
}

// OptionCount returns the number of options of the current item, or 0
func (s *Session) OptionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.item == nil {
		return 0
	}
	return len(s.item.Options)
}

// CheckAnswer grades the selected option. It accepts exactly one call per item.
// selected must be in [0, OptionCount()); anything else is a caller bug and panics.
func (s *Session) CheckAnswer(selected int) (Result, error) {
	res, err := s.grade(selected)
	if errors.Is(err, ErrInvalidOption) {
		panic(fmt.Sprintf("quiz: option index %d out of range", selected))
	}
	return res, err
}

// Answer grades untrusted input. An out-of-range index yields ErrInvalidOption
// and leaves the item answerable.
func (s *Session) Answer(selected int) (Result, error) {
	return s.grade(selected)
}

func (s *Session) grade(selected int) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateReady:
	case StateAnswered:
		return Result{}, ErrAlreadyAnswered
	default:
		return Result{}, ErrNoActiveQuiz
	}

	if selected < 0 || selected >= len(s.item.Options) {
		return Result{}, fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidOption, selected, len(s.item.Options))
	}

	res := Result{Correct: selected == s.item.CorrectIndex}
	if res.Correct {
		res.Feedback = fmt.Sprintf("Correct! Translation: %s", s.item.Translation)
	} else {
		res.Feedback = fmt.Sprintf("Wrong. The correct answer is: %s. Translation: %s",
			s.item.Correct().Text, s.item.Translation)
	}

	s.state = StateAnswered
	s.feedback = res.Feedback
	return res, nil
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot copies the session for rendering. The correct index is only
// revealed once the item has been answered.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		State:        s.state,
		Feedback:     s.feedback,
		Interactive:  s.state == StateReady,
		CorrectIndex: -1,
	}
	if s.item != nil {
		v.Sentence = s.item.Sentence
		v.Options = append([]Option(nil), s.item.Options...)
		if s.state == StateAnswered {
			v.CorrectIndex = s.item.CorrectIndex
		}
	}
	return v
}
