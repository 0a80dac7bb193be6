package quiz

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readyItem() *Item {
	return &Item{
		Mode:         FillBlankSimple,
		Sentence:     "_____ amat matrem.",
		Options:      []Option{{Text: "puella"}, {Text: "puer"}, {Text: "domus"}},
		CorrectIndex: 1,
		Translation:  "The boy loves his mother.",
		TargetWord:   "puer",
	}
}

func TestSession_Lifecycle(t *testing.T) {
	s := NewSession()
	assert.Equal(t, StateIdle, s.State())

	require.NoError(t, s.Begin())
	assert.Equal(t, StateGenerating, s.State())
	assert.False(t, s.Snapshot().Interactive)

	s.Complete(readyItem())
	view := s.Snapshot()
	assert.Equal(t, StateReady, view.State)
	assert.True(t, view.Interactive)
	assert.Equal(t, -1, view.CorrectIndex)
	assert.Len(t, view.Options, 3)
	assert.Equal(t, 3, s.OptionCount())

	res, err := s.CheckAnswer(1)
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, "Correct! Translation: The boy loves his mother.", res.Feedback)

	view = s.Snapshot()
	assert.Equal(t, StateAnswered, view.State)
	assert.False(t, view.Interactive)
	assert.Equal(t, 1, view.CorrectIndex)
	assert.Equal(t, res.Feedback, view.Feedback)
}

func TestSession_WrongAnswer(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Begin())
	s.Complete(readyItem())

	res, err := s.CheckAnswer(2)
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Equal(t, "Wrong. The correct answer is: puer. Translation: The boy loves his mother.", res.Feedback)
}

func TestSession_AnswerOnlyOnce(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Begin())
	s.Complete(readyItem())

	_, err := s.CheckAnswer(0)
	require.NoError(t, err)

	_, err = s.CheckAnswer(1)
	assert.ErrorIs(t, err, ErrAlreadyAnswered)
}

func TestSession_CheckAnswerWithoutQuiz(t *testing.T) {
	s := NewSession()
	_, err := s.CheckAnswer(0)
	assert.ErrorIs(t, err, ErrNoActiveQuiz)

	require.NoError(t, s.Begin())
	_, err = s.CheckAnswer(0)
	assert.ErrorIs(t, err, ErrNoActiveQuiz)
}

func TestSession_CheckAnswerOutOfRangePanics(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Begin())
	s.Complete(readyItem())

	assert.Panics(t, func() { _, _ = s.CheckAnswer(3) })
	assert.Panics(t, func() { _, _ = s.CheckAnswer(-1) })
}

func TestSession_AnswerRejectsOutOfRange(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Begin())
	s.Complete(readyItem())

	_, err := s.Answer(3)
	assert.ErrorIs(t, err, ErrInvalidOption)
	assert.Equal(t, StateReady, s.State())

	res, err := s.Answer(1)
	require.NoError(t, err)
	assert.True(t, res.Correct)
}

func TestSession_SecondBeginWhileGenerating(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Begin())

	assert.ErrorIs(t, s.Begin(), ErrGenerationInProgress)
	assert.Equal(t, StateGenerating, s.State())
}

func TestSession_ConcurrentBegin(t *testing.T) {
	s := NewSession()

	var wg sync.WaitGroup
	var mu sync.Mutex
	started := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Begin() == nil {
				mu.Lock()
				started++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, started)
}

func TestSession_Fail(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Begin())
	s.Fail(errors.New("Quiz generation timed out"))

	view := s.Snapshot()
	assert.Equal(t, StateFailed, view.State)
	assert.Equal(t, "Error: Quiz generation timed out", view.Feedback)
	assert.Empty(t, view.Options)

	require.NoError(t, s.Begin())
	assert.Empty(t, s.Snapshot().Feedback)
}

func TestSession_CompleteAndFailIgnoredOutsideGenerating(t *testing.T) {
	s := NewSession()
	s.Complete(readyItem())
	assert.Equal(t, StateIdle, s.State())

	s.Fail(errors.New("late"))
	assert.Equal(t, StateIdle, s.State())
	assert.Empty(t, s.Snapshot().Feedback)
}

func TestSession_Reset(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Begin())

	s.Reset()
	assert.Equal(t, StateGenerating, s.State())

	s.Complete(readyItem())
	s.Reset()
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, 0, s.OptionCount())
}

func TestSession_BeginReplacesAnsweredItem(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Begin())
	s.Complete(readyItem())
	_, err := s.CheckAnswer(1)
	require.NoError(t, err)

	require.NoError(t, s.Begin())
	view := s.Snapshot()
	assert.Empty(t, view.Sentence)
	assert.Empty(t, view.Feedback)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "state(9)", State(9).String())
}
