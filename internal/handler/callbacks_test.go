package handler

import (
	"testing"

	"flashdeck/internal/quiz"
	"flashdeck/internal/study"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v3"
)

func TestCleanCallbackData(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "normal string",
			input:    "test_data",
			expected: "test_data",
		},
		{
			name:     "string with whitespace",
			input:    "  test_data  ",
			expected: "test_data",
		},
		{
			name:     "string with newline",
			input:    "test\ndata",
			expected: "testdata",
		},
		{
			name:     "string with tab",
			input:    "test\tdata",
			expected: "testdata",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "only whitespace",
			input:    "   ",
			expected: "",
		},
		{
			name:     "string with unprintable characters",
			input:    "test\x00data\x01",
			expected: "testdata",
		},
		{
			name:     "button prefix",
			input:    "\fanswer_2",
			expected: "answer_2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cleanCallbackData(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCallbackKey(t *testing.T) {
	tests := []struct {
		name     string
		callback *tele.Callback
		expected string
	}{
		{name: "registered button", callback: &tele.Callback{Unique: "flip"}, expected: "flip"},
		{name: "dynamic button", callback: &tele.Callback{Data: "\fanswer_1"}, expected: "answer_1"},
		{name: "dynamic button with payload", callback: &tele.Callback{Data: "\fanswer_0|x"}, expected: "answer_0"},
		{name: "plain data", callback: &tele.Callback{Data: " next "}, expected: "next"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, callbackKey(tt.callback))
		})
	}
}

func TestParseAnswerIndex(t *testing.T) {
	tests := []struct {
		key      string
		expected int
		ok       bool
	}{
		{key: "answer_0", expected: 0, ok: true},
		{key: "answer_12", expected: 12, ok: true},
		{key: "answer_-1"},
		{key: "answer_x"},
		{key: "answer_"},
		{key: "flip"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			i, ok := parseAnswerIndex(tt.key)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, i)
		})
	}
}

func TestRenderCard(t *testing.T) {
	assert.Equal(t, "🃏 "+study.Placeholder, renderCard(study.NewBrowser().Current()))

	view := study.CardView{Text: "puer", Side: "back", Index: 1, Total: 3}
	assert.Equal(t, "🃏 puer\n\n2/3 · back", renderCard(view))
}

func TestRenderQuiz(t *testing.T) {
	view := quiz.View{
		State:        quiz.StateAnswered,
		Sentence:     "_____ amat matrem.",
		Options:      []quiz.Option{{Text: "puella"}, {Text: "puer"}},
		Feedback:     "Correct! Translation: The boy loves his mother.",
		CorrectIndex: 1,
	}

	assert.Equal(t,
		"🎯 _____ amat matrem.\n\n• puella\n✓ puer\n\nCorrect! Translation: The boy loves his mother.",
		renderQuiz(view))

	assert.Equal(t, "⚠️ Error: generation timed out",
		renderQuiz(quiz.View{State: quiz.StateFailed, Feedback: "Error: generation timed out", CorrectIndex: -1}))
}

func TestQuizMarkup(t *testing.T) {
	view := quiz.View{
		State:        quiz.StateReady,
		Options:      []quiz.Option{{Text: "puella"}, {Text: "puer"}, {Text: "domus"}},
		Interactive:  true,
		CorrectIndex: -1,
	}

	markup := quizMarkup(view)
	if assert.Len(t, markup.InlineKeyboard, 3) {
		assert.Equal(t, "puer", markup.InlineKeyboard[1][0].Text)
		assert.Equal(t, "answer_1", markup.InlineKeyboard[1][0].Unique)
	}

	view.Interactive = false
	assert.Empty(t, quizMarkup(view).InlineKeyboard)
}
