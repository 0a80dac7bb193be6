package quiz

import (
	"math/rand"
	"testing"

	"flashdeck/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reverseRandom reverses the options and always picks the last index
type reverseRandom struct{}

func (reverseRandom) Intn(n int) int { return n - 1 }

func (reverseRandom) Shuffle(n int, swap func(i, j int)) {
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}

const singleChoiceReply = "Puer _____ matrem. | Puer amat matrem. | Puer amant matrem. | Puer amare matrem. | The boy loves his mother."

func TestParseQuizResponse_FillBlank(t *testing.T) {
	p := NewParser(reverseRandom{})
	target := Option{Text: "puer", Translation: "boy"}
	distractors := []Option{{Text: "puella", Translation: "girl"}, {Text: "domus", Translation: "house"}}

	item, err := p.ParseQuizResponse(" _____ amat matrem. |  The boy loves his mother. ", FillBlankSimple, target, distractors)
	require.NoError(t, err)

	assert.Equal(t, "_____ amat matrem.", item.Sentence)
	assert.Equal(t, "The boy loves his mother.", item.Translation)
	assert.Len(t, item.Options, 3)
	assert.Equal(t, 2, item.CorrectIndex)
	assert.Equal(t, target, item.Correct())
	assert.Equal(t, "puer", item.TargetWord)
}

func TestParseQuizResponse_FillBlankBracketsKept(t *testing.T) {
	prompt, err := BuildQuizPrompt("puer", "Latin", FillBlankSimple)
	require.NoError(t, err)
	require.NotEmpty(t, prompt)

	p := NewParser(nil)
	item, err := p.ParseQuizResponse("[Puer amat _____.] | [The boy loves his mother.]", FillBlankSimple,
		Option{Text: "puer"}, []Option{{Text: "puella"}})
	require.NoError(t, err)

	assert.Equal(t, "[Puer amat _____.]", item.Sentence)
	assert.Equal(t, "[The boy loves his mother.]", item.Translation)
	assert.Len(t, item.Options, 2)
}

func TestParseQuizResponse_FillBlankCapsDistractors(t *testing.T) {
	p := NewParser(reverseRandom{})
	item, err := p.ParseQuizResponse("_____ est. | It is.", FillBlankSimple,
		Option{Text: "puer"}, []Option{{Text: "a"}, {Text: "b"}, {Text: "c"}})
	require.NoError(t, err)
	assert.Len(t, item.Options, 3)
}

func TestParseQuizResponse_SingleChoice(t *testing.T) {
	p := NewParser(reverseRandom{})

	item, err := p.ParseQuizResponse(singleChoiceReply, SingleChoice, Option{Text: "PUER"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Puer _____ matrem.", item.Sentence)
	assert.Equal(t, "The boy loves his mother.", item.Translation)
	assert.Equal(t, []Option{
		{Text: "Puer amare matrem."},
		{Text: "Puer amant matrem."},
		{Text: "Puer amat matrem."},
	}, item.Options)
	assert.Equal(t, 2, item.CorrectIndex)
}

func TestParseQuizResponse_SingleChoiceEveryPermutation(t *testing.T) {
	for seed := int64(0); seed < 64; seed++ {
		p := NewParser(rand.New(rand.NewSource(seed)))

		item, err := p.ParseQuizResponse(singleChoiceReply, SingleChoice, Option{Text: "puer"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Puer amat matrem.", item.Options[item.CorrectIndex].Text, "seed %d", seed)
	}
}

func TestParseQuizResponse_Errors(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		mode        Mode
		target      Option
		distractors []Option
		expectedErr error
	}{
		{
			name:        "single choice with four fields",
			raw:         "a _____ | a b | c | d",
			mode:        SingleChoice,
			target:      Option{Text: "b"},
			expectedErr: ErrWrongFieldCount,
		},
		{
			name:        "fill blank with one field",
			raw:         "no pipe _____ here",
			mode:        FillBlankSimple,
			target:      Option{Text: "puer"},
			distractors: []Option{{Text: "puella"}},
			expectedErr: ErrWrongFieldCount,
		},
		{
			name:        "missing blank",
			raw:         "Puer amat matrem. | The boy loves his mother.",
			mode:        FillBlankSimple,
			target:      Option{Text: "puer"},
			distractors: []Option{{Text: "puella"}},
			expectedErr: ErrMissingBlank,
		},
		{
			name:        "four underscores is not a blank",
			raw:         "____ amat matrem. | The boy loves his mother.",
			mode:        FillBlankSimple,
			target:      Option{Text: "puer"},
			distractors: []Option{{Text: "puella"}},
			expectedErr: ErrMissingBlank,
		},
		{
			name:        "two blanks",
			raw:         "Puer _____ _____ matrem. | The boy loves his mother.",
			mode:        FillBlankSimple,
			target:      Option{Text: "puer"},
			distractors: []Option{{Text: "puella"}},
			expectedErr: ErrExtraBlanks,
		},
		{
			name:        "blank next to a longer run",
			raw:         "Puer ______ _____ matrem. | The boy loves his mother.",
			mode:        FillBlankSimple,
			target:      Option{Text: "puer"},
			distractors: []Option{{Text: "puella"}},
			expectedErr: ErrExtraBlanks,
		},
		{
			name:        "six underscores is not a blank",
			raw:         "Puer ______ matrem. | The boy loves his mother.",
			mode:        FillBlankSimple,
			target:      Option{Text: "puer"},
			distractors: []Option{{Text: "puella"}},
			expectedErr: ErrMissingBlank,
		},
		{
			name:        "distractor repeats correct sentence",
			raw:         "Puer _____ matrem. | Puer amat matrem. | puer AMAT matrem. | Puer amant matrem. | t",
			mode:        SingleChoice,
			target:      Option{Text: "puer"},
			expectedErr: ErrInvalidOptions,
		},
		{
			name:        "empty distractors",
			raw:         "Puer _____ matrem. | Puer amat | | | t",
			mode:        SingleChoice,
			target:      Option{Text: "puer"},
			expectedErr: ErrInvalidOptions,
		},
		{
			name:        "fill blank distractor equals target",
			raw:         "_____ amat matrem. | The boy loves his mother.",
			mode:        FillBlankSimple,
			target:      Option{Text: "puer"},
			distractors: []Option{{Text: "Puer"}},
			expectedErr: ErrInvalidOptions,
		},
		{
			name:        "correct sentence lacks word",
			raw:         "_____ amat matrem. | Puella amat matrem. | x | y | The girl loves her mother.",
			mode:        SingleChoice,
			target:      Option{Text: "puer"},
			expectedErr: ErrWordMismatch,
		},
		{
			name:        "fill blank without distractors",
			raw:         "_____ amat matrem. | The boy loves his mother.",
			mode:        FillBlankSimple,
			target:      Option{Text: "puer"},
			expectedErr: ErrNoDistractors,
		},
		{
			name:        "empty target",
			raw:         singleChoiceReply,
			mode:        SingleChoice,
			target:      Option{},
			expectedErr: ErrEmptyWord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(reverseRandom{})
			item, err := p.ParseQuizResponse(tt.raw, tt.mode, tt.target, tt.distractors)
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Nil(t, item)
		})
	}
}

func TestParseBatchResponse(t *testing.T) {
	pairs, err := ParseBatchResponse(`Here: {"puer":"boy","puella":"girl"} thanks`, nil)
	require.NoError(t, err)

	assert.Equal(t, []domain.CardPair{
		{Front: "puer", Back: "boy"},
		{Front: "puella", Back: "girl"},
	}, pairs)
}

func TestParseBatchResponse_KeepsOrderAndLastValue(t *testing.T) {
	pairs, err := ParseBatchResponse("```json\n{\"zebra\":\"z\",\"apple\":\"a\",\"zebra\":\"zz\"}\n```", nil)
	require.NoError(t, err)

	assert.Equal(t, []domain.CardPair{
		{Front: "zebra", Back: "zz"},
		{Front: "apple", Back: "a"},
	}, pairs)
}

func TestParseBatchResponse_Errors(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		exclude     []string
		expectedErr error
	}{
		{
			name:        "excluded word",
			raw:         `Here: {"puer":"boy","puella":"girl"} thanks`,
			exclude:     []string{"puer"},
			expectedErr: ErrDuplicateWord,
		},
		{
			name:        "excluded word differs in case",
			raw:         `{"Hund":"dog"}`,
			exclude:     []string{"hund"},
			expectedErr: ErrDuplicateWord,
		},
		{
			name:        "no braces",
			raw:         "Sorry, I cannot help with that.",
			expectedErr: ErrNoJSONFound,
		},
		{
			name:        "closing brace before opening",
			raw:         "} oops {",
			expectedErr: ErrNoJSONFound,
		},
		{
			name:        "malformed json",
			raw:         `{"puer": boy}`,
			expectedErr: ErrInvalidJSON,
		},
		{
			name:        "nested value",
			raw:         `{"puer": {"en": "boy"}}`,
			expectedErr: ErrInvalidJSON,
		},
		{
			name:        "numeric value",
			raw:         `{"unus": 1}`,
			expectedErr: ErrInvalidJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, err := ParseBatchResponse(tt.raw, tt.exclude)
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Nil(t, pairs)
		})
	}
}
