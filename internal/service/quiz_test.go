package service

import (
	"context"
	"strings"
	"testing"

	"flashdeck/internal/domain"
	"flashdeck/internal/generator"
	"flashdeck/internal/quiz"
	"flashdeck/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func promptContaining(parts ...string) interface{} {
	return mock.MatchedBy(func(prompt string) bool {
		for _, p := range parts {
			if !strings.Contains(prompt, p) {
				return false
			}
		}
		return true
	})
}

func newTestQuizService(gen Completer, decks *testutil.MockDeckRepository) *QuizService {
	return NewQuizService(gen, decks, testutil.FixedRandom{}, "Latin", testutil.NewTestLogger())
}

func TestQuizService_GenerateQuiz_SingleChoice(t *testing.T) {
	gen := new(testutil.MockCompleter)
	gen.On("Complete", mock.Anything, promptContaining(`"puer"`, "multiple-choice")).
		Return("Puer _____ matrem. | Puer amat matrem. | Puer amant matrem. | Puer amare matrem. | The boy loves his mother.", nil)

	service := newTestQuizService(gen, new(testutil.MockDeckRepository))
	sess := quiz.NewSession()

	item, err := service.GenerateQuiz(context.Background(), sess, testutil.NewTestCards("boy", "puer"), quiz.SingleChoice, "")
	require.NoError(t, err)

	assert.Equal(t, "Puer amat matrem.", item.Correct().Text)
	assert.Equal(t, "The boy loves his mother.", item.Translation)
	assert.Equal(t, quiz.StateReady, sess.State())
	gen.AssertExpectations(t)
}

func TestQuizService_GenerateQuiz_FillBlank(t *testing.T) {
	cards := testutil.NewTestCards("boy", "puer", "girl", "puella", "child", "Puer", "house", "domus")

	gen := new(testutil.MockCompleter)
	gen.On("Complete", mock.Anything, promptContaining(`"puer"`, "Swedish")).
		Return("_____ amat matrem. | The boy loves his mother.", nil)

	service := newTestQuizService(gen, new(testutil.MockDeckRepository))
	sess := quiz.NewSession()

	item, err := service.GenerateQuiz(context.Background(), sess, cards, quiz.FillBlankSimple, "Swedish")
	require.NoError(t, err)

	assert.Equal(t, []quiz.Option{
		{Text: "puer", Translation: "boy"},
		{Text: "puella", Translation: "girl"},
		{Text: "domus", Translation: "house"},
	}, item.Options)
	assert.Equal(t, 0, item.CorrectIndex)
	assert.Equal(t, "_____ amat matrem.", item.Sentence)

	res, err := sess.CheckAnswer(0)
	require.NoError(t, err)
	assert.True(t, res.Correct)
}

func TestQuizService_GenerateQuiz_Preconditions(t *testing.T) {
	tests := []struct {
		name        string
		cards       []domain.Card
		mode        quiz.Mode
		expectedErr error
	}{
		{
			name:        "no cards",
			mode:        quiz.SingleChoice,
			expectedErr: ErrNoCards,
		},
		{
			name:        "only cards without a back",
			cards:       testutil.NewTestCards("boy", "", "girl", "  "),
			mode:        quiz.SingleChoice,
			expectedErr: ErrNoCards,
		},
		{
			name:        "fill blank with one card",
			cards:       testutil.NewTestCards("boy", "puer"),
			mode:        quiz.FillBlankSimple,
			expectedErr: ErrNotEnoughCards,
		},
		{
			name:        "fill blank with one distinct word",
			cards:       testutil.NewTestCards("boy", "puer", "child", "PUER"),
			mode:        quiz.FillBlankSimple,
			expectedErr: ErrNotEnoughCards,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := new(testutil.MockCompleter)
			service := newTestQuizService(gen, new(testutil.MockDeckRepository))
			sess := quiz.NewSession()

			item, err := service.GenerateQuiz(context.Background(), sess, tt.cards, tt.mode, "")

			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Nil(t, item)
			assert.Equal(t, quiz.StateIdle, sess.State())
			gen.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
		})
	}
}

func TestQuizService_GenerateQuiz_SkipsCardsWithoutBack(t *testing.T) {
	gen := new(testutil.MockCompleter)
	gen.On("Complete", mock.Anything, promptContaining(`"puella"`)).
		Return("Puella _____ matrem. | Puella amat matrem. | Puella amant matrem. | Puella amare matrem. | The girl loves her mother.", nil)

	service := newTestQuizService(gen, new(testutil.MockDeckRepository))
	sess := quiz.NewSession()

	cards := testutil.NewTestCards("boy", "", "girl", "puella")
	item, err := service.GenerateQuiz(context.Background(), sess, cards, quiz.SingleChoice, "")
	require.NoError(t, err)

	assert.Equal(t, "puella", item.TargetWord)
	gen.AssertExpectations(t)
}

func TestQuizService_GenerateQuiz_Failures(t *testing.T) {
	tests := []struct {
		name        string
		reply       string
		genErr      error
		expectedErr error
		feedback    string
	}{
		{
			name:        "timeout",
			genErr:      generator.ErrTimedOut,
			expectedErr: generator.ErrTimedOut,
			feedback:    "Error: generation timed out",
		},
		{
			name:        "too few fields",
			reply:       "Puer _____ matrem. | The boy loves his mother.",
			expectedErr: quiz.ErrWrongFieldCount,
		},
		{
			name:        "no blank",
			reply:       "Puer amat matrem. | Puer amat matrem. | a | b | The boy loves his mother.",
			expectedErr: quiz.ErrMissingBlank,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := new(testutil.MockCompleter)
			gen.On("Complete", mock.Anything, mock.Anything).Return(tt.reply, tt.genErr)

			service := newTestQuizService(gen, new(testutil.MockDeckRepository))
			sess := quiz.NewSession()

			_, err := service.GenerateQuiz(context.Background(), sess, testutil.NewTestCards("boy", "puer"), quiz.SingleChoice, "")
			assert.ErrorIs(t, err, tt.expectedErr)

			view := sess.Snapshot()
			assert.Equal(t, quiz.StateFailed, view.State)
			assert.True(t, strings.HasPrefix(view.Feedback, "Error: "))
			if tt.feedback != "" {
				assert.Equal(t, tt.feedback, view.Feedback)
			}

			// a failed session can be retried
			assert.NoError(t, sess.Begin())
		})
	}
}

func TestQuizService_GenerateQuiz_AlreadyGenerating(t *testing.T) {
	gen := new(testutil.MockCompleter)
	service := newTestQuizService(gen, new(testutil.MockDeckRepository))

	sess := quiz.NewSession()
	require.NoError(t, sess.Begin())

	_, err := service.GenerateQuiz(context.Background(), sess, testutil.NewTestCards("boy", "puer"), quiz.SingleChoice, "")
	assert.ErrorIs(t, err, quiz.ErrGenerationInProgress)
	assert.Equal(t, quiz.StateGenerating, sess.State())
	gen.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestQuizService_GenerateBatch(t *testing.T) {
	decks := new(testutil.MockDeckRepository)
	decks.On("GetDeck", mock.Anything, "Latin").
		Return(&domain.Deck{Language: "Latin", Entries: map[string]string{"puer": "boy"}}, nil)

	gen := new(testutil.MockCompleter)
	gen.On("Complete", mock.Anything, promptContaining("EXACTLY 2", "already knows", "puer")).
		Return(`Sure! {"rosa":"rose","aqua":"water"}`, nil)

	service := newTestQuizService(gen, decks)
	pairs, err := service.GenerateBatch(context.Background(), "", 2)
	require.NoError(t, err)

	assert.Equal(t, []domain.CardPair{{Front: "rosa", Back: "rose"}, {Front: "aqua", Back: "water"}}, pairs)
	decks.AssertExpectations(t)
	gen.AssertExpectations(t)
}

func TestQuizService_GenerateBatch_Errors(t *testing.T) {
	t.Run("known word in reply", func(t *testing.T) {
		decks := new(testutil.MockDeckRepository)
		decks.On("GetDeck", mock.Anything, "Latin").
			Return(&domain.Deck{Language: "Latin", Entries: map[string]string{"puer": "boy"}}, nil)

		gen := new(testutil.MockCompleter)
		gen.On("Complete", mock.Anything, mock.Anything).Return(`{"Puer":"boy"}`, nil)

		_, err := newTestQuizService(gen, decks).GenerateBatch(context.Background(), "Latin", 1)
		assert.ErrorIs(t, err, quiz.ErrDuplicateWord)
	})

	t.Run("no deck yet", func(t *testing.T) {
		decks := new(testutil.MockDeckRepository)
		decks.On("GetDeck", mock.Anything, "Swedish").Return(nil, nil)

		gen := new(testutil.MockCompleter)
		gen.On("Complete", mock.Anything, mock.Anything).Return(`no json here`, nil)

		_, err := newTestQuizService(gen, decks).GenerateBatch(context.Background(), "Swedish", 1)
		assert.ErrorIs(t, err, quiz.ErrNoJSONFound)
	})

	t.Run("invalid count", func(t *testing.T) {
		decks := new(testutil.MockDeckRepository)
		decks.On("GetDeck", mock.Anything, "Latin").Return(nil, nil)

		_, err := newTestQuizService(new(testutil.MockCompleter), decks).GenerateBatch(context.Background(), "Latin", 0)
		assert.ErrorIs(t, err, quiz.ErrInvalidCount)
	})
}

func TestQuizService_Ask(t *testing.T) {
	gen := new(testutil.MockCompleter)
	gen.On("Complete", mock.Anything, "What is the plural of puer?").Return("pueri", nil)

	service := newTestQuizService(gen, new(testutil.MockDeckRepository))

	out, err := service.Ask(context.Background(), "What is the plural of puer?")
	require.NoError(t, err)
	assert.Equal(t, "pueri", out)

	_, err = service.Ask(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}
