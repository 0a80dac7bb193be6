package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"flashdeck/internal/domain"
	"flashdeck/internal/quiz"
	"flashdeck/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

var (
	ErrNoCards        = errors.New("add some flashcards first")
	ErrNotEnoughCards = errors.New("fill in the blank needs at least two flashcards with different words")
	ErrEmptyPrompt    = errors.New("enter a prompt")
)

// Completer sends a single prompt to the text-generation service
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// QuizService generates quizzes and card batches with a Completer
type QuizService struct {
	gen      Completer
	deckRepo repository.DeckRepository
	parser   *quiz.Parser
	rnd      quiz.Random
	language string
	logger   *zap.Logger
}

// NewQuizService creates a quiz service. A nil rnd uses quiz.DefaultRandom.
func NewQuizService(gen Completer, deckRepo repository.DeckRepository, rnd quiz.Random, defaultLanguage string, logger *zap.Logger) *QuizService {
	if rnd == nil {
		rnd = quiz.DefaultRandom()
	}
	if strings.TrimSpace(defaultLanguage) == "" {
		defaultLanguage = quiz.DefaultLanguage
	}
	return &QuizService{
		gen:      gen,
		deckRepo: deckRepo,
		parser:   quiz.NewParser(rnd),
		rnd:      rnd,
		language: defaultLanguage,
		logger:   logger,
	}
}

// DefaultLanguage is the language used when a request names none
func (s *QuizService) DefaultLanguage() string {
	return s.language
}

// GenerateQuiz picks a random card and asks for a quiz built around it.
// The card's back is the word to practise and its front the translation.
//
// sess moves to Generating for the duration of the call and ends Ready or
// Failed. A session that is already generating is left untouched and
// quiz.ErrGenerationInProgress is returned.
func (s *QuizService) GenerateQuiz(ctx context.Context, sess *quiz.Session, cards []domain.Card, mode quiz.Mode, language string) (*quiz.Item, error) {
	cards = withBack(cards)
	if len(cards) == 0 {
		return nil, ErrNoCards
	}

	target := cards[s.rnd.Intn(len(cards))]
	var distractors []quiz.Option
	if mode == quiz.FillBlankSimple {
		distractors = s.pickDistractors(cards, target)
		if len(distractors) == 0 {
			return nil, ErrNotEnoughCards
		}
	}

	if err := sess.Begin(); err != nil {
		return nil, err
	}

	item, err := s.generateItem(ctx, target, distractors, mode, s.languageOr(language))
	if err != nil {
		s.logger.Warn("Quiz generation failed",
			zap.String("mode", mode.String()),
			zap.Int64("card_id", target.ID),
			zap.Error(err),
		)
		sess.Fail(err)
		return nil, err
	}

	sess.Complete(item)
	s.logger.Info("Quiz generated",
		zap.String("mode", mode.String()),
		zap.Int64("card_id", target.ID),
		zap.Int("options", len(item.Options)),
	)
	return item, nil
}

func (s *QuizService) generateItem(ctx context.Context, target domain.Card, distractors []quiz.Option, mode quiz.Mode, language string) (*quiz.Item, error) {
	prompt, err := quiz.BuildQuizPrompt(target.Back, language, mode)
	if err != nil {
		return nil, err
	}

	raw, err := s.gen.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	item, err := s.parser.ParseQuizResponse(raw, mode, quiz.Option{Text: target.Back, Translation: target.Front}, distractors)
	if err != nil {
		return nil, fmt.Errorf("generated quiz is invalid: %w", err)
	}
	return item, nil
}

// withBack drops cards that have no word to practise
func withBack(cards []domain.Card) []domain.Card {
	kept := make([]domain.Card, 0, len(cards))
	for _, c := range cards {
		if strings.TrimSpace(c.Back) != "" {
			kept = append(kept, c)
		}
	}
	return kept
}

// pickDistractors returns up to two options from cards other than target,
// skipping cards whose word matches the target word
func (s *QuizService) pickDistractors(cards []domain.Card, target domain.Card) []quiz.Option {
	fold := cases.Fold()
	targetWord := fold.String(strings.TrimSpace(target.Back))

	var pool []quiz.Option
	seen := map[string]bool{targetWord: true}
	for _, c := range cards {
		word := fold.String(strings.TrimSpace(c.Back))
		if c.ID == target.ID || word == "" || seen[word] {
			continue
		}
		seen[word] = true
		pool = append(pool, quiz.Option{Text: c.Back, Translation: c.Front})
	}

	s.rnd.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > 2 {
		pool = pool[:2]
	}
	return pool
}

// GenerateBatch asks for count new words in language. Words already in the
// language deck are excluded. Each pair carries the word in Front and the
// translation in Back.
func (s *QuizService) GenerateBatch(ctx context.Context, language string, count int) ([]domain.CardPair, error) {
	language = s.languageOr(language)

	deck, err := s.deckRepo.GetDeck(ctx, language)
	if err != nil {
		return nil, err
	}
	var exclude []string
	if deck != nil {
		exclude = deck.Words()
	}

	prompt, err := quiz.BuildBatchPrompt(language, count, exclude)
	if err != nil {
		return nil, err
	}

	raw, err := s.gen.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	pairs, err := quiz.ParseBatchResponse(raw, exclude)
	if err != nil {
		s.logger.Warn("Batch reply rejected", zap.String("language", language), zap.Error(err))
		return nil, fmt.Errorf("generated cards are invalid: %w", err)
	}

	s.logger.Info("Batch generated",
		zap.String("language", language),
		zap.Int("requested", count),
		zap.Int("received", len(pairs)),
	)
	return pairs, nil
}

// Ask sends prompt as is and returns the reply
func (s *QuizService) Ask(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	return s.gen.Complete(ctx, prompt)
}

func (s *QuizService) languageOr(language string) string {
	if language = strings.TrimSpace(language); language != "" {
		return language
	}
	return s.language
}
