package quiz

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrEmptyWord is returned when a quiz prompt is requested without a target word
	ErrEmptyWord = errors.New("target word must not be empty")
	// ErrInvalidCount is returned when a batch prompt asks for fewer than one entry
	ErrInvalidCount = errors.New("count must be at least 1")
)

// BuildQuizPrompt returns the instruction asking the model for one quiz item
// built around word. The reply format depends on mode.
func BuildQuizPrompt(word, language string, mode Mode) (string, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return "", ErrEmptyWord
	}
	language = strings.TrimSpace(language)
	if language == "" {
		language = DefaultLanguage
	}

	var lines []string
	switch mode {
	case SingleChoice:
		lines = []string{
			fmt.Sprintf("IMPORTANT: You are creating a %s multiple-choice quiz. Follow these STRICT rules:", language),
			fmt.Sprintf("1. Create ONLY ONE complete %s sentence with a blank", language),
			fmt.Sprintf("2. The sentence MUST use the EXACT %s word %q - do NOT use related forms, synonyms, or different conjugations", language, word),
			fmt.Sprintf("3. This word comes from a %s flashcard vocabulary list and must be used exactly as written", language),
			"4. The word MUST appear exactly ONCE in the sentence",
			fmt.Sprintf("5. Replace ONLY %q with %s (five underscores)", word, Blank),
			fmt.Sprintf("6. Do NOT translate or use any non-%s words", language),
			fmt.Sprintf("7. Generate TWO incorrect %s sentences that are similar but wrong (e.g., wrong word choice, conjugation, or structure)", language),
			fmt.Sprintf("8. Provide an ENGLISH translation of the correct full %s sentence", language),
			fmt.Sprintf("9. Output format: [sentence with %s] | [correct full sentence] | [incorrect option 1] | [incorrect option 2] | [English translation]", Blank),
			"10. There MUST be exactly four | separators (five parts total)",
			fmt.Sprintf("11. All %s options must be complete %s sentences", language, language),
			"",
			fmt.Sprintf("The %s word from flashcards to use: %q", strings.ToUpper(language), word),
			"",
			fmt.Sprintf("Create the quiz now. Remember: use the exact word %q as given, keep everything in %s except the final English translation.", word, language),
		}
	case FillBlankSimple:
		lines = []string{
			fmt.Sprintf("You are creating a %s vocabulary quiz. Use the exact %s word %q from the flashcards.", language, language, word),
			"",
			"STRICT INSTRUCTIONS:",
			fmt.Sprintf("1. Create exactly ONE %s sentence that naturally includes the word %q.", language, word),
			fmt.Sprintf("2. Replace ONLY the word %q with %s (five underscores) in the sentence.", word, Blank),
			fmt.Sprintf("3. The sentence must be grammatically correct %s.", language),
			fmt.Sprintf("4. Provide the English translation of the full correct sentence (with %q included).", word),
			"",
			"Output ONLY in this exact format with no extra text:",
			fmt.Sprintf("[sentence with %s] | [English translation]", Blank),
			"",
			fmt.Sprintf("Now create for the word %q:", word),
		}
	default:
		return "", fmt.Errorf("unsupported quiz mode %s", mode)
	}

	return strings.Join(lines, "\n"), nil
}

// BuildBatchPrompt returns the instruction asking the model for count new
// vocabulary entries in language, none of which may be in exclude.
func BuildBatchPrompt(language string, count int, exclude []string) (string, error) {
	if count < 1 {
		return "", ErrInvalidCount
	}
	language = strings.TrimSpace(language)
	if language == "" {
		language = DefaultLanguage
	}

	lines := []string{
		fmt.Sprintf("IMPORTANT: You are creating a selection of %q flashcards. Follow these STRICT rules:", language),
		fmt.Sprintf("1. Create EXACTLY %d flashcard(s) - do NOT create more or less than %d flashcard(s)", count, count),
		fmt.Sprintf(`2. Each flashcard MUST be in the format {"word in %s": "English translation"}`, language),
		`3. All flashcards must be put in a single flat JSON object, do NOT create multiple JSON objects or arrays - {"word1": "translation1", "word2": "translation2", ...} is the correct format`,
		fmt.Sprintf("4. The words MUST be common vocabulary words of the %q language", language),
		fmt.Sprintf("5. Do NOT include ANY words that are not in %q", language),
		"6. The English translation MUST be accurate and concise",
		"7. The flashcards MUST be unique and not repeated",
		"8. Do NOT include ANY explanations, apologies, or additional text, and no ```json fences - ONLY the JSON object",
	}

	if words := uniqueSorted(exclude); len(words) > 0 {
		lines = append(lines,
			"9. Do NOT use ANY of these words, the learner already knows them:",
			strings.Join(words, ", "),
		)
	}

	lines = append(lines,
		"",
		"Create the flashcards now. Remember: output ONLY the JSON object.",
	)

	return strings.Join(lines, "\n"), nil
}

func uniqueSorted(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
