package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"flashdeck/internal/domain"

	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/text/cases"
)

var (
	ErrWrongFieldCount = errors.New("reply has too few fields")
	ErrMissingBlank    = errors.New("quiz sentence has no blank")
	ErrExtraBlanks     = errors.New("quiz sentence must have exactly one blank")
	ErrInvalidOptions  = errors.New("quiz options must be non-empty and distinct")
	ErrWordMismatch    = errors.New("correct sentence does not contain the target word")
	ErrNoDistractors   = errors.New("no distractor options")
	ErrNoJSONFound     = errors.New("no JSON object found in reply")
	ErrInvalidJSON     = errors.New("reply is not a flat JSON object of strings")
	ErrDuplicateWord   = errors.New("reply repeats a known word")
)

// maxDistractors caps the incorrect options of a fill-in-the-blank item
const maxDistractors = 2

// batchSchema accepts a single object whose values are all strings
const batchSchema = `{
	"type": "object",
	"additionalProperties": {"type": "string"}
}`

var batchSchemaLoader = gojsonschema.NewStringLoader(batchSchema)

// Parser turns model replies into quiz items
type Parser struct {
	rnd Random
}

// NewParser creates a parser shuffling options with rnd; nil means DefaultRandom
func NewParser(rnd Random) *Parser {
	if rnd == nil {
		rnd = DefaultRandom()
	}
	return &Parser{rnd: rnd}
}

// ParseQuizResponse validates a pipe-delimited reply and builds a shuffled item.
//
// For SingleChoice the correct option and both distractors come from the reply
// and target.Text is the word the correct sentence has to contain. For
// FillBlankSimple the options are target plus up to two of distractors.
func (p *Parser) ParseQuizResponse(raw string, mode Mode, target Option, distractors []Option) (*Item, error) {
	if strings.TrimSpace(target.Text) == "" {
		return nil, ErrEmptyWord
	}

	parts := strings.Split(raw, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < mode.fieldCount() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrWrongFieldCount, len(parts), mode.fieldCount())
	}

	sentence := parts[0]
	if err := checkBlank(sentence); err != nil {
		return nil, err
	}

	item := &Item{
		Mode:       mode,
		Sentence:   sentence,
		TargetWord: target.Text,
	}

	var options []Option
	switch mode {
	case SingleChoice:
		correct := parts[1]
		if !containsFold(correct, target.Text) {
			return nil, fmt.Errorf("%w: %q not in %q", ErrWordMismatch, target.Text, correct)
		}
		options = []Option{{Text: correct}, {Text: parts[2]}, {Text: parts[3]}}
		item.Translation = parts[4]
	case FillBlankSimple:
		if len(distractors) == 0 {
			return nil, ErrNoDistractors
		}
		if len(distractors) > maxDistractors {
			distractors = distractors[:maxDistractors]
		}
		options = append([]Option{target}, distractors...)
		item.Translation = parts[1]
	default:
		return nil, fmt.Errorf("unsupported quiz mode %s", mode)
	}

	if err := checkOptions(options); err != nil {
		return nil, err
	}

	item.Options, item.CorrectIndex = p.shuffle(options)
	return item, nil
}

// checkBlank requires exactly one run of underscores and that run to be Blank
func checkBlank(sentence string) error {
	var runs, blanks int
	for i := 0; i < len(sentence); {
		if sentence[i] != '_' {
			i++
			continue
		}
		j := i
		for j < len(sentence) && sentence[j] == '_' {
			j++
		}
		runs++
		if j-i == len(Blank) {
			blanks++
		}
		i = j
	}

	switch {
	case blanks == 0 && runs <= 1:
		return fmt.Errorf("%w: %q", ErrMissingBlank, sentence)
	case blanks != 1 || runs != 1:
		return fmt.Errorf("%w: %q", ErrExtraBlanks, sentence)
	}
	return nil
}

// checkOptions rejects empty options and options equal under case folding
func checkOptions(options []Option) error {
	fold := cases.Fold()
	seen := make(map[string]bool, len(options))
	for _, o := range options {
		key := fold.String(strings.TrimSpace(o.Text))
		if key == "" {
			return fmt.Errorf("%w: empty option", ErrInvalidOptions)
		}
		if seen[key] {
			return fmt.Errorf("%w: %q repeated", ErrInvalidOptions, o.Text)
		}
		seen[key] = true
	}
	return nil
}

// shuffle permutes options in place; the correct option starts at index 0
func (p *Parser) shuffle(options []Option) ([]Option, int) {
	correct := 0
	p.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
		switch correct {
		case i:
			correct = j
		case j:
			correct = i
		}
	})
	return options, correct
}

// ParseBatchResponse extracts the JSON object between the first '{' and the
// last '}' of raw and maps each key/value to a front/back pair, keeping the
// order of the object. Keys matching a word of exclude, ignoring case, fail.
func ParseBatchResponse(raw string, exclude []string) ([]domain.CardPair, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, ErrNoJSONFound
	}
	doc := raw[start : end+1]

	result, err := gojsonschema.Validate(batchSchemaLoader, gojsonschema.NewStringLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidJSON, strings.Join(msgs, "; "))
	}

	pairs, err := decodeOrdered(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	fold := cases.Fold()
	known := make(map[string]struct{}, len(exclude))
	for _, w := range exclude {
		known[fold.String(strings.TrimSpace(w))] = struct{}{}
	}
	for _, p := range pairs {
		if _, ok := known[fold.String(strings.TrimSpace(p.Front))]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateWord, p.Front)
		}
	}

	return pairs, nil
}

// decodeOrdered walks a flat object token by token so key order survives.
// A repeated key keeps its first position and its last value.
func decodeOrdered(doc string) ([]domain.CardPair, error) {
	dec := json.NewDecoder(strings.NewReader(doc))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var pairs []domain.CardPair
	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", keyTok)
		}
		valTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		val, ok := valTok.(string)
		if !ok {
			return nil, fmt.Errorf("value of %q is not a string", key)
		}

		if i, seen := index[key]; seen {
			pairs[i].Back = val
			continue
		}
		index[key] = len(pairs)
		pairs = append(pairs, domain.CardPair{Front: key, Back: val})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return pairs, nil
}

func containsFold(s, substr string) bool {
	fold := cases.Fold()
	return strings.Contains(fold.String(s), fold.String(substr))
}
