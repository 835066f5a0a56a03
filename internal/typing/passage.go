// Package typing tracks progress through a practice passage.
// It has no terminal dependencies; the platform feeds it runes and renders
// its state.
package typing

import (
	"math"
	"strings"
	"time"
)

// DefaultWordCount is the passage length used when none is configured.
const DefaultWordCount = 1000

// sampleTexts are cycled word by word to build a passage.
var sampleTexts = []string{
	"The cricket match was in full swing as the afternoon sun cast long shadows across the perfectly manicured pitch. Spectators in white clothing dotted the pavilion, sipping tea and enjoying cucumber sandwiches.",
	"On a glorious summer day at Lords, the players took their positions as the umpire called play. The batsman took his stance, ready to face the bowlers delivery in this quintessentially English sport.",
	"The village green was alive with the sound of cricket as families gathered for the annual match. The pavilion clock chimed four as both teams fought for supremacy in this traditional English contest.",
	"As the tea break approached, the score was delicately poised with the home team needing just twelve runs for victory. The afternoon sun filtered through the leaves of ancient elm trees.",
}

// Outcome is the result of typing one rune.
type Outcome int

const (
	Ignored Outcome = iota
	Correct
	WordComplete // correct, and finished a word
	Incorrect
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "Ignored"
	case Correct:
		return "Correct"
	case WordComplete:
		return "WordComplete"
	case Incorrect:
		return "Incorrect"
	default:
		return "Unknown"
	}
}

// IsCorrect reports whether the rune matched the expected character.
func (o Outcome) IsCorrect() bool {
	return o == Correct || o == WordComplete
}

// Passage is a text being typed, with a cursor and an optional wrong rune
// sitting at the cursor.
type Passage struct {
	text   []rune
	cursor int

	wrong    rune
	hasWrong bool

	wordsTyped int
	errors     int
}

// BuildText cycles the sample words until wordCount words are collected.
func BuildText(wordCount int) string {
	if wordCount <= 0 {
		wordCount = DefaultWordCount
	}

	var pool []string
	for _, t := range sampleTexts {
		pool = append(pool, strings.Fields(t)...)
	}

	words := make([]string, wordCount)
	for i := range words {
		words[i] = pool[i%len(pool)]
	}
	return strings.Join(words, " ")
}

// NewPassage creates a passage of wordCount words from the sample texts.
func NewPassage(wordCount int) *Passage {
	return FromText(BuildText(wordCount))
}

// FromText creates a passage over arbitrary text.
func FromText(text string) *Passage {
	return &Passage{text: []rune(text)}
}

// Type consumes one typed rune.
func (p *Passage) Type(r rune) Outcome {
	if p.Done() {
		return Ignored
	}

	expected := p.text[p.cursor]
	if r != expected {
		p.wrong = r
		p.hasWrong = true
		p.errors++
		return Incorrect
	}

	p.cursor++
	p.hasWrong = false
	if expected == ' ' || p.cursor == len(p.text) {
		p.wordsTyped++
		return WordComplete
	}
	return Correct
}

// Done reports whether the whole passage has been typed.
func (p *Passage) Done() bool {
	return p.cursor >= len(p.text)
}

// Cursor returns the index of the next rune to type.
func (p *Passage) Cursor() int {
	return p.cursor
}

// Len returns the passage length in runes.
func (p *Passage) Len() int {
	return len(p.text)
}

// WordsTyped returns the number of completed words.
func (p *Passage) WordsTyped() int {
	return p.wordsTyped
}

// Errors returns the number of wrong keystrokes so far.
func (p *Passage) Errors() int {
	return p.errors
}

// Wrong returns the wrong rune at the cursor, if any.
func (p *Passage) Wrong() (rune, bool) {
	return p.wrong, p.hasWrong
}

// WPM returns words per minute over the elapsed time, rounded.
func (p *Passage) WPM(elapsed time.Duration) int {
	if elapsed <= 0 {
		return 0
	}
	return int(math.Round(float64(p.wordsTyped) / elapsed.Minutes()))
}
