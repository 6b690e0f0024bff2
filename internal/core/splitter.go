// ABOUTME: SegmentedTextSplitter packs whole sentences into length-bounded chunks
// ABOUTME: Used before translation, whose model has a hard input length limit
package core

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// SentenceDetector segments text into an ordered sequence of sentences
type SentenceDetector interface {
	Sentences(text string) []string
}

// sentencePattern matches from the first non-space rune up to a run of
// terminal punctuation (plus closing quotes or brackets) that is followed by
// whitespace or the end of the text. A trailing fragment without terminal
// punctuation is matched by the final alternative.
var sentencePattern = regexp.MustCompile(`(?s)\S.*?(?:[.!?]+["'”’)\]]*(?:\s+|$)|$)`)

// RegexpSentenceDetector is the default punctuation-based detector
type RegexpSentenceDetector struct{}

// Sentences returns trimmed, non-empty sentences in order
func (RegexpSentenceDetector) Sentences(text string) []string {
	matches := sentencePattern.FindAllString(text, -1)
	sentences := make([]string, 0, len(matches))
	for _, m := range matches {
		if s := strings.TrimSpace(m); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// TextSplitter splits text into sentence-atomic chunks
type TextSplitter struct {
	detector SentenceDetector
}

// NewTextSplitter creates a splitter. A nil detector selects RegexpSentenceDetector.
func NewTextSplitter(detector SentenceDetector) *TextSplitter {
	if detector == nil {
		detector = RegexpSentenceDetector{}
	}
	return &TextSplitter{detector: detector}
}

// Split greedily packs sentences into chunks of at most maxLength characters.
//
// Sentences are never cut. The first sentence of a chunk is taken even when it
// alone exceeds maxLength, and the last chunk is always emitted. Text without
// any sentence yields one chunk holding the trimmed text.
func (s *TextSplitter) Split(text string, maxLength int) ([]string, error) {
	if maxLength <= 0 {
		return nil, fmt.Errorf("%w: max_length must be positive, got %d", ErrInvalidArgument, maxLength)
	}

	sentences := s.detector.Sentences(text)
	if len(sentences) == 0 {
		return []string{strings.TrimSpace(text)}, nil
	}

	var chunks []string
	part := sentences[0]
	partLen := utf8.RuneCountInString(part)
	for _, next := range sentences[1:] {
		nextLen := utf8.RuneCountInString(next)
		if partLen+1+nextLen <= maxLength {
			part += " " + next
			partLen += 1 + nextLen
			continue
		}
		chunks = append(chunks, part)
		part, partLen = next, nextLen
	}
	chunks = append(chunks, part)

	return chunks, nil
}

// Split splits text with the default sentence detector
func Split(text string, maxLength int) ([]string, error) {
	return NewTextSplitter(nil).Split(text, maxLength)
}
