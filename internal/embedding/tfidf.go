// ABOUTME: TF-IDF lexical baseline fitted on the course catalog
// ABOUTME: Stemmed, stopword-filtered terms with smoothed IDF and L2-normalized vectors
package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/kljensen/snowball/english"

	"github.com/harper/course-recommender/internal/core"
)

// TFIDFModelID is the model name TF-IDF vectors are stored under
const TFIDFModelID = "tfidf"

// ErrNoTerms is returned when fitting documents that contain no indexable terms
var ErrNoTerms = errors.New("no indexable terms in documents")

var termPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// TFIDFEncoder maps text onto a fixed vocabulary. It is read-only after
// fitting and safe for concurrent use.
type TFIDFEncoder struct {
	vocabulary map[string]int
	idf        []float64
}

// FitTFIDF builds the vocabulary and IDF weights from docs. The vocabulary is
// sorted, so fitting the same documents in any order yields the same vectors.
func FitTFIDF(docs []string) (*TFIDFEncoder, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no documents to fit tf-idf on", core.ErrEmptyCorpus)
	}

	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, term := range terms(doc) {
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}
	if len(df) == 0 {
		return nil, ErrNoTerms
	}

	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	e := &TFIDFEncoder{
		vocabulary: make(map[string]int, len(vocab)),
		idf:        make([]float64, len(vocab)),
	}
	n := float64(len(docs))
	for i, term := range vocab {
		e.vocabulary[term] = i
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return e, nil
}

// ModelID returns TFIDFModelID
func (e *TFIDFEncoder) ModelID() string { return TFIDFModelID }

// Dimension is the vocabulary size
func (e *TFIDFEncoder) Dimension() int { return len(e.idf) }

// Embed returns the L2-normalized TF-IDF vector of text. Text without any
// known term maps to the zero vector.
func (e *TFIDFEncoder) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.vector(text), nil
}

// EmbedBatch embeds texts in order
func (e *TFIDFEncoder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.vector(text)
	}
	return out, nil
}

func (e *TFIDFEncoder) vector(text string) []float64 {
	vec := make([]float64, len(e.idf))
	for _, term := range terms(text) {
		if idx, ok := e.vocabulary[term]; ok {
			vec[idx]++
		}
	}

	var norm float64
	for i, count := range vec {
		if count == 0 {
			continue
		}
		vec[i] = count * e.idf[i]
		norm += vec[i] * vec[i]
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// terms lowercases, drops stopwords, and stems. Single-character stems are dropped.
func terms(text string) []string {
	raw := termPattern.FindAllString(strings.ToLower(text), -1)
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		if _, stop := stopwords[tok]; stop {
			continue
		}
		stem := english.Stem(tok, false)
		if utf8.RuneCountInString(stem) < 2 {
			continue
		}
		out = append(out, stem)
	}
	return out
}

var stopwords = func() map[string]struct{} {
	words := []string{
		"a", "about", "above", "after", "again", "against", "all", "am", "an", "and", "any", "are",
		"as", "at", "be", "because", "been", "before", "being", "below", "between", "both", "but",
		"by", "can", "did", "do", "does", "doing", "down", "during", "each", "few", "for", "from",
		"further", "had", "has", "have", "having", "he", "her", "here", "hers", "herself", "him",
		"himself", "his", "how", "i", "if", "in", "into", "is", "it", "its", "itself", "just", "me",
		"more", "most", "my", "myself", "no", "nor", "not", "now", "of", "off", "on", "once", "only",
		"or", "other", "our", "ours", "ourselves", "out", "over", "own", "same", "she", "should",
		"so", "some", "such", "than", "that", "the", "their", "theirs", "them", "themselves", "then",
		"there", "these", "they", "this", "those", "through", "to", "too", "under", "until", "up",
		"very", "was", "we", "were", "what", "when", "where", "which", "while", "who", "whom", "why",
		"will", "with", "you", "your", "yours", "yourself", "yourselves",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
