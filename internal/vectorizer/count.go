package vectorizer

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/happyhackingspace/duygu/internal/textutil"
)

// ErrEmptyCorpus is returned when a matrix is requested for zero documents.
var ErrEmptyCorpus = errors.New("vectorizer: empty corpus")

// CountVectorizer converts text to token count vectors.
type CountVectorizer struct {
	Vocabulary  map[string]int `json:"vocabulary"`
	NgramRange  [2]int         `json:"ngram_range"`
	Binary      bool           `json:"binary"`
	Analyzer    string         `json:"analyzer"` // "word" or "char_wb"
	MinDF       int            `json:"min_df"`
	MinTokenLen int            `json:"min_token_len"`
}

// NewCountVectorizer creates a CountVectorizer with default settings.
// Word tokens shorter than two characters are dropped.
func NewCountVectorizer(ngramRange [2]int, binary bool, analyzer string, minDF int) *CountVectorizer {
	if analyzer == "" {
		analyzer = "word"
	}
	if minDF < 1 {
		minDF = 1
	}
	if ngramRange[0] < 1 {
		ngramRange = [2]int{1, 1}
	}
	return &CountVectorizer{
		NgramRange:  ngramRange,
		Binary:      binary,
		Analyzer:    analyzer,
		MinDF:       minDF,
		MinTokenLen: 2,
	}
}

// analyze extracts features from text based on the analyzer type.
func (cv *CountVectorizer) analyze(text string) []string {
	text = strings.ToLower(text)
	if cv.Analyzer == "char_wb" {
		return charWbNgrams(text, cv.NgramRange[0], cv.NgramRange[1])
	}
	tokens := textutil.FilterShort(textutil.Tokenize(text), cv.MinTokenLen)
	return textutil.TokenNgrams(tokens, cv.NgramRange[0], cv.NgramRange[1])
}

// charWbNgrams extracts character n-grams within word boundaries.
// Each word is padded with spaces, and n-grams are extracted from padded words.
func charWbNgrams(text string, minN, maxN int) []string {
	tokens := textutil.Tokenize(text)
	var result []string
	for _, token := range tokens {
		padded := " " + token + " "
		result = append(result, textutil.Ngrams(padded, minN, maxN)...)
	}
	return result
}

// Fit builds the vocabulary from a corpus.
func (cv *CountVectorizer) Fit(corpus []string) {
	dfCounts := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]bool)
		for _, f := range cv.analyze(doc) {
			if !seen[f] {
				dfCounts[f]++
				seen[f] = true
			}
		}
	}

	// Sorted terms keep column order stable across runs.
	terms := make([]string, 0, len(dfCounts))
	for term, count := range dfCounts {
		if count >= cv.MinDF {
			terms = append(terms, term)
		}
	}
	sort.Strings(terms)
	cv.Vocabulary = make(map[string]int, len(terms))
	for i, term := range terms {
		cv.Vocabulary[term] = i
	}
}

// Transform converts a single document to a sparse vector with sorted
// indices. Words outside the vocabulary are ignored.
func (cv *CountVectorizer) Transform(text string) SparseVector {
	counts := make(map[int]float64)
	for _, f := range cv.analyze(text) {
		if idx, ok := cv.Vocabulary[f]; ok {
			counts[idx]++
		}
	}

	sv := NewSparseVector(len(cv.Vocabulary))
	sv.Indices = make([]int, 0, len(counts))
	for idx := range counts {
		sv.Indices = append(sv.Indices, idx)
	}
	sort.Ints(sv.Indices)
	sv.Values = make([]float64, len(sv.Indices))
	for i, idx := range sv.Indices {
		if cv.Binary {
			sv.Values[i] = 1.0
		} else {
			sv.Values[i] = counts[idx]
		}
	}
	return sv
}

// Matrix transforms the corpus into a document-term matrix over the fitted
// vocabulary.
func (cv *CountVectorizer) Matrix(corpus []string) (*Matrix, error) {
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}
	rows := make([]SparseVector, len(corpus))
	for i, doc := range corpus {
		rows[i] = cv.Transform(doc)
	}
	return NewMatrix(rows, len(cv.Vocabulary))
}

// FitMatrix fits the vocabulary on the corpus and returns its document-term
// matrix.
func (cv *CountVectorizer) FitMatrix(corpus []string) (*Matrix, error) {
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}
	cv.Fit(corpus)
	return cv.Matrix(corpus)
}

// VocabSize returns the vocabulary size.
func (cv *CountVectorizer) VocabSize() int {
	return len(cv.Vocabulary)
}

// MarshalJSON implements json.Marshaler.
func (cv *CountVectorizer) MarshalJSON() ([]byte, error) {
	type Alias CountVectorizer
	return json.Marshal((*Alias)(cv))
}

// UnmarshalJSON implements json.Unmarshaler.
func (cv *CountVectorizer) UnmarshalJSON(data []byte) error {
	type Alias CountVectorizer
	return json.Unmarshal(data, (*Alias)(cv))
}
