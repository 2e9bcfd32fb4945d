package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/happyhackingspace/duygu/internal/htmlutil"
)

// Review is a single labeled review. Sentiment is 0 (negative) or 1 (positive).
type Review struct {
	Text      string
	Sentiment int
}

// ErrNoReviews is returned when a dataset file holds no usable rows.
var ErrNoReviews = errors.New("storage: dataset has no reviews")

// LoadOptions controls how reviews are read from a CSV file.
type LoadOptions struct {
	TextColumn      string
	SentimentColumn string
	StripMarkup     bool
}

// DefaultLoadOptions returns the options for the review_Nk.csv datasets.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		TextColumn:      "review",
		SentimentColumn: "sentiment",
		StripMarkup:     true,
	}
}

// LoadReviews reads labeled reviews from a CSV file with a header row.
func LoadReviews(path string, opts LoadOptions) ([]Review, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadReviews(f, opts)
}

// ReadReviews reads labeled reviews from CSV data. Columns are located by
// header name; a sentiment other than 0 or 1 is an error.
func ReadReviews(r io.Reader, opts LoadOptions) ([]Review, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoReviews
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	textCol, sentCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case opts.TextColumn:
			textCol = i
		case opts.SentimentColumn:
			sentCol = i
		}
	}
	if textCol < 0 || sentCol < 0 {
		return nil, fmt.Errorf("header %v: missing %q or %q column", header, opts.TextColumn, opts.SentimentColumn)
	}

	var reviews []Review
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		if textCol >= len(record) || sentCol >= len(record) {
			slog.Debug("Skipping short row", "line", line, "fields", len(record))
			continue
		}

		sentiment, err := strconv.Atoi(strings.TrimSpace(record[sentCol]))
		if err != nil || (sentiment != 0 && sentiment != 1) {
			return nil, fmt.Errorf("line %d: sentiment %q is not 0 or 1", line, record[sentCol])
		}

		text := record[textCol]
		if opts.StripMarkup {
			text, err = htmlutil.StripMarkup(text)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		}
		reviews = append(reviews, Review{Text: text, Sentiment: sentiment})
	}

	if len(reviews) == 0 {
		return nil, ErrNoReviews
	}
	return reviews, nil
}

// Prepare shuffles a copy of reviews with a seeded generator, keeps the first
// numSamples (all when numSamples <= 0), and splits them so that the training
// part holds floor(n * trainRatio) reviews.
func Prepare(reviews []Review, numSamples int, trainRatio float64, seed uint64) (train, test []Review) {
	shuffled := append([]Review(nil), reviews...)
	rng := rand.New(rand.NewPCG(seed, seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if numSamples > 0 && numSamples < len(shuffled) {
		shuffled = shuffled[:numSamples]
	}

	if trainRatio < 0 {
		trainRatio = 0
	}
	if trainRatio > 1 {
		trainRatio = 1
	}
	numTrain := int(float64(len(shuffled)) * trainRatio)
	return shuffled[:numTrain], shuffled[numTrain:]
}

// Texts returns the review texts.
func Texts(reviews []Review) []string {
	texts := make([]string, len(reviews))
	for i, r := range reviews {
		texts[i] = r.Text
	}
	return texts
}

// Labels returns the review sentiments.
func Labels(reviews []Review) []int {
	labels := make([]int, len(reviews))
	for i, r := range reviews {
		labels[i] = r.Sentiment
	}
	return labels
}
