package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `review,sentiment
"Good movie, <br />great acting.",1
"Bad plot, bad acting.",0
"Loved it",1
`

func TestDatasetFile(t *testing.T) {
	assert.Equal(t, "review_10k.csv", DatasetFile(10))
}

func TestDownload(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	s := NewStorage(filepath.Join(t.TempDir(), "data"))
	path, err := s.Download(context.Background(), srv.URL, "reviews.csv")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(data))

	// A second call keeps the file.
	_, err = s.Download(context.Background(), srv.URL, "reviews.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
}

func TestDownloadDecodesCharset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv; charset=iso-8859-1")
		_, _ = w.Write([]byte("review,sentiment\ncaf\xe9,1\n"))
	}))
	defer srv.Close()

	s := NewStorage(t.TempDir())
	path, err := s.Download(context.Background(), srv.URL, "latin.csv")
	require.NoError(t, err)
	reviews, err := LoadReviews(path, DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, "café", reviews[0].Text)
}

func TestDownloadBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	s := NewStorage(t.TempDir())
	_, err := s.Download(context.Background(), srv.URL, "missing.csv")
	require.Error(t, err)
	assert.NoFileExists(t, s.Path("missing.csv"))
}

func TestReadReviews(t *testing.T) {
	reviews, err := ReadReviews(strings.NewReader(sampleCSV), DefaultLoadOptions())
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	assert.Equal(t, Review{Text: "Good movie, great acting.", Sentiment: 1}, reviews[0])
	assert.Equal(t, []int{1, 0, 1}, Labels(reviews))
	assert.Equal(t, "Loved it", Texts(reviews)[2])

	opts := DefaultLoadOptions()
	opts.StripMarkup = false
	raw, err := ReadReviews(strings.NewReader(sampleCSV), opts)
	require.NoError(t, err)
	assert.Contains(t, raw[0].Text, "<br />")
}

func TestReadReviewsColumnOrder(t *testing.T) {
	data := "id,sentiment,review\n7,0,dull\n"
	reviews, err := ReadReviews(strings.NewReader(data), DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, []Review{{Text: "dull", Sentiment: 0}}, reviews)
}

func TestReadReviewsErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"empty", "", "no reviews"},
		{"header only", "review,sentiment\n", "no reviews"},
		{"missing column", "text,label\nok,1\n", "missing"},
		{"bad label", "review,sentiment\nok,2\n", "line 2"},
		{"non numeric label", "review,sentiment\nok,1\nmeh,yes\n", "line 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadReviews(strings.NewReader(tt.data), DefaultLoadOptions())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPrepare(t *testing.T) {
	var reviews []Review
	for i := 0; i < 10; i++ {
		reviews = append(reviews, Review{Text: string(rune('a' + i)), Sentiment: i % 2})
	}

	train, test := Prepare(reviews, 0, 0.8, 42)
	assert.Len(t, train, 8)
	assert.Len(t, test, 2)

	train2, test2 := Prepare(reviews, 0, 0.8, 42)
	assert.Equal(t, train, train2)
	assert.Equal(t, test, test2)

	all := append(append([]Review(nil), train...), test...)
	assert.ElementsMatch(t, reviews, all)
	assert.Equal(t, "a", reviews[0].Text, "input is not reordered")

	train, test = Prepare(reviews, 5, 0.5, 1)
	assert.Len(t, train, 2)
	assert.Len(t, test, 3)

	train, test = Prepare(reviews, 100, 1, 1)
	assert.Len(t, train, 10)
	assert.Empty(t, test)
}
