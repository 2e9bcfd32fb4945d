// Package duygu classifies the sentiment of movie reviews.
//
// It pairs a bag-of-words vectorizer with a multinomial Naive Bayes model.
//
//	c, _ := duygu.New()
//	s, _ := c.Classify("A moving story with great acting.")
//	fmt.Println(s) // "positive"
package duygu

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/happyhackingspace/duygu/internal/htmlutil"
	"github.com/happyhackingspace/duygu/internal/vectorizer"
	"github.com/happyhackingspace/duygu/naivebayes"
)

// Sentiment is the predicted polarity of a review.
type Sentiment int

const (
	Negative Sentiment = 0
	Positive Sentiment = 1
)

func (s Sentiment) String() string {
	switch s {
	case Negative:
		return "negative"
	case Positive:
		return "positive"
	}
	return fmt.Sprintf("Sentiment(%d)", int(s))
}

var errNotInitialized = errors.New("duygu: classifier not initialized")

// Classifier wraps the vectorizer and the Naive Bayes model.
type Classifier struct {
	vec   *vectorizer.CountVectorizer
	model *naivebayes.Model
}

type classifierJSON struct {
	Vectorizer *vectorizer.CountVectorizer `json:"vectorizer"`
	Model      *naivebayes.Model           `json:"model"`
}

// New loads the classifier from "model.json", searching the current directory
// and parent directories up to the module root (where go.mod lives).
func New() (*Classifier, error) {
	path, err := findModel("model.json")
	if err != nil {
		return nil, fmt.Errorf("duygu: %w", err)
	}
	return Load(path)
}

func findModel(name string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		// Stop at module root
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%s not found", name)
}

// ModelDir returns the per-user directory for cached models.
func ModelDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "duygu")
	}
	return filepath.Join(dir, "duygu")
}

// Load loads a trained classifier from a model file.
func Load(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("duygu: %w", err)
	}
	var cj classifierJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return nil, fmt.Errorf("duygu: %w", err)
	}
	if cj.Vectorizer == nil || cj.Model == nil {
		return nil, fmt.Errorf("duygu: %s: missing vectorizer or model", path)
	}
	if cj.Vectorizer.VocabSize() != cj.Model.NumVocab() {
		return nil, fmt.Errorf("duygu: %s: vocabulary has %d words, model expects %d",
			path, cj.Vectorizer.VocabSize(), cj.Model.NumVocab())
	}
	return &Classifier{vec: cj.Vectorizer, model: cj.Model}, nil
}

// Save writes the classifier to a model file.
func (c *Classifier) Save(path string) error {
	if c.vec == nil || c.model == nil {
		return errNotInitialized
	}
	data, err := json.Marshal(classifierJSON{Vectorizer: c.vec, Model: c.model})
	if err != nil {
		return fmt.Errorf("duygu: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("duygu: %w", err)
	}
	return nil
}

// VocabSize returns the number of words the classifier knows.
func (c *Classifier) VocabSize() int {
	if c.vec == nil {
		return 0
	}
	return c.vec.VocabSize()
}

// Classify predicts the sentiment of a single review. Markup is stripped first.
func (c *Classifier) Classify(text string) (Sentiment, error) {
	out, err := c.ClassifyBatch([]string{text})
	if err != nil {
		return Negative, err
	}
	return out[0], nil
}

// ClassifyBatch predicts the sentiment of each review.
func (c *Classifier) ClassifyBatch(texts []string) ([]Sentiment, error) {
	if c.vec == nil || c.model == nil {
		return nil, errNotInitialized
	}
	if len(texts) == 0 {
		return []Sentiment{}, nil
	}
	cleaned, err := stripAll(texts)
	if err != nil {
		return nil, err
	}
	return c.predict(cleaned)
}

// predict classifies texts that are already free of markup.
func (c *Classifier) predict(texts []string) ([]Sentiment, error) {
	bows, err := c.vec.Matrix(texts)
	if err != nil {
		return nil, fmt.Errorf("duygu: %w", err)
	}
	pred, err := c.model.Predict(bows)
	if err != nil {
		return nil, fmt.Errorf("duygu: %w", err)
	}
	out := make([]Sentiment, len(pred))
	for i, p := range pred {
		out[i] = Sentiment(p)
	}
	return out, nil
}

// ClassifyProba returns the posterior probability of each sentiment, keyed
// by its name.
func (c *Classifier) ClassifyProba(text string) (map[string]float64, error) {
	if c.vec == nil || c.model == nil {
		return nil, errNotInitialized
	}
	cleaned, err := stripAll([]string{text})
	if err != nil {
		return nil, err
	}
	bows, err := c.vec.Matrix(cleaned)
	if err != nil {
		return nil, fmt.Errorf("duygu: %w", err)
	}
	proba, err := c.model.PredictProba(bows)
	if err != nil {
		return nil, fmt.Errorf("duygu: %w", err)
	}
	out := make(map[string]float64, naivebayes.NumClasses)
	for k, p := range proba.RawRowView(0) {
		out[Sentiment(k).String()] = p
	}
	return out, nil
}

// stripAll removes markup from every text.
func stripAll(texts []string) ([]string, error) {
	cleaned := make([]string, len(texts))
	for i, t := range texts {
		s, err := htmlutil.StripMarkup(t)
		if err != nil {
			return nil, fmt.Errorf("duygu: %w", err)
		}
		cleaned[i] = s
	}
	return cleaned, nil
}
