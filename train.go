package duygu

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/happyhackingspace/duygu/internal/metrics"
	"github.com/happyhackingspace/duygu/internal/storage"
	"github.com/happyhackingspace/duygu/internal/textutil"
	"github.com/happyhackingspace/duygu/internal/vectorizer"
	"github.com/happyhackingspace/duygu/naivebayes"
)

// Example is a labeled review.
type Example struct {
	Text  string
	Label Sentiment
}

// TrainConfig holds configuration for training.
type TrainConfig struct {
	Samples int    // reviews to keep after shuffling; all when <= 0
	Seed    uint64 // shuffle seed
	MinDF   int    // minimum document frequency of a vocabulary word
}

// EvalConfig holds configuration for evaluation.
type EvalConfig struct {
	Samples    int
	Seed       uint64
	MinDF      int
	TrainRatio float64 // hold-out split, used when Folds < 2
	Folds      int     // k-fold cross-validation when >= 2
	Examples   int     // correct and wrong samples to keep
}

// Sample is an evaluated review.
type Sample struct {
	Text      string
	Label     Sentiment
	Predicted Sentiment
}

// EvalResult holds evaluation results.
type EvalResult struct {
	*metrics.Report
	Baseline  float64
	Folds     int
	TrainSize int // per split; the last fold for cross-validation
	TestSize  int
	// Up to EvalConfig.Examples samples of each outcome.
	CorrectSamples []Sample
	WrongSamples   []Sample
}

// ErrNoEvalSamples is returned when a split leaves nothing to evaluate.
var ErrNoEvalSamples = errors.New("duygu: no samples to evaluate")

// Fit trains a classifier on labeled examples. Markup is stripped and the
// vocabulary is built from the examples themselves.
func Fit(examples []Example, config *TrainConfig) (*Classifier, error) {
	raw := make([]string, len(examples))
	labels := make([]int, len(examples))
	for i, ex := range examples {
		raw[i] = ex.Text
		labels[i] = int(ex.Label)
	}
	texts, err := stripAll(raw)
	if err != nil {
		return nil, err
	}
	return fit(texts, labels, config)
}

// fit trains on texts that are already free of markup.
func fit(texts []string, labels []int, config *TrainConfig) (*Classifier, error) {
	minDF := 1
	if config != nil && config.MinDF > 0 {
		minDF = config.MinDF
	}

	vec := vectorizer.NewCountVectorizer([2]int{1, 1}, false, "word", minDF)
	bows, err := vec.FitMatrix(texts)
	if err != nil {
		return nil, fmt.Errorf("duygu: %w", err)
	}
	if vec.VocabSize() == 0 {
		return nil, fmt.Errorf("duygu: %w: no token survives the vocabulary filters", naivebayes.ErrNoWords)
	}
	slog.Debug("Vocabulary built", "words", vec.VocabSize(), "docs", len(texts), "nnz", bows.Nnz())

	model, err := naivebayes.New(vec.VocabSize(), naivebayes.NumClasses)
	if err != nil {
		return nil, fmt.Errorf("duygu: %w", err)
	}
	if err := model.Fit(bows, labels); err != nil {
		return nil, fmt.Errorf("duygu: %w", err)
	}
	return &Classifier{vec: vec, model: model}, nil
}

// Train trains a classifier on every sampled review of a CSV dataset.
func Train(dataFile string, config *TrainConfig) (*Classifier, error) {
	if config == nil {
		config = &TrainConfig{Seed: 42}
	}
	reviews, err := storage.LoadReviews(dataFile, storage.DefaultLoadOptions())
	if err != nil {
		return nil, fmt.Errorf("duygu: load reviews: %w", err)
	}
	train, _ := storage.Prepare(reviews, config.Samples, 1, config.Seed)
	slog.Info("Reviews loaded", "total", len(reviews), "train", len(train))
	return fit(storage.Texts(train), storage.Labels(train), config)
}

// Evaluate measures accuracy on a CSV dataset, either on a hold-out split
// or with k-fold cross-validation.
func Evaluate(dataFile string, config *EvalConfig) (*EvalResult, error) {
	cfg := EvalConfig{TrainRatio: 0.8, Seed: 42, Examples: 5}
	if config != nil {
		cfg = *config
		if cfg.TrainRatio <= 0 {
			cfg.TrainRatio = 0.8
		}
	}

	reviews, err := storage.LoadReviews(dataFile, storage.DefaultLoadOptions())
	if err != nil {
		return nil, fmt.Errorf("duygu: load reviews: %w", err)
	}
	trainCfg := &TrainConfig{MinDF: cfg.MinDF}

	if cfg.Folds < 2 {
		train, test := storage.Prepare(reviews, cfg.Samples, cfg.TrainRatio, cfg.Seed)
		if len(test) == 0 {
			return nil, ErrNoEvalSamples
		}
		ev := newEvaluation(cfg.Examples)
		if err := ev.run(train, test, trainCfg); err != nil {
			return nil, err
		}
		return ev.result(1, len(train), len(test))
	}

	examples, _ := storage.Prepare(reviews, cfg.Samples, 1, cfg.Seed)
	folds := kFold(len(examples), cfg.Folds)
	ev := newEvaluation(cfg.Examples)
	var trainSize, testSize int
	for k, testIdx := range folds {
		testSet := makeTestSet(len(examples), testIdx)
		train, test := splitByIndex(examples, testSet)
		slog.Debug("Evaluating fold", "fold", k+1, "train", len(train), "test", len(test))
		if err := ev.run(train, test, trainCfg); err != nil {
			return nil, fmt.Errorf("fold %d: %w", k+1, err)
		}
		trainSize, testSize = len(train), len(test)
	}
	return ev.result(len(folds), trainSize, testSize)
}

// evaluation accumulates predictions over one or more splits.
type evaluation struct {
	keep    int
	truth   []int
	pred    []int
	correct []Sample
	wrong   []Sample
}

func newEvaluation(keep int) *evaluation {
	return &evaluation{keep: keep}
}

// run trains on one split and scores the other. Reviews come from
// storage.LoadReviews, which has already stripped their markup.
func (ev *evaluation) run(train, test []storage.Review, config *TrainConfig) error {
	c, err := fit(storage.Texts(train), storage.Labels(train), config)
	if err != nil {
		return err
	}
	pred, err := c.predict(storage.Texts(test))
	if err != nil {
		return err
	}
	for i, r := range test {
		label := Sentiment(r.Sentiment)
		ev.truth = append(ev.truth, r.Sentiment)
		ev.pred = append(ev.pred, int(pred[i]))
		s := Sample{Text: r.Text, Label: label, Predicted: pred[i]}
		if pred[i] == label {
			if len(ev.correct) < ev.keep {
				ev.correct = append(ev.correct, s)
			}
		} else if len(ev.wrong) < ev.keep {
			ev.wrong = append(ev.wrong, s)
		}
	}
	return nil
}

func (ev *evaluation) result(folds, trainSize, testSize int) (*EvalResult, error) {
	if len(ev.truth) == 0 {
		return nil, ErrNoEvalSamples
	}
	report, err := metrics.Evaluate(ev.truth, ev.pred, naivebayes.NumClasses)
	if err != nil {
		return nil, fmt.Errorf("duygu: %w", err)
	}
	return &EvalResult{
		Report:         report,
		Baseline:       metrics.MajorityBaseline(ev.truth),
		Folds:          folds,
		TrainSize:      trainSize,
		TestSize:       testSize,
		CorrectSamples: ev.correct,
		WrongSamples:   ev.wrong,
	}, nil
}

// Preview shortens a sample text for display.
func (s Sample) Preview(n int) string {
	return textutil.Preview(s.Text, n)
}

// kFold assigns example i to fold i mod nFolds. Inputs are already shuffled.
func kFold(n, nFolds int) [][]int {
	if nFolds > n {
		nFolds = n
	}
	folds := make([][]int, nFolds)
	for i := 0; i < n; i++ {
		folds[i%nFolds] = append(folds[i%nFolds], i)
	}
	return folds
}

func makeTestSet(n int, testIdx []int) []bool {
	set := make([]bool, n)
	for _, i := range testIdx {
		set[i] = true
	}
	return set
}

func splitByIndex(examples []storage.Review, testSet []bool) (train, test []storage.Review) {
	for i, ex := range examples {
		if testSet[i] {
			test = append(test, ex)
		} else {
			train = append(train, ex)
		}
	}
	return train, test
}
