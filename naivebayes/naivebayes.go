// Package naivebayes implements a multinomial Naive Bayes classifier with
// add-one (Laplace) smoothing over document-term count matrices.
//
//	m, _ := naivebayes.New(vocabSize, naivebayes.NumClasses)
//	_ = m.Fit(trainBows, trainLabels)
//	preds, _ := m.Predict(testBows)
//
// Inputs are gonum matrices holding non-negative word counts. Row-sparse
// matrices implementing mat.RowNonZeroDoer are aggregated by visiting their
// non-zero entries only; any other mat.Matrix goes through dense products.
package naivebayes

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// NumClasses is the number of classes the model supports (negative, positive).
const NumClasses = 2

// Model is a multinomial Naive Bayes classifier.
//
// Dimensions are fixed by New. Fit sets the parameters; after that the model
// is read-only and safe for concurrent prediction. Fit must not run
// concurrently with anything else.
type Model struct {
	numVocab   int
	numClasses int

	p *params
}

// params holds fitted parameters. It is replaced wholesale by Fit and never
// mutated afterwards.
type params struct {
	classDocCount  []float64  // [numClasses]
	classWordCount *mat.Dense // [numClasses][numVocab]

	prior      []float64
	likelihood *mat.Dense

	logPrior      []float64
	logLikelihood *mat.Dense
}

// New creates an unfitted model for numVocab words and numClasses classes.
func New(numVocab, numClasses int) (*Model, error) {
	if numVocab <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBadVocabSize, numVocab)
	}
	if numClasses != NumClasses {
		return nil, fmt.Errorf("%w: got %d classes", ErrBadNumClasses, numClasses)
	}
	return &Model{numVocab: numVocab, numClasses: numClasses}, nil
}

// NumVocab returns the vocabulary size the model was built for.
func (m *Model) NumVocab() int { return m.numVocab }

// NumClasses returns the number of classes.
func (m *Model) NumClasses() int { return m.numClasses }

// Fitted reports whether Fit has completed successfully.
func (m *Model) Fitted() bool { return m.p != nil }

// Fit estimates class priors and smoothed word likelihoods from an N×V count
// matrix and N labels in [0, NumClasses).
//
// On error the model keeps its previous state.
func (m *Model) Fit(bows mat.Matrix, labels []int) error {
	if err := m.validateTraining(bows, labels); err != nil {
		return err
	}
	docCount, wordCount := m.countByClass(bows, labels)
	p, err := m.estimate(docCount, wordCount)
	if err != nil {
		return err
	}
	m.p = p
	return nil
}

func (m *Model) validateTraining(bows mat.Matrix, labels []int) error {
	r, c := bows.Dims()
	if r == 0 || len(labels) == 0 {
		return ErrEmptyTrainingSet
	}
	if r != len(labels) {
		return fmt.Errorf("%w: %d rows but %d labels", ErrShapeMismatch, r, len(labels))
	}
	if c != m.numVocab {
		return fmt.Errorf("%w: %d columns, model vocabulary is %d", ErrShapeMismatch, c, m.numVocab)
	}
	for i, l := range labels {
		if l < 0 || l >= m.numClasses {
			return fmt.Errorf("%w: labels[%d] = %d", ErrBadLabel, i, l)
		}
	}
	if i, j, v, ok := firstNegative(bows); ok {
		return fmt.Errorf("%w: bows[%d][%d] = %v", ErrNegativeCount, i, j, v)
	}
	return nil
}

// countByClass returns the per-class document counts and the per-class word
// count totals. The dense path multiplies a one-hot class mask (C×N) by the
// count matrix (N×V).
func (m *Model) countByClass(bows mat.Matrix, labels []int) ([]float64, *mat.Dense) {
	docCount := make([]float64, m.numClasses)
	for _, l := range labels {
		docCount[l]++
	}

	wordCount := mat.NewDense(m.numClasses, m.numVocab, nil)
	if sp, ok := bows.(mat.RowNonZeroDoer); ok {
		for i, l := range labels {
			row := wordCount.RawRowView(l)
			sp.DoRowNonZero(i, func(_, j int, v float64) {
				row[j] += v
			})
		}
		return docCount, wordCount
	}

	mask := mat.NewDense(m.numClasses, len(labels), nil)
	for i, l := range labels {
		mask.Set(l, i, 1)
	}
	wordCount.Mul(mask, bows)
	return docCount, wordCount
}

// estimate derives priors, likelihoods and their logs from raw counts, then
// runs the consistency check.
func (m *Model) estimate(docCount []float64, wordCount *mat.Dense) (*params, error) {
	prior := estimatePrior(docCount)
	likelihood := smoothedLikelihood(wordCount)

	logPrior := make([]float64, len(prior))
	for c, v := range prior {
		logPrior[c] = math.Log(v)
	}
	var logLikelihood mat.Dense
	logLikelihood.Apply(func(_, _ int, v float64) float64 {
		return math.Log(v)
	}, likelihood)

	p := &params{
		classDocCount:  docCount,
		classWordCount: wordCount,
		prior:          prior,
		likelihood:     likelihood,
		logPrior:       logPrior,
		logLikelihood:  &logLikelihood,
	}
	if err := p.check(m.numClasses, m.numVocab); err != nil {
		return nil, err
	}
	return p, nil
}

// estimatePrior returns P(c). A class without documents gets a prior of
// exactly zero.
func estimatePrior(docCount []float64) []float64 {
	prior := make([]float64, len(docCount))
	prior[1] = docCount[1] / floats.Sum(docCount)
	prior[0] = 1 - prior[1]
	return prior
}

// smoothedLikelihood returns P(w|c) with add-one smoothing:
// (count[c][w] + 1) / (total[c] + V).
func smoothedLikelihood(wordCount *mat.Dense) *mat.Dense {
	var likelihood mat.Dense
	likelihood.Apply(func(_, _ int, v float64) float64 {
		return v + 1
	}, wordCount)

	r, _ := likelihood.Dims()
	for c := 0; c < r; c++ {
		row := likelihood.RawRowView(c)
		total := floats.Sum(row)
		for j := range row {
			row[j] /= total
		}
	}
	return &likelihood
}

func (p *params) check(numClasses, numVocab int) error {
	if p.logPrior == nil || p.logLikelihood == nil {
		return fmt.Errorf("%w: log parameters not assigned", ErrInconsistent)
	}
	if !(floats.Sum(p.classDocCount) > 0) {
		return fmt.Errorf("%w: %w", ErrInconsistent, ErrEmptyTrainingSet)
	}
	if !(mat.Sum(p.classWordCount) > 0) {
		return fmt.Errorf("%w: %w", ErrInconsistent, ErrNoWords)
	}
	for c, v := range p.prior {
		if !(v >= 0 && v <= 1) {
			return fmt.Errorf("%w: prior[%d] = %v", ErrInconsistent, c, v)
		}
	}
	if len(p.logPrior) != numClasses {
		return fmt.Errorf("%w: log prior has %d entries, want %d", ErrInconsistent, len(p.logPrior), numClasses)
	}
	r, c := p.logLikelihood.Dims()
	if r != numClasses || c != numVocab {
		return fmt.Errorf("%w: log likelihood is %dx%d, want %dx%d", ErrInconsistent, r, c, numClasses, numVocab)
	}
	return nil
}

// Scores returns the M×C log-posterior scores
// logPrior[c] + Σ_j bows[i][j]·logLikelihood[c][j].
func (m *Model) Scores(bows mat.Matrix) (*mat.Dense, error) {
	if m.p == nil {
		return nil, ErrNotFitted
	}
	r, c := bows.Dims()
	if c != m.numVocab {
		return nil, fmt.Errorf("%w: %d columns, model vocabulary is %d", ErrShapeMismatch, c, m.numVocab)
	}
	if r == 0 {
		return &mat.Dense{}, nil
	}

	scores := mat.NewDense(r, m.numClasses, nil)
	if sp, ok := bows.(mat.RowNonZeroDoer); ok {
		logLikelihood := m.p.logLikelihood
		for i := 0; i < r; i++ {
			row := scores.RawRowView(i)
			sp.DoRowNonZero(i, func(_, j int, v float64) {
				for k := range row {
					row[k] += v * logLikelihood.At(k, j)
				}
			})
		}
	} else {
		scores.Mul(bows, m.p.logLikelihood.T())
	}
	for i := 0; i < r; i++ {
		floats.Add(scores.RawRowView(i), m.p.logPrior)
	}
	return scores, nil
}

// Predict returns the most probable class for every row of bows.
// Equal scores resolve to the lowest class index.
func (m *Model) Predict(bows mat.Matrix) ([]int, error) {
	scores, err := m.Scores(bows)
	if err != nil {
		return nil, err
	}
	r, _ := bows.Dims()
	labels := make([]int, r)
	for i := range labels {
		labels[i] = floats.MaxIdx(scores.RawRowView(i))
	}
	return labels, nil
}

// PredictProba returns the posterior class probabilities for every row of
// bows, normalized per row.
func (m *Model) PredictProba(bows mat.Matrix) (*mat.Dense, error) {
	scores, err := m.Scores(bows)
	if err != nil {
		return nil, err
	}
	if scores.IsEmpty() {
		return scores, nil
	}
	r, _ := scores.Dims()
	for i := 0; i < r; i++ {
		softmax(scores.RawRowView(i))
	}
	return scores, nil
}

// softmax normalizes log scores in place.
func softmax(row []float64) {
	maxScore := floats.Max(row)
	var sum float64
	for k, v := range row {
		row[k] = math.Exp(v - maxScore)
		sum += row[k]
	}
	for k := range row {
		row[k] /= sum
	}
}

// ClassDocCount returns the number of training documents per class.
func (m *Model) ClassDocCount() []float64 {
	if m.p == nil {
		return nil
	}
	return append([]float64(nil), m.p.classDocCount...)
}

// ClassWordCount returns the C×V raw word counts per class.
func (m *Model) ClassWordCount() *mat.Dense {
	if m.p == nil {
		return nil
	}
	return mat.DenseCopyOf(m.p.classWordCount)
}

// Prior returns P(c).
func (m *Model) Prior() []float64 {
	if m.p == nil {
		return nil
	}
	return append([]float64(nil), m.p.prior...)
}

// Likelihood returns the smoothed C×V matrix P(w|c).
func (m *Model) Likelihood() *mat.Dense {
	if m.p == nil {
		return nil
	}
	return mat.DenseCopyOf(m.p.likelihood)
}

// LogPrior returns log P(c).
func (m *Model) LogPrior() []float64 {
	if m.p == nil {
		return nil
	}
	return append([]float64(nil), m.p.logPrior...)
}

// LogLikelihood returns log P(w|c).
func (m *Model) LogLikelihood() *mat.Dense {
	if m.p == nil {
		return nil
	}
	return mat.DenseCopyOf(m.p.logLikelihood)
}

// firstNegative reports the first negative entry of bows, if any.
func firstNegative(bows mat.Matrix) (int, int, float64, bool) {
	r, c := bows.Dims()
	if sp, ok := bows.(mat.RowNonZeroDoer); ok {
		for i := 0; i < r; i++ {
			bad := -1
			var val float64
			sp.DoRowNonZero(i, func(_, j int, v float64) {
				if v < 0 && bad < 0 {
					bad, val = j, v
				}
			})
			if bad >= 0 {
				return i, bad, val, true
			}
		}
		return 0, 0, 0, false
	}
	if mat.Min(bows) >= 0 {
		return 0, 0, 0, false
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := bows.At(i, j); v < 0 {
				return i, j, v, true
			}
		}
	}
	return 0, 0, 0, false
}
