package naivebayes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// rowSparse exposes a dense matrix through mat.RowNonZeroDoer so tests can
// exercise the sparse aggregation path.
type rowSparse struct {
	*mat.Dense
}

func (s rowSparse) DoRowNonZero(i int, fn func(i, j int, v float64)) {
	for j, v := range s.RawRowView(i) {
		if v != 0 {
			fn(i, j, v)
		}
	}
}

func goodBadModel(t *testing.T) *Model {
	t.Helper()
	m, err := New(2, NumClasses)
	require.NoError(t, err)
	bows := mat.NewDense(3, 2, []float64{
		1, 0,
		0, 1,
		1, 0,
	})
	require.NoError(t, m.Fit(bows, []int{1, 0, 1}))
	return m
}

// separableCorpus builds documents where positive reviews use words 0-4 and
// negative reviews use words 5-9, with a shared noise word 10.
func separableCorpus() (*mat.Dense, []int) {
	const n, v = 30, 11
	data := make([]float64, n*v)
	labels := make([]int, n)
	for i := 0; i < n; i++ {
		row := data[i*v : (i+1)*v]
		// 18 positive, 12 negative
		if i%5 < 3 {
			labels[i] = 1
			row[i%5] = 2
			row[(i+1)%5] = 1
		} else {
			row[5+i%5] = 2
			row[5+(i+2)%5] = 1
		}
		row[10] = float64(i % 3)
	}
	return mat.NewDense(n, v, data), labels
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		vocab   int
		classes int
		wantErr error
	}{
		{"valid", 10, 2, nil},
		{"zero vocab", 0, 2, ErrBadVocabSize},
		{"negative vocab", -3, 2, ErrBadVocabSize},
		{"three classes", 10, 3, ErrBadNumClasses},
		{"one class", 10, 1, ErrBadNumClasses},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.vocab, tt.classes)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, m)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.vocab, m.NumVocab())
			assert.Equal(t, tt.classes, m.NumClasses())
			assert.False(t, m.Fitted())
		})
	}
}

func TestFitGoodBad(t *testing.T) {
	m := goodBadModel(t)
	require.True(t, m.Fitted())

	assert.Equal(t, []float64{1, 2}, m.ClassDocCount())

	wc := m.ClassWordCount()
	assert.Equal(t, []float64{0, 1}, mat.Row(nil, 0, wc))
	assert.Equal(t, []float64{2, 0}, mat.Row(nil, 1, wc))

	prior := m.Prior()
	assert.InDelta(t, 1.0/3, prior[0], 1e-12)
	assert.InDelta(t, 2.0/3, prior[1], 1e-12)

	lik := m.Likelihood()
	assert.InDelta(t, 1.0/3, lik.At(0, 0), 1e-12)
	assert.InDelta(t, 2.0/3, lik.At(0, 1), 1e-12)
	assert.InDelta(t, 3.0/5, lik.At(1, 0), 1e-12)
	assert.InDelta(t, 1.0/5, lik.At(1, 1), 1e-12)

	logPrior := m.LogPrior()
	assert.InDelta(t, math.Log(1.0/3), logPrior[0], 1e-12)
	assert.InDelta(t, math.Log(2.0/3), logPrior[1], 1e-12)
	assert.InDelta(t, math.Log(3.0/5), m.LogLikelihood().At(1, 0), 1e-12)

	preds, err := m.Predict(mat.NewDense(1, 2, []float64{1, 0}))
	require.NoError(t, err)
	assert.Equal(t, []int{1}, preds)

	preds, err = m.Predict(mat.NewDense(1, 2, []float64{0, 3}))
	require.NoError(t, err)
	assert.Equal(t, []int{0}, preds)
}

func TestProbabilityInvariants(t *testing.T) {
	bows, labels := separableCorpus()
	m, err := New(11, NumClasses)
	require.NoError(t, err)
	require.NoError(t, m.Fit(bows, labels))

	assert.InDelta(t, 1.0, floats.Sum(m.Prior()), 1e-12)

	lik := m.Likelihood()
	for c := 0; c < NumClasses; c++ {
		row := mat.Row(nil, c, lik)
		assert.InDelta(t, 1.0, floats.Sum(row), 1e-12, "class %d", c)
		for j, v := range row {
			assert.Greater(t, v, 0.0, "likelihood[%d][%d]", c, j)
		}
	}

	// classDocCount sums to N and word counts match the per-class totals.
	assert.Equal(t, float64(len(labels)), floats.Sum(m.ClassDocCount()))
	wc := m.ClassWordCount()
	for c := 0; c < NumClasses; c++ {
		var want float64
		for i, l := range labels {
			if l == c {
				want += floats.Sum(bows.RawRowView(i))
			}
		}
		assert.Equal(t, want, floats.Sum(mat.Row(nil, c, wc)))
	}
}

func TestUnseenWordStillPositive(t *testing.T) {
	m := goodBadModel(t)
	// "bad" never appears in class 1 and "good" never in class 0.
	assert.Equal(t, 0.0, m.ClassWordCount().At(1, 1))
	assert.Greater(t, m.Likelihood().At(1, 1), 0.0)
	assert.False(t, math.IsInf(m.LogLikelihood().At(1, 1), 0))
	assert.Greater(t, m.Likelihood().At(0, 0), 0.0)
}

func TestLearningBeatsBaseline(t *testing.T) {
	bows, labels := separableCorpus()
	m, err := New(11, NumClasses)
	require.NoError(t, err)
	require.NoError(t, m.Fit(bows, labels))

	preds, err := m.Predict(bows)
	require.NoError(t, err)

	correct, positives := 0, 0
	for i := range labels {
		if preds[i] == labels[i] {
			correct++
		}
		positives += labels[i]
	}
	majority := math.Max(float64(positives), float64(len(labels)-positives))
	assert.Greater(t, float64(correct), majority)
}

func TestPredictIdempotent(t *testing.T) {
	bows, labels := separableCorpus()
	m, err := New(11, NumClasses)
	require.NoError(t, err)
	require.NoError(t, m.Fit(bows, labels))

	before := m.LogLikelihood()
	first, err := m.Predict(bows)
	require.NoError(t, err)
	second, err := m.Predict(bows)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.True(t, mat.Equal(before, m.LogLikelihood()))
}

func TestFitDeterministic(t *testing.T) {
	bows, labels := separableCorpus()

	a, err := New(11, NumClasses)
	require.NoError(t, err)
	require.NoError(t, a.Fit(bows, labels))
	b, err := New(11, NumClasses)
	require.NoError(t, err)
	require.NoError(t, b.Fit(bows, labels))

	assert.Equal(t, a.LogPrior(), b.LogPrior())
	assert.True(t, mat.Equal(a.LogLikelihood(), b.LogLikelihood()))
}

func TestSparseMatchesDense(t *testing.T) {
	bows, labels := separableCorpus()

	dense, err := New(11, NumClasses)
	require.NoError(t, err)
	require.NoError(t, dense.Fit(bows, labels))
	sparse, err := New(11, NumClasses)
	require.NoError(t, err)
	require.NoError(t, sparse.Fit(rowSparse{bows}, labels))

	assert.True(t, mat.Equal(dense.ClassWordCount(), sparse.ClassWordCount()))
	assert.Equal(t, dense.LogPrior(), sparse.LogPrior())
	assert.True(t, mat.Equal(dense.LogLikelihood(), sparse.LogLikelihood()))

	ds, err := dense.Scores(bows)
	require.NoError(t, err)
	ss, err := sparse.Scores(rowSparse{bows})
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(ds, ss, 1e-9))

	dp, err := dense.Predict(bows)
	require.NoError(t, err)
	sp, err := sparse.Predict(rowSparse{bows})
	require.NoError(t, err)
	assert.Equal(t, dp, sp)
}

func TestAllZeroRowFollowsPrior(t *testing.T) {
	m := goodBadModel(t)
	zero := mat.NewDense(1, 2, nil)

	scores, err := m.Scores(zero)
	require.NoError(t, err)
	assert.Equal(t, m.LogPrior(), mat.Row(nil, 0, scores))

	preds, err := m.Predict(zero)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, preds)
}

func TestTieBreaksToClassZero(t *testing.T) {
	m, err := New(2, NumClasses)
	require.NoError(t, err)
	require.NoError(t, m.Fit(mat.NewDense(2, 2, []float64{1, 0, 0, 1}), []int{0, 1}))

	preds, err := m.Predict(mat.NewDense(2, 2, []float64{
		1, 1,
		0, 0,
	}))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0}, preds)
}

func TestSingleClassTraining(t *testing.T) {
	m, err := New(2, NumClasses)
	require.NoError(t, err)
	require.NoError(t, m.Fit(mat.NewDense(2, 2, []float64{1, 0, 2, 1}), []int{1, 1}))

	assert.Equal(t, []float64{0, 1}, m.Prior())
	assert.True(t, math.IsInf(m.LogPrior()[0], -1))

	preds, err := m.Predict(mat.NewDense(3, 2, []float64{0, 5, 0, 0, 4, 0}))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 1}, preds)
}

func TestFitErrors(t *testing.T) {
	tests := []struct {
		name    string
		bows    mat.Matrix
		labels  []int
		wantErr error
	}{
		{"row count mismatch", mat.NewDense(2, 3, nil), []int{0}, ErrShapeMismatch},
		{"vocab mismatch", mat.NewDense(1, 2, []float64{1, 1}), []int{0}, ErrShapeMismatch},
		{"empty labels", mat.NewDense(1, 3, []float64{1, 0, 0}), nil, ErrEmptyTrainingSet},
		{"label out of range", mat.NewDense(1, 3, []float64{1, 0, 0}), []int{2}, ErrBadLabel},
		{"negative label", mat.NewDense(1, 3, []float64{1, 0, 0}), []int{-1}, ErrBadLabel},
		{"negative count", mat.NewDense(1, 3, []float64{1, -1, 0}), []int{0}, ErrNegativeCount},
		{"negative count sparse", rowSparse{mat.NewDense(1, 3, []float64{0, 0, -2})}, []int{0}, ErrNegativeCount},
		{"no words", mat.NewDense(2, 3, nil), []int{0, 1}, ErrNoWords},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(3, NumClasses)
			require.NoError(t, err)
			err = m.Fit(tt.bows, tt.labels)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, m.Fitted())
		})
	}
}

func TestNoWordsIsConsistencyFailure(t *testing.T) {
	m, err := New(3, NumClasses)
	require.NoError(t, err)
	err = m.Fit(mat.NewDense(1, 3, nil), []int{1})
	assert.ErrorIs(t, err, ErrInconsistent)
	assert.ErrorIs(t, err, ErrNoWords)
}

func TestFailedFitKeepsPreviousState(t *testing.T) {
	m := goodBadModel(t)
	before := m.LogPrior()
	err := m.Fit(mat.NewDense(1, 2, nil), []int{0})
	require.Error(t, err)
	assert.True(t, m.Fitted())
	assert.Equal(t, before, m.LogPrior())
}

func TestPredictErrors(t *testing.T) {
	m, err := New(2, NumClasses)
	require.NoError(t, err)

	_, err = m.Predict(mat.NewDense(1, 2, []float64{1, 0}))
	assert.ErrorIs(t, err, ErrNotFitted)
	assert.Nil(t, m.Prior())
	assert.Nil(t, m.LogLikelihood())

	m = goodBadModel(t)
	_, err = m.Predict(mat.NewDense(1, 3, []float64{1, 0, 0}))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestPredictProba(t *testing.T) {
	m := goodBadModel(t)
	proba, err := m.PredictProba(mat.NewDense(2, 2, []float64{
		1, 0,
		0, 0,
	}))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		row := mat.Row(nil, i, proba)
		assert.InDelta(t, 1.0, floats.Sum(row), 1e-12)
	}
	assert.Greater(t, proba.At(0, 1), proba.At(0, 0))
	// An empty document gets the priors back.
	assert.InDelta(t, 1.0/3, proba.At(1, 0), 1e-12)
	assert.InDelta(t, 2.0/3, proba.At(1, 1), 1e-12)
}
