// Package metrics scores predicted class labels against the truth.
package metrics

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrLengthMismatch is returned when truth and predictions differ in length.
var ErrLengthMismatch = errors.New("metrics: truth and prediction lengths differ")

// Report summarizes classification quality.
type Report struct {
	Correct   int
	Total     int
	Accuracy  float64
	Confusion [][]int // Confusion[truth][predicted]
	Precision []float64
	Recall    []float64
	F1        []float64
	MacroF1   float64
}

// Evaluate compares predictions with the truth over numClasses classes.
// Precision, recall and F1 of a class with no support are 0.
func Evaluate(truth, pred []int, numClasses int) (*Report, error) {
	if len(truth) != len(pred) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(truth), len(pred))
	}
	r := &Report{
		Total:     len(truth),
		Confusion: make([][]int, numClasses),
		Precision: make([]float64, numClasses),
		Recall:    make([]float64, numClasses),
		F1:        make([]float64, numClasses),
	}
	for c := range r.Confusion {
		r.Confusion[c] = make([]int, numClasses)
	}
	for i, t := range truth {
		p := pred[i]
		if t < 0 || t >= numClasses || p < 0 || p >= numClasses {
			return nil, fmt.Errorf("metrics: label out of range at %d: truth %d, predicted %d", i, t, p)
		}
		r.Confusion[t][p]++
		if t == p {
			r.Correct++
		}
	}
	if r.Total > 0 {
		r.Accuracy = float64(r.Correct) / float64(r.Total)
	}

	for c := 0; c < numClasses; c++ {
		tp := float64(r.Confusion[c][c])
		var predicted, actual float64
		for k := 0; k < numClasses; k++ {
			predicted += float64(r.Confusion[k][c])
			actual += float64(r.Confusion[c][k])
		}
		if predicted > 0 {
			r.Precision[c] = tp / predicted
		}
		if actual > 0 {
			r.Recall[c] = tp / actual
		}
		if s := r.Precision[c] + r.Recall[c]; s > 0 {
			r.F1[c] = 2 * r.Precision[c] * r.Recall[c] / s
		}
	}
	if numClasses > 0 {
		r.MacroF1 = floats.Sum(r.F1) / float64(numClasses)
	}
	return r, nil
}

// MajorityBaseline returns the accuracy of always predicting the most
// frequent label.
func MajorityBaseline(labels []int) float64 {
	if len(labels) == 0 {
		return 0
	}
	counts := make(map[int]int)
	best := 0
	for _, l := range labels {
		counts[l]++
		best = max(best, counts[l])
	}
	return float64(best) / float64(len(labels))
}
