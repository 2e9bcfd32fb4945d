package naivebayes

import "errors"

var (
	ErrBadVocabSize     = errors.New("naivebayes: vocabulary size must be positive")
	ErrBadNumClasses    = errors.New("naivebayes: only binary classification is supported")
	ErrNotFitted        = errors.New("naivebayes: model is not fitted")
	ErrShapeMismatch    = errors.New("naivebayes: shape mismatch")
	ErrBadLabel         = errors.New("naivebayes: label out of range")
	ErrNegativeCount    = errors.New("naivebayes: negative word count")
	ErrEmptyTrainingSet = errors.New("naivebayes: empty training set")
	ErrNoWords          = errors.New("naivebayes: training set has no word occurrences")
	ErrInconsistent     = errors.New("naivebayes: inconsistent model parameters")
)
