package naivebayes

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
)

// modelJSON is the serialized form of a fitted Model. Only raw counts are
// stored; priors and likelihoods are re-derived on load, since a class with
// no documents has a log prior of -Inf, which JSON cannot carry.
type modelJSON struct {
	NumVocab       int         `json:"num_vocab"`
	NumClasses     int         `json:"num_classes"`
	ClassDocCount  []float64   `json:"class_doc_count"`
	ClassWordCount [][]float64 `json:"class_word_count"`
}

// MarshalJSON implements json.Marshaler.
func (m *Model) MarshalJSON() ([]byte, error) {
	if m.p == nil {
		return nil, ErrNotFitted
	}
	rows := make([][]float64, m.numClasses)
	for c := range rows {
		rows[c] = mat.Row(nil, c, m.p.classWordCount)
	}
	return json.Marshal(modelJSON{
		NumVocab:       m.numVocab,
		NumClasses:     m.numClasses,
		ClassDocCount:  m.p.classDocCount,
		ClassWordCount: rows,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Model) UnmarshalJSON(data []byte) error {
	var mj modelJSON
	if err := json.Unmarshal(data, &mj); err != nil {
		return err
	}
	fresh, err := New(mj.NumVocab, mj.NumClasses)
	if err != nil {
		return err
	}
	if len(mj.ClassDocCount) != mj.NumClasses {
		return fmt.Errorf("%w: %d class document counts, want %d", ErrShapeMismatch, len(mj.ClassDocCount), mj.NumClasses)
	}
	if len(mj.ClassWordCount) != mj.NumClasses {
		return fmt.Errorf("%w: %d class word count rows, want %d", ErrShapeMismatch, len(mj.ClassWordCount), mj.NumClasses)
	}

	wordCount := mat.NewDense(mj.NumClasses, mj.NumVocab, nil)
	for c, row := range mj.ClassWordCount {
		if len(row) != mj.NumVocab {
			return fmt.Errorf("%w: class %d has %d word counts, want %d", ErrShapeMismatch, c, len(row), mj.NumVocab)
		}
		wordCount.SetRow(c, row)
	}
	if mat.Min(wordCount) < 0 {
		return ErrNegativeCount
	}
	for c, n := range mj.ClassDocCount {
		if n < 0 {
			return fmt.Errorf("%w: class %d has %v documents", ErrNegativeCount, c, n)
		}
	}

	p, err := fresh.estimate(append([]float64(nil), mj.ClassDocCount...), wordCount)
	if err != nil {
		return err
	}
	fresh.p = p
	*m = *fresh
	return nil
}

// SaveModel serializes the model to JSON.
func SaveModel(model *Model, path string) error {
	data, err := json.Marshal(model)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadModel deserializes a model from JSON.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return UnmarshalModel(data)
}

// MarshalModel serializes the model to JSON bytes.
func MarshalModel(model *Model) ([]byte, error) {
	return json.Marshal(model)
}

// UnmarshalModel deserializes a model from JSON bytes.
func UnmarshalModel(data []byte) (*Model, error) {
	var model Model
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, err
	}
	return &model, nil
}
