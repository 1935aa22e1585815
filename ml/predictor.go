package ml

import (
	"fmt"
	"sync"
)

// Prediction is the model output for one record.
type Prediction struct {
	ID         int64      `json:"id"`
	Class      int        `json:"class"`
	Confidence float64    `json:"confidence"`
	Label      string     `json:"label"`
	Features   FeatureRow `json:"features"`
}

// PredictorOptions configures a Predictor.
type PredictorOptions struct {
	Transformer Transformer
	Labels      LabelMapper
	// SerializePredict guards model calls with a mutex for models that are
	// not safe for concurrent use. The built-in models are.
	SerializePredict bool
}

// Predictor runs transform, inference and label mapping. It is created once
// at startup and shared by all requests.
type Predictor struct {
	model MLModel
	opts  PredictorOptions
	mu    sync.Mutex
}

func NewPredictor(model MLModel, opts PredictorOptions) *Predictor {
	if opts.Labels.Negative == "" {
		opts.Labels.Negative = DefaultNegativeLabel
	}
	if opts.Labels.Positive == "" {
		opts.Labels.Positive = DefaultPositiveLabel
	}
	return &Predictor{model: model, opts: opts}
}

// Predict scores a batch. Imputation is computed over exactly this batch.
func (p *Predictor) Predict(records []RawRecord) ([]Prediction, error) {
	rows, err := p.opts.Transformer.Transform(records)
	if err != nil {
		return nil, err
	}
	predictions := make([]Prediction, len(rows))
	for i, row := range rows {
		class, confidence, err := p.predictRow(FeatureVector(row))
		if err != nil {
			return nil, fmt.Errorf("predict record %d: %w", row.ID, err)
		}
		predictions[i] = Prediction{
			ID:         row.ID,
			Class:      class,
			Confidence: confidence,
			Label:      p.opts.Labels.Label(class),
			Features:   row,
		}
	}
	return predictions, nil
}

func (p *Predictor) predictRow(vector []float64) (int, float64, error) {
	if p.opts.SerializePredict {
		p.mu.Lock()
		defer p.mu.Unlock()
	}
	return p.model.Predict(vector)
}
