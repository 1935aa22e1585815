package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// LogisticRegression scores sigmoid(w·x + b) and predicts class 1 at or
// above Threshold.
type LogisticRegression struct {
	Weights   []float64 `json:"weights"`
	Bias      float64   `json:"bias"`
	Threshold float64   `json:"threshold"`
}

func (lr *LogisticRegression) Predict(features []float64) (int, float64, error) {
	if len(lr.Weights) == 0 {
		return 0, 0, errors.New("model not loaded")
	}
	if len(features) != len(lr.Weights) {
		return 0, 0, fmt.Errorf("expected %d features, got %d", len(lr.Weights), len(features))
	}
	z := lr.Bias
	for i, w := range lr.Weights {
		z += w * features[i]
	}
	p := 1 / (1 + math.Exp(-z))
	if p >= lr.threshold() {
		return 1, p, nil
	}
	return 0, 1 - p, nil
}

func (lr *LogisticRegression) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var loaded LogisticRegression
	if err := json.Unmarshal(payload, &loaded); err != nil {
		return fmt.Errorf("decode logistic regression: %w", err)
	}
	if len(loaded.Weights) != len(FeatureNames()) {
		return fmt.Errorf("expected %d weights, got %d", len(FeatureNames()), len(loaded.Weights))
	}
	if loaded.Threshold < 0 || loaded.Threshold >= 1 {
		return fmt.Errorf("threshold %v outside [0, 1)", loaded.Threshold)
	}
	*lr = loaded
	return nil
}

func (lr *LogisticRegression) threshold() float64 {
	if lr.Threshold == 0 {
		return 0.5
	}
	return lr.Threshold
}
