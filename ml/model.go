package ml

// MLModel is a loaded, read-only binary classifier.
type MLModel interface {
	Predict(features []float64) (int, float64, error)
	Load(path string) error
}
