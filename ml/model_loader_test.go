package ml

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArtifact(t *testing.T, name, payload string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))
	return path
}

func TestLoadModel(t *testing.T) {
	tree := writeArtifact(t, "tree.json", `[{"feature_idx":-1,"left_child":-1,"right_child":-1,"class_label":1,"is_leaf":true}]`)
	logistic := writeArtifact(t, "lr.json", `{"weights":[0.1,0.2,-0.01,0.3],"bias":-1.5,"threshold":0.5}`)

	model, err := LoadModel(ModelTypeDecisionTree, tree)
	require.NoError(t, err)
	assert.IsType(t, &DecisionTree{}, model)

	model, err = LoadModel(ModelTypeLogisticRegression, logistic)
	require.NoError(t, err)
	assert.IsType(t, &LogisticRegression{}, model)
}

func TestLoadModelUnavailable(t *testing.T) {
	garbage := writeArtifact(t, "garbage.json", `not json`)
	shortWeights := writeArtifact(t, "short.json", `{"weights":[1,2],"bias":0}`)

	tests := []struct {
		name      string
		modelType string
		path      string
	}{
		{name: "unknown type", modelType: "random_forest", path: garbage},
		{name: "missing file", modelType: ModelTypeDecisionTree, path: filepath.Join(t.TempDir(), "absent.json")},
		{name: "corrupt tree", modelType: ModelTypeDecisionTree, path: garbage},
		{name: "wrong weight count", modelType: ModelTypeLogisticRegression, path: shortWeights},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := LoadModel(tt.modelType, tt.path)
			assert.Nil(t, model)
			var unavailable *ModelUnavailableError
			require.True(t, errors.As(err, &unavailable), "got %v", err)
			assert.Equal(t, tt.path, unavailable.Path)
		})
	}
}

func TestLogisticRegressionPredict(t *testing.T) {
	model := &LogisticRegression{Weights: []float64{0, 1, 0, 0}, Bias: -6}

	label, confidence, err := model.Predict([]float64{0, 12, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 1, label)
	assert.Greater(t, confidence, 0.5)

	label, confidence, err = model.Predict([]float64{0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 0, label)
	assert.Greater(t, confidence, 0.5)

	_, _, err = model.Predict([]float64{1})
	assert.Error(t, err)
}
