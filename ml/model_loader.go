package ml

import (
	"errors"
)

const (
	ModelTypeDecisionTree       = "decision_tree"
	ModelTypeLogisticRegression = "logistic_regression"
)

// LoadModel reads the artifact at path. Any failure is a *ModelUnavailableError.
func LoadModel(modelType, path string) (MLModel, error) {
	var model MLModel
	switch modelType {
	case ModelTypeDecisionTree:
		model = &DecisionTree{}
	case ModelTypeLogisticRegression:
		model = &LogisticRegression{}
	default:
		return nil, &ModelUnavailableError{ModelType: modelType, Path: path, Err: errors.New("unsupported model type")}
	}
	if err := model.Load(path); err != nil {
		return nil, &ModelUnavailableError{ModelType: modelType, Path: path, Err: err}
	}
	return model, nil
}
