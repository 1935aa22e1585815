package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// DecisionTree is a binary tree flattened into a node array, root at index 0.
type DecisionTree struct {
	nodes []TreeNode
}

type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	ClassLabel int     `json:"class_label"`
	IsLeaf     bool    `json:"is_leaf"`
	// Confidence is the training purity of a leaf; zero means unknown.
	Confidence float64 `json:"confidence,omitempty"`
}

// NewDecisionTree builds a tree from nodes, rejecting dangling child indexes.
func NewDecisionTree(nodes []TreeNode) (*DecisionTree, error) {
	if err := validateNodes(nodes); err != nil {
		return nil, err
	}
	return &DecisionTree{nodes: nodes}, nil
}

func (dt *DecisionTree) Predict(features []float64) (int, float64, error) {
	if len(dt.nodes) == 0 {
		return 0, 0, errors.New("model not loaded")
	}
	idx := 0
	// a valid tree reaches a leaf in at most len(nodes) steps
	for steps := 0; steps <= len(dt.nodes); steps++ {
		node := dt.nodes[idx]
		if node.IsLeaf {
			return node.ClassLabel, leafConfidence(node), nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return 0, 0, fmt.Errorf("feature index %d out of range for %d features", node.FeatureIdx, len(features))
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(dt.nodes) {
			return 0, 0, errors.New("invalid tree state")
		}
	}
	return 0, 0, errors.New("tree contains a cycle")
}

func (dt *DecisionTree) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var nodes []TreeNode
	if err := json.Unmarshal(payload, &nodes); err != nil {
		return fmt.Errorf("decode decision tree: %w", err)
	}
	if err := validateNodes(nodes); err != nil {
		return err
	}
	dt.nodes = nodes
	return nil
}

func validateNodes(nodes []TreeNode) error {
	if len(nodes) == 0 {
		return errors.New("decision tree has no nodes")
	}
	for i, node := range nodes {
		if node.IsLeaf {
			continue
		}
		if node.LeftChild <= 0 || node.LeftChild >= len(nodes) || node.RightChild <= 0 || node.RightChild >= len(nodes) {
			return fmt.Errorf("node %d: child index out of range", i)
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(FeatureNames()) {
			return fmt.Errorf("node %d: feature index %d out of range", i, node.FeatureIdx)
		}
	}
	return nil
}

func leafConfidence(node TreeNode) float64 {
	if node.Confidence > 0 {
		return node.Confidence
	}
	return 0.6
}
