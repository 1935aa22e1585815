package pipeline

import (
	"fmt"

	"go.uber.org/multierr"

	"purchasepredict/ml"
)

// CheckRule is one constraint on a raw record read from a batch file.
type CheckRule interface {
	Apply(record ml.RawRecord) error
	Name() string
}

type nonNegativeRule struct{}

func NewNonNegativeRule() CheckRule { return nonNegativeRule{} }

func (nonNegativeRule) Name() string { return "non_negative" }

func (nonNegativeRule) Apply(record ml.RawRecord) error {
	if record.CampaignVar1 < 0 || record.CampaignVar2 < 0 {
		return fmt.Errorf("campaign vars must be non-negative, got %d and %d", record.CampaignVar1, record.CampaignVar2)
	}
	if record.ProductsPurchased != nil && *record.ProductsPurchased < 0 {
		return fmt.Errorf("products_purchased must be non-negative, got %d", *record.ProductsPurchased)
	}
	return nil
}

type maxCountRule struct{}

func NewMaxCountRule() CheckRule { return maxCountRule{} }

func (maxCountRule) Name() string { return "max_count" }

func (maxCountRule) Apply(record ml.RawRecord) error {
	if record.CampaignVar1 > ml.MaxCount || record.CampaignVar2 > ml.MaxCount {
		return fmt.Errorf("campaign vars must not exceed %d, got %d and %d", ml.MaxCount, record.CampaignVar1, record.CampaignVar2)
	}
	if record.ProductsPurchased != nil && *record.ProductsPurchased > ml.MaxCount {
		return fmt.Errorf("products_purchased must not exceed %d, got %d", ml.MaxCount, *record.ProductsPurchased)
	}
	return nil
}

type binaryActivityRule struct{}

func NewBinaryActivityRule() CheckRule { return binaryActivityRule{} }

func (binaryActivityRule) Name() string { return "binary_activity" }

func (binaryActivityRule) Apply(record ml.RawRecord) error {
	for i, flag := range record.UserActivity {
		if flag != 0 && flag != 1 {
			return fmt.Errorf("%s must be 0 or 1, got %d", ml.ActivityColumn(i+1), flag)
		}
	}
	return nil
}

// DefaultRules mirrors the constraints the HTTP form enforces.
func DefaultRules() []CheckRule {
	return []CheckRule{NewNonNegativeRule(), NewMaxCountRule(), NewBinaryActivityRule()}
}

// CheckRecords applies every rule to every record and returns all violations.
func CheckRecords(records []ml.RawRecord, rules []CheckRule) error {
	var errs error
	for _, record := range records {
		for _, rule := range rules {
			if err := rule.Apply(record); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("record %d: %s: %w", record.ID, rule.Name(), err))
			}
		}
	}
	return errs
}
