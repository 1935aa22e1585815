package ml

import (
	"time"
)

const secondsPerDay = 24 * 60 * 60

// Transformer turns raw records into model-ready feature rows.
//
// A missing signup date leaves the elapsed day count unknown; it is filled
// with the largest elapsed value observed in the same batch, so results for
// one record depend on the other records transformed alongside it.
type Transformer struct {
	// ImputeAfterAbs takes the fill value from absolute day counts instead
	// of signed ones. The default keeps the signed maximum, which is what
	// the trained model saw.
	ImputeAfterAbs bool
}

// Transform applies the default Transformer.
func Transform(records []RawRecord) ([]FeatureRow, error) {
	return Transformer{}.Transform(records)
}

// Transform returns one FeatureRow per record, in input order.
func (t Transformer) Transform(records []RawRecord) ([]FeatureRow, error) {
	seen := make(map[int64]struct{}, len(records))
	for _, record := range records {
		if _, ok := seen[record.ID]; ok {
			return nil, &KeyConflictError{ID: record.ID}
		}
		seen[record.ID] = struct{}{}
	}

	days, known, err := elapsedDays(records)
	if err != nil {
		return nil, err
	}
	if t.ImputeAfterAbs {
		for i := range days {
			days[i] = abs(days[i])
		}
	}
	fill := maxKnown(days, known)

	rows := make([]FeatureRow, len(records))
	for i, record := range records {
		day := days[i]
		if !known[i] {
			day = fill
		}
		products := 0
		if record.ProductsPurchased != nil {
			products = *record.ProductsPurchased
		}
		rows[i] = FeatureRow{
			ID:                record.ID,
			ProductsPurchased: products,
			SumUserActivities: sumActivities(record.UserActivity),
			Day:               abs(day),
			SumCamp:           record.CampaignVar1 + record.CampaignVar2,
		}
	}
	return rows, nil
}

// elapsedDays returns created_at - signup_date per record and whether the
// value is known.
func elapsedDays(records []RawRecord) ([]int, []bool, error) {
	days := make([]int, len(records))
	known := make([]bool, len(records))
	for i, record := range records {
		created, err := parseDate(record.ID, "created_at", record.CreatedAt)
		if err != nil {
			return nil, nil, err
		}
		if record.SignupDate == "" {
			continue
		}
		signup, err := parseDate(record.ID, "signup_date", record.SignupDate)
		if err != nil {
			return nil, nil, err
		}
		// both dates are UTC midnight; time.Duration would saturate past ~292 years
		days[i] = int((created.Unix() - signup.Unix()) / secondsPerDay)
		known[i] = true
	}
	return days, known, nil
}

func parseDate(id int64, field, value string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, &ParseError{ID: id, Field: field, Value: value, Err: err}
	}
	return parsed, nil
}

// maxKnown is 0 when no value in the batch is known.
func maxKnown(days []int, known []bool) int {
	best, found := 0, false
	for i, day := range days {
		if !known[i] {
			continue
		}
		if !found || day > best {
			best, found = day, true
		}
	}
	return best
}

func sumActivities(flags [ActivityCount]int) int {
	total := 0
	for _, flag := range flags {
		total += flag
	}
	return total
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
