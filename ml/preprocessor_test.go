package ml

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func activities(v int) [ActivityCount]int {
	var flags [ActivityCount]int
	for i := range flags {
		flags[i] = v
	}
	return flags
}

func record(id int64, created, signup string) RawRecord {
	return RawRecord{
		ID:                id,
		CreatedAt:         created,
		SignupDate:        signup,
		CampaignVar1:      1,
		CampaignVar2:      1,
		ProductsPurchased: intPtr(2),
	}
}

func TestTransformSingleRecord(t *testing.T) {
	rows, err := Transform([]RawRecord{{
		ID:                1,
		CreatedAt:         "2020-01-10",
		SignupDate:        "2020-01-01",
		CampaignVar1:      2,
		CampaignVar2:      3,
		ProductsPurchased: intPtr(5),
		UserActivity:      activities(1),
	}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, FeatureRow{
		ID:                1,
		ProductsPurchased: 5,
		SumUserActivities: 12,
		Day:               9,
		SumCamp:           5,
	}, rows[0])
}

func TestTransformSumUserActivities(t *testing.T) {
	mixed := activities(0)
	mixed[0], mixed[4], mixed[11] = 1, 1, 1

	tests := []struct {
		name  string
		flags [ActivityCount]int
		want  int
	}{
		{name: "all zero", flags: activities(0), want: 0},
		{name: "all one", flags: activities(1), want: 12},
		{name: "mixed", flags: mixed, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := record(1, "2021-03-01", "2021-02-01")
			r.UserActivity = tt.flags
			rows, err := Transform([]RawRecord{r})
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows[0].SumUserActivities)
		})
	}
}

func TestTransformSumCampAndProducts(t *testing.T) {
	withProducts := record(1, "2021-03-01", "2021-02-01")
	withProducts.CampaignVar1, withProducts.CampaignVar2 = 7, 11
	withoutProducts := record(2, "2021-03-01", "2021-02-01")
	withoutProducts.ProductsPurchased = nil

	rows, err := Transform([]RawRecord{withProducts, withoutProducts})
	require.NoError(t, err)
	assert.Equal(t, 18, rows[0].SumCamp)
	assert.Equal(t, 2, rows[0].ProductsPurchased)
	assert.Equal(t, 0, rows[1].ProductsPurchased)
}

func TestTransformPreservesKeysAndOrder(t *testing.T) {
	records := []RawRecord{
		record(42, "2021-01-10", "2021-01-01"),
		record(7, "2021-01-10", ""),
		record(19, "2021-01-10", "2020-12-31"),
		record(3, "2021-01-10", "2021-01-10"),
	}
	rows, err := Transform(records)
	require.NoError(t, err)
	require.Len(t, rows, len(records))
	for i := range records {
		assert.Equal(t, records[i].ID, rows[i].ID)
	}
}

func TestTransformDayCount(t *testing.T) {
	tests := []struct {
		name    string
		created string
		signup  string
		want    int
	}{
		{name: "signup after creation is absolute", created: "2020-01-01", signup: "2020-01-10", want: 9},
		{name: "across a leap day", created: "2020-03-01", signup: "2020-02-28", want: 2},
		{name: "span over 292 years", created: "2020-01-01", signup: "1600-01-01", want: 153402},
		{name: "reversed span over 292 years", created: "1700-01-01", signup: "2020-01-01", want: 116877},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := Transform([]RawRecord{record(1, tt.created, tt.signup)})
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows[0].Day)
		})
	}
}

func TestTransformImputesMissingDayFromBatch(t *testing.T) {
	// elapsed days: row 1 = -10, row 2 unknown, row 3 = 5
	records := []RawRecord{
		record(1, "2020-01-10", "2020-01-20"),
		record(2, "2020-01-10", ""),
		record(3, "2020-01-10", "2020-01-05"),
	}

	tests := []struct {
		name        string
		transformer Transformer
		wantDays    []int
	}{
		{name: "signed maximum", transformer: Transformer{}, wantDays: []int{10, 5, 5}},
		{name: "absolute maximum", transformer: Transformer{ImputeAfterAbs: true}, wantDays: []int{10, 10, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := tt.transformer.Transform(records)
			require.NoError(t, err)
			got := make([]int, len(rows))
			for i, row := range rows {
				got[i] = row.Day
			}
			assert.Equal(t, tt.wantDays, got)
		})
	}
}

func TestTransformImputesZeroWithoutAnySignupDate(t *testing.T) {
	rows, err := Transform([]RawRecord{
		record(1, "2020-01-10", ""),
		record(2, "2020-02-10", ""),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, rows[0].Day)
	assert.Equal(t, 0, rows[1].Day)
}

func TestTransformDuplicateID(t *testing.T) {
	_, err := Transform([]RawRecord{
		record(5, "2020-01-10", "2020-01-01"),
		record(6, "2020-01-10", "2020-01-01"),
		record(5, "2020-01-11", "2020-01-01"),
	})
	var conflict *KeyConflictError
	require.True(t, errors.As(err, &conflict), "got %v", err)
	assert.Equal(t, int64(5), conflict.ID)
}

func TestTransformParseError(t *testing.T) {
	tests := []struct {
		name      string
		created   string
		signup    string
		wantField string
	}{
		{name: "created_at with slashes", created: "2020/01/10", signup: "2020-01-01", wantField: "created_at"},
		{name: "signup_date with slashes", created: "2020-01-10", signup: "2020/01/01", wantField: "signup_date"},
		{name: "impossible day", created: "2020-02-30", signup: "2020-01-01", wantField: "created_at"},
		{name: "empty created_at", created: "", signup: "2020-01-01", wantField: "created_at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Transform([]RawRecord{record(1, tt.created, tt.signup)})
			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "got %v", err)
			assert.Equal(t, tt.wantField, parseErr.Field)
		})
	}
}

func TestTransformEmptyBatch(t *testing.T) {
	rows, err := Transform(nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFeatureRowOmitsRawColumns(t *testing.T) {
	rows, err := Transform([]RawRecord{record(1, "2020-01-10", "2020-01-01")})
	require.NoError(t, err)

	payload, err := json.Marshal(rows[0])
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(payload, &fields))

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	assert.ElementsMatch(t, []string{"id", "products_purchased", "sum_user_activities", "day", "sum_camp"}, keys)

	for _, raw := range RawColumnNames() {
		if raw == "id" || raw == "products_purchased" {
			continue
		}
		assert.NotContains(t, fields, raw)
		assert.NotContains(t, FeatureNames(), raw)
	}
}

func TestFeatureVectorOrder(t *testing.T) {
	vector := FeatureVector(FeatureRow{ID: 9, ProductsPurchased: 1, SumUserActivities: 2, Day: 3, SumCamp: 4})
	assert.Equal(t, []float64{1, 2, 3, 4}, vector)
	assert.Len(t, FeatureNames(), len(vector))
}
