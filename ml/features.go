package ml

import (
	"math"
	"strconv"
)

// ActivityCount is the number of binary user activity indicators per record.
const ActivityCount = 12

// MaxCount bounds campaign_var_1, campaign_var_2 and products_purchased so
// that sum_camp cannot overflow.
const MaxCount = math.MaxInt32

// DateLayout is the only accepted date format for created_at and signup_date.
const DateLayout = "2006-01-02"

// RawRecord is one customer observation as submitted by a client.
type RawRecord struct {
	ID           int64
	CreatedAt    string
	SignupDate   string // empty when unknown
	CampaignVar1 int
	CampaignVar2 int
	// ProductsPurchased is nil when the value was not supplied.
	ProductsPurchased *int
	UserActivity      [ActivityCount]int
}

// FeatureRow is the model-ready representation of a RawRecord.
type FeatureRow struct {
	ID                int64 `json:"id"`
	ProductsPurchased int   `json:"products_purchased"`
	SumUserActivities int   `json:"sum_user_activities"`
	Day               int   `json:"day"`
	SumCamp           int   `json:"sum_camp"`
}

// FeatureVector returns the row in the column order the model was trained on.
func FeatureVector(row FeatureRow) []float64 {
	return []float64{
		float64(row.ProductsPurchased),
		float64(row.SumUserActivities),
		float64(row.Day),
		float64(row.SumCamp),
	}
}

// FeatureNames lists the columns of FeatureVector, in order.
func FeatureNames() []string {
	return []string{
		"products_purchased",
		"sum_user_activities",
		"day",
		"sum_camp",
	}
}

// RawColumnNames lists the input columns of a RawRecord, in submission order.
func RawColumnNames() []string {
	names := []string{
		"id",
		"created_at",
		"campaign_var_1",
		"campaign_var_2",
		"products_purchased",
		"signup_date",
	}
	for i := 1; i <= ActivityCount; i++ {
		names = append(names, ActivityColumn(i))
	}
	return names
}

// ActivityColumn returns the column name of the n-th (1-based) activity indicator.
func ActivityColumn(n int) string {
	return "user_activity_var_" + strconv.Itoa(n)
}
