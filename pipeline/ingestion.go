// Package pipeline reads raw record batches from CSV and writes feature rows.
package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"purchasepredict/ml"
)

// ReadRecords parses a CSV with a header row naming the raw columns in any
// order. Empty signup_date and products_purchased cells mean absent.
func ReadRecords(r io.Reader) ([]ml.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("csv input is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, name := range ml.RawColumnNames() {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	var records []ml.RawRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		record, err := parseRow(row, columns)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func parseRow(row []string, columns map[string]int) (ml.RawRecord, error) {
	cell := func(name string) string {
		return strings.TrimSpace(row[columns[name]])
	}
	integer := func(name string) (int64, error) {
		v, err := strconv.ParseInt(cell(name), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("column %s: %q is not an integer", name, cell(name))
		}
		return v, nil
	}

	var record ml.RawRecord
	var err error
	if record.ID, err = integer("id"); err != nil {
		return record, err
	}
	record.CreatedAt = cell("created_at")
	record.SignupDate = cell("signup_date")

	camp1, err := integer("campaign_var_1")
	if err != nil {
		return record, err
	}
	camp2, err := integer("campaign_var_2")
	if err != nil {
		return record, err
	}
	record.CampaignVar1, record.CampaignVar2 = int(camp1), int(camp2)

	if cell("products_purchased") != "" {
		products, err := integer("products_purchased")
		if err != nil {
			return record, err
		}
		n := int(products)
		record.ProductsPurchased = &n
	}

	for i := 0; i < ml.ActivityCount; i++ {
		flag, err := integer(ml.ActivityColumn(i + 1))
		if err != nil {
			return record, err
		}
		record.UserActivity[i] = int(flag)
	}
	return record, nil
}

// WriteFeatures writes rows as CSV with an id column followed by the model
// feature columns.
func WriteFeatures(w io.Writer, rows []ml.FeatureRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(append([]string{"id"}, ml.FeatureNames()...)); err != nil {
		return err
	}
	for _, row := range rows {
		values := []string{strconv.FormatInt(row.ID, 10)}
		for _, v := range ml.FeatureVector(row) {
			values = append(values, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := writer.Write(values); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
