package http

import (
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"

	"purchasepredict/config"
	"purchasepredict/ml"
)

const (
	// maxBodyBytes caps a /predict body; one record is well under 4 KiB.
	maxBodyBytes  = 1 << 20
	maxFormMemory = maxBodyBytes
)

var (
	validate  = validator.New()
	countRule = "gte=0,lte=" + strconv.Itoa(ml.MaxCount)
)

// formField binds one submitted form value onto a RawRecord.
type formField struct {
	name     string
	rule     string // validator tag checked against the parsed integer
	date     bool
	optional bool
	def      *int64
	setInt   func(*ml.RawRecord, int64)
	setDate  func(*ml.RawRecord, string)
}

// predictFields lists the accepted fields. Strict mode requires every one of
// them; lenient mode fills id and activity flags with defaults and allows
// signup_date and products_purchased to be left out.
func predictFields(mode string) []formField {
	lenient := mode != config.ValidationStrict
	defaultTo := func(v int64) *int64 {
		if !lenient {
			return nil
		}
		return &v
	}

	fields := []formField{
		{name: "id", def: defaultTo(1), setInt: func(r *ml.RawRecord, v int64) { r.ID = v }},
		{name: "created_at", date: true, setDate: func(r *ml.RawRecord, v string) { r.CreatedAt = v }},
		{name: "campaign_var_1", rule: countRule, setInt: func(r *ml.RawRecord, v int64) { r.CampaignVar1 = int(v) }},
		{name: "campaign_var_2", rule: countRule, setInt: func(r *ml.RawRecord, v int64) { r.CampaignVar2 = int(v) }},
		{name: "products_purchased", rule: countRule, optional: lenient, setInt: func(r *ml.RawRecord, v int64) {
			n := int(v)
			r.ProductsPurchased = &n
		}},
		{name: "signup_date", date: true, optional: lenient, setDate: func(r *ml.RawRecord, v string) { r.SignupDate = v }},
	}
	for i := 0; i < ml.ActivityCount; i++ {
		idx := i
		fields = append(fields, formField{
			name:   ml.ActivityColumn(idx + 1),
			rule:   "oneof=0 1",
			def:    defaultTo(0),
			setInt: func(r *ml.RawRecord, v int64) { r.UserActivity[idx] = int(v) },
		})
	}
	return fields
}

// decodeRecord reads and validates the form body of r. Every invalid field
// is reported, not just the first.
func decodeRecord(r *http.Request, mode string) (ml.RawRecord, error) {
	var record ml.RawRecord
	if err := parseForm(r); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return record, tooLarge
		}
		return record, &ValidationError{Detail: []*FieldError{newFieldError("body", err.Error(), "value_error.form")}}
	}

	var errs error
	for _, field := range predictFields(mode) {
		raw := strings.TrimSpace(r.PostForm.Get(field.name))
		if raw == "" {
			switch {
			case field.def != nil:
				field.setInt(&record, *field.def)
			case field.optional:
			default:
				errs = multierr.Append(errs, newFieldError(field.name, "field required", "value_error.missing"))
			}
			continue
		}
		if field.date {
			if err := validate.Var(raw, "datetime="+ml.DateLayout); err != nil {
				errs = multierr.Append(errs, newFieldError(field.name, "date must be YYYY-MM-DD", "value_error.date"))
				continue
			}
			field.setDate(&record, raw)
			continue
		}
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs = multierr.Append(errs, newFieldError(field.name, "value is not a valid integer", "type_error.integer"))
			continue
		}
		if field.rule != "" {
			if err := validate.Var(value, field.rule); err != nil {
				errs = multierr.Append(errs, ruleError(field.name, err))
				continue
			}
		}
		field.setInt(&record, value)
	}

	if errs != nil {
		verr := &ValidationError{}
		for _, err := range multierr.Errors(errs) {
			var fe *FieldError
			if errors.As(err, &fe) {
				verr.Detail = append(verr.Detail, fe)
			}
		}
		return record, verr
	}
	return record, nil
}

func parseForm(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(maxFormMemory)
	}
	return r.ParseForm()
}

func ruleError(field string, err error) *FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return newFieldError(field, err.Error(), "value_error")
	}
	switch verrs[0].Tag() {
	case "gte":
		return newFieldError(field, "ensure this value is greater than or equal to "+verrs[0].Param(), "value_error.number.not_ge")
	case "lte":
		return newFieldError(field, "ensure this value is less than or equal to "+verrs[0].Param(), "value_error.number.not_le")
	case "oneof":
		return newFieldError(field, "value must be one of "+strings.ReplaceAll(verrs[0].Param(), " ", ", "), "value_error.const")
	default:
		return newFieldError(field, "failed "+verrs[0].Tag()+" check", "value_error")
	}
}
