package ml

const (
	DefaultNegativeLabel = "Item not bought"
	DefaultPositiveLabel = "Item bought"
)

// LabelMapper turns a predicted class into the string returned to clients.
type LabelMapper struct {
	Negative string
	Positive string
	// LegacySingleLabel maps every class to Negative. Earlier deployments
	// answered that way and some clients compare against it.
	LegacySingleLabel bool
}

// DefaultLabels maps 0 and non-zero classes to distinct strings.
func DefaultLabels() LabelMapper {
	return LabelMapper{Negative: DefaultNegativeLabel, Positive: DefaultPositiveLabel}
}

func (m LabelMapper) Label(class int) string {
	if class == 0 || m.LegacySingleLabel {
		return m.Negative
	}
	return m.Positive
}
