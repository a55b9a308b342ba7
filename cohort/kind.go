package cohort

import "fmt"

// Kind is the series plotted in a pass.
type Kind int

const (
	Values Kind = iota
	Proportions
	AbnormalProportions
)

// Kinds lists all the kinds.
var Kinds = []Kind{Values, Proportions, AbnormalProportions}

var kindNames = map[Kind]string{
	Values:              "values",
	Proportions:         "proportions",
	AbnormalProportions: "abnormal_proportions",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns the kind by its name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown series kind: %q", s)
}

// KindNames returns the names of all the kinds.
func KindNames() []string {
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = k.String()
	}
	return names
}

// Table is the input table name without extension.
func (k Kind) Table() string {
	if k == Values {
		return valuesTable
	}
	return k.String()
}

// Column is the name of the y column.
func (k Kind) Column() string {
	if k == Values {
		return "value"
	}
	return "proportion"
}

// Suffix is used in the output file name.
func (k Kind) Suffix() string {
	return k.String()
}

// Title is appended to the test title in the plot title.
func (k Kind) Title() string {
	switch k {
	case Values:
		return "Mean Test Values"
	case Proportions:
		return "Proportion of Patients with a Test"
	case AbnormalProportions:
		return "Proportion of Abnormal Tests"
	}
	return k.String()
}

// YLabel returns the y axis label; values are labelled with the test
// unit.
func (k Kind) YLabel(unit string) string {
	switch k {
	case Proportions:
		return "Proportion"
	case AbnormalProportions:
		return "Abnormal Proportion"
	}
	return unit
}
