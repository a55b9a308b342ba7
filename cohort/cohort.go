/*
Package cohort loads the per group input series.

Every test and group has a directory <root>/<test>/<group> with four
tables, each as .csv or .xlsx:

	all_values            months_pre_diagnosis, value
	all_values_ci         months_pre_diagnosis, value[, lower, upper]
	proportions           months_pre_diagnosis, proportion
	abnormal_proportions  months_pre_diagnosis, proportion
*/
package cohort

import (
	"fmt"
	"path/filepath"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("cohort")

const (
	// XColumn is the name of the x column of every table.
	XColumn = "months_pre_diagnosis"

	valuesTable = "all_values"
	ciTable     = "all_values_ci"
)

// Series is a single (x, y) series. Lower and Upper are only set for
// the confidence interval table.
type Series struct {
	X, Y         []float64
	Lower, Upper []float64
}

// Len returns the number of points.
func (s Series) Len() int {
	return len(s.X)
}

// Bundle holds the input series of a single group.
type Bundle struct {
	Test  string
	Group string

	Values              Series
	CI                  Series
	Proportions         Series
	AbnormalProportions Series
}

// Series returns the series of the kind.
func (b *Bundle) Series(k Kind) Series {
	switch k {
	case Proportions:
		return b.Proportions
	case AbnormalProportions:
		return b.AbnormalProportions
	}
	return b.Values
}

// Dir returns the directory with the tables of a group.
func Dir(root, test, group string) string {
	return filepath.Join(root, test, group)
}

// Load reads all the tables of a group.
func Load(root, test, group string) (*Bundle, error) {
	dir := Dir(root, test, group)
	b := &Bundle{Test: test, Group: group}
	var err error
	if b.Values, err = loadSeries(dir, valuesTable, "value", false); err != nil {
		return nil, err
	}
	if b.CI, err = loadSeries(dir, ciTable, "value", true); err != nil {
		return nil, err
	}
	if b.Proportions, err = loadSeries(dir, Proportions.Table(), Proportions.Column(), false); err != nil {
		return nil, err
	}
	if b.AbnormalProportions, err = loadSeries(dir, AbnormalProportions.Table(), AbnormalProportions.Column(), false); err != nil {
		return nil, err
	}
	log.Infof("Loaded data for %s and %s", test, group)
	return b, nil
}

func loadSeries(dir, name, column string, bounds bool) (s Series, err error) {
	t, err := readTable(dir, name)
	if err != nil {
		return s, err
	}
	if s.X, err = t.column(XColumn); err != nil {
		return s, err
	}
	if s.Y, err = t.column(column); err != nil {
		return s, err
	}
	if bounds && t.has("lower") && t.has("upper") {
		if s.Lower, err = t.column("lower"); err != nil {
			return s, err
		}
		if s.Upper, err = t.column("upper"); err != nil {
			return s, err
		}
	}
	log.Debugf("%s: %d rows", t.path, len(t.rows))
	return s, nil
}

// String describes the bundle.
func (b *Bundle) String() string {
	return fmt.Sprintf("%s/%s: values=%d ci=%d proportions=%d abnormal=%d",
		b.Test, b.Group, b.Values.Len(), b.CI.Len(), b.Proportions.Len(), b.AbnormalProportions.Len())
}
