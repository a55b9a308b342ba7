package cohort

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func init() {
	logging.SetLevel(logging.WARNING, "cohort")
}

func writeCSV(t *testing.T, dir, name string, rows [][]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(strings.Join(r, ","))
		b.WriteString("\n")
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".csv"), []byte(b.String()), 0o644))
}

func writeXLSX(t *testing.T, dir, name string, rows [][]interface{}) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	f := excelize.NewFile()
	defer f.Close()
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	require.NoError(t, f.SaveAs(filepath.Join(dir, name+".xlsx")))
}

func series(column string, n int, y func(i int) float64) [][]string {
	rows := [][]string{{XColumn, column}}
	for i := 0; i < n; i++ {
		rows = append(rows, []string{fmt.Sprint(i - n), fmt.Sprint(y(i))})
	}
	return rows
}

// writeGroup writes all four tables of a group as csv.
func writeGroup(t *testing.T, root, test, group string, n int) {
	t.Helper()
	dir := Dir(root, test, group)
	writeCSV(t, dir, "all_values", series("value", n, func(i int) float64 { return float64(i) }))
	ci := [][]string{{XColumn, "value", "lower", "upper"}}
	for i := 0; i < n; i++ {
		ci = append(ci, []string{fmt.Sprint(i - n), fmt.Sprint(i), fmt.Sprint(i - 1), fmt.Sprint(i + 1)})
	}
	writeCSV(t, dir, "all_values_ci", ci)
	writeCSV(t, dir, "proportions", series("proportion", n, func(i int) float64 { return 0.5 }))
	writeCSV(t, dir, "abnormal_proportions", series("proportion", n, func(i int) float64 { return float64(i) / float64(n) }))
}

func TestKinds(t *testing.T) {
	for _, k := range Kinds {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	_, err := ParseKind("ci")
	assert.Error(t, err)

	assert.Equal(t, "all_values", Values.Table())
	assert.Equal(t, "value", Values.Column())
	assert.Equal(t, "proportion", AbnormalProportions.Column())
	assert.Equal(t, "abnormal_proportions", AbnormalProportions.Suffix())
	assert.Equal(t, "mmol/L", Values.YLabel("mmol/L"))
	assert.Equal(t, "Abnormal Proportion", AbnormalProportions.YLabel("mmol/L"))
	assert.Equal(t, []string{"values", "proportions", "abnormal_proportions"}, KindNames())
}

func TestLoadCSV(t *testing.T) {
	root := t.TempDir()
	writeGroup(t, root, "hb", "colorectal", 60)

	b, err := Load(root, "hb", "colorectal")
	require.NoError(t, err)
	assert.Equal(t, 60, b.Values.Len())
	assert.Equal(t, -60.0, b.Values.X[0])
	assert.Equal(t, 59.0, b.Values.Y[59])
	assert.Len(t, b.CI.Lower, 60)
	assert.Len(t, b.CI.Upper, 60)
	assert.Nil(t, b.Values.Lower)
	assert.Equal(t, 0.5, b.Series(Proportions).Y[10])
	assert.Equal(t, b.AbnormalProportions, b.Series(AbnormalProportions))
	assert.Equal(t, b.Values, b.Series(Values))
}

func TestLoadXLSX(t *testing.T) {
	root := t.TempDir()
	writeGroup(t, root, "hb", "lung", 12)
	dir := Dir(root, "hb", "lung")
	require.NoError(t, os.Remove(filepath.Join(dir, "abnormal_proportions.csv")))
	rows := [][]interface{}{{XColumn, "proportion"}}
	for i := 0; i < 12; i++ {
		rows = append(rows, []interface{}{i - 12, 0.1 * float64(i)})
	}
	writeXLSX(t, dir, "abnormal_proportions", rows)

	b, err := Load(root, "hb", "lung")
	require.NoError(t, err)
	s := b.Series(AbnormalProportions)
	require.Equal(t, 12, s.Len())
	assert.Equal(t, -12.0, s.X[0])
	assert.InDelta(t, 1.1, s.Y[11], 1e-9)
}

func TestLoadPrefersCSV(t *testing.T) {
	root := t.TempDir()
	writeGroup(t, root, "hb", "lung", 5)
	dir := Dir(root, "hb", "lung")
	writeXLSX(t, dir, "proportions", [][]interface{}{{XColumn, "proportion"}, {-1, 0.9}})

	b, err := Load(root, "hb", "lung")
	require.NoError(t, err)
	assert.Equal(t, 5, b.Proportions.Len())
}

func TestLoadErrors(t *testing.T) {
	root := t.TempDir()
	_, err := Load(root, "hb", "missing")
	assert.True(t, errors.Is(err, ErrNoTable))

	writeGroup(t, root, "hb", "bad", 5)
	dir := Dir(root, "hb", "bad")
	writeCSV(t, dir, "proportions", [][]string{{XColumn, "share"}, {"-1", "0.1"}})
	_, err = Load(root, "hb", "bad")
	assert.True(t, errors.Is(err, ErrMissingColumn))

	writeGroup(t, root, "hb", "bad", 5)
	writeCSV(t, dir, "all_values", [][]string{{XColumn, "value"}, {"-1", "n/a"}})
	_, err = Load(root, "hb", "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all_values.csv")
}

func TestSkipBlankRows(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "proportions", [][]string{{XColumn, "proportion"}, {"-2", "0.1"}, {"", ""}, {"-1", "0.2"}})
	tab, err := readTable(dir, "proportions")
	require.NoError(t, err)
	y, err := tab.column("proportion")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2}, y)
}

func TestSummarize(t *testing.T) {
	s := Series{X: []float64{-3, -2, -1}, Y: []float64{1, 2, 3}}
	sum, err := Summarize(s)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.N)
	assert.Equal(t, 2.0, sum.Mean)
	assert.InDelta(t, 1.0, sum.SD, 1e-12)
	assert.Equal(t, 1.0, sum.Min)
	assert.Equal(t, 3.0, sum.Max)
	assert.Equal(t, -3.0, sum.FirstMonth)
	assert.Equal(t, -1.0, sum.LastMonth)
	assert.Contains(t, sum.String(), "n=3")

	_, err = Summarize(Series{})
	assert.Error(t, err)
}
