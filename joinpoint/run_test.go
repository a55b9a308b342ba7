package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitbucket.org/Davydov/joinpoint/cohort"
	"bitbucket.org/Davydov/joinpoint/config"
	"bitbucket.org/Davydov/joinpoint/plotting"
	"bitbucket.org/Davydov/joinpoint/trend"
)

func init() {
	for _, m := range modules {
		logging.SetLevel(logging.ERROR, m)
	}
}

func writeTable(t *testing.T, dir, name, column string, x, y []float64) {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "%s,%s\n", cohort.XColumn, column)
	for i := range x {
		fmt.Fprintf(&b, "%g,%g\n", x[i], y[i])
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".csv"), []byte(b.String()), 0o644))
}

// writeGroup writes 60 monthly points with a slope change at -20.
func writeGroup(t *testing.T, root, test, group string, slope float64, seed int64) {
	t.Helper()
	dir := cohort.Dir(root, test, group)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	rng := rand.New(rand.NewSource(seed))
	x := make([]float64, 60)
	y := make([]float64, 60)
	p := make([]float64, 60)
	for i := range x {
		x[i] = float64(i - 60)
		y[i] = 100 + slope*math.Max(x[i]+20, 0) + rng.NormFloat64()*0.5
		p[i] = 0.1 + 0.001*float64(i) + rng.NormFloat64()*0.01
	}
	writeTable(t, dir, "all_values", "value", x, y)
	writeTable(t, dir, "all_values_ci", "value", x, y)
	writeTable(t, dir, "proportions", "proportion", x, p)
	writeTable(t, dir, "abnormal_proportions", "proportion", x, p)
}

func testSettings(t *testing.T, nThreads int) *runSettings {
	root := t.TempDir()
	study := &config.Study{
		Tests: []config.Test{{ID: "hb", Title: "Haemoglobin", Unit: "g/L"}},
		Groups: []config.Group{
			{ID: "colorectal", Title: "Colorectal cancer"},
			{ID: "general_controls", Title: "General controls", Control: true},
			{ID: "all_cancers", Title: "All cancers"},
		},
	}
	for i, g := range study.Groups {
		writeGroup(t, filepath.Join(root, "data"), "hb", g.ID, -1+0.5*float64(i), int64(i))
	}
	ts := trend.DefaultSettings()
	ts.Segmented.NBoot = 10
	return &runSettings{
		study:    study,
		kinds:    []cohort.Kind{cohort.Values},
		data:     filepath.Join(root, "data"),
		out:      filepath.Join(root, "plots"),
		trend:    ts,
		nThreads: nThreads,
		dpi:      20,
		seed:     42,
	}
}

func TestRunAll(t *testing.T) {
	s := testSettings(t, 1)
	require.NoError(t, s.validate())
	paths, err := runAll(context.Background(), s)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(s.out, "hb_values_all_groups.png")}, paths)

	files, err := os.ReadDir(s.out)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestRunPass(t *testing.T) {
	s := testSettings(t, 1)
	pr, err := runPass(s, s.study.Tests[0], cohort.Values, rand.New(rand.NewSource(s.seed)))
	require.NoError(t, err)
	require.Len(t, pr.lines, 3)
	assert.FileExists(t, pr.path)

	n := len(s.study.Groups)
	last := plotting.Style(pr.lines[2].Index, n, pr.lines[2].Control)
	assert.Equal(t, plotting.Black, last.Color)
	assert.Nil(t, last.Dashes)

	first := plotting.Style(pr.lines[0].Index, n, pr.lines[0].Control)
	assert.Equal(t, plotting.Tab10[0], first.Color)
	assert.Nil(t, first.Dashes)

	control := plotting.Style(pr.lines[1].Index, n, pr.lines[1].Control)
	assert.Equal(t, plotting.Tab10[1], control.Color)
	assert.Equal(t, plotting.Dotted, control.Dashes)
}

func TestRunPassThreads(t *testing.T) {
	s := testSettings(t, 1)
	seq, err := runPass(s, s.study.Tests[0], cohort.Values, rand.New(rand.NewSource(s.seed)))
	require.NoError(t, err)

	s.nThreads = 3
	par, err := runPass(s, s.study.Tests[0], cohort.Values, rand.New(rand.NewSource(s.seed)))
	require.NoError(t, err)

	require.Len(t, par.results, len(seq.results))
	for i := range seq.results {
		assert.Equal(t, seq.results[i].Curve, par.results[i].Curve, "group %d", i)
	}
}

func TestRunPassSkipsGroup(t *testing.T) {
	s := testSettings(t, 1)
	require.NoError(t, os.Remove(filepath.Join(cohort.Dir(s.data, "hb", "colorectal"), "all_values.csv")))
	pr, err := runPass(s, s.study.Tests[0], cohort.Values, rand.New(rand.NewSource(s.seed)))
	require.NoError(t, err)
	require.Len(t, pr.lines, 2)
	assert.Nil(t, pr.results[0])
	assert.Equal(t, 2, pr.lines[1].Index)
}

func TestRunAllCancelled(t *testing.T) {
	s := testSettings(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	paths, err := runAll(ctx, s)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, paths)
}

func TestValidateSettings(t *testing.T) {
	s := testSettings(t, 1)
	s.trend.Segmented.MinDistance = 1
	assert.Error(t, s.validate())

	s = testSettings(t, 1)
	s.kinds = nil
	assert.Error(t, s.validate())
}
