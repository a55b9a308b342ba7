package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"bitbucket.org/Davydov/joinpoint/cohort"
	"bitbucket.org/Davydov/joinpoint/config"
	"bitbucket.org/Davydov/joinpoint/plotting"
	"bitbucket.org/Davydov/joinpoint/trend"
)

// XLabel is the x axis label of all the figures.
const XLabel = "Months pre diagnosis"

// passResult is a single saved figure.
type passResult struct {
	path    string
	lines   []plotting.Line
	results []*trend.Result
}

// fitGroup loads and fits a single group.
func fitGroup(s *runSettings, test config.Test, group config.Group, kind cohort.Kind, seed int64) (*trend.Result, error) {
	b, err := cohort.Load(s.data, test.ID, group.ID)
	if err != nil {
		return nil, err
	}
	series := b.Series(kind)
	if sum, err := cohort.Summarize(series); err == nil {
		log.Debugf("%s, %s, %s: %v", test.ID, group.ID, kind, sum)
	}
	log.Infof("Model summary for %s, %s, %s:", test.ID, group.ID, kind)
	res, err := trend.FitSeries(series.X, series.Y, s.trend, seed)
	if err != nil {
		return nil, err
	}
	if m, ok := res.Model.(*trend.Segmented); ok {
		log.Infof("Fitted %s model for %s and %s with %d breakpoints", kind, test.ID, group.ID, m.NBreakpoints)
	} else {
		log.Infof("Fitted %s model for %s and %s: linear", kind, test.ID, group.ID)
	}
	return res, nil
}

// runPass fits every group for a test and a kind and saves the figure.
// One seed per group is drawn from rng in the group order, so the
// results do not depend on the number of threads. Groups which fail
// are logged and left out of the figure.
func runPass(s *runSettings, test config.Test, kind cohort.Kind, rng *rand.Rand) (*passResult, error) {
	groups := s.study.Groups
	seeds := make([]int64, len(groups))
	for i := range seeds {
		seeds[i] = rng.Int63()
	}

	results := make([]*trend.Result, len(groups))
	var g errgroup.Group
	if s.nThreads > 0 {
		g.SetLimit(s.nThreads)
	} else {
		g.SetLimit(1)
	}
	for i, group := range groups {
		i, group := i, group
		g.Go(func() error {
			res, err := fitGroup(s, test, group, kind, seeds[i])
			if err != nil {
				var derr *trend.DegenerateInputError
				if errors.As(err, &derr) {
					log.Warningf("Skipping %s for %s (%s): %v", group.ID, test.ID, kind, err)
				} else {
					log.Errorf("Skipping %s for %s (%s): %v", group.ID, test.ID, kind, err)
				}
				return nil
			}
			results[i] = res
			return nil
		})
	}
	// fitGroup errors are not propagated
	_ = g.Wait()

	pr := &passResult{results: results}
	for i, res := range results {
		if res == nil {
			continue
		}
		pr.lines = append(pr.lines, plotting.Line{
			Index:   i,
			Group:   groups[i].ID,
			Title:   groups[i].Name(),
			Control: groups[i].Control,
			Curve:   res.Curve,
		})
	}
	if len(pr.lines) == 0 {
		return nil, fmt.Errorf("%s (%s): no group could be fitted", test.ID, kind)
	}

	fig := plotting.Figure{
		Title:  fmt.Sprintf("%s - %s", test.Name(), kind.Title()),
		XLabel: XLabel,
		YLabel: kind.YLabel(test.Unit),
		Groups: len(groups),
	}
	p, err := plotting.Compose(fig, pr.lines)
	if err != nil {
		return nil, err
	}
	pr.path = plotting.OutputPath(s.out, test.ID, kind.Suffix())
	if err := plotting.Save(p, pr.path, s.dpi); err != nil {
		return nil, err
	}
	log.Noticef("Saved combined %s plot for %s", kind, test.ID)
	return pr, nil
}

// runAll runs all the passes: every test with every kind. It stops
// between passes when ctx is cancelled. A failed pass is logged and
// does not stop the others.
func runAll(ctx context.Context, s *runSettings) ([]string, error) {
	rng := rand.New(rand.NewSource(s.seed))
	var paths []string
	for _, test := range s.study.Tests {
		for _, kind := range s.kinds {
			if err := ctx.Err(); err != nil {
				return paths, err
			}
			pr, err := runPass(s, test, kind, rng)
			if err != nil {
				log.Error(err)
				continue
			}
			paths = append(paths, pr.path)
		}
	}
	return paths, nil
}
