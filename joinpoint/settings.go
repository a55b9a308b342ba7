package main

import (
	"fmt"

	"bitbucket.org/Davydov/joinpoint/cohort"
	"bitbucket.org/Davydov/joinpoint/config"
	"bitbucket.org/Davydov/joinpoint/trend"
)

// runSettings stores everything needed to produce the figures.
type runSettings struct {
	study *config.Study
	kinds []cohort.Kind

	data string
	out  string

	trend trend.Settings

	nThreads int
	dpi      int

	seed int64
}

// newRunSettings creates runSettings from the command line parameters
// (global variables).
func newRunSettings() (*runSettings, error) {
	study := config.Default()
	if *configF != "" {
		var err error
		study, err = config.Load(*configF)
		if err != nil {
			return nil, err
		}
		log.Infof("Study configuration: %s", *configF)
	} else {
		log.Info("Using built-in study configuration")
	}
	study, err := study.Filter(*tests)
	if err != nil {
		return nil, err
	}

	kk := defaultKinds
	if len(*kinds) > 0 {
		kk = nil
		for _, name := range *kinds {
			k, err := cohort.ParseKind(name)
			if err != nil {
				return nil, err
			}
			kk = append(kk, k)
		}
	}

	s := &runSettings{
		study: study,
		kinds: kk,

		data: *dataDir,
		out:  *outDir,

		trend: trendSettings(),

		nThreads: *nThreads,
		dpi:      figureDPI(),

		seed: *seed,
	}
	return s, s.validate()
}

func (s *runSettings) validate() error {
	if s.trend.MaxBreakpoints < 0 {
		return fmt.Errorf("negative maximum number of breakpoints: %d", s.trend.MaxBreakpoints)
	}
	if s.trend.Segmented.MinDistance < 0 || s.trend.Segmented.MinDistance >= 1 {
		return fmt.Errorf("minimum distance between breakpoints should be in [0, 1): %v",
			s.trend.Segmented.MinDistance)
	}
	if s.trend.Segmented.NBoot < 0 {
		return fmt.Errorf("negative number of bootstrap restarts: %d", s.trend.Segmented.NBoot)
	}
	if len(s.kinds) == 0 {
		return fmt.Errorf("no series kinds")
	}
	return s.study.Validate()
}
