/*
Joinpoint fits segmented trends of blood test results before cancer
diagnosis and plots the trends of all the patient groups together.

For every test and every series kind it reads the series of each group
from <data>/<test>/<group>/, chooses the number of breakpoints (0 to 3)
by BIC, keeps the segmentation if the Davies test is significant and
falls back to linear regression otherwise. One figure is written per
test and kind:

	joinpoint -data clean_data -out plots

Tests and groups are listed in a JSON study file (-config), the
built-in study is used otherwise. Directories can also be set in the
environment or in a .env file:

	JOINPOINT_DATA=clean_data
	JOINPOINT_OUT=plots

To see all the options run:

	joinpoint -h
*/
package main

import (
	"context"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/op/go-logging"
	"gopkg.in/alecthomas/kingpin.v2"

	"bitbucket.org/Davydov/joinpoint/cohort"
	"bitbucket.org/Davydov/joinpoint/plotting"
	"bitbucket.org/Davydov/joinpoint/segmented"
	"bitbucket.org/Davydov/joinpoint/trend"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = "branch: " + gitbranch + ", revision: " + githash + ", build time: " + buildstamp

// Logger settings.
var log = logging.MustGetLogger("joinpoint")
var formatter = logging.MustStringFormatter(`%{message}`)

// modules are the loggers whose level is set by -loglevel.
var modules = []string{"joinpoint", "trend", "segmented", "optimize", "cohort", "plotting"}

// command-line options
var (
	// application
	app = kingpin.New("joinpoint", "segmented trends of blood tests before diagnosis").Version(version)

	// input/output
	dataDir = app.Flag("data", "input directory with <test>/<group>/ tables").
		Envar("JOINPOINT_DATA").Default("data").String()
	outDir = app.Flag("out", "output directory for the figures").
		Envar("JOINPOINT_OUT").Default("plots").String()
	configF = app.Flag("config", "JSON file with the tests and the groups, built-in study by default").
		Envar("JOINPOINT_CONFIG").String()
	tests = app.Flag("test", "test to plot (can be repeated), all tests by default").Strings()
	kinds = app.Flag("kind", "series kind to plot (can be repeated), "+
		"abnormal_proportions and values by default").Enums(cohort.KindNames()...)
	dpi = app.Flag("dpi", "figure resolution").Default("400").Int()

	// model selection
	maxBreakpoints = app.Flag("maxbp", "maximum number of breakpoints").Default("3").Int()
	minDistance    = app.Flag("mindist", "minimum distance between breakpoints "+
		"as a fraction of the x range").Default("0.1").Float64()
	nBoot  = app.Flag("nboot", "number of bootstrap restarts").Default("100").Int()
	method = app.Flag("method", "breakpoint refinement method "+
		"(none: Muggeo iterations only, "+
		"simplex: downhill simplex, "+
		"lbfgsb: limited-memory Broyden–Fletcher–Goldfarb–Shanno with bounding constraints, "+
		"bfgs: Broyden–Fletcher–Goldfarb–Shanno"+
		")").Default("none").Enum(segmented.Methods...)
	iterations = app.Flag("iter", "number of refinement iterations").Default("1000").Int()

	// technical
	nThreads   = app.Flag("nt", "number of groups fitted in parallel").Default("1").Int()
	seed       = app.Flag("seed", "random generator seed").Default("42").Int64()
	cpuProfile = app.Flag("cpuprofile", "write cpu profile to file").String()
	outLogF    = app.Flag("log", "write log to a file").String()
	logLevel   = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("notice").
		Enum("critical", "error", "warning", "notice", "info", "debug")
)

// defaultKinds are plotted when -kind is not given.
var defaultKinds = []cohort.Kind{cohort.AbnormalProportions, cohort.Values}

func main() {
	// .env is optional
	_ = godotenv.Load()
	kingpin.MustParse(app.Parse(os.Args[1:]))

	// logging
	logging.SetFormatter(formatter)

	var backend *logging.LogBackend
	if *outLogF != "" {
		f, err := os.OpenFile(*outLogF, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("Error creating log file:", err)
		}
		defer f.Close()
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	logging.SetBackend(backend)

	level, err := logging.LogLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	for _, m := range modules {
		logging.SetLevel(level, m)
	}

	// print revision
	log.Info(version)

	// print commandline
	log.Info("Command line:", os.Args)
	log.Infof("Random seed=%v", *seed)

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	s, err := newRunSettings()
	if err != nil {
		log.Fatal(err)
	}
	if err := os.MkdirAll(s.out, 0o755); err != nil {
		log.Fatal("Error creating output directory:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startTime := time.Now()
	paths, err := runAll(ctx, s)
	if err != nil {
		log.Error(err)
	}
	log.Noticef("Saved %d figure(s)", len(paths))
	log.Noticef("Running time: %v", time.Since(startTime))
}

// trendSettings returns the model selection settings from the
// command line parameters.
func trendSettings() trend.Settings {
	s := trend.DefaultSettings()
	s.MaxBreakpoints = *maxBreakpoints
	s.Segmented.MinDistance = *minDistance
	s.Segmented.NBoot = *nBoot
	s.Segmented.Method = *method
	s.Segmented.Iterations = *iterations
	return s
}

// figureDPI returns -dpi or the default resolution.
func figureDPI() int {
	if *dpi <= 0 {
		return plotting.DefaultDPI
	}
	return *dpi
}
