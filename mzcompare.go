// Copyright 2018 Rob Marissen.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/524D/mzcompare/internal/feature"
	"github.com/524D/mzcompare/internal/match"
	"github.com/524D/mzcompare/internal/mzidentml"
	"github.com/524D/mzcompare/internal/report"
	"github.com/524D/mzcompare/internal/table"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Program name and version
const progName = "mzCompare"

var progVersion = `Unknown`

const (
	infoDefault = iota
	infoSilent
	infoVerbose
)

// Command line parameters
type params struct {
	gtFilename  string
	altFilename string
	configFile  string    // YAML run file
	mzCol       string    // m/z column name
	rtCol       string    // retention time column name
	altMzCol    string    // m/z column name in alternative table, default mzCol
	altRTCol    string    // retention time column name in alternative table, default rtCol
	mzTolStr    string    // m/z tolerances (ppm) as given by the user
	rtTolStr    string    // rt tolerances (s) as given by the user
	mzTols      []float64 // m/z tolerances (ppm)
	rtTols      []float64 // rt tolerances (s)
	prefix      string    // prefix of output files
	outDir      string    // directory for output files
	rtUnit      string    // retention time unit of the input tables
	strategy    string    // match algorithm
	charset     string    // charset of input tables, empty means detect
	workers     int       // concurrently evaluated tolerance configurations
	verbosity   int       // Verbosity of progress messages (infoDefault...)
	args        []string  // Additional values passed on the command line
}

var (
	ErrRangeSpec = errors.New("invalid range specified")
	ErrTolList   = errors.New("invalid tolerance list")
)

// Parse string like "-12:6" into 2 values, -12 and 6
// Parameters min and max are the "default" min/max values,
// when a value is not specified (e.g. "-12:"), the default is assigned
func parseIntRange(r string, min int, max int) (int, int, error) {
	re := regexp.MustCompile(`\s*(\-?\d*):(\-?\d*)`)
	m := re.FindStringSubmatch(r)
	minOut := min
	maxOut := max
	if len(m) >= 2 && m[1] != "" {
		minOut, _ = strconv.Atoi(m[1])
		if minOut < min {
			minOut = min
		}
	}
	if len(m) >= 3 && m[2] != "" {
		maxOut, _ = strconv.Atoi(m[2])
		if maxOut > max {
			maxOut = max
		}
	}
	var err error
	if minOut > maxOut {
		err = ErrRangeSpec
		minOut = maxOut
	}
	return minOut, maxOut, err
}

// Parse a list of tolerances like "5,10 20" into its values.
// The order is kept, and so are duplicates.
func parseTolList(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil, ErrTolList
	}
	tols := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrTolList, f)
		}
		tols[i] = v
	}
	return tols, nil
}

// isMzIdentML reports whether the file should be read as mzIdentML
func isMzIdentML(fn string) bool {
	ext := table.BaseExt(fn)
	return ext == `.mzid` || ext == `.mzidentml`
}

// loadTable reads an input file as a table. For mzIdentML, the
// retention time unit is known to be seconds, which is returned as
// unit unless the user forced a unit.
func loadTable(fn string, par params, unit feature.RTUnit, logger *zap.Logger) (
	table.Table, feature.RTUnit, error) {
	if !isMzIdentML(fn) {
		t, err := table.Open(fn, table.ReadOptions{Charset: par.charset})
		return t, unit, err
	}
	r, err := table.OpenReader(fn)
	if err != nil {
		return table.Table{}, unit, err
	}
	defer r.Close()
	mzIdentML, err := mzidentml.Read(r)
	if err != nil {
		return table.Table{}, unit, fmt.Errorf("%s: %w", fn, err)
	}
	t, skipped := mzIdentML.ToTable(fn)
	if skipped > 0 {
		logger.Warn("Identifications without computable m/z skipped",
			zap.String("file", fn), zap.Int("skipped", skipped))
	}
	if unit == feature.UnitAuto {
		unit = feature.UnitSeconds
	}
	return t, unit, nil
}

// loadFeatures reads and normalizes one input file
func loadFeatures(fn, mzCol, rtCol string, par params, logger *zap.Logger) (*feature.Set, error) {
	unit, err := feature.ParseRTUnit(par.rtUnit)
	if err != nil {
		return nil, err
	}
	t, unit, err := loadTable(fn, par, unit, logger)
	if err != nil {
		return nil, err
	}
	set, err := feature.Normalize(&t, mzCol, rtCol, unit)
	if err != nil {
		return nil, err
	}
	logger.Debug("Features loaded",
		zap.String("file", fn),
		zap.Int("features", set.Len()),
		zap.Float64("rt_scale", set.RTScale))
	return set, nil
}

// progress prints timing information in verbose mode
type progress struct {
	verbosity int
	t         time.Time
}

func (p *progress) start(format string, a ...any) {
	if p.verbosity == infoVerbose {
		p.t = time.Now()
		fmt.Fprintf(os.Stderr, format, a...)
	}
}

func (p *progress) done() {
	if p.verbosity == infoVerbose {
		fmt.Fprintf(os.Stderr, "%s\n", time.Since(p.t))
	}
}

// run glues together all the steps of a comparison:
// Read and normalize both inputs
// Match the features for each tolerance configuration
// Write a matches table per configuration and the summaries
func run(ctx context.Context, par params, logger *zap.Logger) ([]*match.Result, error) {
	strategy, err := match.ParseStrategy(par.strategy)
	if err != nil {
		return nil, err
	}
	p := progress{verbosity: par.verbosity}

	p.start("Reading ground truth from %s: ", par.gtFilename)
	gt, err := loadFeatures(par.gtFilename, par.mzCol, par.rtCol, par, logger)
	if err != nil {
		return nil, err
	}
	p.done()

	p.start("Reading alternative from %s: ", par.altFilename)
	alt, err := loadFeatures(par.altFilename, par.altMzCol, par.altRTCol, par, logger)
	if err != nil {
		return nil, err
	}
	p.done()

	p.start("Matching %d x %d features for %d tolerance configurations: ",
		gt.Len(), alt.Len(), len(par.mzTols)*len(par.rtTols))
	results, err := match.Sweep(ctx, gt, alt, par.mzTols, par.rtTols, match.SweepOptions{
		Strategy: strategy,
		Workers:  par.workers,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	p.done()

	if len(results) > 0 {
		debugLogMatches(gt, alt, results[0])
	}

	p.start("Writing results to %s: ", par.outDir)
	if err := writeResults(par, results); err != nil {
		return nil, err
	}
	p.done()

	if par.verbosity != infoSilent {
		for _, res := range results {
			s := res.Summary
			fmt.Fprintf(os.Stderr,
				"mz %gppm rt %gs: ground truth matched %d/%d (%.1f%%), alternative matched %d/%d, median matches %g\n",
				s.MzTol, s.RTTol, s.GTMatchedCount, s.GTTotal, s.OverlapPercentage,
				s.AltMatchedCount, s.AltTotal, s.MedianMatches)
		}
	}
	return results, nil
}

func writeResults(par params, results []*match.Result) error {
	if err := os.MkdirAll(par.outDir, 0755); err != nil {
		return err
	}
	for _, res := range results {
		fn := filepath.Join(par.outDir, report.ArtifactName(par.prefix, res.Spec, report.KindMatchesTable))
		if err := writeFile(fn, func(f *os.File) error { return report.WriteMatchesTable(f, res) }); err != nil {
			return err
		}
	}
	fn := filepath.Join(par.outDir, par.prefix+report.KindSummary)
	return writeFile(fn, func(f *os.File) error { return report.WriteSummaries(f, results) })
}

func writeFile(fn string, write func(f *os.File) error) error {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", fn, err)
	}
	return f.Close()
}

// sanatizeParams does some checks on parameters, and fills missing
// values if possible
func sanatizeParams(par *params) error {
	if len(par.args) != 2 {
		return errors.New("need exactly two input files: <ground truth> <alternative>")
	}
	par.gtFilename = par.args[0]
	par.altFilename = par.args[1]

	if par.altMzCol == `` {
		par.altMzCol = par.mzCol
	}
	if par.altRTCol == `` {
		par.altRTCol = par.rtCol
	}
	if par.prefix == `` {
		par.prefix = report.DefaultPrefix(par.gtFilename, par.altFilename)
	}
	if par.outDir == `` {
		par.outDir = `.`
	}

	var err error
	if par.mzTols == nil {
		par.mzTols, err = parseTolList(par.mzTolStr)
		if err != nil {
			return fmt.Errorf("invalid value for parameter 'mztol': %w", err)
		}
	}
	if par.rtTols == nil {
		par.rtTols, err = parseTolList(par.rtTolStr)
		if err != nil {
			return fmt.Errorf("invalid value for parameter 'rttol': %w", err)
		}
	}
	for _, spec := range match.Product(par.mzTols, par.rtTols) {
		if err := spec.Validate(); err != nil {
			return err
		}
	}
	if _, err := feature.ParseRTUnit(par.rtUnit); err != nil {
		return err
	}
	if _, err := match.ParseStrategy(par.strategy); err != nil {
		return err
	}
	return checkDebugRange()
}

func newLogger(verbosity int) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = `console`
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	switch verbosity {
	case infoVerbose:
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case infoSilent:
		config.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	}
	return config.Build()
}

func usage() {
	exeName := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr,
		`USAGE:
  %s [options] <ground truth file> <alternative file>

  This program compares two sets of MS features (m/z, retention time).
  For each feature of the ground truth, it counts the features of the
  alternative set that are within m/z and retention time tolerance.

  Input files can be CSV or TSV (optionally gzip compressed), or
  mzIdentML files (.mzid), in which case the m/z is computed from the
  identified peptide and charge.

OPTIONS:
`, exeName)
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr,
		`
MATCHING:
  An alternative feature matches a ground truth feature when
    |mz_gt - mz_alt| <= mz_gt * mztol / 1e6   and
    |rt_gt - rt_alt| <= rttol
  Note that the m/z window is computed from the ground truth feature only.
  With -rtunit auto, retention times of a table are taken as minutes when
  all of them are below 1000, and as seconds otherwise.

OUTPUT:
  For each combination of m/z and rt tolerance, a table
  <prefix><mztol>_<rttol>_matches_table.csv is written (a decimal point in
  a tolerance is written as 'p'), and all summaries are written to
  <prefix>summary.json. The default prefix is
  <ground truth name>_<alternative name>_.

USAGE EXAMPLES:
  %s truth.csv alt.csv
    Compare with 5 ppm and 6 s tolerance.

  %s -mztol 5,10 -rttol 6,12 -mzcol "m/z" -rtcol RT truth.tsv alt.tsv
    Compare for 4 tolerance configurations, using other column names.
`, exeName, exeName)
}

func main() {
	var par params

	flag.StringVar(&par.configFile, "config", "",
		"YAML run `file`. Options given on the command line take precedence.")
	flag.StringVar(&par.mzCol, "mzcol", "mz",
		"`name` of the m/z column")
	flag.StringVar(&par.rtCol, "rtcol", "rt",
		"`name` of the retention time column")
	flag.StringVar(&par.altMzCol, "altmzcol", "",
		"`name` of the m/z column in the alternative file (default: same as mzcol)")
	flag.StringVar(&par.altRTCol, "altrtcol", "",
		"`name` of the retention time column in the alternative file (default: same as rtcol)")
	flag.StringVar(&par.mzTolStr, "mztol", "5",
		"m/z tolerance(s) in ppm, comma separated `list`")
	flag.StringVar(&par.rtTolStr, "rttol", "6",
		"retention time tolerance(s) in seconds, comma separated `list`")
	flag.StringVar(&par.prefix, "prefix", "",
		"`prefix` of output file names (default <ground truth>_<alternative>_)")
	flag.StringVar(&par.outDir, "o", ".",
		"output `directory`")
	flag.StringVar(&par.rtUnit, "rtunit", "auto",
		"retention time `unit` of the input: auto, min or s")
	flag.StringVar(&par.strategy, "strategy", "windowed",
		"match `algorithm`: windowed (fast) or dense (all pairs, reference)")
	flag.StringVar(&par.charset, "charset", "",
		"`charset` of the input tables, e.g. latin1 (default: detect)")
	flag.IntVar(&par.workers, "workers", 0,
		"number of tolerance configurations evaluated concurrently (default: number of CPUs)")
	version := flag.Bool("version", false,
		`Show software version`)
	verbose := flag.Bool("verbose", false,
		`Print more verbose progress information`)
	quiet := flag.Bool("quiet", false,
		`Don't print any output except for errors`)
	flag.Usage = usage
	flag.Parse()
	if *version {
		fmt.Fprintf(os.Stderr, "%s version %s\n", progName, progVersion)
		return
	}
	if *verbose {
		par.verbosity = infoVerbose
	}
	if *quiet {
		par.verbosity = infoSilent
	}
	par.args = flag.Args()

	logger, err := newLogger(par.verbosity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Can't initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if par.configFile != `` {
		cfg, err := readRunConfig(par.configFile)
		if err != nil {
			logger.Fatal("Reading run file failed", zap.Error(err))
		}
		explicit := make(map[string]bool)
		flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		applyRunConfig(&par, cfg, explicit)
	}

	if err := sanatizeParams(&par); err != nil {
		fmt.Fprintf(os.Stderr, "%v\nType %s --help for usage\n", err, filepath.Base(os.Args[0]))
		os.Exit(2)
	}

	if _, err := run(context.Background(), par, logger); err != nil {
		logger.Fatal("Comparison failed", zap.Error(err))
	}
}
