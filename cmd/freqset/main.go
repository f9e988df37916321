// The freqset command builds a labeled waveform dataset in memory and logs a
// summary of it. Nothing is written to disk.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-freqset/algorithms/waveform"
	"github.com/RyanBlaney/sonido-freqset/dataset"
	"github.com/RyanBlaney/sonido-freqset/dataset/config"
	"github.com/RyanBlaney/sonido-freqset/logging"
)

const verifyTolerance = 0.01

var errLabelMismatch = errors.New("labels disagree with spectral peaks")

type options struct {
	mode      string
	freq      float64
	lower     int
	upper     int
	step      int
	offsets   int
	seed      int64
	shapes    string
	noise     float64
	duration  float64
	framerate float64
	smooth    bool
	verify    bool
	config    string
	logLevel  string
	logJSON   bool

	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{set: make(map[string]bool)}

	fs := flag.NewFlagSet("freqset", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.mode, "mode", "test", "dataset to build: test, v0, v2 or v3")
	fs.Float64Var(&opts.freq, "freq", 440, "frequency of the test set in Hz")
	fs.IntVar(&opts.lower, "lower", 100, "lowest v0 frequency in Hz")
	fs.IntVar(&opts.upper, "upper", 1000, "highest v0 frequency in Hz (inclusive)")
	fs.IntVar(&opts.step, "step", 10, "v0 frequency step in Hz")
	fs.IntVar(&opts.offsets, "offsets", 10, "phase offsets per frequency")
	fs.Int64Var(&opts.seed, "seed", 42, "seed for test set offsets and noise")
	fs.StringVar(&opts.shapes, "shapes", "", "comma separated shapes, e.g. sawtooth,square,chirp")
	fs.Float64Var(&opts.noise, "noise", 0, "noise ratio for the test set")
	fs.Float64Var(&opts.duration, "duration", 0.1, "waveform duration in seconds")
	fs.Float64Var(&opts.framerate, "framerate", 40000, "samples per second")
	fs.BoolVar(&opts.smooth, "smooth", false, "apply the smoothing filter to every row")
	fs.BoolVar(&opts.verify, "verify", false, "check every label against the spectral peak")
	fs.StringVar(&opts.config, "config", "", "JSON config file; flags given explicitly override it")
	fs.StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn or error")
	fs.BoolVar(&opts.logJSON, "log-json", false, "log as JSON")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	return opts, nil
}

// loadConfig starts from the defaults or the config file and applies every
// flag that was given explicitly.
func loadConfig(opts *options) (config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.config != "" {
		loaded, err := config.Load(opts.config)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	var shapes []waveform.Shape
	if opts.set["shapes"] {
		parsed, err := waveform.ParseShapes(strings.Split(opts.shapes, ","))
		if err != nil {
			return config.Config{}, err
		}
		shapes = parsed
	}

	for _, gc := range []*config.GenerationConfig{&cfg.Test.GenerationConfig, &cfg.TrainV0, &cfg.Train} {
		if opts.set["offsets"] {
			gc.NOffset = opts.offsets
		}
		if opts.set["duration"] {
			gc.Duration = opts.duration
		}
		if opts.set["framerate"] {
			gc.Framerate = opts.framerate
		}
		if shapes != nil {
			gc.Shapes = shapes
		}
	}
	if opts.set["seed"] {
		cfg.Test.Seed = opts.seed
	}
	if opts.set["noise"] {
		cfg.Test.NoiseRatio = opts.noise
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func build(opts *options, cfg config.Config) (*dataset.Dataset, float64, error) {
	switch strings.ToLower(opts.mode) {
	case "test":
		ds, err := dataset.TestData(opts.freq, cfg.Test)
		return ds, cfg.Test.Framerate, err
	case "v0":
		ds, err := dataset.TrainDataV0(opts.lower, opts.upper, opts.step, cfg.TrainV0)
		return ds, cfg.TrainV0.Framerate, err
	case "v2":
		ds, err := dataset.TrainDataV2(cfg.Train)
		return ds, cfg.Train.Framerate, err
	case "v3":
		ds, err := dataset.TrainDataV3(cfg.Train)
		return ds, cfg.Train.Framerate, err
	default:
		return nil, 0, fmt.Errorf("unknown mode %q: %w", opts.mode, dataset.ErrInvalidParameter)
	}
}

func summarize(ds *dataset.Dataset) logging.Fields {
	counts := make(map[string]int)
	for _, s := range ds.Shapes {
		counts[s.String()]++
	}
	labels := ds.Labels()

	return logging.Fields{
		"rows":        ds.Len(),
		"samples":     ds.Samples(),
		"frequencies": len(ds.Frequencies()),
		"min_hz":      floats.Min(labels),
		"max_hz":      floats.Max(labels),
		"shapes":      counts,
	}
}

func run(args []string, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	logger, err := logging.NewZapLogger(level, opts.logJSON)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()
	logging.SetGlobalLogger(logger)

	log := logging.WithFields(logging.Fields{
		"component": "freqset",
		"mode":      opts.mode,
	})

	cfg, err := loadConfig(opts)
	if err != nil {
		log.Error(err, "Invalid configuration")
		return err
	}

	ds, framerate, err := build(opts, cfg)
	if err != nil {
		log.Error(err, "Failed to build dataset")
		return err
	}

	if opts.smooth {
		ds, err = ds.Smooth(cfg.Filter)
		if err != nil {
			log.Error(err, "Failed to smooth dataset")
			return err
		}
	}

	log.Info("Dataset built", summarize(ds))

	if opts.verify {
		report, err := dataset.VerifyLabels(ds, framerate, verifyTolerance)
		if err != nil {
			log.Error(err, "Label verification failed")
			return err
		}
		fields := logging.Fields{
			"checked":    report.Checked,
			"skipped":    report.Skipped,
			"mismatches": len(report.Mismatches),
		}
		if !report.OK() {
			first := report.Mismatches[0]
			fields["first_row"] = first.Row
			fields["first_label"] = first.Label
			fields["first_estimate"] = first.Estimated
			log.Warn("Labels disagree with spectral peaks", fields)
			return fmt.Errorf("%d of %d rows: %w", len(report.Mismatches), report.Checked, errLabelMismatch)
		}
		log.Info("Labels verified", fields)
	}

	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "freqset: %v\n", err)
		os.Exit(1)
	}
}
