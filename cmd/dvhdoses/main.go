package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"dvhdoses/internal/logger"
	"dvhdoses/internal/models"
	"dvhdoses/pkg/config"
	"dvhdoses/pkg/dvh"
)

func main() {
	err := run(os.Args[1:], os.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		log := logger.Component(logger.NewConsole(false), "main")
		log.Error().Err(err).Msg("dose statistics failed")
		os.Exit(1)
	}
}

// run parses the command line, computes the statistics and writes them to out.
// A -h request is returned as flag.ErrHelp.
func run(args []string, out io.Writer) error {
	// Parse command line arguments
	fs := flag.NewFlagSet("dvhdoses", flag.ContinueOnError)
	cdvhArg := fs.String("cdvh", "", "Comma separated cumulative DVH, one value per 1 cGy bin")
	name := fs.String("roi", "", "Name of the ROI, used in messages")
	doseRef := fs.Float64("doseref", 0, "Reference dose in cGy (default: from config)")
	configPath := fs.String("config", "dvhdoses.yaml", "Path to YAML config file")
	initConfig := fs.Bool("init-config", false, "Write a default config file and exit")
	format := fs.String("format", "", "Output format: text or yaml (default: from config)")
	includeLastBin := fs.Bool("include-last-bin", false, "Let min and median scans test the final bin")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Write a default config file if requested
	if *initConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "Default config written to %s\n", *configPath)
		return nil
	}

	// Load config, then let command line flags override it
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *doseRef != 0 {
		cfg.Dose.ReferenceDose = *doseRef
	}
	if *format != "" {
		cfg.Output.Format = *format
	}
	if *includeLastBin {
		cfg.Scan.IncludeLastBin = true
	}
	if *verbose {
		cfg.Output.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Component(logger.NewConsole(cfg.Output.Verbose), "dvhdoses")

	// Validate inputs
	if *cdvhArg == "" {
		fs.Usage()
		return fmt.Errorf("missing -cdvh")
	}
	cdvh, err := parseCDVH(*cdvhArg)
	if err != nil {
		return err
	}

	hist := models.Histogram{
		Name:          *name,
		Cumulative:    cdvh,
		ReferenceDose: cfg.Dose.ReferenceDose,
	}

	log.Debug().
		Str("roi", hist.Name).
		Int("bins", len(hist.Cumulative)).
		Float64("volume", hist.Volume()).
		Float64("referenceDose", hist.ReferenceDose).
		Bool("includeLastBin", cfg.Scan.IncludeLastBin).
		Msg("computing dose statistics")

	// Compute the four statistics in one pass
	calc := dvh.NewCalculator(cfg.CalculatorOptions())
	stats, err := calc.SummarizeHistogram(hist)
	if err != nil {
		return err
	}

	return writeStatistics(out, cfg.Output.Format, hist, stats, log)
}

// parseCDVH converts "100, 100, 80, 0" into a slice of volumes
func parseCDVH(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	cdvh := make([]float64, 0, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid cDVH value at bin %d: %w", i, err)
		}
		cdvh = append(cdvh, v)
	}
	return cdvh, nil
}

// writeStatistics prints the summary as a text report or as YAML
func writeStatistics(out io.Writer, format string, hist models.Histogram, stats models.DoseStatistics, log zerolog.Logger) error {
	log.Debug().Str("format", format).Msg("writing statistics")

	if format == config.FormatYAML {
		data, err := yaml.Marshal(stats)
		if err != nil {
			return fmt.Errorf("error marshaling statistics: %w", err)
		}
		_, err = out.Write(data)
		return err
	}

	fmt.Fprintf(out, "Dose statistics (reference dose %.1f cGy)\n", stats.ReferenceDose)
	if hist.Name != "" {
		fmt.Fprintf(out, "ROI: %s\n", hist.Name)
	}
	fmt.Fprintf(out, "ROI volume:   %.2f\n", hist.Volume())
	fmt.Fprintf(out, "Minimum dose: %.2f%% (%.1f cGy)\n", stats.Min, stats.Absolute(stats.Min))
	fmt.Fprintf(out, "Maximum dose: %.2f%% (%.1f cGy)\n", stats.Max, stats.Absolute(stats.Max))
	fmt.Fprintf(out, "Median dose:  %.2f%% (%.1f cGy)\n", stats.Median, stats.Absolute(stats.Median))
	fmt.Fprintf(out, "Mean dose:    %.2f%% (%.1f cGy)\n", stats.Mean, stats.Absolute(stats.Mean))
	return nil
}
