// Command mapmatch builds a road network from junction/section documents,
// matches probe trips against it, and reports path-exit/continuation
// statistics over matched results.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"mapmatch/config"
	"mapmatch/internal/errors"
	logs "mapmatch/internal/infra/log"
)

// Supported subcommands:
// - build: construct and normalize a network, export its nodes/edges
// - match: match one probe trip against a network
// - batch: match every trip in a directory of probe CSVs
// - stats: compute path-exit/continuation statistics over matched paths

func main() {
	buildCmd := flag.NewFlagSet("build", flag.ExitOnError)
	matchCmd := flag.NewFlagSet("match", flag.ExitOnError)
	batchCmd := flag.NewFlagSet("batch", flag.ExitOnError)
	statsCmd := flag.NewFlagSet("stats", flag.ExitOnError)

	flags := mapmatchFlags{
		Build: buildFlags{
			cmd:        buildCmd,
			junctions:  buildCmd.String("junctions", "", "path to the junctions document"),
			sections:   buildCmd.String("sections", "", "path to the sections document"),
			out:        buildCmd.String("out", "./data/network", "output directory for nodes.csv/edges.csv"),
			dmax:       buildCmd.Float64("dmax", 100, "maximum edge length in feet before splitting"),
			amax:       buildCmd.Float64("amax", 5, "maximum angle delta in degrees for merging"),
			greedy:     buildCmd.Bool("greedy", true, "use the greedy merge partition (false uses the DP partition)"),
		},
		Match: matchFlags{
			cmd:           matchCmd,
			junctions:     matchCmd.String("junctions", "", "path to the junctions document"),
			sections:      matchCmd.String("sections", "", "path to the sections document"),
			probe:         matchCmd.String("probe", "", "path to a single-trip probe CSV"),
			out:           matchCmd.String("out", "./data/match", "output directory for match-export/path-export CSVs"),
			dmax:          matchCmd.Float64("dmax", 100, "maximum edge length in feet before splitting"),
			amax:          matchCmd.Float64("amax", 5, "maximum angle delta in degrees for merging"),
			k:             matchCmd.Int("k", 20, "number of nearest candidates per observation"),
			evaluator:     matchCmd.String("evaluator", "classical", "classical|optimized|weighted_neighbor|simple_argmax"),
			minTripLength: matchCmd.Int("min-trip-length", 2, "minimum number of observations per trip"),
		},
		Batch: batchFlags{
			cmd:           batchCmd,
			junctions:     batchCmd.String("junctions", "", "path to the junctions document"),
			sections:      batchCmd.String("sections", "", "path to the sections document"),
			probeDir:      batchCmd.String("probe-dir", "", "directory of probe CSVs, or a single multi-trip CSV"),
			out:           batchCmd.String("out", "./data/batch", "output directory for per-trip path-export CSVs"),
			dmax:          batchCmd.Float64("dmax", 100, "maximum edge length in feet before splitting"),
			amax:          batchCmd.Float64("amax", 5, "maximum angle delta in degrees for merging"),
			k:             batchCmd.Int("k", 20, "number of nearest candidates per observation"),
			evaluator:     batchCmd.String("evaluator", "classical", "classical|optimized|weighted_neighbor|simple_argmax"),
			minTripLength: batchCmd.Int("min-trip-length", 2, "minimum number of observations per trip"),
			workers:       batchCmd.Int("workers", 8, "number of concurrent match workers"),
		},
		Stats: statsFlags{
			cmd:      statsCmd,
			dir:      statsCmd.String("dir", "./data/batch", "directory of path-export CSVs"),
			entrance: statsCmd.String("entrance", "", "entrance vertex id (OwnerID) to analyze"),
			exit:     statsCmd.String("exit", "", "exit vertex id (OwnerID) to analyze"),
		},
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := newLogger()

	if err := runSubcommand(ctx, &flags, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger loads config.Config (falling back to a sensible
// default when no config.yaml is found, since the CLI is driven by flags
// rather than a config file) and builds a logger from it the way the rest
// of the ambient stack does.
func newLogger() *slog.Logger {
	cfg, err := config.New()
	if err != nil {
		cfg = &config.Config{}
		cfg.Env.Log.Level = "info"
	}

	logger, err := logs.New(cfg)
	if err != nil {
		return slog.Default()
	}

	return logger
}

type mapmatchFlags struct {
	Build buildFlags
	Match matchFlags
	Batch batchFlags
	Stats statsFlags
}

type buildFlags struct {
	cmd       *flag.FlagSet
	junctions *string
	sections  *string
	out       *string
	dmax      *float64
	amax      *float64
	greedy    *bool
}

type matchFlags struct {
	cmd           *flag.FlagSet
	junctions     *string
	sections      *string
	probe         *string
	out           *string
	dmax          *float64
	amax          *float64
	k             *int
	evaluator     *string
	minTripLength *int
}

type batchFlags struct {
	cmd           *flag.FlagSet
	junctions     *string
	sections      *string
	probeDir      *string
	out           *string
	dmax          *float64
	amax          *float64
	k             *int
	evaluator     *string
	minTripLength *int
	workers       *int
}

type statsFlags struct {
	cmd      *flag.FlagSet
	dir      *string
	entrance *string
	exit     *string
}

func runSubcommand(ctx context.Context, flags *mapmatchFlags, logger *slog.Logger) error {
	switch os.Args[1] {
	case "build":
		return handleBuild(flags)
	case "match":
		return handleMatch(flags, logger)
	case "batch":
		return handleBatch(ctx, flags, logger)
	case "stats":
		return handleStats(flags)
	default:
		printUsage()

		return errors.New("unknown subcommand")
	}
}

func printUsage() {
	fmt.Println("Usage: mapmatch <command> [options]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  build    Construct and normalize a network, export nodes/edges CSVs")
	fmt.Println("  match    Match a single probe trip against a built network")
	fmt.Println("  batch    Match every trip in a directory of probe CSVs")
	fmt.Println("  stats    Compute path-exit/continuation statistics over matched paths")
	fmt.Println("")
	fmt.Println("Use 'mapmatch <command> -h' for more information about a command.")
}
