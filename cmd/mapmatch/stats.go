package main

import (
	"fmt"
	"os"

	"mapmatch/internal/errors"
	"mapmatch/internal/stats"
)

func handleStats(flags *mapmatchFlags) error {
	if err := flags.Stats.cmd.Parse(os.Args[2:]); err != nil {
		return errors.Wrap(err, "failed to parse stats flags")
	}

	f := flags.Stats
	if *f.entrance == "" || *f.exit == "" {
		return errors.New("--entrance and --exit are required for stats command")
	}

	result, err := stats.AnalyzeDir(*f.dir, *f.entrance, *f.exit)
	if err != nil {
		return errors.Wrap(err, "analyze path-export directory")
	}

	fmt.Printf("entrance=%s exit=%s\n", *f.entrance, *f.exit)
	fmt.Printf("through entrance: %d\n", result.TotalThroughEntrance)
	fmt.Printf("exited:           %d\n", result.Exited)
	fmt.Printf("continued:        %d\n", result.Continued)
	fmt.Printf("split ratio:      %.4f\n", result.Ratio())

	return nil
}
