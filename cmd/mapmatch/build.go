package main

import (
	"os"
	"path/filepath"

	"mapmatch/internal/errors"
	"mapmatch/internal/export"
	"mapmatch/internal/network"
)

func handleBuild(flags *mapmatchFlags) error {
	if err := flags.Build.cmd.Parse(os.Args[2:]); err != nil {
		return errors.Wrap(err, "failed to parse build flags")
	}

	f := flags.Build
	if *f.junctions == "" || *f.sections == "" {
		return errors.New("--junctions and --sections are required for build command")
	}

	graph, err := buildNetwork(*f.junctions, *f.sections, *f.dmax, *f.amax, *f.greedy)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*f.out, 0o755); err != nil {
		return errors.Wrap(err, "create output directory")
	}

	if err := export.WriteNodesFile(filepath.Join(*f.out, "nodes.csv"), graph); err != nil {
		return errors.Wrap(err, "write nodes.csv")
	}
	if err := export.WriteEdgesFile(filepath.Join(*f.out, "edges.csv"), graph); err != nil {
		return errors.Wrap(err, "write edges.csv")
	}

	return nil
}

// buildNetwork runs NetworkBuilder then NetworkNormalizer, shared by the
// build, match, and batch subcommands.
func buildNetwork(junctionsPath, sectionsPath string, dmax, amax float64, greedy bool) (*network.Graph, error) {
	junctions, err := network.LoadJunctionsDocument(junctionsPath)
	if err != nil {
		return nil, errors.Wrap(err, "load junctions document")
	}

	sections, err := network.LoadSectionsDocument(sectionsPath)
	if err != nil {
		return nil, errors.Wrap(err, "load sections document")
	}

	graph, err := network.NewBuilder().Build(junctions, sections)
	if err != nil {
		return nil, errors.Wrap(err, "build network")
	}

	network.NewNormalizer(graph).EqualizeNodeDensity(dmax, amax, greedy)

	return graph, nil
}
