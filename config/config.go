package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const defaultPath = "."

// Config holds every tunable of the match pipeline, per SPEC_FULL.md §4.7.
type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	Network NetworkConfig `json:"network" yaml:"network"`
	Match   MatchConfig   `json:"match" yaml:"match"`
	Batch   BatchConfig   `json:"batch" yaml:"batch"`
}

// NetworkConfig holds NetworkNormalizer's node-density thresholds, per
// spec.md §4.2's equalize_node_density parameters.
type NetworkConfig struct {
	DmaxFeet    float64 `json:"dmaxFeet" yaml:"dmaxFeet"`
	AmaxDegrees float64 `json:"amaxDegrees" yaml:"amaxDegrees"`
	GreedyMerge bool    `json:"greedyMerge" yaml:"greedyMerge"`
}

// MatchConfig holds the Scorer/RouteSolver tuning parameters, per spec.md
// §4.4/§4.5.
type MatchConfig struct {
	K                         int     `json:"k" yaml:"k"`
	Evaluator                 string  `json:"evaluator" yaml:"evaluator"`
	WeightedNeighborDiscount  float64 `json:"weightedNeighborDiscount" yaml:"weightedNeighborDiscount"`
	WeightedNeighborThreshold float64 `json:"weightedNeighborThreshold" yaml:"weightedNeighborThreshold"`
	MinTripLength             int     `json:"minTripLength" yaml:"minTripLength"`
}

// BatchConfig holds MatchDriver.BatchProcess's worker-pool sizing.
type BatchConfig struct {
	Workers int `json:"workers" yaml:"workers"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, fmt.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("read %s config failed: %w", currEnv, err)
	}

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to env.var.name
			key := strings.ReplaceAll(strings.ToLower(k), "_", ".")

			return key, v
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("load env variables failed: %w", err)
	}

	// Unmarshal into the config struct
	if err := koanfInstance.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal %s config failed: %w", currEnv, err)
	}

	return cfg, nil
}

// New loads Config from config.yaml, searching the working directory and
// its nearest config/ ancestors.
func New() (*Config, error) {
	return LoadWithEnv[Config]("config", "config", "../config", "../../config")
}

// DefaultMatch returns the spec's default Scorer/RouteSolver parameters,
// mirroring match.DefaultConfig for use before a config file is loaded.
func DefaultMatch() MatchConfig {
	return MatchConfig{
		K:                         20,
		Evaluator:                 "classical",
		WeightedNeighborDiscount:  0.5,
		WeightedNeighborThreshold: 0.125,
		MinTripLength:             2,
	}
}
