// Package config loads process configuration for the tendon binaries by
// layering defaults, an optional YAML file, and environment variables.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config contains process configuration shared by the binaries.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DuckDBPath is the DuckDB database file, or ":memory:".
	DuckDBPath string `koanf:"duckdb_path"`

	// NATSURL and NATSStream configure the JetStream transport.
	NATSURL    string `koanf:"nats_url"`
	NATSStream string `koanf:"nats_stream"`

	// MilvusAddr, MilvusCollection and EmbeddingDim configure the
	// precedent-search vector store.
	MilvusAddr       string `koanf:"milvus_addr"`
	MilvusCollection string `koanf:"milvus_collection"`
	EmbeddingDim     int    `koanf:"embedding_dim"`

	// MetricsAddr is the prometheus /metrics listen address in cmd/writer.
	MetricsAddr string `koanf:"metrics_addr"`

	// Workers sets pipeline parallelism across athletes.
	Workers int `koanf:"workers"`

	// Rolling-window parameters.
	ChronicWeeks  int `koanf:"chronic_weeks"`
	MonotonyWeeks int `koanf:"monotony_weeks"`

	// Feature-composition parameters.
	ACWRThreshold       float64 `koanf:"acwr_threshold"`
	MaxMonotony         float64 `koanf:"max_monotony"`
	InjuryLookbackWeeks int     `koanf:"injury_lookback_weeks"`

	// Validation parameters.
	ACWRMax         float64 `koanf:"acwr_max"`
	ClipACWR        bool    `koanf:"clip_acwr"`
	MinHistoryWeeks int     `koanf:"min_history_weeks"`
	CheckLeakage    bool    `koanf:"check_leakage"`
}

// Default returns the standard configuration.
func Default() *Config {
	return &Config{
		LogLevel:            "info",
		DuckDBPath:          "tendon.duckdb",
		NATSURL:             "nats://localhost:4222",
		NATSStream:          "tendon",
		MilvusAddr:          "localhost:19530",
		MilvusCollection:    "athlete_weeks",
		EmbeddingDim:        32,
		MetricsAddr:         ":9180",
		Workers:             4,
		ChronicWeeks:        4,
		MonotonyWeeks:       4,
		ACWRThreshold:       1.3,
		MaxMonotony:         10.0,
		InjuryLookbackWeeks: 8,
		ACWRMax:             10.0,
		MinHistoryWeeks:     4,
	}
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (Default())
//  2. file (YAML) if TENDON_CONFIG is set
//  3. env (prefix TENDON_)
func Load() (*Config, error) {
	base := Default()

	k := koanf.New(".")

	if path := os.Getenv("TENDON_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: TENDON_DUCKDB_PATH, TENDON_WORKERS, ...
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("TENDON_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "tendon_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.DuckDBPath == "" {
		return nil, errors.New("duckdb_path must not be empty")
	}
	if cfg.ChronicWeeks < 1 {
		return nil, errors.New("chronic_weeks must be at least 1")
	}
	return &cfg, nil
}
