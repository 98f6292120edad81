// Package config defines service configuration structures and loading hooks.
package config

import (
	"fmt"
	"runtime"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the asynchronous analysis queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of analysis workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many request IDs are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// ResultCapacity bounds the stored analysis records.
	ResultCapacity int `koanf:"result_capacity"`

	// BatchConcurrency bounds the roles analyzed in parallel per batch.
	BatchConcurrency int `koanf:"batch_concurrency"`

	// MaxBatchRoles caps the roles of one POST /analyze/batch.
	MaxBatchRoles int `koanf:"max_batch_roles"`

	// MaxSkills caps the skills of one request.
	MaxSkills int `koanf:"max_skills"`

	// MaxReadinessLimit caps GET /readiness?limit.
	MaxReadinessLimit int `koanf:"max_readiness_limit"`

	// RolesFile is an optional YAML catalog merged over the built-in roles.
	RolesFile string `koanf:"roles_file"`

	// RateLimitRPS throttles the analysis endpoints; 0 disables throttling.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		QueueSize:         10_000,
		WorkerCount:       runtime.NumCPU() * 2,
		DedupeSize:        50_000,
		ResultCapacity:    10_000,
		BatchConcurrency:  4,
		MaxBatchRoles:     20,
		MaxSkills:         500,
		MaxReadinessLimit: 100,
		RateLimitRPS:      0,
		RateLimitBurst:    50,
	}
}

// Validate reports the first invalid field as ErrInvalidConfig.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}

	positive := []struct {
		name  string
		value int
	}{
		{"queue_size", c.QueueSize},
		{"worker_count", c.WorkerCount},
		{"dedupe_size", c.DedupeSize},
		{"result_capacity", c.ResultCapacity},
		{"batch_concurrency", c.BatchConcurrency},
		{"max_batch_roles", c.MaxBatchRoles},
		{"max_skills", c.MaxSkills},
		{"max_readiness_limit", c.MaxReadinessLimit},
	}
	for _, p := range positive {
		if p.value < 1 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, p.name, p.value)
		}
	}

	if c.RateLimitRPS < 0 {
		return fmt.Errorf("%w: rate_limit_rps must not be negative", ErrInvalidConfig)
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("%w: rate_limit_burst must be positive when rate limiting", ErrInvalidConfig)
	}
	return nil
}
