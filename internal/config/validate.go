package config

import (
	"errors"
	"fmt"
	"log/slog"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateClustering(); err != nil {
		return err
	}
	if err := c.validateResources(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	switch c.Output.Codec {
	case "go-json", "json":
	default:
		return fmt.Errorf("output.codec must be go-json or json, got %q", c.Output.Codec)
	}
	if c.S3.PartSizeMiB < 0 {
		return errors.New("s3.part_size_mib must not be negative")
	}
	return nil
}

func (c *Config) validateClustering() error {
	if c.Clustering.TrueK <= 0 {
		return fmt.Errorf("clustering.true_k must be positive, got %d", c.Clustering.TrueK)
	}
	if c.Clustering.MaxIterations < 0 {
		return fmt.Errorf("clustering.max_iterations must not be negative, got %d", c.Clustering.MaxIterations)
	}
	if c.Clustering.MatVecParallelism < 0 {
		return fmt.Errorf("clustering.matvec_parallelism must not be negative, got %d", c.Clustering.MatVecParallelism)
	}
	return nil
}

func (c *Config) validateResources() error {
	if c.Resources.MemoryLimitMiB < 0 {
		return errors.New("resources.memory_limit_mib must not be negative")
	}
	if c.Resources.MaxConcurrentTrials < 0 {
		return errors.New("resources.max_concurrent_trials must not be negative")
	}
	if c.Resources.IOLimitMiBPerSec < 0 {
		return errors.New("resources.io_limit_mib_per_sec must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// ConcurrentTrials returns the trial slot limit, which follows
// Clustering.Parallelism unless set explicitly.
func (c *Config) ConcurrentTrials() int64 {
	if c.Resources.MaxConcurrentTrials > 0 {
		return c.Resources.MaxConcurrentTrials
	}
	return int64(c.Clustering.Parallelism)
}

// LogLevel parses Logging.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return 0, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}
