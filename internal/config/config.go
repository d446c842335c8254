package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Clustering contains the restart driver settings.
type Clustering struct {
	TrueK             int     `toml:"true_k"`
	Parallelism       int     `toml:"parallelism"`
	MatVecParallelism int     `toml:"matvec_parallelism"`
	Tolerance         float64 `toml:"tolerance"`
	MaxIterations     int     `toml:"max_iterations"`
	Seeds             []int64 `toml:"seeds"` // empty means 1, 3, ..., 39
}

// Resources contains limits shared by all trials of a run.
type Resources struct {
	MemoryLimitMiB      int64 `toml:"memory_limit_mib"`      // 0 = unlimited
	MaxConcurrentTrials int64 `toml:"max_concurrent_trials"` // 0 = same as clustering.parallelism
	IOLimitMiBPerSec    int64 `toml:"io_limit_mib_per_sec"`  // 0 = unlimited
}

// S3 contains settings for s3:// paths.
type S3 struct {
	Region      string `toml:"region"`
	Endpoint    string `toml:"endpoint"`
	PathStyle   bool   `toml:"path_style"`
	Prefix      string `toml:"prefix"`
	PartSizeMiB int64  `toml:"part_size_mib"`
}

// MinIO contains settings for minio:// paths.
type MinIO struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Region    string `toml:"region"`
	Secure    bool   `toml:"secure"`
	Prefix    string `toml:"prefix"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"` // "text" or "json"
	Level  string `toml:"level"`
}

// Output contains configuration for the run report.
type Output struct {
	Codec string `toml:"codec"` // "go-json" or "json"
}

// Config encapsulates all configuration values for the CLI.
type Config struct {
	Clustering Clustering `toml:"clustering"`
	Resources  Resources  `toml:"resources"`
	S3         S3         `toml:"s3"`
	MinIO      MinIO      `toml:"minio"`
	Logging    Logging    `toml:"logging"`
	Output     Output     `toml:"output"`
}

// Load parses the TOML file at path over the defaults, then normalizes and
// validates the result. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
