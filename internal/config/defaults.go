package config

const (
	defaultTrueK         = 20
	defaultParallelism   = 1
	defaultTolerance     = 0.1
	defaultMaxIterations = 1000
	defaultS3PartSizeMiB = 8
	defaultLogFormat     = "text"
	defaultLogLevel      = "warn"
	defaultCodec         = "go-json"
)

// Default returns a Config populated with defaults.
func Default() Config {
	return Config{
		Clustering: Clustering{
			TrueK:         defaultTrueK,
			Parallelism:   defaultParallelism,
			Tolerance:     defaultTolerance,
			MaxIterations: defaultMaxIterations,
		},
		S3: S3{
			PartSizeMiB: defaultS3PartSizeMiB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Output: Output{
			Codec: defaultCodec,
		},
	}
}
