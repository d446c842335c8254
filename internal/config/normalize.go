package config

import (
	"os"
	"strings"
)

func (c *Config) normalize() {
	c.normalizeClustering()
	c.normalizeMinIO()
	c.normalizeLogging()
	c.Output.Codec = strings.ToLower(strings.TrimSpace(c.Output.Codec))
	if c.Output.Codec == "" {
		c.Output.Codec = defaultCodec
	}
}

func (c *Config) normalizeClustering() {
	if c.Clustering.Parallelism <= 0 {
		c.Clustering.Parallelism = defaultParallelism
	}
	if c.Clustering.Tolerance <= 0 {
		c.Clustering.Tolerance = defaultTolerance
	}
}

func (c *Config) normalizeMinIO() {
	c.MinIO.Endpoint = strings.TrimSpace(c.MinIO.Endpoint)
	if c.MinIO.AccessKey == "" {
		c.MinIO.AccessKey = os.Getenv("MINIO_ACCESS_KEY")
	}
	if c.MinIO.SecretKey == "" {
		c.MinIO.SecretKey = os.Getenv("MINIO_SECRET_KEY")
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
