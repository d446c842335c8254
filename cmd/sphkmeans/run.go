package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hupe1980/sphkmeans"
	"github.com/hupe1980/sphkmeans/codec"
	"github.com/hupe1980/sphkmeans/corpus"
	"github.com/hupe1980/sphkmeans/internal/config"
	"github.com/hupe1980/sphkmeans/resource"
	"github.com/hupe1980/sphkmeans/sparse"
)

func run(ctx context.Context, stdout, stderr io.Writer, cfg *config.Config, p params, jsonOutput bool) error {
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	logger := newLogger(stderr, cfg.Logging.Format, level)

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:    cfg.Resources.MemoryLimitMiB << 20,
		MaxConcurrentTrials: cfg.ConcurrentTrials(),
		IOLimitBytesPerSec:  cfg.Resources.IOLimitMiBPerSec << 20,
	})
	st := newStorage(cfg, rc)

	m, docIDs, err := readMatrix(ctx, st, p.input)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "corpus loaded", "docs", m.Rows(), "dims", m.Cols(), "nnz", m.NNZ())

	classes, err := readClasses(ctx, st, p.classes, docIDs, cfg.Clustering.TrueK)
	if err != nil {
		return err
	}

	metrics := &sphkmeans.BasicMetricsCollector{}
	opts := []sphkmeans.Option{
		sphkmeans.WithTrials(p.trials),
		sphkmeans.WithParallelism(cfg.Clustering.Parallelism),
		sphkmeans.WithMatVecParallelism(cfg.Clustering.MatVecParallelism),
		sphkmeans.WithTolerance(cfg.Clustering.Tolerance),
		sphkmeans.WithMaxIterations(cfg.Clustering.MaxIterations),
		sphkmeans.WithGroundTruth(classes.IDs, cfg.Clustering.TrueK),
		sphkmeans.WithMetricsCollector(metrics),
		sphkmeans.WithLogger(logger),
		sphkmeans.WithResourceController(rc),
	}
	if len(cfg.Clustering.Seeds) > 0 {
		opts = append(opts, sphkmeans.WithSeeds(cfg.Clustering.Seeds...))
	}

	start := time.Now()
	res, err := sphkmeans.Run(ctx, m, p.k, opts...)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	err = st.create(ctx, p.output, func(w io.Writer) error {
		return corpus.WriteAssignment(w, docIDs, res.Assignment)
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		c, ok := codec.ByName(cfg.Output.Codec)
		if !ok {
			return fmt.Errorf("unknown codec %q", cfg.Output.Codec)
		}
		return codec.Write(stdout, c, newReport(res, classes, metrics, elapsed))
	}
	return printSummary(stdout, res, classes, metrics, elapsed)
}

func newLogger(w io.Writer, format string, level slog.Level) *sphkmeans.Logger {
	if format == "json" {
		return sphkmeans.NewJSONLogger(w, level)
	}
	return sphkmeans.NewTextLogger(w, level)
}

func readMatrix(ctx context.Context, st *storage, path string) (*sparse.Matrix, []int, error) {
	r, err := st.open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	m, docIDs, err := corpus.ReadMatrix(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	return m, docIDs, nil
}

func readClasses(ctx context.Context, st *storage, path string, docIDs []int, trueK int) (*corpus.Classes, error) {
	r, err := st.open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	classes, err := corpus.ReadClasses(r, docIDs, trueK)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return classes, nil
}
