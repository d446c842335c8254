package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/sphkmeans/internal/config"
)

type rootFlags struct {
	configPath string
	trueK      int
	parallel   int
	logLevel   string
	logFormat  string
	jsonOutput bool
}

// params holds the positional arguments.
type params struct {
	input   string
	classes string
	k       int
	trials  int
	output  string
}

func newRootCommand() *cobra.Command {
	var flags rootFlags

	rootCmd := &cobra.Command{
		Use:           "sphkmeans <input-file> <class-file> <#clusters> <#trials> <output-file>",
		Short:         "Spherical k-means clustering of sparse documents",
		Args:          cobra.ExactArgs(5),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseParams(args)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd, &flags)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, p, flags.jsonOutput)
		},
	}

	rootCmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Configuration file path")
	rootCmd.Flags().IntVar(&flags.trueK, "true-k", 20, "Maximum number of distinct classes")
	rootCmd.Flags().IntVarP(&flags.parallel, "parallel", "p", 1, "Number of trials to run concurrently")
	rootCmd.Flags().StringVar(&flags.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&flags.logFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "Print the run report as JSON")

	return rootCmd
}

func parseParams(args []string) (params, error) {
	k, err := strconv.Atoi(args[2])
	if err != nil {
		return params{}, fmt.Errorf("invalid #clusters %q: %w", args[2], err)
	}
	trials, err := strconv.Atoi(args[3])
	if err != nil {
		return params{}, fmt.Errorf("invalid #trials %q: %w", args[3], err)
	}
	return params{
		input:   args[0],
		classes: args[1],
		k:       k,
		trials:  trials,
		output:  args[4],
	}, nil
}

// loadConfig reads the config file and applies the flags that were set on
// the command line on top of it.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("true-k") {
		cfg.Clustering.TrueK = flags.trueK
	}
	if changed("parallel") {
		cfg.Clustering.Parallelism = flags.parallel
	}
	if changed("log-level") {
		cfg.Logging.Level = strings.ToLower(flags.logLevel)
	}
	if changed("log-format") {
		cfg.Logging.Format = strings.ToLower(flags.logFormat)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
