package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootCmd is the harness's entry point: lfseq-harness [n_numbers]
// [n_readers] [n_writers] [mode]. Every argument is optional and falls
// back to its viper-bound default, so LFSEQ_NUMBERS=... style env vars
// work exactly as the positional args do; no config file is read.
var RootCmd = &cobra.Command{
	Use:   "lfseq-harness [n_numbers] [n_readers] [n_writers] [mode]",
	Short: "drive lfseq's concurrency disciplines from the command line",
	Long: `lfseq-harness pushes and drains one of lfseq's Sequence disciplines
under concurrent writers and readers, then reports whether the converged
snapshot matches what every writer actually pushed.

mode selects the discipline under test: flip, hazard, paged, or map.`,
	Args: cobra.MaximumNArgs(4),
	RunE: runHarness,
}

func init() {
	viper.SetEnvPrefix("lfseq")
	viper.AutomaticEnv()

	RootCmd.Flags().Int("numbers", 1_000_000, "total elements pushed across all writers")
	RootCmd.Flags().Int("readers", 4, "number of concurrent reader goroutines")
	RootCmd.Flags().Int("writers", 4, "number of concurrent writer goroutines")
	RootCmd.Flags().String("mode", "flip", "discipline to exercise: flip, hazard, paged, map")
	RootCmd.Flags().String("log-level", "info", "debug, info, warn, or error")

	_ = viper.BindPFlags(RootCmd.Flags())
}

// Execute runs RootCmd. Called from main.main; on inconsistency detected
// by the run, or on any other error, the process exits non-zero.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runHarness(cmd *cobra.Command, args []string) error {
	cfg := runConfig{
		numbers: viper.GetInt("numbers"),
		readers: viper.GetInt("readers"),
		writers: viper.GetInt("writers"),
		mode:    viper.GetString("mode"),
	}
	if err := applyPositional(&cfg, args); err != nil {
		return err
	}
	if cfg.writers < 1 {
		return fmt.Errorf("writers must be at least 1, got %d", cfg.writers)
	}

	log := newLogger(viper.GetString("log-level"))
	res := run(log, cfg)

	if res.consistent {
		log.Infof("OK: drained %d elements, all writer counts matched", res.drained)
		return nil
	}
	log.Errorf("INCONSISTENT: pushed %d, drained %d", res.pushed, res.drained)
	for _, msg := range res.byWriterErr {
		log.Errorf("%s", msg)
	}
	return fmt.Errorf("inconsistent run")
}

// applyPositional overlays the [n_numbers] [n_readers] [n_writers] [mode]
// positional form onto cfg, letting either style — flags or bare
// arguments — drive the same run.
func applyPositional(cfg *runConfig, args []string) error {
	setters := []func(string) error{
		func(s string) error { return setInt(&cfg.numbers, s) },
		func(s string) error { return setInt(&cfg.readers, s) },
		func(s string) error { return setInt(&cfg.writers, s) },
		func(s string) error { cfg.mode = s; return nil },
	}
	for i, a := range args {
		if err := setters[i](a); err != nil {
			return fmt.Errorf("argument %d (%q): %w", i+1, a, err)
		}
	}
	return nil
}

func setInt(dst *int, s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
