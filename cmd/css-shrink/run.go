package main

import (
	"fmt"

	"github.com/Orange-OpenSource/angular-css-shrink/internal/cache"
	"github.com/Orange-OpenSource/angular-css-shrink/internal/log"
	"github.com/Orange-OpenSource/angular-css-shrink/internal/pipeline"
	"github.com/Orange-OpenSource/angular-css-shrink/internal/report"
	"github.com/Orange-OpenSource/angular-css-shrink/internal/shrink"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// defaultOutputDir is where Angular builds land
const defaultOutputDir = "dist"

// runFlags holds the flags for the run command
type runFlags struct {
	optionFlags
	debug       bool
	debugDir    string
	workers     int
	include     []string
	exclude     []string
	cacheDir    string
	clearCache  bool
	dryRun      bool
	report      string
	metricsFile string
}

func newRunCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run [dir]",
		Short: "Shrink every stylesheet of a build output directory",
		Long: `Collect candidate class names from every script of the build output and
rewrite each stylesheet without the rules none of them match.

Stylesheets that fail to parse are left untouched and reported.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := defaultOutputDir
			if len(args) == 1 {
				dir = args[0]
			}
			return runShrink(cmd, dir, &flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "Write intermediate artifacts (joined scripts, class list, original stylesheets)")
	cmd.Flags().StringVar(&flags.debugDir, "debug-dir", ".", "Directory for debug artifacts")
	cmd.Flags().IntVarP(&flags.workers, "workers", "j", 0, "Stylesheets filtered in parallel (default: number of CPUs)")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "Only process assets matching these globs")
	cmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "Skip assets matching these globs (default: **/*.map)")
	cmd.Flags().StringVar(&flags.cacheDir, "cache-dir", "", "Cache filtered stylesheets in this directory")
	cmd.Flags().BoolVar(&flags.clearCache, "clear-cache", false, "Drop every cached result before the run")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Report results without rewriting stylesheets")
	cmd.Flags().StringVar(&flags.report, "report", "text", "Report format: text, json, markdown, none")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")

	return cmd
}

func runShrink(cmd *cobra.Command, dir string, flags *runFlags) error {
	cfg, err := flags.load(cmd)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("debug") {
		cfg.Debug = flags.debug
	}
	if f.Changed("debug-dir") || cfg.DebugDir == "" {
		cfg.DebugDir = flags.debugDir
	}
	if f.Changed("workers") {
		cfg.Workers = flags.workers
	}
	if f.Changed("include") {
		cfg.Include = flags.include
	}
	if f.Changed("exclude") {
		cfg.Exclude = flags.exclude
	}
	if cfg.Exclude == nil {
		cfg.Exclude = pipeline.DefaultExclude
	}
	if f.Changed("cache-dir") {
		cfg.CacheDir = flags.cacheDir
	}

	opts, err := shrink.NewOptions(cfg.Settings())
	if err != nil {
		return err
	}

	store, err := pipeline.NewDirStore(dir, cfg.Include, cfg.Exclude)
	if err != nil {
		return err
	}

	log.Debug("Reading assets from %s", store.Root())

	resultCache, err := cache.New(cfg.CacheDir, cache.DefaultTTL)
	if err != nil {
		return err
	}
	if flags.clearCache {
		if err := resultCache.Clear(); err != nil {
			return err
		}
		log.Info("Cleared cache %s", cfg.CacheDir)
	}

	var metrics *pipeline.Metrics
	if flags.metricsFile != "" {
		metrics = pipeline.NewMetrics()
	}

	summary, err := pipeline.New(store, pipeline.Config{
		Options:  opts,
		Debug:    cfg.Debug,
		DebugDir: cfg.DebugDir,
		Workers:  cfg.Workers,
		DryRun:   flags.dryRun,
		Cache:    resultCache,
		Metrics:  metrics,
	}).Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("shrink %s: %w", dir, err)
	}
	log.Info("%s", summary)
	if summary.Errors.HasErrors() {
		log.Warn("%d assets could not be processed", summary.Errors.Len())
	}

	if err := report.Write(cmd.OutOrStdout(), summary, report.ParseFormat(flags.report), !color.NoColor); err != nil {
		return err
	}

	if metrics != nil {
		if err := metrics.WriteTextfile(flags.metricsFile); err != nil {
			return err
		}
	}
	return nil
}
