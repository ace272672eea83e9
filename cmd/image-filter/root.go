package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	imagefilter "github.com/menta2k/image-filter"
	"github.com/menta2k/image-filter/internal/config"
	"github.com/menta2k/image-filter/internal/store"
	"github.com/menta2k/image-filter/pkg/pipeline"
	"github.com/menta2k/image-filter/pkg/processing"
)

var (
	// cfg is the effective configuration after file loading and flag overrides
	cfg *config.Config
	// DB is the optional blob sink shared by subcommands
	DB blobStore

	configPath string
	dbURL      string
	workers    int
)

var rootCmd = &cobra.Command{
	Use:          "image-filter",
	Short:        "Apply brightness, colour styles, cosmetic filters and face slimming to photos",
	Version:      imagefilter.Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// glog reads its flags from the Go flag set cobra already filled
		_ = flag.CommandLine.Parse(nil)
		pipeline.SetLogger(newGlogLogger())

		var err error
		cfg, err = loadConfig()
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("workers") {
			cfg.Processing.Workers = workers
		}
		if dbURL == "" {
			dbURL = os.Getenv("IMAGE_FILTER_DB")
		}
		if dbURL != "" {
			cfg.Store.DSN = dbURL
		}
		return nil
	},
}

// blobStore is the part of store.Store the commands use.
type blobStore interface {
	imagefilter.Sink
	Close(ctx context.Context)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes the command line and closes the store whether or not the
// command succeeded.
func run(ctx context.Context, args []string) error {
	defer glog.Flush()
	defer closeStore()

	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func closeStore() {
	if DB == nil {
		return
	}
	// the command context may already be cancelled
	DB.Close(context.Background())
	DB = nil
}

// openStore connects to the configured database.
func openStore(ctx context.Context) (*store.Store, error) {
	if cfg.Store.DSN == "" {
		return nil, fmt.Errorf("no database configured (use --db, IMAGE_FILTER_DB or store.dsn)")
	}
	s, err := store.New(ctx, cfg.Store.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	DB = s
	return s, nil
}

func init() {
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file, JSON or YAML (default: "+config.GetConfigPath()+" when present)")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "PostgreSQL connection string for storing outputs (env IMAGE_FILTER_DB)")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 1, "goroutines per filter stage")
}

// loadConfig reads the explicit config file, or the default one when it
// exists, and falls back to built-in defaults otherwise.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		if _, err := os.Stat(config.GetConfigPath()); err != nil {
			glog.V(1).Infof("no config file, using defaults")
			return config.Default(), nil
		}
		path = config.GetConfigPath()
	}

	c, err := config.LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("loaded config from %s", path)
	return c, nil
}

// newFilter builds the facade from the effective configuration and opens
// the store when a DSN is configured.
func newFilter(ctx context.Context) (*imagefilter.ImageFilter, error) {
	procCfg := processing.DefaultConfig()
	procCfg.SupportedFormats = cfg.Processing.SupportedFormats
	procCfg.MinImageSize = cfg.Processing.MinImageSize
	procCfg.MaxDimension = cfg.Processing.MaxDimension
	if cfg.Processing.TimeoutSeconds > 0 {
		procCfg.Timeout = time.Duration(cfg.Processing.TimeoutSeconds) * time.Second
	}

	f := imagefilter.NewWithConfig(procCfg, pipeline.WithWorkers(cfg.Processing.Workers))

	if cfg.Store.DSN != "" {
		s, err := openStore(ctx)
		if err != nil {
			return nil, err
		}
		f.SetSink(s)
		glog.Infof("storing outputs in PostgreSQL")
	}
	return f, nil
}
