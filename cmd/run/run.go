package run

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/mejor-tasa/tasas/cmd/env"
	"github.com/mejor-tasa/tasas/config"
	"github.com/mejor-tasa/tasas/fetch"
	"github.com/mejor-tasa/tasas/parser"
	"github.com/mejor-tasa/tasas/pipeline"
	"github.com/mejor-tasa/tasas/snapshot/fs"
)

// Cfg wraps the run configuration
type Cfg struct {
	Config *config.Config

	configPath string
}

// NewRunCmd creates the run subcommand
func NewRunCmd() *ffcli.Command {
	cfg := &Cfg{
		Config: config.DefaultConfig(),
	}

	flagSet := flag.NewFlagSet("run", flag.ExitOnError)
	cfg.RegisterFlags(flagSet)

	return &ffcli.Command{
		Name:       "run",
		ShortUsage: "run [flags]",
		LongHelp:   "Executes a single extraction and ranking pass over all banks",
		FlagSet:    flagSet,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

// RegisterFlags registers the flags shared by run and watch
func (c *Cfg) RegisterFlags(flagSet *flag.FlagSet) {
	flagSet.StringVar(
		&c.configPath,
		"config",
		"",
		"the path to the pipeline TOML configuration, if any",
	)

	flagSet.StringVar(
		&c.Config.OutputDir,
		"output",
		config.DefaultOutputDir,
		"the directory for offer and ranking snapshots",
	)

	flagSet.BoolVar(
		&c.Config.UseFixtures,
		"fixtures",
		false,
		"read local documents instead of fetching from bank sites",
	)

	flagSet.StringVar(
		&c.Config.FixturesDir,
		"fixtures-dir",
		config.DefaultFixturesDir,
		"the directory holding pre-downloaded bank documents",
	)
}

// Load finalizes the configuration, reading the TOML config if given
func (c *Cfg) Load() error {
	if c.configPath != "" {
		cfg, err := config.Read(c.configPath)
		if err != nil {
			return fmt.Errorf("unable to read pipeline config, %w", err)
		}

		c.Config = cfg
	}

	return config.ValidateConfig(c.Config)
}

// BuildPipeline wires the parsers, fetcher and snapshot store
func BuildPipeline(cfg *config.Config, logger *slog.Logger) *pipeline.Pipeline {
	fetcher := fetch.NewClient(
		fetch.WithLogger(logger),
		fetch.WithRetries(cfg.FetchConfig.Retries),
		fetch.WithTimeout(time.Duration(cfg.FetchConfig.TimeoutSeconds)*time.Second),
		fetch.WithUserAgent(cfg.FetchConfig.UserAgent),
	)

	parsers := parser.All(
		parser.Config{
			FixturesDir: cfg.FixturesDir,
			UseFixtures: cfg.UseFixtures,
		},
		fetcher,
	)

	return pipeline.New(
		parsers,
		fs.NewStore(cfg.OutputDir),
		pipeline.WithLogger(logger),
	)
}

func (c *Cfg) exec(ctx context.Context, _ []string) error {
	if err := c.Load(); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Warn("unable to load .env file")
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancelFn()

	report, err := BuildPipeline(c.Config, logger).Run(runCtx)
	if err != nil {
		return fmt.Errorf("pipeline run failed, %w", err)
	}

	for _, warning := range report.Warnings {
		logger.Warn("extraction warning", "warning", warning)
	}

	logger.Info(
		"snapshots written",
		"dir", c.Config.OutputDir,
		"offers", len(report.Dataset.Offers),
		"scenarios", len(report.Rankings.Scenarios),
	)

	return nil
}
