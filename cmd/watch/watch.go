package watch

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/sync/errgroup"

	"github.com/mejor-tasa/tasas/cmd/env"
	"github.com/mejor-tasa/tasas/cmd/run"
	"github.com/mejor-tasa/tasas/config"
	"github.com/mejor-tasa/tasas/schedule"
)

// watchCfg wraps the watch configuration
type watchCfg struct {
	rootCfg *run.Cfg

	interval string
}

// NewWatchCmd creates the watch subcommand
func NewWatchCmd() *ffcli.Command {
	cfg := &watchCfg{
		rootCfg: &run.Cfg{
			Config: config.DefaultConfig(),
		},
	}

	flagSet := flag.NewFlagSet("watch", flag.ExitOnError)
	cfg.rootCfg.RegisterFlags(flagSet)

	flagSet.StringVar(
		&cfg.interval,
		"interval",
		"",
		"the interval between pipeline runs (overrides the config)",
	)

	return &ffcli.Command{
		Name:       "watch",
		ShortUsage: "watch [flags]",
		LongHelp:   "Runs the extraction pipeline on a recurring schedule",
		FlagSet:    flagSet,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *watchCfg) exec(ctx context.Context, _ []string) error {
	if err := c.rootCfg.Load(); err != nil {
		return err
	}

	// The flag takes precedence over the config file
	if c.interval != "" {
		c.rootCfg.Config.RunInterval = c.interval
	}

	interval, err := config.ParseRunInterval(c.rootCfg.Config)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Warn("unable to load .env file")
	}

	pl := run.BuildPipeline(c.rootCfg.Config, logger)

	scheduler := schedule.New(
		schedule.WithLogger(logger),
	)

	job := schedule.NewJob(
		"rate-update",
		interval,
		func(jobCtx context.Context) error {
			_, runErr := pl.Run(jobCtx)

			return runErr
		},
	)

	if err := scheduler.Register(job); err != nil {
		return fmt.Errorf("unable to register pipeline job, %w", err)
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancelFn()

	group, gCtx := errgroup.WithContext(runCtx)

	group.Go(func() error {
		return scheduler.Start(gCtx)
	})

	return group.Wait()
}
