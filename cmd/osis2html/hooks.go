package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"osis2html/config"
	"osis2html/misc"
	"osis2html/state"
)

// errLogged is set once command error went to the configured log.
var errLogged bool

// beforeCommand loads configuration and sets up reporting and logging. It
// runs after command line is parsed.
func beforeCommand(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.NArg() == 0 {
		// help or version, nothing to prepare
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)
	cfgFile := cmd.String("config")

	cfg, err := config.LoadConfiguration(cfgFile)
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	env.Cfg = cfg

	if cmd.Bool("debug") {
		if env.Rpt, err = cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug report: %w", err)
		}
		storeConfig(env.Rpt, cfg, cfgFile)
	}

	if env.Log, err = cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.CaptureStdLog()

	env.Log.Debug("Program started",
		zap.Strings("args", os.Args),
		zap.String("ver", misc.GetVersion()),
		zap.String("runtime", runtime.Version()),
		zap.String("hash", misc.GetGitHash()))
	if cfgFile == "" {
		env.Log.Debug("No configuration file, using defaults")
	}
	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	return ctx, nil
}

// storeConfig puts active configuration into the report under the name of
// the file it came from.
func storeConfig(rpt *config.Report, cfg *config.Config, file string) {
	data, err := config.Dump(cfg)
	if err != nil {
		return
	}
	name := "actual.yaml"
	if file != "" {
		name = filepath.Base(file)
	}
	rpt.StoreData("config/"+name, data)
}

func afterCommand(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))

	// log must be flushed before report picks it up, from here on errors go
	// to stderr
	env.ReleaseStdLog()

	if err := env.Rpt.Close(); err != nil {
		return fmt.Errorf("unable to close debug report: %w", err)
	}
	return nil
}

// onExitError runs while log is still open, so command errors are logged once
// here instead of printed by main.
func onExitError(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)
	if env.Cfg == nil {
		return
	}
	env.Log.Error("Program ended with error", zap.Error(err))
	errLogged = true
}

func onUsageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func onCommandNotFound(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}
