package main

import (
	"context"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"osis2html/config"
	"osis2html/state"
)

// dumpConfig writes configuration as YAML to file or standard output.
func dumpConfig(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	args := cmd.Args().Slice()
	if len(args) > 1 {
		env.Log.Warn("Too many destinations, extra ignored", zap.Strings("ignoring", args[1:]))
	}

	kind := "actual"
	var data []byte
	if cmd.Bool("default") {
		kind = "default"
		data, err = config.Prepare()
	} else {
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get %s configuration: %w", kind, err)
	}

	var (
		out  io.Writer = cmd.Root().Writer
		dest           = "STDOUT"
	)
	if len(args) > 0 {
		f, ferr := os.Create(args[0])
		if ferr != nil {
			return fmt.Errorf("unable to create destination file: %w", ferr)
		}
		defer func() {
			err = multierr.Append(err, f.Close())
		}()
		out, dest = f, args[0]
	}

	env.Log.Info("Writing configuration", zap.String("state", kind), zap.String("file", dest))
	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
