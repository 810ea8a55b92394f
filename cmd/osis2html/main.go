// Command osis2html converts OSIS bibles into linked HTML pages.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"osis2html/convert"
	"osis2html/misc"
	"osis2html/state"
)

const sourceHelp = `
SOURCE:
    OSIS document, one of:
        plain file:               "[path]/kjv.xml"
        zip archive:              "[path]/bibles.zip" (must hold single .xml or .osis document)
        document inside archive:  "[path]/bibles.zip/kjv/kjv.osis.xml"

DESTINATION:
    directory for index page, book pages and stylesheet, created when absent
`

const dumpHelp = `
DESTINATION:
    file to write configuration to, STDOUT when absent

Without --default prints active configuration: built-in defaults with values
from --config file applied on top.
`

func newApp() *cli.Command {
	return &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "converts OSIS bible (XML) into set of linked HTML pages",
		Version:         fmt.Sprintf("%s (%s) : %s", misc.GetVersion(), runtime.Version(), misc.GetGitHash()),
		HideHelpCommand: true,
		Before:          beforeCommand,
		After:           afterCommand,
		OnUsageError:    onUsageError,
		ExitErrHandler:  onExitError,
		CommandNotFound: onCommandNotFound,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log everything and collect debug report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:               "convert",
				Usage:              "Converts OSIS document to HTML pages",
				ArgsUsage:          "SOURCE DESTINATION",
				OnUsageError:       onUsageError,
				Action:             convert.Run,
				CustomHelpTemplate: cli.CommandHelpTemplate + sourceHelp,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "replace existing files in destination"},
				},
			},
			{
				Name:               "dumpconfig",
				Usage:              "Writes default or active configuration (YAML)",
				ArgsUsage:          "[DESTINATION]",
				OnUsageError:       onUsageError,
				Action:             dumpConfig,
				CustomHelpTemplate: cli.CommandHelpTemplate + dumpHelp,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "write built-in configuration"},
				},
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)
	err := newApp().Run(ctx, os.Args)
	stop()

	if err != nil {
		if !errLogged {
			// logger was never configured or is closed already
			fmt.Fprintf(os.Stderr, "%s: %v\n", misc.GetAppName(), err)
		}
		os.Exit(1)
	}
}
