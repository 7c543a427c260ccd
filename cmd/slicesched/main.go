package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := cli.App{
		Name:      "slicesched",
		HelpName:  "slicesched",
		Usage:     "Run a workload through the cooperative time-slice scheduler.",
		UsageText: "slicesched <command> [arguments...]",
		Commands: []cli.Command{
			{
				Name:    "run",
				Aliases: []string{"r"},
				Usage:   "simulates the workload described by a config file",
				Action:  run,
				Flags: []cli.Flag{
					cli.StringFlag{
						Name:  "config, c",
						Value: "config.yml",
						Usage: "YAML config with frame interval and workload",
					},
					cli.StringFlag{
						Name:  "csv",
						Usage: "write every scheduler event to this CSV file",
					},
					cli.StringFlag{
						Name:  "log-level",
						Value: "info",
						Usage: "debug, info, warn or error",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}
