package main

import (
	"fmt"
	"os"
	"time"

	"github.com/monopole/shsession"
	"github.com/monopole/shsession/channeler"
	"github.com/urfave/cli/v2"
)

// main runs each argument as one command in a single persistent shell,
// printing the captured output per command.  The process exits with
// the last command's exit status.
func main() {
	app := &cli.App{
		Name: "shsession",
		Usage: "run commands through one persistent shell, " +
			"capturing each command's output and exit status",
		ArgsUsage: "command [command ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "shell",
				Usage: "The shell to run, e.g. /bin/sh or ssh.",
				Value: "/bin/sh",
			},
			&cli.StringSliceFlag{
				Name:  "arg",
				Usage: "Argument to the shell invocation, e.g. a host for ssh; repeatable.",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "How long to wait on each blocking read while draining output.",
				Value: 10 * time.Second,
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable detailed logging.",
			},
		},
		Action: runCommands,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCommands(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return cli.Exit("no commands given; see --help", 2)
	}
	if ctx.Bool("verbose") {
		shsession.VerboseLoggingEnable()
	}
	s, err := shsession.NewSession(shsession.Parameters{
		Params: channeler.Params{
			Path: ctx.String("shell"),
			Args: ctx.StringSlice("arg"),
		},
		Timeout: ctx.Duration("timeout"),
	})
	if err != nil {
		return err
	}
	status := 0
	for _, command := range ctx.Args().Slice() {
		r, err := s.Send(command)
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, r.Stdout)
		fmt.Fprint(os.Stderr, r.Stderr)
		status = r.ExitStatus
	}
	if err := s.Close("exit 0"); err != nil {
		return err
	}
	if status != 0 {
		return cli.Exit("", status)
	}
	return nil
}
