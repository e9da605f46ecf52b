package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/mdtasks/pkg/export"
	"github.com/harrisonrobin/mdtasks/pkg/parser"
)

var version = "dev"

// Exit codes let scripts tell failure kinds apart.
const (
	exitOK = iota
	exitError
	exitSourceUnreadable
	exitUnsupportedSource
	exitNoTasks
	exitSinkWrite
	exitUnknownFormat
	exitNotImplemented
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	timezone   string
	verbose    bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return exitOK
	}
	if errors.Is(err, export.ErrNotImplemented) {
		fmt.Fprintln(stderr, "Notice:", err)
	} else {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return exitCode(err)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "mdtasks",
		Short: "Extract numbered tasks from documents and export them",
		Long: `mdtasks reads numbered task lines such as

  1. Buy milk // remember the oat kind 2024/11/22-3pm

from Markdown, text and Word documents and exports them as CSV, JSON,
iCalendar, YAML, Taskwarrior import JSON or Google API resources.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/mdtasks/config.json)")
	root.PersistentFlags().StringVar(&flags.timezone, "timezone", "", "IANA timezone due dates are written in (overrides config)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newParseCmd(flags))
	root.AddCommand(newExportCmd(flags))
	root.AddCommand(newTargetsCmd(flags))
	root.AddCommand(newConfigCmd(flags))
	return root
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, export.ErrNotImplemented):
		return exitNotImplemented
	case errors.Is(err, parser.ErrSourceNotFound), errors.Is(err, parser.ErrSourceUnreadable):
		return exitSourceUnreadable
	case errors.Is(err, parser.ErrUnsupportedFormat):
		return exitUnsupportedSource
	case errors.Is(err, export.ErrNoTasks):
		return exitNoTasks
	case errors.Is(err, export.ErrSinkWrite):
		return exitSinkWrite
	case errors.Is(err, export.ErrUnknownFormat):
		return exitUnknownFormat
	}
	return exitError
}
