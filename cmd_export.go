package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/mdtasks/pkg/export"
	"github.com/harrisonrobin/mdtasks/pkg/google"
	"github.com/harrisonrobin/mdtasks/pkg/metrics"
	"github.com/harrisonrobin/mdtasks/pkg/model"
)

const stdoutPath = "-"

func newExportCmd(flags *globalFlags) *cobra.Command {
	var (
		format, output string
		project        string
		tags           []string
	)

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export the tasks found in a document",
		Long: `Export the tasks found in a document.

File formats: csv, json, ics, yaml, taskwarrior, gcal, gtasks.
Without --output the file is written to tasks.<ext> in the working
directory; --output - writes to stdout.

The google, apple and microsoft targets name app integrations that are
not implemented; they exit with a notice.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			defer a.flushMetrics()

			if cmd.Flags().Changed("project") {
				a.cfg.TaskwarriorProject = project
			}
			if cmd.Flags().Changed("tag") {
				a.cfg.TaskwarriorTags = tags
			}
			exporters := a.exportRegistry()

			if format == "" {
				format = a.cfg.Format
			}
			f, err := exporters.ParseFormat(format)
			if err != nil {
				return err
			}

			tasks, err := a.parseFile(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = a.cfg.Output
			}

			n, dest, err := a.export(cmd, exporters, f, tasks, output)
			switch {
			case errors.Is(err, export.ErrNotImplemented):
				a.metrics.Export(string(f), metrics.StatusNotImplemented, 0)
				return err
			case err != nil:
				a.metrics.Export(string(f), metrics.StatusError, 0)
				return err
			}
			a.metrics.Export(string(f), metrics.StatusSuccess, n)
			a.log.Info("export finished", "format", f, "tasks", len(tasks), "bytes", n, "output", dest)
			if dest != stdoutPath {
				fmt.Fprintf(a.stdout, "Exported %d tasks to %s\n", len(tasks), dest)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Export format or target (default from config, csv)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, - for stdout (default tasks.<ext>)")
	cmd.Flags().StringVar(&project, "project", "", "Taskwarrior project for the taskwarrior format (default from config)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Taskwarrior tag for the taskwarrior format, repeatable (default from config)")
	return cmd
}

// export writes tasks in format f using exporters and returns the byte count
// and where they went.
func (a *app) export(cmd *cobra.Command, exporters *export.Registry, f export.Format, tasks []model.Task, output string) (int, string, error) {
	if len(tasks) == 0 {
		return 0, "", export.ErrNoTasks
	}

	if f == export.Google {
		pub, err := google.NewPublisher(a.cfg.Credentials)
		if err != nil {
			return 0, "", fmt.Errorf("%w: %s: %v", export.ErrNotImplemented, f, err)
		}
		a.log.Debug("google credentials loaded", "client_id", pub.ClientID())
		return 0, "", pub.Publish(cmd.Context(), tasks)
	}

	e, err := exporters.Lookup(f)
	if err != nil {
		return 0, "", err
	}

	if output == stdoutPath {
		n, err := exporters.Write(a.stdout, f, tasks)
		return n, stdoutPath, err
	}
	if output == "" {
		output = "tasks." + e.Extension()
		fmt.Fprintf(a.stdout, "No output file given, using %s\n", output)
	}
	n, err := exporters.WriteFile(output, f, tasks)
	return n, output, err
}
