package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/mdtasks/pkg/model"
)

func newParseCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "parse <file>",
		Aliases: []string{"list"},
		Short:   "List the tasks found in a document",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			defer a.flushMetrics()

			tasks, err := a.parseFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Parsed %d tasks from %s\n", len(tasks), args[0])
			printTasks(a.stdout, tasks)
			return nil
		},
	}
}

func printTasks(w io.Writer, tasks []model.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found")
		return
	}
	for i, t := range tasks {
		fmt.Fprintf(w, "%d. %s\n", i+1, t.Title)
		if t.HasDescription() {
			fmt.Fprintf(w, "   description: %s\n", t.Description)
		}
		if t.HasDueDate() {
			fmt.Fprintf(w, "   due: %s\n", t.DueString())
		}
	}
}
