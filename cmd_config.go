package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/mdtasks/pkg/config"
)

func newTargetsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List export targets and whether they are available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TARGET\tSTATUS\tDETAILS")
			for _, c := range a.exportRegistry().Capabilities(a.environment()) {
				status, details := "available", c.Description
				if !c.Available {
					status = "unavailable"
					details = c.Description + ": " + c.Reason
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Target, status, details)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "\nSource extensions: %v\n", a.sources.Extensions())
			return nil
		},
	}
}

func newConfigCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		},
	})

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if args[0] == "format" {
				if _, err := newExportRegistry(cfg, time.Local).ParseFormat(args[1]); err != nil {
					return err
				}
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := config.Save(cfg, flags.configPath); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s set to: %s\n", args[0], args[1])
			return nil
		},
	}
	// Values such as "-//Acme//EN" must not be read as flags.
	setCmd.Flags().SetInterspersed(false)
	cmd.AddCommand(setCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flags.configPath
			if path == "" {
				p, err := config.GetConfigPath()
				if err != nil {
					return err
				}
				path = p
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})
	return cmd
}
