package main

import (
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/mdtasks/pkg/config"
	"github.com/harrisonrobin/mdtasks/pkg/export"
	"github.com/harrisonrobin/mdtasks/pkg/google"
	"github.com/harrisonrobin/mdtasks/pkg/logger"
	"github.com/harrisonrobin/mdtasks/pkg/metrics"
	"github.com/harrisonrobin/mdtasks/pkg/model"
	"github.com/harrisonrobin/mdtasks/pkg/orgmode"
	"github.com/harrisonrobin/mdtasks/pkg/parser"
	"github.com/harrisonrobin/mdtasks/pkg/taskwarrior"
)

// app carries what one command invocation needs.
type app struct {
	cfg     *config.Config
	loc     *time.Location
	log     *slog.Logger
	metrics *metrics.Recorder
	sources *parser.Registry
	stdout  io.Writer
}

func newApp(cmd *cobra.Command, flags *globalFlags) (*app, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.timezone != "" {
		if err := cfg.Set("timezone", flags.timezone); err != nil {
			return nil, err
		}
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if flags.verbose {
		level = slog.LevelDebug
	}

	a := &app{
		cfg:     cfg,
		loc:     loc,
		log:     logger.New(cmd.ErrOrStderr(), level),
		metrics: metrics.New(),
		sources: sourceRegistry(),
		stdout:  cmd.OutOrStdout(),
	}
	return a, nil
}

// sourceRegistry is the default registry plus Org-mode files.
func sourceRegistry() *parser.Registry {
	r := parser.DefaultRegistry()
	r.Register(orgmode.Source{})
	return r
}

// newExportRegistry builds the exporters for one run, bound to loc and the
// configured product id and Taskwarrior project.
func newExportRegistry(cfg *config.Config, loc *time.Location) *export.Registry {
	r := export.DefaultRegistry()
	r.Register(export.ICS, export.NewICSExporter(export.ICSOptions{
		ProdID:   cfg.ProdID,
		Location: loc,
	}))
	taskwarrior.Register(r, taskwarrior.Options{
		Project:  cfg.TaskwarriorProject,
		Tags:     cfg.TaskwarriorTags,
		Location: loc,
	})
	google.Register(r, loc)
	return r
}

func (a *app) exportRegistry() *export.Registry {
	return newExportRegistry(a.cfg, a.loc)
}

func (a *app) environment() export.Environment {
	return export.Environment{
		GOOS:             runtime.GOOS,
		GoogleConfigured: google.Configured(a.cfg.Credentials),
	}
}

// parseFile runs the document parser and records how many tasks came out.
func (a *app) parseFile(path string) ([]model.Task, error) {
	p := parser.New(parser.Options{
		Location:      a.loc,
		Registry:      a.sources,
		Logger:        a.log,
		OnDateDropped: a.metrics.DateDropped,
	})
	tasks, err := p.ParseFile(path)
	if err != nil {
		return nil, err
	}
	a.metrics.TasksParsed(parser.Extension(path), len(tasks))
	a.log.Debug("parsed source", "path", path, "tasks", len(tasks))
	return tasks, nil
}

// flushMetrics writes the metrics file when one is configured. Failures are
// logged, never returned.
func (a *app) flushMetrics() {
	if a.cfg.MetricsFile == "" {
		return
	}
	if err := a.metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
		a.log.Warn("could not write metrics file", "path", a.cfg.MetricsFile, "error", err)
	}
}
