// Package main provides a small inspection CLI: it loads a tree
// configuration, builds the component tree and dumps its parameter listing.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nizvoo/jevois/component"
	"github.com/nizvoo/jevois/componentregistry"
	"github.com/nizvoo/jevois/config"
	"github.com/nizvoo/jevois/engine"
	"github.com/nizvoo/jevois/metric"
)

var (
	// Version information (set by build)
	version = "dev"
	commit  = "unknown"
)

func main() {
	flags := parseCommandLineFlags()

	if flags.showVersion {
		fmt.Printf("jevois-inspect %s (%s)\n", version, commit)
		return
	}

	logger := setupLogger(flags.verbose)

	registry := component.NewRegistry()
	if err := componentregistry.Register(registry); err != nil {
		logger.Error("Failed to register component types", "error", err)
		os.Exit(1)
	}

	if flags.listTypes {
		listTypes(registry)
		return
	}

	os.Exit(inspect(logger, registry, flags))
}

// cliFlags holds parsed command-line flags
type cliFlags struct {
	configPath  string
	verbose     bool
	run         bool
	showVersion bool
	listTypes   bool
}

func parseCommandLineFlags() cliFlags {
	var flags cliFlags
	flag.StringVar(&flags.configPath, "config", "jevois.yaml", "Path to the tree configuration")
	flag.BoolVar(&flags.verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&flags.run, "run", false, "Initialize the tree and run it until interrupted")
	flag.BoolVar(&flags.showVersion, "version", false, "Print version and exit")
	flag.BoolVar(&flags.listTypes, "list-types", false, "List registered component types and exit")
	flag.Parse()
	return flags
}

func setupLogger(verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, opts))
	slog.SetDefault(logger)
	return logger
}

func listTypes(registry *component.Registry) {
	for _, name := range registry.ListTypes() {
		schema, err := registry.TypeSchema(name)
		if err != nil {
			continue
		}
		fmt.Println(name)
		for _, p := range schema {
			fmt.Printf("  %-12s %-8s default=%-10q %s\n", p.Name, p.Type, p.Default, p.Description)
		}
	}
}

func inspect(logger *slog.Logger, registry *component.Registry, flags cliFlags) int {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		logger.Error("Failed to load configuration", "path", flags.configPath, "error", err)
		return 1
	}

	metrics := metric.NewRegistry()
	eng, err := engine.New(registry, engine.Dependencies{
		Logger:  logger,
		Metrics: metrics,
	})
	if err != nil {
		logger.Error("Failed to create engine", "error", err)
		return 1
	}

	if err := eng.BuildFromConfig(cfg); err != nil {
		logger.Error("Failed to build component tree", "error", err)
		return 1
	}

	dumpTree(eng.Root(), 0)

	if !flags.run {
		return 0
	}

	if err := eng.Init(); err != nil {
		logger.Error("Failed to initialize component tree", "error", err)
		return 1
	}
	defer func() {
		if err := eng.Shutdown(); err != nil {
			logger.Error("Shutdown incomplete", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := eng.Run(ctx); err != nil {
		logger.Error("Engine failed", "error", err)
		return 1
	}
	return 0
}

// dumpTree prints every component path and its parameter values
func dumpTree(b *component.Base, depth int) {
	fmt.Printf("%*s%s\n", depth*2, "", b.Path())
	for _, cell := range b.Params() {
		fmt.Printf("%*s  %s = %q\n", depth*2, "", cell.Name(), cell.String())
	}
	for _, sub := range b.Subs() {
		dumpTree(sub.Node(), depth+1)
	}
}
