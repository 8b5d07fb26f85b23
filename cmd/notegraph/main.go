package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/ritzau/notegraph/pkg/analysis"
	"github.com/ritzau/notegraph/pkg/config"
	"github.com/ritzau/notegraph/pkg/logging"
	"github.com/ritzau/notegraph/pkg/output"
	"github.com/ritzau/notegraph/pkg/vault"
	"github.com/ritzau/notegraph/pkg/view"
	"github.com/ritzau/notegraph/pkg/watcher"
	"github.com/ritzau/notegraph/pkg/web"
)

func main() {
	// Parse command-line flags
	f := pflag.NewFlagSet("notegraph", pflag.ExitOnError)
	f.String("config", config.DefaultFile, "Path to the config file")
	f.String("vault", ".", "Path to the vault root")
	f.Bool("web", false, "Start web server instead of printing to console")
	f.Int("port", 8080, "Port for web server (only used with --web)")
	f.Bool("watch", false, "Rescan the vault when files change (only used with --web)")
	f.Bool("open", true, "Open the browser when the web server starts")
	f.String("verbosity", "", "Log level: trace, debug, info, warn, error")
	f.CountP("verbose", "v", "Increase log verbosity (-v debug, -vv trace)")
	f.Bool("json-logs", false, "Write logs as JSON")
	f.Int("max-nodes", 5000, "Largest graph that is displayed")
	f.StringSlice("exclude", nil, "Vault path prefixes to leave out of the graph")
	f.Int("workers", 0, "Notes parsed in parallel (0 = number of CPUs)")
	f.String("center", "", "Show the local graph of this note instead of the global graph")
	f.Int("depth", 1, "Local graph depth")
	f.String("link-type", "both", "Local graph link direction: both, inlinks, outlinks")
	f.Bool("show-orphans", true, "Show notes without links")
	f.Bool("show-attachments", false, "Show non-markdown files")
	f.String("query", "", "Only show notes matching this search")
	f.String("dag", "null", "DAG layout: td, bu, lr, rl, zout, zin, radialout, radialin, null")
	f.Parse(os.Args[1:])

	cfg, err := config.Load(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level, _ := cfg.LogLevel() // Validated by Load
	if cfg.WebMode {
		logging.Configure(os.Stdout, level, cfg.JSONLogs)
	} else {
		// Keep stdout for the report
		logging.Configure(os.Stderr, level, cfg.JSONLogs)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scanner := vault.NewScanner(vault.Options{
		Root:     cfg.Vault,
		Excluded: cfg.Exclude,
		Workers:  cfg.Workers,
	})

	if cfg.WebMode {
		if err := runWebServer(ctx, cfg, scanner); err != nil {
			logging.Fatal("web server failed", "error", err)
		}
		return
	}

	if err := runReport(ctx, cfg, scanner); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runReport(ctx context.Context, cfg *config.Config, scanner *vault.Scanner) error {
	runner := analysis.NewAnalysisRunner(scanner, nil)
	if _, err := runner.Run(ctx, analysis.AnalysisOptions{Reason: "report"}); err != nil {
		return err
	}
	state := runner.State()

	settings := cfg.FilterSettings()
	result := view.RunSearch(state.Engine, settings.SearchQuery)

	derived := view.Global(state.Graph, settings.FilterSettings, result)
	if cfg.Center != "" {
		if state.Graph.NodeByPath(cfg.Center) == nil {
			return fmt.Errorf("note not found: %s", cfg.Center)
		}
		derived = view.Local(state.Graph, cfg.Center, settings, result)
	}
	limited, tooLarge := view.ApplyNodeLimit(derived, cfg.MaxNodes)

	dag, _ := view.ParseDagOrientation(cfg.Dag) // Validated by Load

	vaultPath, err := filepath.Abs(cfg.Vault)
	if err != nil {
		vaultPath = cfg.Vault
	}

	output.PrintGraphReport(os.Stdout, output.Report{
		Vault:    vaultPath,
		Snapshot: state.Snapshot,
		Base:     state.Graph,
		View:     limited,
		Center:   cfg.Center,
		Settings: settings,
		TooLarge: tooLarge,
		Dag:      dag,
	})
	return nil
}

func runWebServer(ctx context.Context, cfg *config.Config, scanner *vault.Scanner) error {
	server := web.NewServer(web.Options{
		MaxNodes: cfg.MaxNodes,
		Defaults: cfg.FilterSettings(),
	})
	runner := analysis.NewAnalysisRunner(scanner, server.Publisher())
	server.SetSource(runner)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(ctx, cfg.Port)
	}()

	// Scan in the background, the API answers 503 until the first scan is done
	go func() {
		if _, err := runner.Run(ctx, analysis.AnalysisOptions{Reason: "initial scan"}); err != nil {
			logging.Error("initial scan failed", "error", err)
			return
		}

		if cfg.Watch {
			if err := startWatching(ctx, cfg, runner); err != nil {
				logging.Error("failed to start file watcher", "error", err)
			}
		}
	}()

	url := fmt.Sprintf("http://localhost:%d/api/graph", cfg.Port)
	if cfg.OpenBrowser {
		// Wait a moment for server to start
		time.Sleep(500 * time.Millisecond)
		openBrowser(url)
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logging.Info("shutting down")
		return <-errCh
	}
}

func startWatching(ctx context.Context, cfg *config.Config, runner *analysis.AnalysisRunner) error {
	fw, err := watcher.NewFileWatcher(cfg.Vault, cfg.Exclude)
	if err != nil {
		return err
	}
	if err := fw.Start(ctx); err != nil {
		return err
	}

	debouncer := watcher.NewDebouncer(fw.Events(), 300*time.Millisecond, 2*time.Second)
	debouncer.Start(ctx)

	go runner.Watch(ctx, debouncer.Output())
	return nil
}

func openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "linux":
		cmd = "xdg-open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		logging.Warn("cannot open browser on this platform", "os", runtime.GOOS)
		return
	}

	if err := exec.Command(cmd, args...).Start(); err != nil {
		logging.Warn("failed to open browser", "error", err)
	}
}
