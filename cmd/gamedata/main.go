// Command gamedata manages a project's data-table pipeline: it turns
// designer-edited CSV files into the XML tables the game loads at runtime,
// either as a one-shot build or continuously while editing.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/playforge/gamecore/datatable"
)

var CLI struct {
	Manifest string `short:"m" help:"Table manifest path" default:"tables.yaml"`
	Verbose  bool   `short:"v" help:"Enable verbose logging"`

	Init struct {
		Force bool `help:"Overwrite an existing manifest"`
	} `cmd:"" help:"Write a starter manifest with one example table"`

	Generate struct{} `cmd:"" help:"Generate XML tables from all CSV sources"`

	Watch struct {
		Debounce time.Duration `help:"Quiet period before regenerating" default:"500ms"`
	} `cmd:"" help:"Watch sources and regenerate on change"`
}

const sampleManifest = `tables:
  - name: items
    source: data/items.csv
    output: gen/items.xml
    columns:
      - {name: id, type: int}
      - {name: title, type: string}
      - {name: price, type: float}
      - {name: stackable, type: bool}
`

func main() {
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "init":
		if err := runInit(CLI.Manifest, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
	case "generate":
		if err := datatable.Generate(CLI.Manifest); err != nil {
			slog.Error("Generation failed", "error", err)
			os.Exit(1)
		}
	case "watch":
		if err := runWatch(CLI.Manifest, CLI.Watch.Debounce); err != nil {
			slog.Error("Watch failed", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Unknown command", "command", ctx.Command())
		os.Exit(1)
	}
}

func runInit(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
	}
	if err := os.WriteFile(path, []byte(sampleManifest), 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	slog.Info("Wrote starter manifest", "path", path)
	return nil
}

func runWatch(manifest string, debounce time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := datatable.NewWatcher(manifest, debounce)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	slog.Info("Shutting down")
	return nil
}
