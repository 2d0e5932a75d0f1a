package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/leterax/go-flyview/pkg/asset"
	"github.com/leterax/go-flyview/pkg/config"
	"github.com/leterax/go-flyview/pkg/render"
)

func init() {
	// This is needed to ensure that OpenGL functions are called from the same thread
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "flyview:", err)
		os.Exit(1)
	}
}

func run() error {
	defaults := config.Default()

	// Parse command line flags
	configPath := flag.String("config", "", "Path to a TOML config file")
	model := flag.String("model", defaults.Model, "Binary glTF model to display")
	width := flag.Int("width", defaults.Width, "Window width")
	height := flag.Int("height", defaults.Height, "Window height")
	vsync := flag.Bool("vsync", defaults.VSync, "Synchronize frames with the display refresh")
	logLevel := flag.String("log", defaults.LogLevel, "Log level (debug, info, warn, error)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// Flags given explicitly win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "model":
			cfg.Model = *model
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "vsync":
			cfg.VSync = *vsync
		case "log":
			cfg.LogLevel = *logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := asset.NewLoader(os.DirFS(filepath.Dir(cfg.Model)), logger)

	renderer, err := render.NewRenderer(cfg, loader, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}

	// The frame loop starts right away; the model shows up once it is loaded
	if err := loader.Load(ctx, filepath.ToSlash(filepath.Base(cfg.Model))); err != nil {
		renderer.Cleanup()
		return err
	}

	renderer.Run(ctx)
	return nil
}
