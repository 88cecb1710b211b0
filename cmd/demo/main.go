// Package main is the entry point for the engine demo.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/gjkf/seriousengine/internal/config"
	"github.com/gjkf/seriousengine/internal/engine/glbackend"
	"github.com/gjkf/seriousengine/internal/engine/input"
	"github.com/gjkf/seriousengine/internal/engine/window"
	"github.com/gjkf/seriousengine/internal/game"
	"github.com/gjkf/seriousengine/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("=== Serious Engine demo ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if config.SaveRequested() {
		path, err := cfg.Save()
		if err != nil {
			logger.Error("failed to save config", zap.Error(err))
		} else {
			logger.Info("config saved", zap.String("path", path))
		}
	}

	if err := run(cfg); err != nil {
		logger.Error("demo failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("demo closed normally")
	logger.Sync()
}

func run(cfg *config.Config) error {
	win, err := window.New(window.Config{
		Title:      "Serious Engine",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer win.Close()

	// The device needs the GL context created by the window.
	dev, err := glbackend.New(glbackend.Options{Anisotropy: 4})
	if err != nil {
		return err
	}

	d := newDemo(cfg, win, dev)
	g, err := game.New(game.Config{
		TargetUPS: cfg.Graphics.TargetUPS,
		FPSLimit:  cfg.Graphics.FPSLimit,
	}, win, input.New(), d)
	if err != nil {
		return err
	}
	d.stop = g.Stop

	return g.Run()
}
