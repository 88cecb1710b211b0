// Package game implements the engine main loop.
package game

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gjkf/seriousengine/internal/engine/input"
	"github.com/gjkf/seriousengine/internal/logger"
)

// Logic is the application driven by the loop.
type Logic interface {
	// Init is called once before the first frame.
	Init() error

	// Input is called every frame with the polled input state.
	Input(in *input.Input)

	// Update is called at the fixed logic rate with the update interval.
	Update(interval time.Duration, in *input.Input) error

	// Render is called every frame to draw the scene.
	Render() error

	// Cleanup is called once when the loop ends.
	Cleanup()
}

// Window is the presentation surface used by the loop.
type Window interface {
	SwapBuffers()
	HandleResize()
	VSync() bool
}

// Config holds loop timing settings.
type Config struct {
	TargetUPS int // fixed logic updates per second
	FPSLimit  int // frame cap when vsync is off, 0 disables it
}

// Stats counts loop iterations.
type Stats struct {
	Frames  int
	Updates int
}

// Game runs the fixed-step loop around a Logic.
type Game struct {
	config  Config
	running bool
	window  Window
	input   *input.Input
	logic   Logic

	// poll, now and sleep are swapped in tests.
	poll  func() bool
	now   func() time.Time
	sleep func(time.Duration)

	interval    time.Duration
	accumulator time.Duration
	stats       Stats
}

// New creates a loop driving logic. cfg.TargetUPS must be positive.
func New(cfg Config, win Window, in *input.Input, logic Logic) (*Game, error) {
	if cfg.TargetUPS <= 0 {
		return nil, fmt.Errorf("target ups must be positive, got %d", cfg.TargetUPS)
	}
	if win == nil || in == nil || logic == nil {
		return nil, errors.New("game: window, input and logic are required")
	}

	return &Game{
		config:   cfg,
		window:   win,
		input:    in,
		logic:    logic,
		poll:     in.Update,
		now:      time.Now,
		sleep:    time.Sleep,
		interval: time.Second / time.Duration(cfg.TargetUPS),
	}, nil
}

// Run initializes the logic and loops until quit is requested.
// Cleanup always runs once Init has succeeded.
func (g *Game) Run() error {
	if err := g.logic.Init(); err != nil {
		return fmt.Errorf("initializing: %w", err)
	}
	defer g.logic.Cleanup()

	g.running = true
	logger.Info("starting game loop",
		zap.Int("target_ups", g.config.TargetUPS),
		zap.Bool("vsync", g.window.VSync()))

	last := g.now()
	fpsTimer := last
	frameCount := 0

	for g.running {
		start := g.now()
		elapsed := start.Sub(last)
		last = start

		if err := g.Frame(elapsed); err != nil {
			return err
		}

		if !g.window.VSync() {
			g.limit(start)
		}

		// FPS counter
		frameCount++
		if g.now().Sub(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount), zap.Duration("frame", elapsed))
			frameCount = 0
			fpsTimer = g.now()
		}
	}

	logger.Info("game loop stopped",
		zap.Int("frames", g.stats.Frames),
		zap.Int("updates", g.stats.Updates))
	return nil
}

// Frame runs one loop iteration after elapsed wall time: input, as many
// fixed updates as have accumulated, then render and present.
func (g *Game) Frame(elapsed time.Duration) error {
	if g.poll() {
		g.running = false
		return nil
	}
	if _, ok := g.input.Resized(); ok {
		g.window.HandleResize()
	}

	g.logic.Input(g.input)

	g.accumulator += elapsed
	for g.accumulator >= g.interval {
		if err := g.logic.Update(g.interval, g.input); err != nil {
			return fmt.Errorf("update error: %w", err)
		}
		g.accumulator -= g.interval
		g.stats.Updates++
	}

	if err := g.logic.Render(); err != nil {
		return fmt.Errorf("render error: %w", err)
	}
	g.window.SwapBuffers()
	g.stats.Frames++
	return nil
}

// limit sleeps out the rest of the frame budget.
func (g *Game) limit(start time.Time) {
	if g.config.FPSLimit <= 0 {
		return
	}
	budget := time.Second / time.Duration(g.config.FPSLimit)
	if spent := g.now().Sub(start); spent < budget {
		g.sleep(budget - spent)
	}
}

// Stop ends the loop after the current frame.
func (g *Game) Stop() {
	g.running = false
}

// Running reports whether the loop is active.
func (g *Game) Running() bool {
	return g.running
}

// Stats returns the loop counters.
func (g *Game) Stats() Stats {
	return g.stats
}
