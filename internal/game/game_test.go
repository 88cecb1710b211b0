package game

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gjkf/seriousengine/internal/engine/input"
)

type fakeWindow struct {
	vsync   bool
	swaps   int
	resizes int
}

func (w *fakeWindow) SwapBuffers()  { w.swaps++ }
func (w *fakeWindow) HandleResize() { w.resizes++ }
func (w *fakeWindow) VSync() bool   { return w.vsync }

type fakeLogic struct {
	inits, inputs, renders, cleanups int
	updates                          []time.Duration
	initErr, updateErr               error
	stopAfter                        int
	game                             *Game
}

func (l *fakeLogic) Init() error           { l.inits++; return l.initErr }
func (l *fakeLogic) Input(in *input.Input) { l.inputs++ }
func (l *fakeLogic) Cleanup()              { l.cleanups++ }

func (l *fakeLogic) Update(interval time.Duration, in *input.Input) error {
	l.updates = append(l.updates, interval)
	return l.updateErr
}

func (l *fakeLogic) Render() error {
	l.renders++
	if l.stopAfter > 0 && l.renders >= l.stopAfter {
		l.game.Stop()
	}
	return nil
}

func newGame(t *testing.T, cfg Config, win *fakeWindow, logic *fakeLogic) *Game {
	t.Helper()
	g, err := New(cfg, win, input.New(), logic)
	require.NoError(t, err)
	g.poll = func() bool { return false }
	logic.game = g
	return g
}

func TestNewRejectsInvalid(t *testing.T) {
	_, err := New(Config{TargetUPS: 0}, &fakeWindow{}, input.New(), &fakeLogic{})
	assert.Error(t, err)

	_, err = New(Config{TargetUPS: 30}, &fakeWindow{}, nil, &fakeLogic{})
	assert.Error(t, err)
}

func TestFrameFixedUpdates(t *testing.T) {
	tests := []struct {
		name    string
		elapsed []time.Duration
		want    int
	}{
		{"below interval", []time.Duration{10 * time.Millisecond}, 0},
		{"exact interval", []time.Duration{100 * time.Millisecond}, 1},
		{"catch up", []time.Duration{350 * time.Millisecond}, 3},
		{"accumulates", []time.Duration{60 * time.Millisecond, 60 * time.Millisecond, 90 * time.Millisecond}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			win := &fakeWindow{vsync: true}
			logic := &fakeLogic{}
			g := newGame(t, Config{TargetUPS: 10}, win, logic)

			for _, e := range tt.elapsed {
				require.NoError(t, g.Frame(e))
			}

			if len(logic.updates) != tt.want {
				t.Errorf("updates = %d, want %d", len(logic.updates), tt.want)
			}
			for _, iv := range logic.updates {
				assert.Equal(t, 100*time.Millisecond, iv)
			}
			assert.Equal(t, len(tt.elapsed), logic.renders)
			assert.Equal(t, len(tt.elapsed), logic.inputs)
			assert.Equal(t, len(tt.elapsed), win.swaps)
		})
	}
}

func TestFrameQuit(t *testing.T) {
	win := &fakeWindow{}
	logic := &fakeLogic{}
	g := newGame(t, Config{TargetUPS: 30}, win, logic)
	g.running = true
	g.poll = func() bool { return true }

	require.NoError(t, g.Frame(time.Second))
	assert.False(t, g.Running())
	assert.Zero(t, logic.renders)
	assert.Zero(t, win.swaps)
}

func TestFrameResize(t *testing.T) {
	win := &fakeWindow{}
	logic := &fakeLogic{}
	g := newGame(t, Config{TargetUPS: 30}, win, logic)
	g.poll = func() bool {
		g.input.Begin()
		return g.input.Push(input.Event{Type: input.EventWindowResize, Width: 640, Height: 480})
	}

	require.NoError(t, g.Frame(0))
	assert.Equal(t, 1, win.resizes)
}

func TestFrameUpdateError(t *testing.T) {
	logic := &fakeLogic{updateErr: errors.New("boom")}
	g := newGame(t, Config{TargetUPS: 30}, &fakeWindow{}, logic)

	err := g.Frame(time.Second)
	assert.ErrorContains(t, err, "boom")
	assert.Zero(t, logic.renders)
}

func TestRunLifecycle(t *testing.T) {
	win := &fakeWindow{}
	logic := &fakeLogic{stopAfter: 3}
	g := newGame(t, Config{TargetUPS: 30, FPSLimit: 50}, win, logic)

	clock := time.Unix(0, 0)
	g.now = func() time.Time { return clock }
	var slept []time.Duration
	g.sleep = func(d time.Duration) {
		slept = append(slept, d)
		clock = clock.Add(d)
	}

	require.NoError(t, g.Run())

	assert.Equal(t, 1, logic.inits)
	assert.Equal(t, 1, logic.cleanups)
	assert.Equal(t, 3, logic.renders)
	// 20ms frames against a 33ms interval: only the third frame updates.
	assert.Equal(t, Stats{Frames: 3, Updates: 1}, g.Stats())
	// No time passes inside a frame, so every frame sleeps the full budget.
	assert.Equal(t, []time.Duration{20 * time.Millisecond, 20 * time.Millisecond, 20 * time.Millisecond}, slept)
}

func TestRunInitError(t *testing.T) {
	logic := &fakeLogic{initErr: errors.New("no assets")}
	g := newGame(t, Config{TargetUPS: 30}, &fakeWindow{}, logic)

	assert.Error(t, g.Run())
	assert.Zero(t, logic.cleanups)
	assert.Zero(t, logic.renders)
}
