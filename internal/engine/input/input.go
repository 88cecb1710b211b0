// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/gjkf/seriousengine/pkg/math"
)

// Event types for game use
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseEnter
	EventMouseLeave
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	// DX and DY are the relative motion of a mouse move.
	DX, DY int
	Button uint8
}

// Mouse is the mouse state accumulated over one Update.
type Mouse struct {
	X, Y int
	// Displacement is the frame's motion as rotation input: X holds the
	// vertical motion (pitch), Y the horizontal motion (yaw).
	Displacement math.Vec2
	Left         bool
	Right        bool
	InWindow     bool
}

// Input handles all input processing.
type Input struct {
	events []Event
	held   map[sdl.Scancode]bool
	mouse  Mouse
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		held:   make(map[sdl.Scancode]bool),
		mouse:  Mouse{InWindow: true},
	}
}

// Update polls SDL events and converts them to game events.
// Returns true if the game should quit.
func (i *Input) Update() bool {
	i.Begin()

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if e, ok := translate(event); ok {
			quit = i.Push(e) || quit
		}
	}
	return quit
}

// Begin starts a new frame: clears the event queue and mouse displacement.
func (i *Input) Begin() {
	i.events = i.events[:0]
	i.mouse.Displacement = math.Vec2{}
}

// Push queues e and applies it to the key and mouse state. It returns true
// for a quit event.
func (i *Input) Push(e Event) bool {
	i.events = append(i.events, e)

	switch e.Type {
	case EventQuit:
		return true
	case EventKeyDown:
		i.held[e.Key] = true
	case EventKeyUp:
		delete(i.held, e.Key)
	case EventMouseMove:
		i.mouse.X, i.mouse.Y = e.MouseX, e.MouseY
		if i.mouse.InWindow {
			i.mouse.Displacement.X += float32(e.DY)
			i.mouse.Displacement.Y += float32(e.DX)
		}
	case EventMouseDown, EventMouseUp:
		pressed := e.Type == EventMouseDown
		switch e.Button {
		case sdl.BUTTON_LEFT:
			i.mouse.Left = pressed
		case sdl.BUTTON_RIGHT:
			i.mouse.Right = pressed
		}
	case EventMouseEnter:
		i.mouse.InWindow = true
	case EventMouseLeave:
		i.mouse.InWindow = false
	}
	return false
}

func translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
			return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}, true
		case sdl.WINDOWEVENT_ENTER:
			return Event{Type: EventMouseEnter}, true
		case sdl.WINDOWEVENT_LEAVE:
			return Event{Type: EventMouseLeave}, true
		}

	case *sdl.KeyboardEvent:
		if e.Repeat != 0 {
			return Event{}, false
		}
		if e.Type == sdl.KEYDOWN {
			return Event{Type: EventKeyDown, Key: e.Keysym.Scancode}, true
		}
		return Event{Type: EventKeyUp, Key: e.Keysym.Scancode}, true

	case *sdl.MouseMotionEvent:
		return Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			DX:     int(e.XRel),
			DY:     int(e.YRel),
		}, true

	case *sdl.MouseButtonEvent:
		t := EventMouseUp
		if e.Type == sdl.MOUSEBUTTONDOWN {
			t = EventMouseDown
		}
		return Event{Type: t, MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}, true
	}
	return Event{}, false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// IsKeyDown reports whether a key is currently held.
func (i *Input) IsKeyDown(scancode sdl.Scancode) bool {
	return i.held[scancode]
}

// Mouse returns the mouse state.
func (i *Input) Mouse() Mouse {
	return i.mouse
}

// Resized returns the last resize event of the frame, if any.
func (i *Input) Resized() (Event, bool) {
	for j := len(i.events) - 1; j >= 0; j-- {
		if i.events[j].Type == EventWindowResize {
			return i.events[j], true
		}
	}
	return Event{}, false
}
