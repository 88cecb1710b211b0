package main

import (
	"github.com/gjkf/seriousengine/internal/engine/mesh"
	"github.com/gjkf/seriousengine/internal/engine/scene"
	"github.com/gjkf/seriousengine/pkg/math"
)

const (
	crosshairSize = 12
	compassSize   = 48
	hudMargin     = 16
)

// hud draws a crosshair at the window centre and a compass marker in the
// top-right corner, both in pixel coordinates.
type hud struct {
	crosshair *scene.Item
	compass   *scene.Item
	items     []*scene.Item
}

func newHud(up mesh.Uploader) (*hud, error) {
	cross, err := mesh.New(up, quadData(), &mesh.Material{Colour: math.Vec3{X: 1, Y: 1, Z: 1}})
	if err != nil {
		return nil, err
	}
	compass, err := mesh.New(up, quadData(), &mesh.Material{Colour: math.Vec3{X: 0.8, Y: 0.2, Z: 0.2}})
	if err != nil {
		cross.Destroy()
		return nil, err
	}

	h := &hud{
		crosshair: scene.NewItem(cross),
		compass:   scene.NewItem(compass),
	}
	h.crosshair.Scale = crosshairSize
	h.compass.Scale = compassSize
	h.items = []*scene.Item{h.crosshair, h.compass}
	return h, nil
}

func (h *hud) Items() []*scene.Item {
	return h.items
}

// updateSize lays the items out for a width x height window.
func (h *hud) updateSize(width, height int) {
	w, ht := float32(width), float32(height)
	h.crosshair.SetPosition(w/2, ht/2, 0)
	h.compass.SetPosition(w-hudMargin-compassSize/2, hudMargin+compassSize/2, 0)
}

// pointCompass turns the compass marker against the camera yaw.
func (h *hud) pointCompass(yawDeg float32) {
	h.compass.SetRotationEuler(0, 0, -yawDeg)
}

func (h *hud) Destroy() {
	for _, it := range h.items {
		it.Destroy()
	}
}
