package model

import (
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"go.uber.org/zap"

	"github.com/gjkf/seriousengine/internal/logger"
	"github.com/gjkf/seriousengine/pkg/formats"
	"github.com/gjkf/seriousengine/pkg/math"
)

// decodeWorkers bounds the number of goroutines decoding frames.
const decodeWorkers = 4

// Animation is the playback state of a decoded animation.
type Animation struct {
	Name      string
	FrameRate int

	frames  []AnimatedFrame
	current int
	elapsed float64
}

// NewAnimation wraps decoded frames. An empty frame list yields a single
// identity pose.
func NewAnimation(name string, frames []AnimatedFrame, frameRate int) *Animation {
	if len(frames) == 0 {
		frames = []AnimatedFrame{NewAnimatedFrame()}
	}
	return &Animation{Name: name, FrameRate: frameRate, frames: frames}
}

// CurrentFrame returns the current pose.
func (a *Animation) CurrentFrame() *AnimatedFrame {
	return &a.frames[a.current]
}

// NextFrameData returns the pose after the current one, wrapping around.
func (a *Animation) NextFrameData() *AnimatedFrame {
	return &a.frames[(a.current+1)%len(a.frames)]
}

// NextFrame advances to the next pose, wrapping to 0 after the last.
func (a *Animation) NextFrame() {
	a.current = (a.current + 1) % len(a.frames)
}

// Update advances playback by dt seconds at FrameRate.
func (a *Animation) Update(dt float64) {
	if a.FrameRate <= 0 {
		return
	}
	a.elapsed += dt
	step := 1 / float64(a.FrameRate)
	for a.elapsed >= step {
		a.elapsed -= step
		a.NextFrame()
	}
}

// FrameIndex returns the index of the current pose.
func (a *Animation) FrameIndex() int {
	return a.current
}

// FrameCount returns the number of poses.
func (a *Animation) FrameCount() int {
	return len(a.frames)
}

// DecodeFrames computes the joint matrices of every frame of anim against
// the bind pose in joints. Frames are decoded concurrently and returned in
// frame order.
func DecodeFrames(joints []formats.MD5Joint, anim *formats.MD5Anim) ([]AnimatedFrame, error) {
	total, err := checkAnimation(joints, anim)
	if err != nil {
		return nil, err
	}
	for _, fr := range anim.Frames {
		if len(fr.Data) != total {
			return nil, fmt.Errorf("%w: frame %d has %d components, hierarchy animates %d",
				formats.ErrMalformedMD5, fr.ID, len(fr.Data), total)
		}
	}

	inverseBind := InverseBindMatrices(joints)
	frames := make([]AnimatedFrame, len(anim.Frames))
	if len(frames) == 0 {
		return frames, nil
	}

	start := time.Now()
	pool := worker.NewDynamicWorkerPool(decodeWorkers, len(frames), 1*time.Second)
	var wg sync.WaitGroup
	for i := range anim.Frames {
		wg.Add(1)
		idx := i
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				frames[idx] = decodeFrame(anim, anim.Frames[idx].Data, inverseBind)
				return nil, nil
			},
		})
	}
	wg.Wait()

	logger.Debug("decoded animation",
		zap.Int("frames", len(frames)),
		zap.Int("joints", len(joints)),
		zap.Duration("took", time.Since(start)))
	return frames, nil
}

// checkAnimation validates the hierarchy against the skeleton and returns
// the number of animated components per frame.
func checkAnimation(joints []formats.MD5Joint, anim *formats.MD5Anim) (int, error) {
	if len(joints) > MaxJoints {
		return 0, fmt.Errorf("%w: %d joints exceeds limit %d", formats.ErrMalformedMD5, len(joints), MaxJoints)
	}
	if len(anim.Hierarchy) != len(joints) {
		return 0, fmt.Errorf("%w: hierarchy has %d joints, skeleton has %d",
			formats.ErrMalformedMD5, len(anim.Hierarchy), len(joints))
	}
	if len(anim.BaseFrame) != len(joints) {
		return 0, fmt.Errorf("%w: base frame has %d joints, skeleton has %d",
			formats.ErrMalformedMD5, len(anim.BaseFrame), len(joints))
	}

	cursor := 0
	for i, h := range anim.Hierarchy {
		if i == 0 && h.Parent != -1 {
			return 0, fmt.Errorf("%w: root joint has parent %d", formats.ErrMalformedMD5, h.Parent)
		}
		if h.Parent >= i || h.Parent < -1 {
			return 0, fmt.Errorf("%w: joint %d has invalid parent %d", formats.ErrMalformedMD5, i, h.Parent)
		}
		n := h.AnimatedComponents()
		if n > 0 && h.StartIndex != cursor {
			return 0, fmt.Errorf("%w: joint %q starts at %d, expected %d",
				formats.ErrMalformedMD5, h.Name, h.StartIndex, cursor)
		}
		cursor += n
	}
	return cursor, nil
}

func decodeFrame(anim *formats.MD5Anim, data []float32, inverseBind []math.Mat4) AnimatedFrame {
	f := NewAnimatedFrame()
	cursor := 0
	for i, h := range anim.Hierarchy {
		base := anim.BaseFrame[i]
		pos := base.Position
		orient := base.Orientation

		comps := [formats.MD5FlagCount]*float32{&pos.X, &pos.Y, &pos.Z, &orient.X, &orient.Y, &orient.Z}
		for bit, dst := range comps {
			if h.Flags&(1<<bit) != 0 {
				*dst = data[cursor]
				cursor++
			}
		}
		orient = math.QuatFromMD5(orient.X, orient.Y, orient.Z)

		world := JointMatrix(pos, orient)
		if h.Parent >= 0 {
			world = f.Local[h.Parent].Mul(world)
		}
		f.Local[i] = world
		f.Skin[i] = world.Mul(inverseBind[i])
	}
	return f
}
