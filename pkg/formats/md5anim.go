package formats

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/gjkf/seriousengine/pkg/math"
)

// Flag bits of an MD5 hierarchy entry, in the order their floats appear
// in a frame.
const (
	MD5FlagPosX = 1 << iota
	MD5FlagPosY
	MD5FlagPosZ
	MD5FlagOrientX
	MD5FlagOrientY
	MD5FlagOrientZ

	MD5FlagCount = 6
)

var patternHierarchy = regexp.MustCompile(`^\s*"([^"]+)"\s+(-?\d+)\s+(\d+)\s+(\d+)`)

// MD5HierarchyEntry describes which components of a joint each frame
// overrides and where its floats start.
type MD5HierarchyEntry struct {
	Name       string
	Parent     int
	Flags      int
	StartIndex int
}

// AnimatedComponents returns the number of set flag bits.
func (e MD5HierarchyEntry) AnimatedComponents() int {
	n := 0
	for bit := 0; bit < MD5FlagCount; bit++ {
		if e.Flags&(1<<bit) != 0 {
			n++
		}
	}
	return n
}

// MD5Bound is a per-frame axis aligned bounding box.
type MD5Bound struct {
	Min, Max math.Vec3
}

// MD5BaseFrameEntry is the default joint pose used for components a frame
// does not override.
type MD5BaseFrameEntry struct {
	Position    math.Vec3
	Orientation math.Quat
}

// MD5Frame is the flat float stream of one "frame N { }" block.
type MD5Frame struct {
	ID   int
	Data []float32
}

// MD5Anim is a parsed .md5anim file.
type MD5Anim struct {
	Header    MD5Header
	Hierarchy []MD5HierarchyEntry
	Bounds    []MD5Bound
	BaseFrame []MD5BaseFrameEntry
	Frames    []MD5Frame
}

// ParseMD5Anim parses .md5anim data from a byte slice.
func ParseMD5Anim(data []byte) (*MD5Anim, error) {
	doc, err := splitMD5(data)
	if err != nil {
		return nil, err
	}

	a := &MD5Anim{Header: doc.Header}
	for _, block := range doc.Blocks {
		switch {
		case block.ID == "hierarchy":
			a.Hierarchy = parseMD5Hierarchy(block.Lines)
		case block.ID == "bounds":
			a.Bounds = parseMD5Bounds(block.Lines)
		case block.ID == "baseframe":
			a.BaseFrame = parseMD5BaseFrame(block.Lines)
		case strings.HasPrefix(block.ID, "frame "):
			frame, err := parseMD5Frame(block.ID, block.Lines)
			if err != nil {
				return nil, err
			}
			a.Frames = append(a.Frames, frame)
		}
	}

	if err := a.validate(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(a.Frames, func(x, y MD5Frame) int { return x.ID - y.ID })
	return a, nil
}

// ParseMD5AnimFile parses a .md5anim file from disk.
func ParseMD5AnimFile(path string) (*MD5Anim, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading MD5 anim file: %w", err)
	}
	return ParseMD5Anim(data)
}

func (a *MD5Anim) validate() error {
	h := a.Header
	if len(a.Hierarchy) != h.NumJoints {
		return fmt.Errorf("%w: header declares %d joints, hierarchy has %d",
			ErrMalformedMD5, h.NumJoints, len(a.Hierarchy))
	}
	if len(a.BaseFrame) != h.NumJoints {
		return fmt.Errorf("%w: header declares %d joints, base frame has %d",
			ErrMalformedMD5, h.NumJoints, len(a.BaseFrame))
	}
	if len(a.Frames) != h.NumFrames {
		return fmt.Errorf("%w: header declares %d frames, found %d",
			ErrMalformedMD5, h.NumFrames, len(a.Frames))
	}

	parents := make([]int, len(a.Hierarchy))
	for i, e := range a.Hierarchy {
		parents[i] = e.Parent
	}
	if err := validateMD5Hierarchy(parents); err != nil {
		return err
	}

	for _, f := range a.Frames {
		if len(f.Data) != h.NumAnimatedComponents {
			return fmt.Errorf("%w: frame %d has %d components, header declares %d",
				ErrMalformedMD5, f.ID, len(f.Data), h.NumAnimatedComponents)
		}
	}
	return nil
}

func parseMD5Hierarchy(lines []string) []MD5HierarchyEntry {
	var entries []MD5HierarchyEntry
	for _, line := range lines {
		m := patternHierarchy.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		parent, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		entries = append(entries, MD5HierarchyEntry{
			Name:       m[1],
			Parent:     parent,
			Flags:      atoi(m[3]),
			StartIndex: atoi(m[4]),
		})
	}
	return entries
}

func parseMD5Bounds(lines []string) []MD5Bound {
	var bounds []MD5Bound
	for _, line := range lines {
		m := patternVec3x2.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		f := parseFloats(m[1:7])
		bounds = append(bounds, MD5Bound{
			Min: math.Vec3{X: f[0], Y: f[1], Z: f[2]},
			Max: math.Vec3{X: f[3], Y: f[4], Z: f[5]},
		})
	}
	return bounds
}

func parseMD5BaseFrame(lines []string) []MD5BaseFrameEntry {
	var entries []MD5BaseFrameEntry
	for _, line := range lines {
		m := patternVec3x2.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		f := parseFloats(m[1:7])
		entries = append(entries, MD5BaseFrameEntry{
			Position:    math.Vec3{X: f[0], Y: f[1], Z: f[2]},
			Orientation: math.QuatFromMD5(f[3], f[4], f[5]),
		})
	}
	return entries
}

func parseMD5Frame(blockID string, lines []string) (MD5Frame, error) {
	fields := strings.Fields(blockID)
	if len(fields) < 2 {
		return MD5Frame{}, fmt.Errorf("%w: wrong frame definition %q", ErrMalformedMD5, blockID)
	}
	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return MD5Frame{}, fmt.Errorf("%w: wrong frame definition %q", ErrMalformedMD5, blockID)
	}

	frame := MD5Frame{ID: id}
	for _, line := range lines {
		for _, tok := range strings.Fields(line) {
			if strings.HasPrefix(tok, "//") {
				break
			}
			v, err := strconv.ParseFloat(tok, 32)
			if err != nil {
				return MD5Frame{}, fmt.Errorf("%w: frame %d: %v", ErrMalformedMD5, id, err)
			}
			frame.Data = append(frame.Data, float32(v))
		}
	}
	return frame, nil
}
