// Package formats provides parsers for engine asset file formats.
// MD5 (id Tech 4) shared text parsing: header, blocks and joints.
package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gjkf/seriousengine/pkg/math"
)

// MD5 format errors.
var (
	ErrMalformedMD5 = errors.New("malformed MD5 data")
	ErrMD5NoHeader  = fmt.Errorf("%w: cannot find header", ErrMalformedMD5)
	ErrMD5Empty     = fmt.Errorf("%w: empty file", ErrMalformedMD5)
)

const md5Float = `([+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`

const md5Vec3 = `\(\s*` + md5Float + `\s+` + md5Float + `\s+` + md5Float + `\s*\)`

var (
	patternJoint  = regexp.MustCompile(`^\s*"([^"]+)"\s*(-?\d+)\s*` + md5Vec3 + `\s*` + md5Vec3 + `.*$`)
	patternVec3x2 = regexp.MustCompile(`^\s*` + md5Vec3 + `\s*` + md5Vec3 + `.*$`)
)

// MD5Header holds the key/value lines preceding the first block.
// Mesh files fill NumJoints/NumMeshes, animation files the frame fields.
type MD5Header struct {
	Version               int
	CommandLine           string
	NumJoints             int
	NumMeshes             int
	NumFrames             int
	FrameRate             int
	NumAnimatedComponents int
}

// MD5Joint is a skeleton joint in bind pose. Parent is -1 for the root.
type MD5Joint struct {
	Name        string
	Parent      int
	Position    math.Vec3
	Orientation math.Quat
}

// md5Block is a brace-delimited section of an MD5 file.
type md5Block struct {
	ID    string
	Lines []string
}

// md5Document is a split MD5 file: header lines plus ordered blocks.
type md5Document struct {
	Header MD5Header
	Blocks []md5Block
}

// ParseMD5Joints parses joint lines of the form
// `"name" parent ( px py pz ) ( qx qy qz )`. Lines that do not match
// (comments, braces) are skipped.
func ParseMD5Joints(lines []string) []MD5Joint {
	joints := make([]MD5Joint, 0, len(lines))
	for _, line := range lines {
		m := patternJoint.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		parent, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		f := parseFloats(m[3:9])
		joints = append(joints, MD5Joint{
			Name:        m[1],
			Parent:      parent,
			Position:    math.Vec3{X: f[0], Y: f[1], Z: f[2]},
			Orientation: math.QuatFromMD5(f[3], f[4], f[5]),
		})
	}
	return joints
}

// splitMD5 splits raw MD5 text into its header and blocks.
// The header ends at the first line whose trimmed text ends with "{".
func splitMD5(data []byte) (*md5Document, error) {
	lines := readLines(data)
	if len(lines) == 0 {
		return nil, ErrMD5Empty
	}

	start := -1
	for i, line := range lines {
		if strings.HasSuffix(strings.TrimSpace(line), "{") {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, ErrMD5NoHeader
	}

	header, err := parseMD5Header(lines[:start])
	if err != nil {
		return nil, err
	}
	doc := &md5Document{Header: header}

	inBlock := false
	blockStart := 0
	blockID := ""
	for i := start; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], " \t")
		switch {
		case strings.HasSuffix(line, "{"):
			blockStart = i
			blockID = md5BlockID(line)
			inBlock = true
		case inBlock && strings.HasSuffix(line, "}"):
			doc.Blocks = append(doc.Blocks, md5Block{ID: blockID, Lines: lines[blockStart+1 : i]})
			inBlock = false
		}
	}
	if inBlock {
		return nil, fmt.Errorf("%w: unterminated block %q", ErrMalformedMD5, blockID)
	}

	return doc, nil
}

// md5BlockID returns the text before the last space of a block opener,
// e.g. "frame 12" for "frame 12 {".
func md5BlockID(line string) string {
	line = strings.TrimSpace(line)
	if i := strings.LastIndex(line, " "); i >= 0 {
		return strings.TrimSpace(line[:i])
	}
	return strings.TrimSuffix(line, "{")
}

func parseMD5Header(lines []string) (MD5Header, error) {
	var h MD5Header
	if len(lines) == 0 {
		return h, ErrMD5NoHeader
	}

	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		key, value := fields[0], fields[1]

		var dst *int
		switch key {
		case "MD5Version":
			dst = &h.Version
		case "commandline":
			h.CommandLine = strings.Trim(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), key)), `"`)
		case "numJoints":
			dst = &h.NumJoints
		case "numMeshes":
			dst = &h.NumMeshes
		case "numFrames":
			dst = &h.NumFrames
		case "frameRate":
			dst = &h.FrameRate
		case "numAnimatedComponents":
			dst = &h.NumAnimatedComponents
		}
		if dst == nil {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return h, fmt.Errorf("%w: header %s: %v", ErrMalformedMD5, key, err)
		}
		*dst = n
	}
	return h, nil
}

// validateMD5Hierarchy checks that the first joint is the root and every
// parent index refers to an earlier joint.
func validateMD5Hierarchy(parents []int) error {
	for i, p := range parents {
		if i == 0 && p != -1 {
			return fmt.Errorf("%w: root joint has parent %d", ErrMalformedMD5, p)
		}
		if p >= i || p < -1 {
			return fmt.Errorf("%w: joint %d has invalid parent %d", ErrMalformedMD5, i, p)
		}
	}
	return nil
}

func readLines(data []byte) []string {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}

// parseFloats converts regexp captures already validated by md5Float.
func parseFloats(s []string) []float32 {
	out := make([]float32, len(s))
	for i, v := range s {
		f, _ := strconv.ParseFloat(v, 32)
		out[i] = float32(f)
	}
	return out
}
