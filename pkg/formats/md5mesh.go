package formats

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/gjkf/seriousengine/pkg/math"
)

var (
	patternShader = regexp.MustCompile(`^\s*shader\s+"([^"]*)"`)
	patternVertex = regexp.MustCompile(`^\s*vert\s+(\d+)\s*\(\s*` + md5Float + `\s+` + md5Float + `\s*\)\s*(\d+)\s+(\d+)`)
	patternTri    = regexp.MustCompile(`^\s*tri\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)`)
	patternWeight = regexp.MustCompile(`^\s*weight\s+(\d+)\s+(\d+)\s+` + md5Float + `\s*` + md5Vec3)
	patternCount  = regexp.MustCompile(`^\s*(numverts|numtris|numweights)\s+(\d+)`)
)

// MD5Vertex references a run of weights and carries texture coordinates.
type MD5Vertex struct {
	Index       int
	TexCoord    math.Vec2
	StartWeight int
	WeightCount int
}

// MD5Triangle indexes three vertices of the same sub-mesh.
type MD5Triangle struct {
	Index    int
	Vertices [3]int
}

// MD5Weight positions a vertex relative to one joint.
type MD5Weight struct {
	Index    int
	Joint    int
	Bias     float32
	Position math.Vec3
}

// MD5SubMesh is one "mesh { }" block.
type MD5SubMesh struct {
	Shader    string
	Vertices  []MD5Vertex
	Triangles []MD5Triangle
	Weights   []MD5Weight
}

// MD5Mesh is a parsed .md5mesh file.
type MD5Mesh struct {
	Header MD5Header
	Joints []MD5Joint
	Meshes []MD5SubMesh
}

// ParseMD5Mesh parses .md5mesh data from a byte slice.
func ParseMD5Mesh(data []byte) (*MD5Mesh, error) {
	doc, err := splitMD5(data)
	if err != nil {
		return nil, err
	}

	m := &MD5Mesh{Header: doc.Header}
	for _, block := range doc.Blocks {
		switch block.ID {
		case "joints":
			m.Joints = ParseMD5Joints(block.Lines)
		case "mesh":
			sub, err := parseMD5SubMesh(block.Lines)
			if err != nil {
				return nil, fmt.Errorf("mesh %d: %w", len(m.Meshes), err)
			}
			m.Meshes = append(m.Meshes, *sub)
		}
	}

	if len(m.Joints) != m.Header.NumJoints {
		return nil, fmt.Errorf("%w: header declares %d joints, found %d",
			ErrMalformedMD5, m.Header.NumJoints, len(m.Joints))
	}
	if m.Header.NumMeshes > 0 && len(m.Meshes) != m.Header.NumMeshes {
		return nil, fmt.Errorf("%w: header declares %d meshes, found %d",
			ErrMalformedMD5, m.Header.NumMeshes, len(m.Meshes))
	}

	parents := make([]int, len(m.Joints))
	for i, j := range m.Joints {
		parents[i] = j.Parent
	}
	if err := validateMD5Hierarchy(parents); err != nil {
		return nil, err
	}

	return m, nil
}

// ParseMD5MeshFile parses a .md5mesh file from disk.
func ParseMD5MeshFile(path string) (*MD5Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading MD5 mesh file: %w", err)
	}
	return ParseMD5Mesh(data)
}

func parseMD5SubMesh(lines []string) (*MD5SubMesh, error) {
	sub := &MD5SubMesh{}
	counts := map[string]int{}

	for _, line := range lines {
		if m := patternShader.FindStringSubmatch(line); m != nil {
			sub.Shader = m[1]
			continue
		}
		if m := patternVertex.FindStringSubmatch(line); m != nil {
			f := parseFloats(m[2:4])
			sub.Vertices = append(sub.Vertices, MD5Vertex{
				Index:       atoi(m[1]),
				TexCoord:    math.Vec2{X: f[0], Y: f[1]},
				StartWeight: atoi(m[4]),
				WeightCount: atoi(m[5]),
			})
			continue
		}
		if m := patternTri.FindStringSubmatch(line); m != nil {
			sub.Triangles = append(sub.Triangles, MD5Triangle{
				Index:    atoi(m[1]),
				Vertices: [3]int{atoi(m[2]), atoi(m[3]), atoi(m[4])},
			})
			continue
		}
		if m := patternWeight.FindStringSubmatch(line); m != nil {
			f := parseFloats(m[3:7])
			sub.Weights = append(sub.Weights, MD5Weight{
				Index:    atoi(m[1]),
				Joint:    atoi(m[2]),
				Bias:     f[0],
				Position: math.Vec3{X: f[1], Y: f[2], Z: f[3]},
			})
			continue
		}
		if m := patternCount.FindStringSubmatch(line); m != nil {
			counts[m[1]] = atoi(m[2])
		}
	}

	if err := checkCount("numverts", counts, len(sub.Vertices)); err != nil {
		return nil, err
	}
	if err := checkCount("numtris", counts, len(sub.Triangles)); err != nil {
		return nil, err
	}
	if err := checkCount("numweights", counts, len(sub.Weights)); err != nil {
		return nil, err
	}
	return sub, nil
}

func checkCount(key string, counts map[string]int, got int) error {
	want, ok := counts[key]
	if ok && want != got {
		return fmt.Errorf("%w: %s is %d, found %d", ErrMalformedMD5, key, want, got)
	}
	return nil
}

// atoi converts a capture already validated as \d+.
func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
