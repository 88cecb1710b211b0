package terrain

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/gjkf/seriousengine/internal/engine/mesh"
	"github.com/gjkf/seriousengine/internal/engine/scene"
	"github.com/gjkf/seriousengine/internal/engine/texture"
	"github.com/gjkf/seriousengine/internal/logger"
	"github.com/gjkf/seriousengine/pkg/math"
)

// Terrain is a square of blocksPerRow² blocks sharing one height-map mesh.
type Terrain struct {
	blocksPerRow int
	heightMap    *HeightMap
	mesh         *mesh.Mesh
	blocks       []*scene.Item // row-major
	boxes        []Rect
}

// New builds the terrain mesh from img and lays out the blocks centred on
// the origin, each scaled by scale.
func New(up mesh.Uploader, blocksPerRow int, scale, minY, maxY float32, img image.Image, tex *texture.Texture, textInc int) (*Terrain, error) {
	if blocksPerRow < 1 {
		return nil, fmt.Errorf("%w: %d blocks per row", ErrInvalidHeightMap, blocksPerRow)
	}
	hm, err := NewHeightMap(img, minY, maxY)
	if err != nil {
		return nil, err
	}
	m, err := mesh.New(up, hm.MeshData(textInc), mesh.NewMaterial(tex, 0))
	if err != nil {
		return nil, fmt.Errorf("building terrain mesh: %w", err)
	}

	t := &Terrain{
		blocksPerRow: blocksPerRow,
		heightMap:    hm,
		mesh:         m,
	}
	half := float32(blocksPerRow-1) / 2
	for row := 0; row < blocksPerRow; row++ {
		for col := 0; col < blocksPerRow; col++ {
			block := scene.NewItem(m)
			block.Scale = scale
			block.SetPosition(
				(float32(col)-half)*scale*xLength,
				0,
				(float32(row)-half)*scale*zLength)
			t.blocks = append(t.blocks, block)
			t.boxes = append(t.boxes, boundingBox(block))
		}
	}

	logger.Debug("terrain built",
		zap.Int("blocks", len(t.blocks)),
		zap.Int("width", hm.Width),
		zap.Int("height", hm.Height),
	)
	return t, nil
}

func boundingBox(block *scene.Item) Rect {
	return Rect{
		X:     startX*block.Scale + block.Position.X,
		Z:     startZ*block.Scale + block.Position.Z,
		Width: xLength * block.Scale,
		Depth: zLength * block.Scale,
	}
}

// Items returns the terrain blocks for the scene.
func (t *Terrain) Items() []*scene.Item {
	return t.blocks
}

// Mesh returns the shared block mesh.
func (t *Terrain) Mesh() *mesh.Mesh {
	return t.mesh
}

// HeightMap returns the sampled heights.
func (t *Terrain) HeightMap() *HeightMap {
	return t.heightMap
}

// Height returns the terrain height below pos, or NoHeight when pos lies
// outside every block. The first block containing pos wins.
func (t *Terrain) Height(pos math.Vec3) float32 {
	for i, box := range t.boxes {
		if box.Contains(pos.X, pos.Z) {
			a, b, c := t.triangle(pos, box, t.blocks[i])
			return interpolateHeight(a, b, c, pos.X, pos.Z)
		}
	}
	return NoHeight
}

// triangle returns the mesh triangle of block under pos. The cell is split
// along the diagonal from (col, row+1) to (col+1, row).
func (t *Terrain) triangle(pos math.Vec3, box Rect, block *scene.Item) (math.Vec3, math.Vec3, math.Vec3) {
	cols := t.heightMap.Width - 1
	rows := t.heightMap.Height - 1
	cellWidth := box.Width / float32(cols)
	cellDepth := box.Depth / float32(rows)
	col := clampi(int((pos.X-box.X)/cellWidth), 0, cols-1)
	row := clampi(int((pos.Z-box.Z)/cellDepth), 0, rows-1)

	vertex := func(r, c int) math.Vec3 {
		return math.Vec3{
			X: box.X + float32(c)*cellWidth,
			Y: t.worldHeight(r, c, block),
			Z: box.Z + float32(r)*cellDepth,
		}
	}

	b := vertex(row+1, col)
	c := vertex(row, col+1)
	if pos.Z < diagonalZ(b.X, b.Z, c.X, c.Z, pos.X) {
		return vertex(row, col), b, c
	}
	return vertex(row+1, col+1), b, c
}

func (t *Terrain) worldHeight(row, col int, block *scene.Item) float32 {
	return t.heightMap.At(row, col)*block.Scale + block.Position.Y
}

// Destroy frees the shared mesh.
func (t *Terrain) Destroy() {
	t.mesh.Destroy()
}

func diagonalZ(x1, z1, x2, z2, x float32) float32 {
	return ((z1-z2)/(x1-x2))*(x-x1) + z1
}

// interpolateHeight solves the plane through a, b, c for y at (x, z).
func interpolateHeight(a, b, c math.Vec3, x, z float32) float32 {
	pa := (b.Y-a.Y)*(c.Z-a.Z) - (c.Y-a.Y)*(b.Z-a.Z)
	pb := (b.Z-a.Z)*(c.X-a.X) - (c.Z-a.Z)*(b.X-a.X)
	pc := (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
	pd := -(pa*a.X + pb*a.Y + pc*a.Z)
	return (-pd - pa*x - pc*z) / pb
}

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
