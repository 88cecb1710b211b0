package terrain

import (
	"fmt"
	"image"
	gomath "math"

	"github.com/gjkf/seriousengine/internal/engine/mesh"
	"github.com/gjkf/seriousengine/pkg/math"
)

// maxColour is the divisor mapping a 24-bit RGB value to [0, ~1].
const maxColour = 255 * 255 * 255

// HeightMap is a grid of heights sampled from an image, one per pixel.
type HeightMap struct {
	MinY, MaxY float32
	Width      int // pixels along X (columns)
	Height     int // pixels along Z (rows)

	heights [][]float32 // [row][col]
}

// NewHeightMap samples img. A pixel's height is
// minY + |maxY-minY| * rgb / 255³ where rgb packs the 8-bit channels.
func NewHeightMap(img image.Image, minY, maxY float32) (*HeightMap, error) {
	b := img.Bounds()
	if b.Dx() < 2 || b.Dy() < 2 {
		return nil, fmt.Errorf("%w: %dx%d pixels", ErrInvalidHeightMap, b.Dx(), b.Dy())
	}

	hm := &HeightMap{
		MinY:    minY,
		MaxY:    maxY,
		Width:   b.Dx(),
		Height:  b.Dy(),
		heights: make([][]float32, b.Dy()),
	}
	span := gomath.Abs(float64(maxY - minY))
	for row := range hm.heights {
		hm.heights[row] = make([]float32, hm.Width)
		for col := range hm.heights[row] {
			r, g, bl, _ := img.At(b.Min.X+col, b.Min.Y+row).RGBA()
			rgb := (r>>8)<<16 | (g>>8)<<8 | bl>>8
			hm.heights[row][col] = minY + float32(span*float64(rgb)/maxColour)
		}
	}
	return hm, nil
}

// At returns the height at row, col, or 0 outside the grid.
func (hm *HeightMap) At(row, col int) float32 {
	if row < 0 || row >= hm.Height || col < 0 || col >= hm.Width {
		return 0
	}
	return hm.heights[row][col]
}

// MeshData builds the unit-sized grid mesh: two triangles per cell, texture
// coordinates repeating textInc times across the map.
func (hm *HeightMap) MeshData(textInc int) *mesh.Data {
	w, h := hm.Width, hm.Height
	incX := float32(xLength) / float32(w-1)
	incZ := float32(zLength) / float32(h-1)

	positions := make([]float32, 0, w*h*3)
	texCoords := make([]float32, 0, w*h*2)
	indices := make([]uint32, 0, (w-1)*(h-1)*6)

	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			positions = append(positions,
				startX+float32(col)*incX,
				hm.heights[row][col],
				startZ+float32(row)*incZ)

			texCoords = append(texCoords,
				float32(textInc)*float32(col)/float32(w),
				float32(textInc)*float32(row)/float32(h))

			if col < w-1 && row < h-1 {
				leftTop := uint32(row*w + col)
				leftBottom := uint32((row+1)*w + col)
				rightBottom := uint32((row+1)*w + col + 1)
				rightTop := uint32(row*w + col + 1)

				indices = append(indices,
					leftTop, leftBottom, rightTop,
					rightTop, leftBottom, rightBottom)
			}
		}
	}

	return mesh.NewStaticData(positions, texCoords, calcNormals(positions, w, h), indices)
}

// calcNormals averages the normals of the four faces around each inner
// vertex. Border vertices point straight up.
func calcNormals(positions []float32, w, h int) []float32 {
	at := func(row, col int) math.Vec3 {
		i := (row*w + col) * 3
		return math.Vec3{X: positions[i], Y: positions[i+1], Z: positions[i+2]}
	}

	normals := make([]float32, 0, w*h*3)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			normal := math.Vec3{Y: 1}
			if row > 0 && row < h-1 && col > 0 && col < w-1 {
				v0 := at(row, col)
				v1 := at(row, col-1).Sub(v0)
				v2 := at(row+1, col).Sub(v0)
				v3 := at(row, col+1).Sub(v0)
				v4 := at(row-1, col).Sub(v0)

				normal = v1.Cross(v2).Normalize().
					Add(v2.Cross(v3).Normalize()).
					Add(v3.Cross(v4).Normalize()).
					Add(v4.Cross(v1).Normalize()).
					Normalize()
			}
			normals = append(normals, normal.X, normal.Y, normal.Z)
		}
	}
	return normals
}
