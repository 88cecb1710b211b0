// Package texture provides image decoding and texture handle management.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "github.com/ftrvxmtrx/tga"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"

	"github.com/gjkf/seriousengine/internal/logger"
)

// ErrDecode is returned when image data cannot be decoded.
var ErrDecode = errors.New("texture decode failed")

// Uploader creates and frees GPU textures from decoded pixels.
type Uploader interface {
	UploadTexture(img *image.RGBA) (uint32, error)
	DeleteTexture(id uint32)
}

// Texture is a GPU texture, optionally laid out as an atlas of
// NumCols x NumRows equally sized frames.
type Texture struct {
	ID      uint32
	Width   int
	Height  int
	NumRows int
	NumCols int

	up        Uploader
	destroyed bool
}

// Decode decodes PNG, JPEG, BMP or TGA data into an RGBA image.
func Decode(data []byte) (*image.RGBA, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	logger.Debug("decoded image",
		zap.String("format", format),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))
	return ToRGBA(img), nil
}

// ToRGBA converts any image.Image to *image.RGBA with origin (0,0).
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// New uploads img as a single-frame texture.
func New(up Uploader, img *image.RGBA) (*Texture, error) {
	return NewAtlas(up, img, 1, 1)
}

// NewAtlas uploads img as an atlas of numCols x numRows frames.
func NewAtlas(up Uploader, img *image.RGBA, numCols, numRows int) (*Texture, error) {
	if numCols < 1 || numRows < 1 {
		return nil, fmt.Errorf("invalid atlas layout %dx%d", numCols, numRows)
	}
	id, err := up.UploadTexture(img)
	if err != nil {
		return nil, fmt.Errorf("uploading texture: %w", err)
	}
	return &Texture{
		ID:      id,
		Width:   img.Bounds().Dx(),
		Height:  img.Bounds().Dy(),
		NumCols: numCols,
		NumRows: numRows,
		up:      up,
	}, nil
}

// Load decodes encoded image data and uploads it.
func Load(up Uploader, data []byte, numCols, numRows int) (*Texture, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return NewAtlas(up, img, numCols, numRows)
}

// LoadFile reads and uploads an image file.
func LoadFile(up Uploader, path string, numCols, numRows int) (*Texture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture %s: %w", path, err)
	}
	return Load(up, data, numCols, numRows)
}

// Frames returns the number of atlas frames.
func (t *Texture) Frames() int {
	return t.NumCols * t.NumRows
}

// AtlasOffset returns the texture coordinate offset of frame pos.
func (t *Texture) AtlasOffset(pos int) (x, y float32) {
	if t.NumCols <= 1 && t.NumRows <= 1 {
		return 0, 0
	}
	col := pos % t.NumCols
	row := pos / t.NumCols
	return float32(col) / float32(t.NumCols), float32(row) / float32(t.NumRows)
}

// Destroy frees the GPU texture. Further calls are no-ops.
func (t *Texture) Destroy() {
	if t == nil || t.destroyed {
		return
	}
	t.destroyed = true
	if t.up != nil {
		t.up.DeleteTexture(t.ID)
	}
}
