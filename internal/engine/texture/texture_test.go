package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	nextID  uint32
	deleted []uint32
}

func (f *fakeUploader) UploadTexture(img *image.RGBA) (uint32, error) {
	f.nextID++
	return f.nextID, nil
}

func (f *fakeUploader) DeleteTexture(id uint32) {
	f.deleted = append(f.deleted, id)
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(1, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodePNG(t *testing.T) {
	img, err := Decode(encodePNG(t, 4, 2))
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(1, 0))
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode([]byte("not an image"))
	if !errors.Is(err, ErrDecode) {
		t.Errorf("Decode() error = %v, want ErrDecode", err)
	}
}

func TestToRGBAOffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(2, 3, 6, 5))
	src.Set(2, 3, color.RGBA{G: 255, A: 255})
	got := ToRGBA(src)
	assert.Equal(t, image.Rect(0, 0, 4, 2), got.Bounds())
	assert.Equal(t, color.RGBA{G: 255, A: 255}, got.RGBAAt(0, 0))
}

func TestAtlasOffset(t *testing.T) {
	tex := &Texture{NumCols: 4, NumRows: 2}
	tests := []struct {
		pos          int
		wantX, wantY float32
	}{
		{0, 0, 0},
		{1, 0.25, 0},
		{3, 0.75, 0},
		{4, 0, 0.5},
		{7, 0.75, 0.5},
	}
	for _, tt := range tests {
		x, y := tex.AtlasOffset(tt.pos)
		if x != tt.wantX || y != tt.wantY {
			t.Errorf("AtlasOffset(%d) = (%v, %v), want (%v, %v)", tt.pos, x, y, tt.wantX, tt.wantY)
		}
	}
	if got := tex.Frames(); got != 8 {
		t.Errorf("Frames() = %d, want 8", got)
	}
}

func TestAtlasOffsetSingleFrame(t *testing.T) {
	tex := &Texture{NumCols: 1, NumRows: 1}
	x, y := tex.AtlasOffset(5)
	assert.Zero(t, x)
	assert.Zero(t, y)
}

func TestLoadAndDestroyOnce(t *testing.T) {
	up := &fakeUploader{}
	tex, err := Load(up, encodePNG(t, 8, 8), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), tex.ID)
	assert.Equal(t, 8, tex.Width)
	assert.Equal(t, 4, tex.Frames())

	tex.Destroy()
	tex.Destroy()
	assert.Equal(t, []uint32{1}, up.deleted)
}

func TestNewAtlasInvalidLayout(t *testing.T) {
	_, err := NewAtlas(&fakeUploader{}, image.NewRGBA(image.Rect(0, 0, 1, 1)), 0, 1)
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grass.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, 4, 4), 0644))

	up := &fakeUploader{}
	tex, err := LoadFile(up, path, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, tex.Height)

	_, err = LoadFile(up, filepath.Join(t.TempDir(), "missing.png"), 1, 1)
	assert.Error(t, err)
}
