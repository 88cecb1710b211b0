package glbackend

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gjkf/seriousengine/internal/engine/gfx"
)

// UploadTexture uploads an RGBA image with mipmaps and repeat wrapping.
func (d *Device) UploadTexture(img *image.RGBA) (uint32, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 {
		return 0, fmt.Errorf("%w: empty texture", gfx.ErrResourceCreation)
	}

	var texID uint32
	gl.GenTextures(1, &texID)
	if texID == 0 {
		return 0, fmt.Errorf("%w: texture", gfx.ErrResourceCreation)
	}
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, 4)
	if d.anisotropy > 0 {
		gl.TexParameterf(gl.TEXTURE_2D, gl.TEXTURE_MAX_ANISOTROPY, d.anisotropy)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texID, nil
}

// DeleteTexture frees a texture created by UploadTexture.
func (d *Device) DeleteTexture(id uint32) {
	if id != 0 {
		gl.DeleteTextures(1, &id)
	}
}
