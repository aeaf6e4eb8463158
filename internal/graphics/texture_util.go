package graphics

import (
	"fmt"
	"image"

	"knotscene/internal/graphics/texdata"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// LoadTextureURI decodes the image behind uri and uploads it as a 2D texture
func LoadTextureURI(uri string) (uint32, int, int, error) {
	rgba, err := texdata.Decode(uri)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("load texture: %w", err)
	}
	tex := UploadRGBA(rgba, gl.LINEAR)
	return tex, rgba.Rect.Dx(), rgba.Rect.Dy(), nil
}

// UploadRGBA creates a clamped, mipmap-free texture from rgba
func UploadRGBA(rgba *image.RGBA, filter int32) uint32 {
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(rgba.Rect.Size().X),
		int32(rgba.Rect.Size().Y),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(rgba.Pix),
	)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texture
}
