package texdata

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"knotscene/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func checker() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	img.Set(1, 0, color.NRGBA{0, 255, 0, 255})
	img.Set(0, 1, color.NRGBA{0, 0, 255, 255})
	img.Set(1, 1, color.NRGBA{255, 255, 255, 255})
	return img
}

func TestDecodeDefaultParticleTexture(t *testing.T) {
	img, err := Decode(config.ParticleTextureURI)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1, 1), img.Bounds())
	assert.Equal(t, color.RGBA{}, img.RGBAAt(0, 0))
}

func TestDecodeBase64DataURI(t *testing.T) {
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(encodePNG(t, checker()))
	img, err := Decode(uri)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, img.RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, img.RGBAAt(0, 1))
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flare.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, checker()), 0o644))

	for _, uri := range []string{path, "file://" + path} {
		img, err := Decode(uri)
		require.NoError(t, err, uri)
		assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(0, 0))
	}
}

func TestReadPercentEncodedDataURI(t *testing.T) {
	b, err := Read("data:text/plain,hello%20world")
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(b))
}

func TestDecodeErrors(t *testing.T) {
	cases := map[string]string{
		"empty":      "",
		"no comma":   "data:image/png;base64",
		"bad base64": "data:image/png;base64,!!!",
		"not image":  "data:text/plain,hello",
		"missing":    filepath.Join(t.TempDir(), "nope.png"),
	}
	for name, uri := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(uri)
			assert.Error(t, err)
		})
	}

	_, err := Read("data:image/png;base64")
	assert.ErrorIs(t, err, ErrBadURI)
}

func TestToRGBAScalesDown(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 64, 16))
	dst := ToRGBA(src, 32)
	assert.Equal(t, image.Rect(0, 0, 32, 8), dst.Bounds())

	tall := ToRGBA(image.NewNRGBA(image.Rect(0, 0, 4, 100)), 10)
	assert.Equal(t, image.Rect(0, 0, 1, 10), tall.Bounds())

	same := ToRGBA(src, 0)
	assert.Equal(t, image.Rect(0, 0, 64, 16), same.Bounds())
}
