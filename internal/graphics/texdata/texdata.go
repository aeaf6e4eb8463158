// Package texdata resolves texture URIs into RGBA pixels ready for upload.
package texdata

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxSize is the largest edge, in pixels, of a decoded texture. Larger
// images are scaled down keeping their aspect ratio.
const MaxSize = 2048

var ErrBadURI = errors.New("bad texture uri")

// Read returns the raw bytes behind uri: a data: URI, a file:// URI or a plain path.
func Read(uri string) ([]byte, error) {
	switch {
	case strings.HasPrefix(uri, "data:"):
		return readDataURI(uri)
	case strings.HasPrefix(uri, "file://"):
		u, err := url.Parse(uri)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadURI, err)
		}
		return os.ReadFile(u.Path)
	case uri == "":
		return nil, fmt.Errorf("%w: empty", ErrBadURI)
	default:
		return os.ReadFile(uri)
	}
}

func readDataURI(uri string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("%w: data uri without payload", ErrBadURI)
	}
	if strings.HasSuffix(meta, ";base64") {
		payload = strings.Join(strings.Fields(payload), "")
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			b, err = base64.RawStdEncoding.DecodeString(payload)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadURI, err)
		}
		return b, nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadURI, err)
	}
	return []byte(s), nil
}

// Decode reads and decodes the image behind uri. PNG, JPEG, GIF and WebP are supported.
func Decode(uri string) (*image.RGBA, error) {
	data, err := Read(uri)
	if err != nil {
		return nil, err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("decode %s image: empty bounds", format)
	}
	return ToRGBA(img, MaxSize), nil
}

// ToRGBA converts img to tightly packed RGBA, scaling it to fit within max
// pixels on each edge when needed.
func ToRGBA(img image.Image, max int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	scaled := false
	if max > 0 && (w > max || h > max) {
		if w >= h {
			h = maxInt(1, h*max/w)
			w = max
		} else {
			w = maxInt(1, w*max/h)
			h = max
		}
		scaled = true
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if scaled {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	} else {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	}
	return dst
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
