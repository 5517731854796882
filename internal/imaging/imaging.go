// Package imaging normalizes uploaded avatar images. Arbitrary JPEG or
// PNG input is decoded, scaled down to a bounded square thumbnail and
// re-encoded as JPEG so every stored avatar has a predictable size and
// format.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"

	"golang.org/x/image/draw"
)

// AvatarSize is the side length of the square avatars are fitted into.
const AvatarSize = 512

const jpegQuality = 85

// ErrUnsupportedFormat is returned when the upload is not a JPEG or PNG,
// as determined by content sniffing rather than the client's declared type.
type ErrUnsupportedFormat struct {
	Detected string
}

func (e *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported avatar format %q (JPEG or PNG required)", e.Detected)
}

// NormalizeAvatar validates the raw upload, shrinks it so neither side
// exceeds AvatarSize, and returns the result encoded as JPEG.
func NormalizeAvatar(data []byte) ([]byte, error) {
	switch mime := http.DetectContentType(data); mime {
	case "image/jpeg", "image/png":
	default:
		return nil, &ErrUnsupportedFormat{Detected: mime}
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding avatar: %w", err)
	}

	src = fit(src, AvatarSize)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encoding avatar: %w", err)
	}
	return buf.Bytes(), nil
}

// fit scales img down, preserving aspect ratio, so its longer side is at
// most max. Images already within bounds are returned untouched.
func fit(img image.Image, max int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= max && h <= max {
		return img
	}

	scale := float64(max) / float64(w)
	if h > w {
		scale = float64(max) / float64(h)
	}
	nw, nh := int(float64(w)*scale), int(float64(h)*scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
