package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodeImage(t *testing.T, w, h int, asPNG bool) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 128, 255})
		}
	}
	var buf bytes.Buffer
	if asPNG {
		if err := png.Encode(&buf, img); err != nil {
			t.Fatalf("encoding PNG fixture: %v", err)
		}
	} else {
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			t.Fatalf("encoding JPEG fixture: %v", err)
		}
	}
	return buf.Bytes()
}

func decodeResult(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg output, got %s", format)
	}
	return img
}

func TestNormalizeAvatarJPEG(t *testing.T) {
	out, err := NormalizeAvatar(encodeImage(t, 100, 100, false))
	if err != nil {
		t.Fatalf("NormalizeAvatar: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected non-empty output")
	}
	decodeResult(t, out)
}

func TestNormalizeAvatarPNGBecomesJPEG(t *testing.T) {
	out, err := NormalizeAvatar(encodeImage(t, 100, 100, true))
	if err != nil {
		t.Fatalf("NormalizeAvatar: %v", err)
	}
	decodeResult(t, out)
}

func TestNormalizeAvatarDownscalesWide(t *testing.T) {
	out, err := NormalizeAvatar(encodeImage(t, AvatarSize*4, AvatarSize, false))
	if err != nil {
		t.Fatalf("NormalizeAvatar: %v", err)
	}
	b := decodeResult(t, out).Bounds()
	if b.Dx() != AvatarSize {
		t.Errorf("expected width %d, got %d", AvatarSize, b.Dx())
	}
	if b.Dy() != AvatarSize/4 {
		t.Errorf("expected height %d, got %d", AvatarSize/4, b.Dy())
	}
}

func TestNormalizeAvatarDownscalesTall(t *testing.T) {
	out, err := NormalizeAvatar(encodeImage(t, 200, AvatarSize*2, true))
	if err != nil {
		t.Fatalf("NormalizeAvatar: %v", err)
	}
	b := decodeResult(t, out).Bounds()
	if b.Dy() != AvatarSize {
		t.Errorf("expected height %d, got %d", AvatarSize, b.Dy())
	}
	if b.Dx() >= 200 {
		t.Errorf("expected width scaled below 200, got %d", b.Dx())
	}
}

func TestNormalizeAvatarKeepsSmallImages(t *testing.T) {
	out, err := NormalizeAvatar(encodeImage(t, 64, 48, false))
	if err != nil {
		t.Fatalf("NormalizeAvatar: %v", err)
	}
	b := decodeResult(t, out).Bounds()
	if b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("expected 64x48 unchanged, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestNormalizeAvatarRejectsNonImage(t *testing.T) {
	_, err := NormalizeAvatar([]byte("<html><body>not an image</body></html>"))
	if err == nil {
		t.Fatal("expected error for non-image data")
	}
	var unsupported *ErrUnsupportedFormat
	if !errors.As(err, &unsupported) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestNormalizeAvatarRejectsGIF(t *testing.T) {
	// Minimal GIF header sniffs as image/gif, which is not accepted.
	_, err := NormalizeAvatar([]byte("GIF89a\x01\x00\x01\x00\x00\x00\x00"))
	if err == nil {
		t.Fatal("expected error for GIF data")
	}
}
