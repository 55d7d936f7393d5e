package imageio

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"

	"sphere-renderer/internal/ppm"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Load reads a rendered image and returns it as NRGBA with its format.
// The decoder is chosen by extension, or by the leading bytes when the
// extension is not a known format.
func Load(path string) (*image.NRGBA, Format, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("imageio: read %s: %w", path, err)
	}

	f, ferr := FormatFromPath(path)
	if ferr != nil {
		f = Sniff(raw)
	}
	var img image.Image
	switch f {
	case PPM:
		img, err = ppm.Decode(bytes.NewReader(raw))
	case PNG:
		img, err = png.Decode(bytes.NewReader(raw))
	case WebP:
		img, err = nativewebp.DecodeIgnoreAlphaFlag(bytes.NewReader(raw))
	case TGA:
		img, err = tga.Decode(bytes.NewReader(raw))
	case BMP:
		img, err = bmp.Decode(bytes.NewReader(raw))
	case TIFF:
		img, err = tiff.Decode(bytes.NewReader(raw))
	}
	if err != nil {
		return nil, "", fmt.Errorf("imageio: decode %s: %w", path, err)
	}

	return ToNRGBA(img), f, nil
}

// Sniff guesses the format from magic bytes. TGA has no signature, so it is
// the fallback.
func Sniff(raw []byte) Format {
	switch {
	case bytes.HasPrefix(raw, []byte(ppm.Magic)):
		return PPM
	case bytes.HasPrefix(raw, []byte("\x89PNG\r\n\x1a\n")):
		return PNG
	case len(raw) >= 12 && string(raw[:4]) == "RIFF" && string(raw[8:12]) == "WEBP":
		return WebP
	case bytes.HasPrefix(raw, []byte("BM")):
		return BMP
	case bytes.HasPrefix(raw, []byte("II*\x00")), bytes.HasPrefix(raw, []byte("MM\x00*")):
		return TIFF
	}
	return TGA
}

// ToNRGBA converts any image to NRGBA format, rebased to (0,0).
func ToNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
