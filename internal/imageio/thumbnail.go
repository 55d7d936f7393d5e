package imageio

import (
	"image"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// Thumbnail scales img so its longer side is maxSide, keeping the aspect ratio.
// Images already within maxSide are returned unchanged.
func Thumbnail(img *image.NRGBA, maxSide int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return img
	}

	tw, th := maxSide, maxSide
	if w >= h {
		th = h * maxSide / w
	} else {
		tw = w * maxSide / h
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}

	// Renders are fully opaque, so no premultiply pass is needed.
	dst := image.NewNRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// ThumbnailPath derives "<base>_thumb<ext>" from an output path.
func ThumbnailPath(path string, f Format) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "_thumb" + f.Ext()
}
