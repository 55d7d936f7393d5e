// Package imageio encodes rendered frames and loads them back.
package imageio

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"sphere-renderer/internal/ppm"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format names an output encoding.
type Format string

const (
	PPM  Format = "ppm"
	PNG  Format = "png"
	WebP Format = "webp"
	TGA  Format = "tga"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// Formats lists every supported output format.
var Formats = []Format{PPM, PNG, WebP, TGA, BMP, TIFF}

// ParseFormat accepts a format name or extension case-insensitively.
// "tif" is an alias for TIFF.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	if f == "tif" {
		return TIFF, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("imageio: unknown format %q", s)
}

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("imageio: no extension on %s", path)
	}
	return ParseFormat(ext)
}

// Ext is the canonical file extension including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Encode writes img in the given format.
func Encode(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case PPM:
		err = ppm.Encode(w, img)
	case PNG:
		err = png.Encode(w, img)
	case WebP:
		err = nativewebp.Encode(w, img, nil)
	case TGA:
		err = tga.Encode(w, img)
	case BMP:
		err = bmp.Encode(w, img)
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("imageio: unknown format %q", f)
	}
	if err != nil {
		return fmt.Errorf("imageio: %s encode: %w", f, err)
	}
	return nil
}

// Save creates path (and its directory) and encodes img into it.
// On failure any existing file at path is left untouched.
func Save(path string, img image.Image, f Format) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("imageio: mkdir %s: %w", dir, err)
		}
	}
	// path is only replaced once the sibling temp file is complete.
	tmp := path + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", tmp, err)
	}
	if err := Encode(out, img, f); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("imageio: close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("imageio: rename %s: %w", path, err)
	}
	return nil
}
