package raster

import (
	"context"
	"fmt"
	"io"

	"sphere-renderer/internal/camera"
	"sphere-renderer/internal/geometry"
	"sphere-renderer/internal/mathutil"
	"sphere-renderer/internal/shade"
)

// Sink receives a rendered image: one header, then every pixel in row-major
// order starting at the top-left, then Close.
type Sink interface {
	WriteHeader(width, height int) error
	WritePixel(c mathutil.Color) error
	Close() error
}

// Options tune a single render.
type Options struct {
	Mode shade.Mode
	// Progress, when set, receives a carriage-return scanline counter.
	Progress io.Writer
}

// Render scans every pixel of cam top-to-bottom, left-to-right and streams
// the shaded colors to sink. Sink.Close is called on success.
func Render(ctx context.Context, cam *camera.Camera, scene geometry.Scene, sink Sink, opts Options) error {
	mode := opts.Mode
	if mode == "" {
		mode = shade.Normals
	}

	w, h := cam.ImageWidth, cam.ImageHeight
	if err := sink.WriteHeader(w, h); err != nil {
		return fmt.Errorf("raster: header: %w", err)
	}

	for j := 0; j < h; j++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if opts.Progress != nil {
			fmt.Fprintf(opts.Progress, "\rScanlines remaining: %d ", h-1-j)
		}
		for i := 0; i < w; i++ {
			c, err := pixelColor(mode, cam, scene, i, j)
			if err != nil {
				return fmt.Errorf("raster: pixel (%d,%d): %w", i, j, err)
			}
			if err := sink.WritePixel(c); err != nil {
				return fmt.Errorf("raster: write pixel (%d,%d): %w", i, j, err)
			}
		}
	}
	if opts.Progress != nil {
		fmt.Fprint(opts.Progress, "\rDone.                      \n")
	}

	if err := sink.Close(); err != nil {
		return fmt.Errorf("raster: close: %w", err)
	}
	return nil
}

func pixelColor(mode shade.Mode, cam *camera.Camera, scene geometry.Scene, i, j int) (mathutil.Color, error) {
	if mode == shade.Gradient {
		return shade.GradientColor(i, j, cam.ImageWidth, cam.ImageHeight), nil
	}
	return shade.ModeColor(mode, scene, cam.PixelRay(i, j))
}
