package raster

import (
	"fmt"
	"image"

	"sphere-renderer/internal/mathutil"
	"sphere-renderer/internal/ppm"
)

// FrameBuffer is a Sink that keeps the quantized pixels in memory.
// Color is RGBA interleaved, len = W*H*4, alpha always 255.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8

	next int
}

// NewFrameBuffer returns an empty buffer; it is sized by WriteHeader.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

func (fb *FrameBuffer) WriteHeader(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("raster: frame buffer %dx%d: %w", w, h, ppm.ErrDimensions)
	}
	fb.Width, fb.Height = w, h
	fb.Color = make([]uint8, w*h*4)
	fb.next = 0
	return nil
}

func (fb *FrameBuffer) WritePixel(c mathutil.Color) error {
	if fb.next >= fb.Width*fb.Height {
		return fmt.Errorf("raster: frame buffer full at %d pixels: %w", fb.next, ppm.ErrPixelCount)
	}
	i := fb.next * 4
	fb.Color[i], fb.Color[i+1], fb.Color[i+2] = ppm.QuantizeColor(c)
	fb.Color[i+3] = 0xff
	fb.next++
	return nil
}

func (fb *FrameBuffer) Close() error {
	if fb.next != fb.Width*fb.Height {
		return fmt.Errorf("raster: frame buffer has %d of %d pixels: %w", fb.next, fb.Width*fb.Height, ppm.ErrPixelCount)
	}
	return nil
}

// Image converts the framebuffer to an NRGBA image sharing no memory with it.
func (fb *FrameBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}
