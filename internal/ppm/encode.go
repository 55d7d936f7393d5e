// Package ppm reads and writes the plain-text P3 RGB raster format.
package ppm

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"strconv"

	"sphere-renderer/internal/mathutil"
)

const (
	Magic    = "P3"
	MaxValue = 255
)

var (
	ErrHeader     = errors.New("ppm: header")
	ErrPixelCount = errors.New("ppm: pixel count")
	ErrDimensions = errors.New("ppm: dimensions")
)

// Quantize maps a [0,1] component to [0,255] by truncation after scaling.
// Inputs outside [0,1] are clamped first.
func Quantize(c float64) uint8 {
	if !(c > 0) { // also catches NaN
		return 0
	}
	if c > 0.999 {
		c = 0.999
	}
	return uint8(256 * c)
}

// QuantizeColor applies Quantize per channel.
func QuantizeColor(c mathutil.Color) (r, g, b uint8) {
	return Quantize(c[0]), Quantize(c[1]), Quantize(c[2])
}

// Encoder streams a P3 image: one WriteHeader, then exactly width*height
// WritePixel calls in row-major order, then Close.
type Encoder struct {
	w       *bufio.Writer
	width   int
	height  int
	written int
	started bool
	buf     []byte
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w), buf: make([]byte, 0, 16)}
}

func (e *Encoder) WriteHeader(width, height int) error {
	if e.started {
		return fmt.Errorf("%w: written twice", ErrHeader)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrDimensions, width, height)
	}
	e.started = true
	e.width, e.height = width, height
	_, err := fmt.Fprintf(e.w, "%s\n%d %d\n%d\n", Magic, width, height, MaxValue)
	return err
}

func (e *Encoder) WritePixel(c mathutil.Color) error {
	r, g, b := QuantizeColor(c)
	return e.WriteRGB(r, g, b)
}

// WriteRGB writes an already quantized triple.
func (e *Encoder) WriteRGB(r, g, b uint8) error {
	if !e.started {
		return fmt.Errorf("%w: pixel before header", ErrHeader)
	}
	if e.written >= e.width*e.height {
		return fmt.Errorf("%w: more than %d pixels", ErrPixelCount, e.width*e.height)
	}
	e.written++

	buf := e.buf[:0]
	buf = strconv.AppendUint(buf, uint64(r), 10)
	buf = append(buf, ' ')
	buf = strconv.AppendUint(buf, uint64(g), 10)
	buf = append(buf, ' ')
	buf = strconv.AppendUint(buf, uint64(b), 10)
	buf = append(buf, '\n')
	e.buf = buf
	_, err := e.w.Write(buf)
	return err
}

// Close flushes buffered output. It reports ErrPixelCount when fewer than
// width*height pixels were written. It does not close the underlying writer.
func (e *Encoder) Close() error {
	if err := e.w.Flush(); err != nil {
		return err
	}
	if !e.started {
		return fmt.Errorf("%w: never written", ErrHeader)
	}
	if e.written != e.width*e.height {
		return fmt.Errorf("%w: wrote %d of %d", ErrPixelCount, e.written, e.width*e.height)
	}
	return nil
}

// Encode writes img as P3. Alpha is ignored.
func Encode(w io.Writer, img image.Image) error {
	b := img.Bounds()
	enc := NewEncoder(w)
	if err := enc.WriteHeader(b.Dx(), b.Dy()); err != nil {
		return err
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if err := enc.WriteRGB(uint8(r>>8), uint8(g>>8), uint8(bl>>8)); err != nil {
				return err
			}
		}
	}
	return enc.Close()
}
