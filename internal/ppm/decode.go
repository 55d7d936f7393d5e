package ppm

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
)

func init() {
	image.RegisterFormat("ppm", Magic, Decode, DecodeConfig)
}

// tokenizer splits P3 input on whitespace and skips '#' comments.
type tokenizer struct {
	r *bufio.Reader
}

func (t *tokenizer) next() (string, error) {
	var tok []byte
	for {
		c, err := t.r.ReadByte()
		if err == io.EOF {
			if len(tok) > 0 {
				return string(tok), nil
			}
			return "", io.ErrUnexpectedEOF
		}
		if err != nil {
			return "", err
		}
		switch {
		case c == '#':
			if len(tok) > 0 {
				t.r.UnreadByte()
				return string(tok), nil
			}
			if _, err := t.r.ReadString('\n'); err != nil && err != io.EOF {
				return "", err
			}
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f':
			if len(tok) > 0 {
				return string(tok), nil
			}
		default:
			tok = append(tok, c)
		}
	}
}

func (t *tokenizer) int(what string) (int, error) {
	s, err := t.next()
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrHeader, what, err)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrHeader, what, s)
	}
	return n, nil
}

// MaxPixels bounds width*height accepted by the decoder.
const MaxPixels = 1 << 28

// Header is the parsed P3 header.
type Header struct {
	Width    int
	Height   int
	MaxValue int
}

func readHeader(t *tokenizer) (Header, error) {
	magic, err := t.next()
	if err != nil {
		return Header{}, fmt.Errorf("%w: magic: %v", ErrHeader, err)
	}
	if magic != Magic {
		return Header{}, fmt.Errorf("%w: magic %q", ErrHeader, magic)
	}
	var h Header
	if h.Width, err = t.int("width"); err != nil {
		return Header{}, err
	}
	if h.Height, err = t.int("height"); err != nil {
		return Header{}, err
	}
	if h.MaxValue, err = t.int("max value"); err != nil {
		return Header{}, err
	}
	if h.Width <= 0 || h.Height <= 0 {
		return Header{}, fmt.Errorf("%w: %dx%d", ErrDimensions, h.Width, h.Height)
	}
	if h.Width > MaxPixels/h.Height {
		return Header{}, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrDimensions, h.Width, h.Height, MaxPixels)
	}
	if h.MaxValue <= 0 || h.MaxValue > 65535 {
		return Header{}, fmt.Errorf("%w: max value %d", ErrHeader, h.MaxValue)
	}
	return h, nil
}

// DecodeConfig reads only the header.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := readHeader(&tokenizer{r: bufio.NewReader(r)})
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.NRGBAModel, Width: h.Width, Height: h.Height}, nil
}

// Decode reads a full P3 image. Samples are rescaled from MaxValue to 255.
func Decode(r io.Reader) (image.Image, error) {
	t := &tokenizer{r: bufio.NewReader(r)}
	h, err := readHeader(t)
	if err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, h.Width, h.Height))
	total := h.Width * h.Height
	for p := 0; p < total; p++ {
		i := p * 4
		for k := 0; k < 3; k++ {
			s, err := t.next()
			if err != nil {
				return nil, fmt.Errorf("%w: got %d of %d pixels", ErrPixelCount, p, total)
			}
			v, err := strconv.Atoi(s)
			if err != nil || v < 0 || v > h.MaxValue {
				return nil, fmt.Errorf("ppm: pixel %d: bad sample %q", p, s)
			}
			if h.MaxValue != MaxValue {
				v = (v*MaxValue + h.MaxValue/2) / h.MaxValue
			}
			img.Pix[i+k] = uint8(v)
		}
		img.Pix[i+3] = 0xff
	}
	return img, nil
}
