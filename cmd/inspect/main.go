package main

import (
	"fmt"
	"image"
	"os"

	"sphere-renderer/internal/imageio"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: inspect <image> [image...]")
		os.Exit(2)
	}

	failed := false
	for _, path := range os.Args[1:] {
		if err := inspect(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func inspect(path string) error {
	img, format, err := imageio.Load(path)
	if err != nil {
		return err
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	fmt.Printf("%s: %s %dx%d (%d pixels)\n", path, format, w, h, w*h)

	probes := []struct {
		name string
		pt   image.Point
	}{
		{"top-left", image.Pt(0, 0)},
		{"top-right", image.Pt(w-1, 0)},
		{"center", image.Pt(w/2, h/2)},
		{"bottom-left", image.Pt(0, h-1)},
		{"bottom-right", image.Pt(w-1, h-1)},
	}
	for _, p := range probes {
		c := img.NRGBAAt(p.pt.X, p.pt.Y)
		fmt.Printf("  %-12s (%4d,%4d): %3d %3d %3d\n", p.name, p.pt.X, p.pt.Y, c.R, c.G, c.B)
	}

	// Mean per channel
	var sumR, sumG, sumB float64
	for y := 0; y < h; y++ {
		off := y * img.Stride
		for x := 0; x < w; x++ {
			i := off + x*4
			sumR += float64(img.Pix[i])
			sumG += float64(img.Pix[i+1])
			sumB += float64(img.Pix[i+2])
		}
	}
	n := float64(w * h)
	fmt.Printf("  mean: %.1f %.1f %.1f\n", sumR/n, sumG/n, sumB/n)
	return nil
}
