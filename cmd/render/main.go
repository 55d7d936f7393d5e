package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"sphere-renderer/internal/batch"
	"sphere-renderer/internal/config"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	width := flag.Int("width", 0, "Image width in pixels (default: 400)")
	aspect := flag.Float64("aspect", 0, "Aspect ratio width/height (default: 16/9)")
	mode := flag.String("mode", "", "Shading mode: normals, flat or gradient (default: normals)")
	output := flag.String("output", "", "Output file (default: image.ppm)")
	format := flag.String("format", "", "Output format: ppm, png, webp, tga, bmp, tiff (default: from extension)")
	thumb := flag.Int("thumb", 0, "Also write a thumbnail with this longest side")
	outputDir := flag.String("outdir", "", "Directory for batch job outputs and manifest")
	workers := flag.Int("workers", 0, "Number of batch worker goroutines (default: NumCPU)")
	quiet := flag.Bool("quiet", false, "Suppress the scanline progress indicator")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		ImageWidth:  *width,
		AspectRatio: *aspect,
		Mode:        *mode,
		Output:      *output,
		Format:      *format,
		Thumbnail:   *thumb,
		OutputDir:   *outputDir,
		Workers:     *workers,
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p := message.NewPrinter(language.English)

	if len(cfg.Jobs) > 0 {
		code := runBatch(ctx, cfg, p)
		stop()
		os.Exit(code)
	}

	var progress io.Writer = os.Stderr
	if *quiet {
		progress = nil
	}

	start := time.Now()
	res := batch.RenderOne(ctx, cfg.Render, progress)
	if !res.Success {
		stop()
		fmt.Fprintf(os.Stderr, "Error rendering %s: %s\n", res.Output, res.Error)
		os.Exit(1)
	}

	size := fmt.Sprintf("%dx%d", res.Width, res.Height)
	p.Printf("Rendered %s (%d pixels, mode %s) in %.2fs\n",
		size, res.Width*res.Height, res.Mode, time.Since(start).Seconds())
	fmt.Printf("Output: %s\n", res.Output)
	if res.Thumbnail != "" {
		fmt.Printf("Thumbnail: %s\n", res.Thumbnail)
	}
}

func runBatch(ctx context.Context, cfg config.Config, p *message.Printer) int {
	fmt.Printf("Sphere renderer batch: %d jobs, Workers: %d\n", len(cfg.Jobs), cfg.Workers)
	if cfg.OutputDir != "" {
		fmt.Printf("Output: %s\n", cfg.OutputDir)
	}
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	results := batch.Run(ctx, cfg, os.Stdout)
	elapsed := time.Since(start)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed, pixels := 0, 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
			pixels += r.Width * r.Height
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	p.Printf("Rendered: %d/%d (%d pixels)\n", success, len(results), pixels)

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	// Write manifest
	manifestDir := cfg.OutputDir
	if manifestDir == "" {
		manifestDir = "."
	}
	manifestPath := filepath.Join(manifestDir, "manifest.json")
	if err := os.MkdirAll(manifestDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest dir: %v\n", err)
	} else if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		return 1
	}
	return 0
}
