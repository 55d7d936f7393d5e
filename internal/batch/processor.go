package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"sphere-renderer/internal/camera"
	"sphere-renderer/internal/config"
	"sphere-renderer/internal/geometry"
	"sphere-renderer/internal/imageio"
	"sphere-renderer/internal/ppm"
	"sphere-renderer/internal/raster"
)

// Result holds the outcome of rendering one job.
type Result struct {
	Name      string
	Output    string
	Thumbnail string
	Width     int
	Height    int
	Format    imageio.Format
	Mode      string
	Elapsed   time.Duration
	Success   bool
	Error     string
}

// Run renders every job of cfg on a worker pool. Each image is rendered by a
// single goroutine; results keep the order of cfg.Jobs.
func Run(ctx context.Context, cfg config.Config, out io.Writer) []Result {
	jobs := cfg.Jobs
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > total {
		workers = total
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 && out != nil {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Fprintf(out, "  [%d/%d] %.1f jobs/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	jobChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = RenderOne(ctx, jobs[idx], nil)
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

// RenderOne renders a single resolved job to its output file (and thumbnail).
// P3 output without a thumbnail is streamed straight to disk; every other
// case goes through a frame buffer.
func RenderOne(ctx context.Context, job config.Render, progress io.Writer) Result {
	start := time.Now()
	res := Result{
		Name:   job.Name,
		Output: job.Output,
		Format: job.OutputFormat(),
		Mode:   job.Mode,
	}
	fail := func(err error) Result {
		res.Error = err.Error()
		res.Elapsed = time.Since(start)
		return res
	}

	cam, err := camera.New(job.CameraConfig())
	if err != nil {
		return fail(err)
	}
	res.Width, res.Height = cam.ImageWidth, cam.ImageHeight

	opts := raster.Options{Mode: job.ShadeMode(), Progress: progress}
	scene := job.Scene()

	if res.Format == imageio.PPM && job.Thumbnail == 0 {
		if err := streamPPM(ctx, job.Output, cam, scene, opts); err != nil {
			return fail(err)
		}
	} else {
		fb := raster.NewFrameBuffer()
		if err := raster.Render(ctx, cam, scene, fb, opts); err != nil {
			return fail(err)
		}
		img := fb.Image()
		if err := imageio.Save(job.Output, img, res.Format); err != nil {
			return fail(err)
		}
		if job.Thumbnail > 0 {
			res.Thumbnail = imageio.ThumbnailPath(job.Output, res.Format)
			if err := imageio.Save(res.Thumbnail, imageio.Thumbnail(img, job.Thumbnail), res.Format); err != nil {
				return fail(err)
			}
		}
	}

	res.Success = true
	res.Elapsed = time.Since(start)
	return res
}

// streamPPM renders into path.tmp and renames it over path once complete.
func streamPPM(ctx context.Context, path string, cam *camera.Camera, scene geometry.Scene, opts raster.Options) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("batch: mkdir %s: %w", dir, err)
		}
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("batch: create %s: %w", tmp, err)
	}
	if err := raster.Render(ctx, cam, scene, ppm.NewEncoder(f), opts); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("batch: close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("batch: rename %s: %w", path, err)
	}
	return nil
}
