package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sphere-renderer/internal/config"
	"sphere-renderer/internal/imageio"
	"sphere-renderer/internal/ppm"
)

func resolved(t *testing.T, cfg config.Config) config.Config {
	t.Helper()
	cfg.Resolve(config.Flags{})
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return cfg
}

func TestRenderOne_StreamsPPM(t *testing.T) {
	dir := t.TempDir()
	cfg := resolved(t, config.Config{Render: config.Render{
		ImageWidth: 32,
		Output:     filepath.Join(dir, "sub", "sphere.ppm"),
	}})

	var progress bytes.Buffer
	res := RenderOne(context.Background(), cfg.Render, &progress)
	if !res.Success {
		t.Fatalf("Render failed: %s", res.Error)
	}
	if res.Width != 32 || res.Height != 18 || res.Format != imageio.PPM {
		t.Errorf("Unexpected result %+v", res)
	}
	if !strings.Contains(progress.String(), "Done.") {
		t.Errorf("Expected progress output, got %q", progress.String())
	}

	f, err := os.Open(res.Output)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := ppm.Decode(f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 18 {
		t.Errorf("Expected 32x18, got %v", b)
	}
}

func TestRenderOne_PNGWithThumbnail(t *testing.T) {
	dir := t.TempDir()
	cfg := resolved(t, config.Config{Render: config.Render{
		ImageWidth: 160,
		Output:     filepath.Join(dir, "sphere.png"),
		Thumbnail:  40,
	}})

	res := RenderOne(context.Background(), cfg.Render, nil)
	if !res.Success {
		t.Fatalf("Render failed: %s", res.Error)
	}
	if res.Thumbnail != filepath.Join(dir, "sphere_thumb.png") {
		t.Errorf("Unexpected thumbnail path %q", res.Thumbnail)
	}

	full, format, err := imageio.Load(res.Output)
	if err != nil || format != imageio.PNG {
		t.Fatalf("Load output: %v (%s)", err, format)
	}
	if full.Bounds().Dx() != 160 || full.Bounds().Dy() != 90 {
		t.Errorf("Expected 160x90, got %v", full.Bounds())
	}
	thumb, _, err := imageio.Load(res.Thumbnail)
	if err != nil {
		t.Fatalf("Load thumbnail: %v", err)
	}
	if thumb.Bounds().Dx() != 40 || thumb.Bounds().Dy() != 22 {
		t.Errorf("Expected a 40x22 thumbnail, got %v", thumb.Bounds())
	}
}

func TestRenderOne_Failures(t *testing.T) {
	dir := t.TempDir()

	bad := config.Render{Name: "bad", ImageWidth: 0, AspectRatio: 1, FocalLength: 1, ViewportHeight: 2,
		Output: filepath.Join(dir, "bad.ppm"), Format: "ppm", Mode: "normals", Spheres: config.DefaultSpheres()}
	if res := RenderOne(context.Background(), bad, nil); res.Success || res.Error == "" {
		t.Errorf("Expected a camera error, got %+v", res)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := resolved(t, config.Config{Render: config.Render{Output: filepath.Join(dir, "cancelled.png")}})
	if res := RenderOne(ctx, cfg.Render, nil); res.Success || !strings.Contains(res.Error, "canceled") {
		t.Errorf("Expected a cancellation error, got %+v", res)
	}
}

func TestRenderOne_CancelKeepsPreviousOutput(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"image.ppm", "image.png"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("previous"), 0644); err != nil {
			t.Fatal(err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		cfg := resolved(t, config.Config{Render: config.Render{Output: path}})
		if res := RenderOne(ctx, cfg.Render, nil); res.Success {
			t.Fatalf("%s: expected the cancelled render to fail", name)
		}

		data, err := os.ReadFile(path)
		if err != nil || string(data) != "previous" {
			t.Errorf("%s: previous output was replaced: %q (%v)", name, data, err)
		}
		if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
			t.Errorf("%s: temporary file left behind: %v", name, err)
		}
	}
}

func TestRun_KeepsJobOrder(t *testing.T) {
	dir := t.TempDir()
	cfg := resolved(t, config.Config{
		Render:    config.Render{ImageWidth: 24, Format: "png"},
		OutputDir: dir,
		Workers:   3,
		Jobs: []config.Render{
			{Name: "normals"},
			{Name: "flat", Mode: "flat", Format: "bmp"},
			{Name: "gradient", Mode: "gradient", ImageWidth: 16, AspectRatio: 1},
			{Name: "raw", Output: "raw.ppm"},
			{Name: "custom", Spheres: []config.SphereConfig{{Center: [3]float64{0, 0, -1}, Radius: 0.25}}, FocalLength: 1.5},
		},
	})

	results := Run(context.Background(), cfg, nil)
	if len(results) != len(cfg.Jobs) {
		t.Fatalf("Expected %d results, got %d", len(cfg.Jobs), len(results))
	}
	for i, r := range results {
		if r.Name != cfg.Jobs[i].Name {
			t.Errorf("Result %d: expected %s, got %s", i, cfg.Jobs[i].Name, r.Name)
		}
		if !r.Success {
			t.Errorf("Job %s failed: %s", r.Name, r.Error)
			continue
		}
		if _, err := os.Stat(r.Output); err != nil {
			t.Errorf("Job %s: missing output: %v", r.Name, err)
		}
	}
	if results[1].Format != imageio.BMP || results[3].Format != imageio.PPM {
		t.Errorf("Unexpected formats %s %s", results[1].Format, results[3].Format)
	}
	if results[2].Width != 16 || results[2].Height != 16 {
		t.Errorf("Expected a 16x16 gradient, got %dx%d", results[2].Width, results[2].Height)
	}
}

func TestRun_NoJobs(t *testing.T) {
	if results := Run(context.Background(), config.Config{Workers: 4}, nil); len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}

func TestWriteManifest(t *testing.T) {
	dir := t.TempDir()
	results := []Result{
		{Name: "a", Output: filepath.Join(dir, "a.png"), Thumbnail: filepath.Join(dir, "a_thumb.png"),
			Format: imageio.PNG, Mode: "normals", Width: 4, Height: 2, Elapsed: 1500 * time.Millisecond, Success: true},
		{Name: "b", Output: filepath.Join(dir, "nested", "b.ppm"), Format: imageio.PPM, Mode: "flat", Error: "boom"},
	}
	path := filepath.Join(dir, "manifest.json")
	if err := WriteManifest(path, results); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entries []ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("Manifest is not valid JSON: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Image != "a.png" || entries[0].Thumbnail != "a_thumb.png" || entries[0].Seconds != 1.5 {
		t.Errorf("Unexpected first entry %+v", entries[0])
	}
	if entries[1].Image != "nested/b.ppm" || entries[1].Error != "boom" || entries[1].Thumbnail != "" {
		t.Errorf("Unexpected second entry %+v", entries[1])
	}
}
