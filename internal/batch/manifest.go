package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ManifestEntry represents one rendered job in the output manifest.
type ManifestEntry struct {
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Thumbnail string  `json:"thumbnail,omitempty"`
	Format    string  `json:"format"`
	Mode      string  `json:"mode"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Seconds   float64 `json:"seconds"`
	Error     string  `json:"error,omitempty"`
}

// WriteManifest writes manifest.json. Image paths are made relative to the
// manifest's directory when possible.
func WriteManifest(path string, results []Result) error {
	base := filepath.Dir(path)
	rel := func(p string) string {
		if p == "" {
			return ""
		}
		if r, err := filepath.Rel(base, p); err == nil {
			return filepath.ToSlash(r)
		}
		return p
	}

	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Name:      r.Name,
			Image:     rel(r.Output),
			Thumbnail: rel(r.Thumbnail),
			Format:    string(r.Format),
			Mode:      r.Mode,
			Width:     r.Width,
			Height:    r.Height,
			Seconds:   r.Elapsed.Seconds(),
			Error:     r.Error,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
