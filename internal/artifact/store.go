// Package artifact writes per-site scan output: JSON metadata, HTML/PNG
// snapshot pairs and the once-only canonical page artifacts.
package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/nfnt/resize"
)

const (
	// snapshot HTML is truncated to keep huge pages from bloating output
	maxSnapshotHTML = 200000

	thumbWidth = 400
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9\-_.]`)

// Store owns the output root directory for a whole run.
type Store struct {
	root string
}

// NewStore creates the output root if needed.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create output root: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the output root path.
func (s *Store) Root() string {
	return s.root
}

// WriteAllMeta writes the aggregated run summary at the output root.
func (s *Store) WriteAllMeta(v any) error {
	return writeJSON(filepath.Join(s.root, "all_meta.json"), v)
}

// SiteDir creates (or reuses) the sanitized per-site subdirectory.
func (s *Store) SiteDir(siteURL string) (*SiteDir, error) {
	dir := filepath.Join(s.root, SanitizeFolderName(siteURL))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create site dir: %w", err)
	}
	return &SiteDir{path: dir}, nil
}

// SanitizeFolderName maps a site URL to a filesystem-safe directory name
// derived from its hostname.
func SanitizeFolderName(siteURL string) string {
	host := siteURL
	if u, err := url.Parse(siteURL); err == nil {
		if u.Host != "" {
			host = u.Host
		} else if u.Path != "" {
			host = u.Path
		}
	}
	host = strings.ReplaceAll(host, ":", "_")
	host = unsafeNameChars.ReplaceAllString(host, "_")
	if len(host) > 200 {
		host = host[:200]
	}
	return host
}

// SiteDir is the artifact directory for a single scanned site.
type SiteDir struct {
	path string
}

// Path returns the directory path.
func (d *SiteDir) Path() string {
	return d.path
}

// WriteJSON writes v indented to name inside the site directory.
func (d *SiteDir) WriteJSON(name string, v any) error {
	return writeJSON(filepath.Join(d.path, name), v)
}

// WriteNote writes a plain-text note file.
func (d *SiteDir) WriteNote(name, text string) error {
	return os.WriteFile(filepath.Join(d.path, name), []byte(text), 0o644)
}

// Snapshot is one captured html/png pair. Either path may be empty when the
// corresponding capture or write failed.
type Snapshot struct {
	HTMLPath       string
	ScreenshotPath string
}

// Snapshot writes a timestamped html/png pair under prefix. Failures of one
// half never block the other.
func (d *SiteDir) Snapshot(prefix, html string, shot []byte) Snapshot {
	ts := time.Now().Unix()
	var snap Snapshot

	if shot != nil {
		p := filepath.Join(d.path, fmt.Sprintf("%s_%d.png", prefix, ts))
		if err := os.WriteFile(p, shot, 0o644); err == nil {
			snap.ScreenshotPath = p
		}
	}

	if len(html) > maxSnapshotHTML {
		html = html[:maxSnapshotHTML]
	}
	p := filepath.Join(d.path, fmt.Sprintf("%s_%d.html", prefix, ts))
	if err := os.WriteFile(p, []byte(html), 0o644); err == nil {
		snap.HTMLPath = p
	}

	return snap
}

// PromoteCanonical moves a snapshot pair to page.html / screenshot.png if
// those are not present yet; the first capture stays the site's canonical
// record. A promoted screenshot also gets a downscaled thumbnail.
func (d *SiteDir) PromoteCanonical(snap Snapshot) {
	pagePath := filepath.Join(d.path, "page.html")
	if snap.HTMLPath != "" && !exists(pagePath) {
		_ = os.Rename(snap.HTMLPath, pagePath)
	}

	shotPath := filepath.Join(d.path, "screenshot.png")
	if snap.ScreenshotPath != "" && !exists(shotPath) {
		if err := os.Rename(snap.ScreenshotPath, shotPath); err == nil {
			d.writeThumbnail(shotPath)
		}
	}
}

func (d *SiteDir) writeThumbnail(shotPath string) {
	data, err := os.ReadFile(shotPath)
	if err != nil {
		return
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return
	}
	thumb := resize.Resize(thumbWidth, 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(d.path, "screenshot_thumb.png"), buf.Bytes(), 0o644)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, data, 0o644)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
