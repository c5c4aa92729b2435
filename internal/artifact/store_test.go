package artifact

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeFolderName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://example.com/add", "example.com"},
		{"https://example.com:8080/", "example.com_8080"},
		{"example.com", "example.com"},
		{"http://sub.domain.co.uk/path?q=1", "sub.domain.co.uk"},
		{"https://host/with space", "host"},
	}
	for _, c := range cases {
		if got := SanitizeFolderName(c.in); got != c.want {
			t.Errorf("SanitizeFolderName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSnapshotTruncatesHTML(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	dir, err := store.SiteDir("https://example.com")
	if err != nil {
		t.Fatal(err)
	}

	long := strings.Repeat("a", maxSnapshotHTML+500)
	snap := dir.Snapshot("no_form", long, nil)
	if snap.HTMLPath == "" {
		t.Fatal("expected html snapshot path")
	}
	data, err := os.ReadFile(snap.HTMLPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != maxSnapshotHTML {
		t.Errorf("snapshot size = %d, want truncation at %d", len(data), maxSnapshotHTML)
	}
}

func TestPromoteCanonicalWritesOnce(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	dir, err := store.SiteDir("https://example.com")
	if err != nil {
		t.Fatal(err)
	}

	first := dir.Snapshot("form_root", "<html>first</html>", testPNG(t))
	dir.PromoteCanonical(first)

	second := dir.Snapshot("form_candidate_1", "<html>second</html>", testPNG(t))
	dir.PromoteCanonical(second)

	page, err := os.ReadFile(filepath.Join(dir.Path(), "page.html"))
	if err != nil {
		t.Fatal(err)
	}
	if string(page) != "<html>first</html>" {
		t.Errorf("canonical page.html overwritten: %q", page)
	}
	if _, err := os.Stat(filepath.Join(dir.Path(), "screenshot.png")); err != nil {
		t.Errorf("canonical screenshot missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir.Path(), "screenshot_thumb.png")); err != nil {
		t.Errorf("thumbnail missing: %v", err)
	}
}

func TestWriteAllMeta(t *testing.T) {
	root := t.TempDir()
	store, err := NewStore(root)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.WriteAllMeta([]map[string]string{{"url": "https://example.com"}}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(root, "all_meta.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "example.com") {
		t.Errorf("all_meta.json content: %s", data)
	}
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, x, color.White)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
