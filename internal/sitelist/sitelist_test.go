package sitelist

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	content := "https://a.example\n\n  https://b.example  \nexample.org\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"https://a.example", "https://b.example", "example.org"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load = %v, want %v", got, want)
	}
}

func TestLoadLiteralURL(t *testing.T) {
	got, err := Load("https://single.example/page")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "https://single.example/page" {
		t.Errorf("Load = %v, want the literal input", got)
	}
}
