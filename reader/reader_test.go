package reader

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenRejectsUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.txt")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Open(path)
	if err != ErrUnsupportedFormat {
		t.Errorf("Open(%q) error = %v, want ErrUnsupportedFormat", path, err)
	}
}

func TestOpenDirOnDirectory(t *testing.T) {
	dir := t.TempDir()
	b, err := Open(dir)
	if err != nil {
		t.Fatalf("Open(%q): %v", dir, err)
	}
	defer b.Close()
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0 for empty directory", b.Len())
	}
}

func TestIsImagePathCaseInsensitive(t *testing.T) {
	cases := map[string]bool{
		"page01.JPG":  true,
		"page02.png":  true,
		"page03.gif":  true,
		"notes.txt":   false,
		"archive.zip": false,
	}
	for name, want := range cases {
		if got := isImagePath(name); got != want {
			t.Errorf("isImagePath(%q) = %v, want %v", name, got, want)
		}
	}
}
