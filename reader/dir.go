package reader

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
)

// dirBook reads a directory of loose page images, sorted by filename.
type dirBook struct {
	paths []string
	pos   int
}

// OpenDir opens a directory of page images, one file per page, sorted by
// filename.
func OpenDir(dir string) (Book, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reader: reading dir %q: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !isImagePath(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return &dirBook{paths: paths}, nil
}

func (b *dirBook) Len() int { return len(b.paths) }

func (b *dirBook) Next() (Frame, bool, error) {
	if b.pos >= len(b.paths) {
		return Frame{}, false, nil
	}
	path := b.paths[b.pos]
	idx := b.pos
	b.pos++

	f, err := os.Open(path)
	if err != nil {
		return Frame{}, false, fmt.Errorf("reader: opening %q: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return Frame{}, false, fmt.Errorf("reader: decoding %q: %w", path, err)
	}
	return Frame{Index: idx, Image: img}, true, nil
}

func (b *dirBook) Close() error { return nil }
