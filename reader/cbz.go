package reader

import (
	"archive/zip"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sort"
	"strings"
)

// cbzBook reads a CBZ (a ZIP archive of page images) in filename order,
// grounded on the standard library's archive/zip + image decoders -- no
// pack library offers raster-archive decoding beyond what stdlib already
// provides (see DESIGN.md).
type cbzBook struct {
	zr      *zip.ReadCloser
	entries []*zip.File
	pos     int
}

// OpenCBZ opens a CBZ/ZIP archive at path and returns a Book iterating its
// image entries in filename order.
func OpenCBZ(path string) (Book, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("reader: opening cbz %q: %w", path, err)
	}

	var entries []*zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if !isImagePath(f.Name) {
			continue
		}
		entries = append(entries, f)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	return &cbzBook{zr: zr, entries: entries}, nil
}

func isImagePath(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func (b *cbzBook) Len() int { return len(b.entries) }

func (b *cbzBook) Next() (Frame, bool, error) {
	if b.pos >= len(b.entries) {
		return Frame{}, false, nil
	}
	entry := b.entries[b.pos]
	idx := b.pos
	b.pos++

	rc, err := entry.Open()
	if err != nil {
		return Frame{}, false, fmt.Errorf("reader: opening %q: %w", entry.Name, err)
	}
	defer rc.Close()

	img, _, err := image.Decode(rc)
	if err != nil {
		return Frame{}, false, fmt.Errorf("reader: decoding %q: %w", entry.Name, err)
	}
	return Frame{Index: idx, Image: img}, true, nil
}

func (b *cbzBook) Close() error {
	return b.zr.Close()
}
