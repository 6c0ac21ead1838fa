package reader

import (
	"fmt"
	"os"

	gpdf "github.com/Geek0x0/pdf"
)

// pdfBook surfaces only page-count front matter from a PDF via
// github.com/Geek0x0/pdf; per DESIGN.md, full PDF rasterization is out of
// scope (no rendering library in the pack), so Next always reports the
// sentinel error below instead of silently yielding blank pages.
type pdfBook struct {
	f        *os.File
	numPages int
	pos      int
}

// ErrPDFRasterizationUnsupported is returned by a PDF Book's Next: the
// reader can report page count but cannot decode page raster content.
var ErrPDFRasterizationUnsupported = fmt.Errorf("reader: pdf page rasterization is not supported")

// OpenPDF opens path and reads its page count via the pdf library's
// cross-reference table, without decoding any page content.
func OpenPDF(path string) (Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reader: opening pdf %q: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reader: stat pdf %q: %w", path, err)
	}
	r, err := gpdf.NewReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reader: parsing pdf %q: %w", path, err)
	}
	return &pdfBook{f: f, numPages: r.NumPage()}, nil
}

func (b *pdfBook) Len() int { return b.numPages }

func (b *pdfBook) Next() (Frame, bool, error) {
	if b.pos >= b.numPages {
		return Frame{}, false, nil
	}
	return Frame{}, false, ErrPDFRasterizationUnsupported
}

func (b *pdfBook) Close() error { return b.f.Close() }
