package preview

import (
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"strconv"
	"strings"

	"github.com/tidwall/pretty"

	"github.com/gocomics/panelflow/book"
	"github.com/gocomics/panelflow/reader"
)

// Store is what a Server needs from the book under inspection: its
// decoded book data and a way to fetch a page's source image.
type Store interface {
	Data() book.BookData
	Page(index int) (image.Image, error)
}

// readerStore adapts a reader.Book plus its BookData into a Store,
// decoding pages on demand through a bounded Cache.
type readerStore struct {
	data  book.BookData
	book  reader.Book
	cache *Cache
}

// NewReaderStore builds a Store backed by rb, caching up to cacheSize
// decoded pages at a time.
func NewReaderStore(data book.BookData, rb reader.Book, cacheSize int) (Store, error) {
	cache, err := NewCache(cacheSize)
	if err != nil {
		return nil, err
	}
	return &readerStore{data: data, book: rb, cache: cache}, nil
}

func (s *readerStore) Data() book.BookData { return s.data }

func (s *readerStore) Page(index int) (image.Image, error) {
	if img, ok := s.cache.Get(index); ok {
		return img, nil
	}
	for {
		frame, ok, err := s.book.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("preview: page %d not found", index)
		}
		s.cache.Put(frame.Index, frame.Image)
		if frame.Index == index {
			return frame.Image, nil
		}
	}
}

// Server is a minimal local inspection HTTP server: it exposes the book's
// page/panel data as pretty-printed JSON and serves page thumbnails as
// JPEG.
type Server struct {
	store Store
	mux   *http.ServeMux
}

// NewServer builds a Server over store.
func NewServer(store Store) *Server {
	s := &Server{store: store, mux: http.NewServeMux()}
	s.mux.HandleFunc("/pages", s.handlePages)
	s.mux.HandleFunc("/pages/", s.handlePageOrThumbnail)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

func (s *Server) handlePages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Data())
}

// handlePageOrThumbnail routes GET /pages/{index} (panel overlay JSON) and
// GET /pages/{index}/thumbnail (decoded page image as JPEG).
func (s *Server) handlePageOrThumbnail(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/pages/")
	parts := strings.SplitN(rest, "/", 2)
	index, err := strconv.Atoi(parts[0])
	if err != nil {
		http.Error(w, "preview: invalid page index", http.StatusBadRequest)
		return
	}

	if len(parts) == 2 && parts[1] == "thumbnail" {
		s.handleThumbnail(w, index)
		return
	}

	data := s.store.Data()
	for _, page := range data.Pages {
		if page.Index == index {
			writeJSON(w, http.StatusOK, page)
			return
		}
	}
	http.Error(w, fmt.Sprintf("preview: page %d not found", index), http.StatusNotFound)
}

func (s *Server) handleThumbnail(w http.ResponseWriter, index int) {
	img, err := s.store.Page(index)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: 85}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(pretty.Pretty(raw))
}
