package preview

import (
	"encoding/json"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocomics/panelflow/book"
)

type memStore struct {
	data  book.BookData
	pages map[int]image.Image
}

func (m memStore) Data() book.BookData { return m.data }
func (m memStore) Page(index int) (image.Image, error) {
	img, ok := m.pages[index]
	if !ok {
		return nil, assert.AnError
	}
	return img, nil
}

func sampleStore() memStore {
	b := book.NewBookData("sha256:abc", book.DirectionLTR, "panelflow-test", "2026-01-01T00:00:00Z")
	b.Pages = []book.Page{{
		Index:  0,
		Size:   [2]int{100, 50},
		Panels: []book.PanelRecord{{ID: "p-0", Bbox: [4]int{0, 0, 100, 50}, Confidence: 0.9}},
		Order:  []string{"p-0"},
	}}
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))
	for x := 0; x < 100; x++ {
		img.Set(x, 0, color.White)
	}
	return memStore{data: b, pages: map[int]image.Image{0: img}}
}

func TestServerPagesListsBook(t *testing.T) {
	srv := NewServer(sampleStore())
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/pages")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got book.BookData
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "sha256:abc", got.BookHash)
	assert.Len(t, got.Pages, 1)
}

func TestServerPageByIndex(t *testing.T) {
	srv := NewServer(sampleStore())
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/pages/0")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got book.Page
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 0, got.Index)
	assert.Len(t, got.Panels, 1)
}

func TestServerPageNotFound(t *testing.T) {
	srv := NewServer(sampleStore())
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/pages/7")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServerThumbnail(t *testing.T) {
	srv := NewServer(sampleStore())
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/pages/0/thumbnail")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
}
