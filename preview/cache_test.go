package preview

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c, err := NewCache(2)
	require.NoError(t, err)

	img0 := image.NewGray(image.Rect(0, 0, 1, 1))
	img1 := image.NewGray(image.Rect(0, 0, 1, 1))
	img2 := image.NewGray(image.Rect(0, 0, 1, 1))

	c.Put(0, img0)
	c.Put(1, img1)
	_, _ = c.Get(0) // touch 0, making 1 the least-recently-used
	c.Put(2, img2)  // should evict 1, not 0

	_, ok0 := c.Get(0)
	_, ok1 := c.Get(1)
	_, ok2 := c.Get(2)
	assert.True(t, ok0)
	assert.False(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, 2, c.Len())
}

func TestCacheRejectsNonPositiveCapacity(t *testing.T) {
	_, err := NewCache(0)
	assert.Error(t, err)
}
