package imaging

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/media-handler/internal/media"
)

// ErrNotRaster is returned when a file is not a decodable raster image
var ErrNotRaster = errors.New("not a raster image")

// DimensionCache remembers the pixel dimensions of image files so a file is
// decoded at most once while it is unchanged on disk.
//
// Entries are keyed by the exact path string and invalidated when the file's
// size or modification time changes.
//
// DimensionCache is safe for concurrent use by multiple goroutines.
//
// # Example Usage
//
//	cache := imaging.NewDimensionCache()
//	dim, err := cache.Probe("/var/media/dam/hero.jpg")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(dim.Width, dim.Height)
type DimensionCache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

type entry struct {
	size    int64
	modTime time.Time
	dim     media.Dimension
}

// NewDimensionCache creates an empty cache
func NewDimensionCache() *DimensionCache {
	return &DimensionCache{
		entries: make(map[string]entry),
	}
}

// Probe returns the oriented dimensions of the image at path.
//
// Supported formats are those of github.com/disintegration/imaging (JPEG, PNG,
// GIF, TIFF, BMP). Other files fail with ErrNotRaster.
func (c *DimensionCache) Probe(path string) (media.Dimension, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return media.Dimension{}, fmt.Errorf("failed to stat image: %w", err)
	}

	c.mu.RLock()
	e, ok := c.entries[path]
	c.mu.RUnlock()
	if ok && e.size == stat.Size() && e.modTime.Equal(stat.ModTime()) {
		return e.dim, nil
	}

	if _, err := imaging.FormatFromFilename(path); err != nil {
		return media.Dimension{}, fmt.Errorf("%w: %s", ErrNotRaster, path)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return media.Dimension{}, fmt.Errorf("%w: failed to decode %s: %v", ErrNotRaster, path, err)
	}

	bounds := img.Bounds()
	dim := media.Dimension{Width: int64(bounds.Dx()), Height: int64(bounds.Dy())}

	c.mu.Lock()
	c.entries[path] = entry{size: stat.Size(), modTime: stat.ModTime(), dim: dim}
	c.mu.Unlock()

	return dim, nil
}

// Evict forgets the entry for path
func (c *DimensionCache) Evict(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// Clear forgets all entries
func (c *DimensionCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Len returns the number of cached entries
func (c *DimensionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
