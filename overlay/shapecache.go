package overlay

import (
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

type shapeKey struct {
	role   string
	radius int
}

func (k shapeKey) String() string {
	return k.role + strconv.Itoa(k.radius)
}

// ShapeCache keeps fixed-shape glyphs keyed by (role, radius) for the life of
// the cache. It is shared by all renderers and safe for concurrent use; a glyph
// is drawn once per key even when several goroutines ask for it together.
type ShapeCache struct {
	lock   sync.RWMutex
	shapes map[shapeKey]Canvas
	flight singleflight.Group
}

func NewShapeCache() *ShapeCache {
	return &ShapeCache{shapes: make(map[shapeKey]Canvas)}
}

// Get returns the glyph for role and radius, calling draw on a miss.
func (c *ShapeCache) Get(role string, radius int, draw func() Canvas) Canvas {
	key := shapeKey{role: role, radius: radius}
	if img, found := c.lookup(key); found {
		return img
	}

	v, _, _ := c.flight.Do(key.String(), func() (interface{}, error) {
		if img, found := c.lookup(key); found {
			return img, nil
		}
		img := draw()
		c.lock.Lock()
		c.shapes[key] = img
		c.lock.Unlock()
		return img, nil
	})
	return v.(Canvas)
}

func (c *ShapeCache) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return len(c.shapes)
}

func (c *ShapeCache) lookup(key shapeKey) (Canvas, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	img, found := c.shapes[key]
	return img, found
}
