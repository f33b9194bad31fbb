package web

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/vovakirdan/flapforge/internal/assets"
)

type sprite struct {
	version uint64
	img     *ebiten.Image
}

// spriteCache uploads library images to the GPU once per slot version.
type spriteCache struct {
	lib     *assets.Library
	sprites map[assets.Slot]sprite
	bird    *ebiten.Image
}

func newSpriteCache(lib *assets.Library) *spriteCache {
	return &spriteCache{lib: lib, sprites: make(map[assets.Slot]sprite)}
}

// get returns the current image for slot, or nil when the slot is empty.
func (c *spriteCache) get(slot assets.Slot) *ebiten.Image {
	if c.lib == nil {
		return nil
	}
	v := c.lib.Version(slot)
	if s, ok := c.sprites[slot]; ok && s.version == v {
		return s.img
	}
	if old, ok := c.sprites[slot]; ok && old.img != nil {
		old.img.Deallocate()
	}

	var img *ebiten.Image
	if src := c.lib.Image(slot); src != nil {
		img = ebiten.NewImageFromImage(src)
	}
	c.sprites[slot] = sprite{version: v, img: img}
	return img
}

func (c *spriteCache) placeholderBird(size float64) *ebiten.Image {
	if c.bird == nil {
		n := int(math.Ceil(size))
		c.bird = ebiten.NewImage(n, n)
		drawBirdPlaceholder(c.bird, size)
	}
	return c.bird
}
