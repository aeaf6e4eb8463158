package graphics

import (
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// TextureCache shares textures by URI for the lifetime of one GL context.
type TextureCache struct {
	mu       sync.RWMutex
	textures map[string]uint32
}

func NewTextureCache() *TextureCache {
	return &TextureCache{textures: make(map[string]uint32)}
}

// Get returns the cached texture for uri, loading it on first use.
func (c *TextureCache) Get(uri string) (uint32, error) {
	c.mu.RLock()
	if tex, ok := c.textures[uri]; ok {
		c.mu.RUnlock()
		return tex, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double check locking
	if tex, ok := c.textures[uri]; ok {
		return tex, nil
	}

	tex, _, _, err := LoadTextureURI(uri)
	if err != nil {
		return 0, err
	}

	c.textures[uri] = tex
	return tex, nil
}

// Release deletes every cached texture. Must run on the render thread.
func (c *TextureCache) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for uri, tex := range c.textures {
		gl.DeleteTextures(1, &tex)
		delete(c.textures, uri)
	}
}
