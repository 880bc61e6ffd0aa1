package system

import (
	"image"
	"sync"
)

// ImagePool переиспользует промежуточные буферы *image.RGBA одного размера,
// чтобы покадровая пикселизация не нагружала GC.
type ImagePool struct {
	mu    sync.RWMutex
	pools map[image.Point]*sync.Pool
}

var globalPool = NewImagePool()

func NewImagePool() *ImagePool {
	return &ImagePool{pools: make(map[image.Point]*sync.Pool)}
}

// GetImage returns a buffer with bounds rect from the shared pool. Its pixels are not cleared.
func GetImage(rect image.Rectangle) *image.RGBA {
	return globalPool.Get(rect)
}

// PutImage hands a buffer obtained from GetImage back to the shared pool.
func PutImage(img *image.RGBA) {
	globalPool.Put(img)
}

func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	size := rect.Size()
	if size.X <= 0 || size.Y <= 0 {
		return image.NewRGBA(rect)
	}
	img := p.pool(size).Get().(*image.RGBA)
	// Буфер из пула мог быть выдан с другим смещением.
	img.Rect = rect
	return img
}

func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	size := img.Rect.Size()
	p.mu.RLock()
	pool, ok := p.pools[size]
	p.mu.RUnlock()
	if ok {
		pool.Put(img)
	}
}

func (p *ImagePool) pool(size image.Point) *sync.Pool {
	p.mu.RLock()
	pool, ok := p.pools[size]
	p.mu.RUnlock()
	if ok {
		return pool
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// Double check
	if pool, ok = p.pools[size]; ok {
		return pool
	}
	pool = &sync.Pool{
		New: func() interface{} {
			return image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
		},
	}
	p.pools[size] = pool
	return pool
}
