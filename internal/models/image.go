package models

import (
	"sync"
	"time"

	"hsv-range-finder/internal/opencv/safe"
)

// LoadedImage is a decoded BGR image. The Mat is never written after load.
type LoadedImage struct {
	Mat      *safe.Mat
	Path     string
	Format   string
	Width    int
	Height   int
	Channels int
	FileSize int64
	LoadTime time.Time
}

// Pixels is width*height.
func (img *LoadedImage) Pixels() int {
	return img.Width * img.Height
}

// ImageRepository owns the single loaded image.
type ImageRepository struct {
	mu      sync.RWMutex
	current *LoadedImage
}

func NewImageRepository() *ImageRepository {
	return &ImageRepository{}
}

// SetImage replaces the current image and releases the previous one.
func (r *ImageRepository) SetImage(img *LoadedImage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil && r.current != img && r.current.Mat != nil {
		r.current.Mat.Close()
	}
	r.current = img
}

// Current returns the loaded image, or nil.
func (r *ImageRepository) Current() *LoadedImage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Clear releases the loaded image.
func (r *ImageRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil && r.current.Mat != nil {
		r.current.Mat.Close()
	}
	r.current = nil
}

// Shutdown releases all resources
func (r *ImageRepository) Shutdown() {
	r.Clear()
}
