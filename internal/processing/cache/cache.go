package cache

import (
	"fmt"
	"sync"
	"time"

	"hsv-range-finder/internal/logger"
	"hsv-range-finder/internal/models"
	"hsv-range-finder/internal/opencv/safe"
)

// Processor computes a fresh result. *threshold.Engine satisfies it.
type Processor interface {
	Process(src *safe.Mat, bounds models.HSVBounds) (*models.ProcessingResult, error)
}

// Stats reports cache effectiveness for debug logging.
type Stats struct {
	Hits        int
	Misses      int
	LastCompute time.Duration
}

// Cache holds the result of the most recent (image, bounds) pair. Results
// returned by GetOrCompute stay owned by the cache and are closed when the
// entry is replaced or invalidated.
type Cache struct {
	processor Processor
	logger    logger.Logger

	mu     sync.Mutex
	image  *models.LoadedImage
	bounds models.HSVBounds
	entry  *models.ProcessingResult
	stats  Stats
}

func NewCache(processor Processor, log logger.Logger) *Cache {
	return &Cache{
		processor: processor,
		logger:    log,
	}
}

// GetOrCompute returns the stored result when img is the stored image and
// bounds match exactly; otherwise it runs the processor and replaces the
// entry. A processor error leaves the previous entry in place.
func (c *Cache) GetOrCompute(img *models.LoadedImage, bounds models.HSVBounds) (*models.ProcessingResult, error) {
	if img == nil {
		return nil, fmt.Errorf("cache: no image")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entry != nil && c.image == img && c.bounds == bounds {
		c.stats.Hits++
		return c.entry, nil
	}

	c.stats.Misses++
	start := time.Now()

	result, err := c.processor.Process(img.Mat, bounds)
	if err != nil {
		return nil, fmt.Errorf("cache: compute %s: %w", bounds, err)
	}

	c.stats.LastCompute = time.Since(start)
	c.replace(img, bounds, result)

	c.logger.Debug("ProcessingCache", "result computed", map[string]interface{}{
		"bounds":   bounds.String(),
		"duration": c.stats.LastCompute,
		"hits":     c.stats.Hits,
		"misses":   c.stats.Misses,
	})

	return result, nil
}

// Invalidate drops the entry. Called on every image load.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.replace(nil, models.HSVBounds{}, nil)
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stats
}

func (c *Cache) Shutdown() {
	c.Invalidate()
	c.logger.Info("ProcessingCache", "cache released", nil)
}

func (c *Cache) replace(img *models.LoadedImage, bounds models.HSVBounds, result *models.ProcessingResult) {
	if c.entry != nil && c.entry != result {
		c.entry.Close()
	}
	c.image = img
	c.bounds = bounds
	c.entry = result
}
