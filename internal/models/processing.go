package models

import (
	"time"

	"hsv-range-finder/internal/opencv/safe"
)

// ProcessingResult is everything derived from one (image, bounds) pair.
type ProcessingResult struct {
	Original *safe.Mat
	Mask     *safe.Mat
	Filtered *safe.Mat
	Binary   *safe.Mat

	Bounds      HSVBounds
	Stats       SelectionStats
	ProcessTime time.Duration
}

// Close releases every Mat held by the result. Safe on nil and repeated calls.
func (r *ProcessingResult) Close() {
	if r == nil {
		return
	}
	for _, m := range []*safe.Mat{r.Original, r.Mask, r.Filtered, r.Binary} {
		if m != nil {
			m.Close()
		}
	}
}

// SelectionStats describes the pixels the mask selected.
type SelectionStats struct {
	Selected int
	Total    int
	Coverage float64

	// Per-channel mean and standard deviation over selected pixels, in
	// H, S, V order. Zero when nothing is selected.
	Mean   [3]float64
	StdDev [3]float64
}

// ViewState selects what the secondary pane shows.
type ViewState struct {
	ShowBinary bool
}
