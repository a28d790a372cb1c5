package render

import (
	"fmt"
	"image"

	"hsv-range-finder/internal/opencv/conversion"
	"hsv-range-finder/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// minLaidOut is the smallest pane dimension treated as laid out.
const minLaidOut = 10

// Surface is a pane that shows one image at a time.
type Surface interface {
	PixelSize() (width, height int)
	SetImage(img image.Image)
	Clear()
}

type Renderer struct {
	fallbackWidth  int
	fallbackHeight int
}

func NewRenderer(fallbackWidth, fallbackHeight int) *Renderer {
	return &Renderer{
		fallbackWidth:  fallbackWidth,
		fallbackHeight: fallbackHeight,
	}
}

// TargetSize is the surface's size, or the fallback size before the surface
// has been laid out.
func (r *Renderer) TargetSize(surface Surface) (int, int) {
	w, h := surface.PixelSize()
	if w < minLaidOut || h < minLaidOut {
		return r.fallbackWidth, r.fallbackHeight
	}
	return w, h
}

// Target pairs a Mat with the surface that shows it.
type Target struct {
	Src     *safe.Mat
	Surface Surface
}

// Render scales every source to its surface. All frames are built before
// any surface changes, so on error every surface keeps its previous image.
func (r *Renderer) Render(targets ...Target) error {
	frames := make([]image.Image, len(targets))
	for i, t := range targets {
		img, err := r.frame(t.Src, t.Surface)
		if err != nil {
			return err
		}
		frames[i] = img
	}

	for i, t := range targets {
		t.Surface.SetImage(frames[i])
	}
	return nil
}

func (r *Renderer) frame(src *safe.Mat, surface Surface) (image.Image, error) {
	if surface == nil {
		return nil, fmt.Errorf("render: nil surface")
	}

	w, h := r.TargetSize(surface)

	resized, err := conversion.ResizeMat(src, w, h, gocv.InterpolationLanczos4)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	defer resized.Close()

	img, err := conversion.MatToImage(resized)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return img, nil
}

// ClearAll empties every surface.
func (r *Renderer) ClearAll(surfaces ...Surface) {
	for _, s := range surfaces {
		if s != nil {
			s.Clear()
		}
	}
}
