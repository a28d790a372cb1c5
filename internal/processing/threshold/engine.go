package threshold

import (
	"fmt"
	"time"

	"hsv-range-finder/internal/models"
	"hsv-range-finder/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// Engine turns a BGR image and an HSV range into a mask, a colour-filtered
// image and a binary image. It holds no state between calls.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Process runs one thresholding pass. An empty selection is a valid result.
// The caller owns the returned result and must Close it.
func (e *Engine) Process(src *safe.Mat, bounds models.HSVBounds) (*models.ProcessingResult, error) {
	start := time.Now()

	if err := safe.ValidateBGR(src, "HSV thresholding"); err != nil {
		return nil, fmt.Errorf("threshold: %w", err)
	}

	original, err := src.Clone()
	if err != nil {
		return nil, fmt.Errorf("threshold: clone source: %w", err)
	}

	result := &models.ProcessingResult{
		Original: original,
		Bounds:   bounds,
	}

	if err := e.fill(result); err != nil {
		result.Close()
		return nil, err
	}

	result.ProcessTime = time.Since(start)
	return result, nil
}

func (e *Engine) fill(result *models.ProcessingResult) error {
	orig := result.Original.GetMat()
	rows, cols := orig.Rows(), orig.Cols()

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(orig, &hsv, gocv.ColorBGRToHSV)
	if hsv.Empty() {
		return fmt.Errorf("threshold: BGR to HSV conversion produced no data")
	}

	lower := scalar(result.Bounds.Lower)
	upper := scalar(result.Bounds.Upper)

	mask := gocv.NewMat()
	gocv.InRangeWithScalar(hsv, lower, upper, &mask)
	m, err := safe.Adopt(mask, "mask")
	if err != nil {
		return fmt.Errorf("threshold: in-range: %w", err)
	}
	result.Mask = m

	filtered := gocv.Zeros(rows, cols, gocv.MatTypeCV8UC3)
	orig.CopyToWithMask(&filtered, result.Mask.GetMat())
	f, err := safe.Adopt(filtered, "filtered")
	if err != nil {
		return fmt.Errorf("threshold: masked copy: %w", err)
	}
	result.Filtered = f

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(result.Filtered.GetMat(), &gray, gocv.ColorBGRToGray)

	binary := gocv.NewMat()
	gocv.Threshold(gray, &binary, 0, 255, gocv.ThresholdBinary)
	b, err := safe.Adopt(binary, "binary")
	if err != nil {
		return fmt.Errorf("threshold: binarize: %w", err)
	}
	result.Binary = b

	stats, err := selectionStats(hsv, result.Mask.GetMat())
	if err != nil {
		return fmt.Errorf("threshold: stats: %w", err)
	}
	result.Stats = stats

	return nil
}

func scalar(t models.Triple) gocv.Scalar {
	return gocv.NewScalar(float64(t.H), float64(t.S), float64(t.V), 0)
}
