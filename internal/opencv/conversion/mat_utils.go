package conversion

import (
	"fmt"
	"image"

	"hsv-range-finder/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// ResizeMat scales src to exactly newWidth x newHeight.
func ResizeMat(src *safe.Mat, newWidth, newHeight int, interpolation gocv.InterpolationFlags) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "Mat resizing"); err != nil {
		return nil, err
	}

	if err := safe.ValidateDimensions(newWidth, newHeight, "Mat resizing"); err != nil {
		return nil, err
	}

	dst := gocv.NewMat()
	gocv.Resize(src.GetMat(), &dst, image.Pt(newWidth, newHeight), 0, 0, interpolation)

	resized, err := safe.Adopt(dst, src.Tag()+"_resized")
	if err != nil {
		return nil, fmt.Errorf("resize to %dx%d failed: %w", newWidth, newHeight, err)
	}
	return resized, nil
}
