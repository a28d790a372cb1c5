package conversion

import (
	"fmt"
	"image"
	"image/draw"

	"hsv-range-finder/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// MatToImage converts a GoCV Mat to a standard Go image. One-channel Mats
// become *image.Gray, three-channel BGR Mats become *image.RGBA.
func MatToImage(src *safe.Mat) (image.Image, error) {
	if err := safe.ValidateMatForOperation(src, "Mat to image conversion"); err != nil {
		return nil, err
	}

	rows := src.Rows()
	cols := src.Cols()

	data, err := src.Bytes()
	if err != nil {
		return nil, fmt.Errorf("pixel access failed: %w", err)
	}

	switch src.Channels() {
	case 1:
		return grayFromBytes(data, rows, cols)
	case 3:
		return rgbaFromBGR(data, rows, cols)
	default:
		return nil, fmt.Errorf("unsupported channel count: %d", src.Channels())
	}
}

// ImageToMat converts any Go image to a three-channel BGR Mat. Alpha is dropped.
func ImageToMat(img image.Image) (*safe.Mat, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if err := safe.ValidateDimensions(width, height, "image to Mat conversion"); err != nil {
		return nil, err
	}

	rgba := toRGBA(img)

	bgr := make([]byte, width*height*3)
	for y := 0; y < height; y++ {
		row := rgba.Pix[y*rgba.Stride : y*rgba.Stride+width*4]
		out := bgr[y*width*3 : (y+1)*width*3]
		for x := 0; x < width; x++ {
			out[x*3+0] = row[x*4+2]
			out[x*3+1] = row[x*4+1]
			out[x*3+2] = row[x*4+0]
		}
	}

	return safe.NewMatFromBytes(height, width, gocv.MatTypeCV8UC3, bgr, "loaded")
}

// toRGBA returns img as a zero-origin *image.RGBA, copying only when needed.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Rect, img, bounds.Min, draw.Src)
	return rgba
}

func grayFromBytes(data []byte, rows, cols int) (*image.Gray, error) {
	if len(data) < rows*cols {
		return nil, fmt.Errorf("buffer too short: %d bytes for %dx%d", len(data), cols, rows)
	}

	img := image.NewGray(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+cols], data[y*cols:(y+1)*cols])
	}
	return img, nil
}

func rgbaFromBGR(data []byte, rows, cols int) (*image.RGBA, error) {
	if len(data) < rows*cols*3 {
		return nil, fmt.Errorf("buffer too short: %d bytes for %dx%dx3", len(data), cols, rows)
	}

	img := image.NewRGBA(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		in := data[y*cols*3 : (y+1)*cols*3]
		out := img.Pix[y*img.Stride : y*img.Stride+cols*4]
		for x := 0; x < cols; x++ {
			out[x*4+0] = in[x*3+2]
			out[x*4+1] = in[x*3+1]
			out[x*4+2] = in[x*3+0]
			out[x*4+3] = 0xff
		}
	}
	return img, nil
}
