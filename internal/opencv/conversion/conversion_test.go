package conversion

import (
	"image"
	"image/color"
	"testing"

	"gocv.io/x/gocv"
)

func quadrants() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(10, 10, 12, 12))
	img.Set(10, 10, color.NRGBA{255, 0, 0, 255})
	img.Set(11, 10, color.NRGBA{0, 255, 0, 255})
	img.Set(10, 11, color.NRGBA{0, 0, 255, 255})
	img.Set(11, 11, color.NRGBA{255, 255, 255, 255})
	return img
}

func TestImageToMatIsBGR(t *testing.T) {
	m, err := ImageToMat(quadrants())
	if err != nil {
		t.Fatalf("ImageToMat: %v", err)
	}
	defer m.Close()

	if m.Rows() != 2 || m.Cols() != 2 || m.Channels() != 3 {
		t.Fatalf("shape = %dx%dx%d, want 2x2x3", m.Rows(), m.Cols(), m.Channels())
	}

	testCases := []struct {
		row, col int
		bgr      [3]uint8
	}{
		{0, 0, [3]uint8{0, 0, 255}},
		{0, 1, [3]uint8{0, 255, 0}},
		{1, 0, [3]uint8{255, 0, 0}},
		{1, 1, [3]uint8{255, 255, 255}},
	}
	for _, tc := range testCases {
		for ch := 0; ch < 3; ch++ {
			got, err := m.GetUCharAt3(tc.row, tc.col, ch)
			if err != nil {
				t.Fatalf("GetUCharAt3: %v", err)
			}
			if got != tc.bgr[ch] {
				t.Errorf("(%d,%d)[%d] = %d, want %d", tc.row, tc.col, ch, got, tc.bgr[ch])
			}
		}
	}
}

func TestMatToImageRoundTripsColour(t *testing.T) {
	m, err := ImageToMat(quadrants())
	if err != nil {
		t.Fatalf("ImageToMat: %v", err)
	}
	defer m.Close()

	img, err := MatToImage(m)
	if err != nil {
		t.Fatalf("MatToImage: %v", err)
	}
	rgba, ok := img.(*image.RGBA)
	if !ok {
		t.Fatalf("MatToImage returned %T, want *image.RGBA", img)
	}
	if got := rgba.RGBAAt(0, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("top-left = %v, want red", got)
	}
	if got := rgba.RGBAAt(0, 1); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("bottom-left = %v, want blue", got)
	}
}

func TestResizeMatExactSize(t *testing.T) {
	m, err := ImageToMat(quadrants())
	if err != nil {
		t.Fatalf("ImageToMat: %v", err)
	}
	defer m.Close()

	resized, err := ResizeMat(m, 30, 40, gocv.InterpolationLanczos4)
	if err != nil {
		t.Fatalf("ResizeMat: %v", err)
	}
	defer resized.Close()

	if resized.Cols() != 30 || resized.Rows() != 40 {
		t.Errorf("resized to %dx%d, want 30x40", resized.Cols(), resized.Rows())
	}

	if _, err := ResizeMat(m, 0, 10, gocv.InterpolationLanczos4); err == nil {
		t.Error("expected error for zero width")
	}
}
