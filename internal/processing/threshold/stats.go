package threshold

import (
	"fmt"

	"hsv-range-finder/internal/models"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"
)

// levels holds the values 0..255 used as the sample axis for histogram
// weighted statistics.
var levels = func() []float64 {
	l := make([]float64, 256)
	for i := range l {
		l[i] = float64(i)
	}
	return l
}()

// selectionStats summarises the HSV values under mask. Per-channel
// histograms keep memory constant regardless of image size.
func selectionStats(hsv, mask gocv.Mat) (models.SelectionStats, error) {
	total := mask.Rows() * mask.Cols()
	stats := models.SelectionStats{Total: total}
	if total == 0 {
		return stats, nil
	}

	stats.Selected = gocv.CountNonZero(mask)
	stats.Coverage = float64(stats.Selected) / float64(total)
	if stats.Selected == 0 {
		return stats, nil
	}

	hsvData := hsv.ToBytes()
	maskData := mask.ToBytes()
	if len(hsvData) < total*3 || len(maskData) < total {
		return stats, fmt.Errorf("unexpected buffer sizes: hsv=%d mask=%d for %d pixels", len(hsvData), len(maskData), total)
	}

	var hist [3][]float64
	for ch := range hist {
		hist[ch] = make([]float64, 256)
	}
	for i := 0; i < total; i++ {
		if maskData[i] == 0 {
			continue
		}
		hist[0][hsvData[i*3]]++
		hist[1][hsvData[i*3+1]]++
		hist[2][hsvData[i*3+2]]++
	}

	for ch := range hist {
		if stats.Selected < 2 {
			stats.Mean[ch] = stat.Mean(levels, hist[ch])
			continue
		}
		stats.Mean[ch], stats.StdDev[ch] = stat.MeanStdDev(levels, hist[ch])
	}

	return stats, nil
}
