package services

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hsv-range-finder/internal/logger"
	"hsv-range-finder/internal/models"
	"hsv-range-finder/internal/opencv/conversion"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

var (
	ErrNotExist   = errors.New("selected file does not exist")
	ErrNotRegular = errors.New("selected path is not a regular file")
	ErrDecode     = errors.New("could not load image, please ensure it is a valid image file")
)

// Extensions offered by the open dialog.
var Extensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff"}

// Limits above which a load needs confirmation.
type Limits struct {
	MaxFileSize int64
	MaxPixels   int
}

// Inspection is what is known about a file before it is decoded.
type Inspection struct {
	Path     string
	Format   string
	Width    int
	Height   int
	FileSize int64
	Warnings []string
}

func (i *Inspection) Pixels() int {
	return i.Width * i.Height
}

// ImageService validates and decodes image files into BGR Mats.
type ImageService struct {
	limits Limits
	logger logger.Logger
}

func NewImageService(limits Limits, log logger.Logger) *ImageService {
	return &ImageService{
		limits: limits,
		logger: log,
	}
}

// Inspect checks that path names a readable image and reads its header.
// Oversize files come back with Warnings set rather than an error.
func (is *ImageService) Inspect(ctx context.Context, path string) (*Inspection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegular, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	cfg, detected, err := image.DecodeConfig(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, filepath.Base(path), err)
	}

	insp := &Inspection{
		Path:     path,
		Format:   determineFormat(strings.ToLower(filepath.Ext(path)), detected),
		Width:    cfg.Width,
		Height:   cfg.Height,
		FileSize: info.Size(),
	}

	if is.limits.MaxFileSize > 0 && insp.FileSize > is.limits.MaxFileSize {
		insp.Warnings = append(insp.Warnings, fmt.Sprintf("file is %s, above the %s limit",
			formatBytes(insp.FileSize), formatBytes(is.limits.MaxFileSize)))
	}
	if is.limits.MaxPixels > 0 && insp.Pixels() > is.limits.MaxPixels {
		insp.Warnings = append(insp.Warnings, fmt.Sprintf("image is %dx%d (%.1f MP), above the %.1f MP limit",
			insp.Width, insp.Height, megapixels(insp.Pixels()), megapixels(is.limits.MaxPixels)))
	}

	is.logger.Debug("ImageService", "file inspected", map[string]interface{}{
		"path":     path,
		"format":   insp.Format,
		"width":    insp.Width,
		"height":   insp.Height,
		"size":     insp.FileSize,
		"warnings": len(insp.Warnings),
	})

	return insp, nil
}

// Load decodes an inspected file into a LoadedImage. The caller owns the
// returned image's Mat.
func (is *ImageService) Load(ctx context.Context, insp *Inspection) (*models.LoadedImage, error) {
	if insp == nil {
		return nil, fmt.Errorf("no file inspected")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	file, err := os.Open(insp.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, insp.Path)
		}
		return nil, fmt.Errorf("open %s: %w", insp.Path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, filepath.Base(insp.Path), err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := conversion.ImageToMat(img)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", filepath.Base(insp.Path), err)
	}

	loaded := &models.LoadedImage{
		Mat:      mat,
		Path:     insp.Path,
		Format:   insp.Format,
		Width:    mat.Cols(),
		Height:   mat.Rows(),
		Channels: mat.Channels(),
		FileSize: insp.FileSize,
		LoadTime: time.Now(),
	}

	is.logger.Info("ImageService", "image loaded", map[string]interface{}{
		"path":     insp.Path,
		"width":    loaded.Width,
		"height":   loaded.Height,
		"duration": time.Since(start),
	})

	return loaded, nil
}

func determineFormat(extension, detectedFormat string) string {
	switch extension {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".bmp":
		return "bmp"
	case ".tiff", ".tif":
		return "tiff"
	default:
		if detectedFormat != "" {
			return detectedFormat
		}
		return "unknown"
	}
}

func formatBytes(n int64) string {
	const mib = 1 << 20
	if n >= mib {
		return fmt.Sprintf("%.1f MiB", float64(n)/mib)
	}
	if n >= 1<<10 {
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

func megapixels(n int) float64 {
	return float64(n) / 1e6
}
