package controllers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hsv-range-finder/internal/logger"
	"hsv-range-finder/internal/models"
	"hsv-range-finder/internal/processing/cache"
	"hsv-range-finder/internal/render"
	"hsv-range-finder/internal/scheduler"
	"hsv-range-finder/internal/services"
)

// ErrProcessingFailed is the generic error shown when a processing pass fails.
var ErrProcessingFailed = errors.New("processing failed")

// AppState is the controller's top-level state.
type AppState int

const (
	NoImage AppState = iota
	ImageLoaded
)

func (s AppState) String() string {
	switch s {
	case NoImage:
		return "no image"
	case ImageLoaded:
		return "image loaded"
	default:
		return fmt.Sprintf("AppState(%d)", int(s))
	}
}

type ImageLoader interface {
	Inspect(ctx context.Context, path string) (*services.Inspection, error)
	Load(ctx context.Context, insp *services.Inspection) (*models.LoadedImage, error)
}

type ResultCache interface {
	GetOrCompute(img *models.LoadedImage, bounds models.HSVBounds) (*models.ProcessingResult, error)
	Invalidate()
	Stats() cache.Stats
}

// View is the part of the window the controller writes to.
type View interface {
	OriginalSurface() render.Surface
	ResultSurface() render.Surface
	SetShowBinary(showBinary bool)
	ShowImageInfo(img *models.LoadedImage)
	ShowBounds(bounds models.HSVBounds)
	ShowSelection(stats *models.SelectionStats)
	ShowWarning(message string)
	ShowMessage(message string)
}

// Notifier shows modal dialogs.
type Notifier interface {
	ShowError(title string, err error)
	Confirm(title, message string, onResult func(bool))
}

// Clipboard is satisfied by fyne.Clipboard.
type Clipboard interface {
	SetContent(content string)
}

// Timing configures the change coalescer.
type Timing struct {
	Clock        scheduler.Clock
	TickInterval time.Duration
	QuietPeriod  time.Duration
}

// MainController drives the load, threshold and render cycle. All methods
// are expected to run on the UI goroutine.
type MainController struct {
	params    *models.ParameterSet
	repo      *models.ImageRepository
	loader    ImageLoader
	cache     ResultCache
	renderer  *render.Renderer
	view      View
	notifier  Notifier
	clipboard Clipboard
	coalescer *scheduler.Coalescer
	logger    logger.Logger

	state     AppState
	viewState models.ViewState
}

func NewMainController(
	params *models.ParameterSet,
	repo *models.ImageRepository,
	loader ImageLoader,
	cache ResultCache,
	renderer *render.Renderer,
	view View,
	notifier Notifier,
	clipboard Clipboard,
	timing Timing,
	log logger.Logger,
) *MainController {
	mc := &MainController{
		params:    params,
		repo:      repo,
		loader:    loader,
		cache:     cache,
		renderer:  renderer,
		view:      view,
		notifier:  notifier,
		clipboard: clipboard,
		logger:    log,
	}

	mc.coalescer = scheduler.NewCoalescer(timing.Clock, timing.TickInterval, timing.QuietPeriod, mc.ProcessPass, log)

	params.OnChange(mc.onParameterChanged)
	view.ShowBounds(params.Bounds())
	view.SetShowBinary(mc.viewState.ShowBinary)

	return mc
}

// Coalescer exposes the change coalescer so it can be started and
// registered for shutdown.
func (mc *MainController) Coalescer() *scheduler.Coalescer {
	return mc.coalescer
}

func (mc *MainController) State() AppState {
	return mc.state
}

func (mc *MainController) ViewState() models.ViewState {
	return mc.viewState
}

func (mc *MainController) onParameterChanged() {
	mc.view.ShowBounds(mc.params.Bounds())
	mc.coalescer.MarkDirty()
}

// RequestRedraw schedules a pass without changing any input, for example
// after a pane was resized.
func (mc *MainController) RequestRedraw() {
	mc.coalescer.MarkDirty()
}

// LoadImage inspects path, asks for confirmation if the file is unusually
// large, then decodes it and replaces the current image. Any failure leaves
// the current state untouched.
func (mc *MainController) LoadImage(path string) {
	ctx := context.Background()

	insp, err := mc.loader.Inspect(ctx, path)
	if err != nil {
		mc.loadFailed(path, err)
		return
	}

	if len(insp.Warnings) == 0 {
		mc.finishLoad(ctx, insp)
		return
	}

	mc.logger.Warning("MainController", "large image requires confirmation", map[string]interface{}{
		"path":     insp.Path,
		"warnings": insp.Warnings,
	})

	message := strings.Join(insp.Warnings, "\n") + "\n\nLoading may be slow and use a lot of memory. Continue?"
	mc.notifier.Confirm("Large Image", message, func(ok bool) {
		if !ok {
			mc.logger.Info("MainController", "load declined", map[string]interface{}{"path": insp.Path})
			return
		}
		mc.finishLoad(ctx, insp)
	})
}

func (mc *MainController) finishLoad(ctx context.Context, insp *services.Inspection) {
	img, err := mc.loader.Load(ctx, insp)
	if err != nil {
		mc.loadFailed(insp.Path, err)
		return
	}

	mc.cache.Invalidate()
	mc.repo.SetImage(img)
	mc.state = ImageLoaded

	mc.view.ShowImageInfo(img)
	mc.coalescer.MarkDirty()
	mc.coalescer.Flush()
}

func (mc *MainController) loadFailed(path string, err error) {
	mc.logger.Error("MainController", err, map[string]interface{}{
		"operation": "load_image",
		"path":      path,
	})
	mc.notifier.ShowError("Load Failed", err)
}

// ToggleView switches the secondary pane between the filtered image and the
// binary mask. The cached result is reused.
func (mc *MainController) ToggleView() {
	mc.viewState.ShowBinary = !mc.viewState.ShowBinary
	mc.view.SetShowBinary(mc.viewState.ShowBinary)

	mc.coalescer.MarkDirty()
	mc.coalescer.Flush()
}

func (mc *MainController) CopyLower() {
	mc.copyTriple("lower", mc.params.Lower())
}

func (mc *MainController) CopyUpper() {
	mc.copyTriple("upper", mc.params.Upper())
}

func (mc *MainController) copyTriple(which string, t models.Triple) {
	text := models.FormatTriple(t)
	mc.clipboard.SetContent(text)
	mc.view.ShowMessage(fmt.Sprintf("Copied %s bound %s", which, text))

	mc.logger.Debug("MainController", "bound copied", map[string]interface{}{
		"bound": which,
		"value": text,
	})
}

// ProcessPass thresholds the current image with the current bounds and
// renders both panes. Failures are logged and reported, and the panes keep
// their previous frame.
func (mc *MainController) ProcessPass() {
	defer func() {
		if r := recover(); r != nil {
			mc.processingFailed(fmt.Errorf("panic during processing: %v", r))
		}
	}()

	img := mc.repo.Current()
	if img == nil {
		mc.renderer.ClearAll(mc.view.OriginalSurface(), mc.view.ResultSurface())
		mc.view.ShowSelection(nil)
		return
	}

	bounds := mc.params.Bounds()
	mc.checkInverted(bounds)

	result, err := mc.cache.GetOrCompute(img, bounds)
	if err != nil {
		mc.processingFailed(err)
		return
	}

	secondary := result.Filtered
	if mc.viewState.ShowBinary {
		secondary = result.Binary
	}

	if err := mc.renderer.Render(
		render.Target{Src: result.Original, Surface: mc.view.OriginalSurface()},
		render.Target{Src: secondary, Surface: mc.view.ResultSurface()},
	); err != nil {
		mc.processingFailed(err)
		return
	}

	mc.view.ShowSelection(&result.Stats)

	stats := mc.cache.Stats()
	mc.logger.Debug("MainController", "pass rendered", map[string]interface{}{
		"selected":     result.Stats.Selected,
		"cache_hits":   stats.Hits,
		"cache_misses": stats.Misses,
		"last_compute": stats.LastCompute,
	})
}

func (mc *MainController) checkInverted(bounds models.HSVBounds) {
	inverted := bounds.Inverted()
	if len(inverted) == 0 {
		mc.view.ShowWarning("")
		return
	}

	mc.logger.Warning("MainController", "lower bound exceeds upper bound", map[string]interface{}{
		"channels": inverted,
		"bounds":   bounds.String(),
	})
	mc.view.ShowWarning(fmt.Sprintf("Lower exceeds upper on %s: nothing will be selected", strings.Join(inverted, ", ")))
}

func (mc *MainController) processingFailed(err error) {
	mc.logger.Error("MainController", err, map[string]interface{}{
		"operation": "process_pass",
		"bounds":    mc.params.Bounds().String(),
	})
	mc.notifier.ShowError("Processing Error", ErrProcessingFailed)
}

// Shutdown stops scheduled work. Image and cache resources are released by
// their own shutdown hooks.
func (mc *MainController) Shutdown() {
	mc.coalescer.Stop()
	mc.logger.Info("MainController", "controller stopped", map[string]interface{}{
		"state": mc.state.String(),
	})
}
