package controllers

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"testing"
	"time"

	"hsv-range-finder/internal/logger"
	"hsv-range-finder/internal/models"
	"hsv-range-finder/internal/opencv/conversion"
	"hsv-range-finder/internal/opencv/safe"
	"hsv-range-finder/internal/processing/cache"
	"hsv-range-finder/internal/processing/threshold"
	"hsv-range-finder/internal/render"
	"hsv-range-finder/internal/scheduler/schedulertest"
	"hsv-range-finder/internal/services"
)

type fakeSurface struct {
	img     image.Image
	sets    int
	cleared int
}

func (s *fakeSurface) PixelSize() (int, int)    { return 40, 30 }
func (s *fakeSurface) SetImage(img image.Image) { s.img = img; s.sets++ }
func (s *fakeSurface) Clear()                   { s.img = nil; s.cleared++ }

type fakeView struct {
	original, result fakeSurface
	showBinary       bool
	info             *models.LoadedImage
	bounds           models.HSVBounds
	stats            *models.SelectionStats
	warning          string
	message          string
}

func (v *fakeView) OriginalSurface() render.Surface            { return &v.original }
func (v *fakeView) ResultSurface() render.Surface              { return &v.result }
func (v *fakeView) SetShowBinary(b bool)                       { v.showBinary = b }
func (v *fakeView) ShowImageInfo(img *models.LoadedImage)      { v.info = img }
func (v *fakeView) ShowBounds(b models.HSVBounds)              { v.bounds = b }
func (v *fakeView) ShowSelection(stats *models.SelectionStats) { v.stats = stats }
func (v *fakeView) ShowWarning(msg string)                     { v.warning = msg }
func (v *fakeView) ShowMessage(msg string)                     { v.message = msg }

type fakeNotifier struct {
	errors   []error
	confirms int
	answer   bool
}

func (n *fakeNotifier) ShowError(_ string, err error) { n.errors = append(n.errors, err) }
func (n *fakeNotifier) Confirm(_, _ string, onResult func(bool)) {
	n.confirms++
	onResult(n.answer)
}

type fakeClipboard struct{ content string }

func (c *fakeClipboard) SetContent(s string) { c.content = s }

type fakeLoader struct {
	inspectErr error
	loadErr    error
	warnings   []string
	loads      int
}

func (l *fakeLoader) Inspect(_ context.Context, path string) (*services.Inspection, error) {
	if l.inspectErr != nil {
		return nil, l.inspectErr
	}
	return &services.Inspection{Path: path, Format: "png", Width: 2, Height: 2, Warnings: l.warnings}, nil
}

func (l *fakeLoader) Load(_ context.Context, insp *services.Inspection) (*models.LoadedImage, error) {
	if l.loadErr != nil {
		return nil, l.loadErr
	}
	l.loads++

	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	img.Set(1, 0, color.NRGBA{0, 255, 0, 255})
	img.Set(0, 1, color.NRGBA{0, 0, 255, 255})
	img.Set(1, 1, color.NRGBA{255, 255, 255, 255})
	mat, err := conversion.ImageToMat(img)
	if err != nil {
		return nil, err
	}
	return &models.LoadedImage{Mat: mat, Path: insp.Path, Format: insp.Format, Width: 2, Height: 2, Channels: 3}, nil
}

type countingEngine struct {
	engine *threshold.Engine
	calls  int
	err    error
	panics bool
}

func (e *countingEngine) Process(src *safe.Mat, bounds models.HSVBounds) (*models.ProcessingResult, error) {
	e.calls++
	if e.panics {
		panic("engine exploded")
	}
	if e.err != nil {
		return nil, e.err
	}
	return e.engine.Process(src, bounds)
}

type harness struct {
	ctrl      *MainController
	params    *models.ParameterSet
	repo      *models.ImageRepository
	view      *fakeView
	notifier  *fakeNotifier
	clipboard *fakeClipboard
	loader    *fakeLoader
	engine    *countingEngine
	cache     *cache.Cache
	clock     *schedulertest.ManualClock
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		params:    models.NewParameterSet(),
		repo:      models.NewImageRepository(),
		view:      &fakeView{},
		notifier:  &fakeNotifier{answer: true},
		clipboard: &fakeClipboard{},
		loader:    &fakeLoader{},
		engine:    &countingEngine{engine: threshold.NewEngine()},
		clock:     schedulertest.NewManualClock(),
	}

	log := logger.NewNop()
	resultCache := cache.NewCache(h.engine, log)
	h.cache = resultCache
	h.ctrl = NewMainController(
		h.params, h.repo, h.loader, resultCache, render.NewRenderer(300, 400),
		h.view, h.notifier, h.clipboard,
		Timing{Clock: h.clock, TickInterval: 50 * time.Millisecond, QuietPeriod: 150 * time.Millisecond},
		log,
	)
	h.ctrl.Coalescer().Start()

	t.Cleanup(func() {
		h.ctrl.Shutdown()
		resultCache.Shutdown()
		h.repo.Shutdown()
	})
	return h
}

func TestNoImagePassClearsPanes(t *testing.T) {
	h := newHarness(t)

	if h.ctrl.State() != NoImage {
		t.Fatalf("initial state = %v, want NoImage", h.ctrl.State())
	}

	h.ctrl.ProcessPass()

	if h.view.original.cleared != 1 || h.view.result.cleared != 1 {
		t.Errorf("panes cleared %d/%d times, want 1/1", h.view.original.cleared, h.view.result.cleared)
	}
	if h.view.stats != nil {
		t.Error("selection stats should be empty without an image")
	}
	if h.engine.calls != 0 {
		t.Errorf("engine ran %d times without an image", h.engine.calls)
	}
}

func TestLoadImageProcessesImmediately(t *testing.T) {
	h := newHarness(t)

	h.ctrl.LoadImage("/tmp/quadrants.png")

	if h.ctrl.State() != ImageLoaded {
		t.Fatalf("state = %v, want ImageLoaded", h.ctrl.State())
	}
	if h.engine.calls != 1 {
		t.Errorf("engine ran %d times, want 1", h.engine.calls)
	}
	if h.view.original.img == nil || h.view.result.img == nil {
		t.Fatal("both panes should show an image")
	}
	if b := h.view.original.img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("original rendered %dx%d, want 40x30", b.Dx(), b.Dy())
	}
	if h.view.info == nil || h.view.info.Path != "/tmp/quadrants.png" {
		t.Errorf("image info = %+v", h.view.info)
	}
	if h.view.stats == nil || h.view.stats.Selected != 4 {
		t.Errorf("stats = %+v, want full selection with default bounds", h.view.stats)
	}
	if h.ctrl.Coalescer().Dirty() {
		t.Error("load should leave the coalescer clean")
	}
}

func TestToggleReusesCachedResult(t *testing.T) {
	h := newHarness(t)
	h.ctrl.LoadImage("a.png")

	if _, ok := h.view.result.img.(*image.RGBA); !ok {
		t.Fatalf("filtered pane shows %T, want *image.RGBA", h.view.result.img)
	}

	h.ctrl.ToggleView()

	if !h.ctrl.ViewState().ShowBinary || !h.view.showBinary {
		t.Error("toggle should switch to the binary mask")
	}
	if _, ok := h.view.result.img.(*image.Gray); !ok {
		t.Errorf("binary pane shows %T, want *image.Gray", h.view.result.img)
	}
	if h.engine.calls != 1 {
		t.Errorf("engine ran %d times, want 1 (cache hit on toggle)", h.engine.calls)
	}
	if st := h.cache.Stats(); st.Hits != 1 || st.Misses != 1 {
		t.Errorf("cache stats = %+v, want 1 hit and 1 miss", st)
	}

	h.ctrl.ToggleView()
	if h.ctrl.ViewState().ShowBinary {
		t.Error("second toggle should switch back")
	}
}

func TestParameterBurstCoalesces(t *testing.T) {
	h := newHarness(t)
	h.ctrl.LoadImage("a.png")

	for v := 1; v <= 20; v++ {
		h.params.LowerH.Set(v)
	}
	if h.engine.calls != 1 {
		t.Fatalf("engine ran %d times before the quiet period, want 1", h.engine.calls)
	}
	if h.view.bounds.Lower.H != 20 {
		t.Errorf("view bounds lower H = %d, want 20", h.view.bounds.Lower.H)
	}

	h.clock.Advance(500 * time.Millisecond)
	if h.engine.calls != 2 {
		t.Errorf("engine ran %d times, want 2", h.engine.calls)
	}
}

func TestReloadInvalidatesCache(t *testing.T) {
	h := newHarness(t)

	h.ctrl.LoadImage("a.png")
	first := h.repo.Current()
	h.ctrl.LoadImage("b.png")

	if h.engine.calls != 2 {
		t.Errorf("engine ran %d times, want 2", h.engine.calls)
	}
	if h.repo.Current() == first {
		t.Error("repository should hold the new image")
	}
	if first.Mat.IsValid() {
		t.Error("previous image should be released")
	}
}

func TestLoadFailureKeepsState(t *testing.T) {
	testCases := []struct {
		name      string
		preload   bool
		configure func(*fakeLoader)
		want      error
	}{
		{"missing file from empty state", false, func(l *fakeLoader) {
			l.inspectErr = fmt.Errorf("%w: x.png", services.ErrNotExist)
		}, services.ErrNotExist},
		{"decode failure keeps image", true, func(l *fakeLoader) {
			l.loadErr = fmt.Errorf("%w: x.png", services.ErrDecode)
		}, services.ErrDecode},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			if tc.preload {
				h.ctrl.LoadImage("good.png")
			}
			before := h.ctrl.State()
			current := h.repo.Current()
			calls := h.engine.calls

			tc.configure(h.loader)
			h.ctrl.LoadImage("x.png")

			if h.ctrl.State() != before {
				t.Errorf("state = %v, want %v", h.ctrl.State(), before)
			}
			if h.repo.Current() != current {
				t.Error("current image changed after a failed load")
			}
			if h.engine.calls != calls {
				t.Error("failed load triggered processing")
			}
			if len(h.notifier.errors) != 1 || !errors.Is(h.notifier.errors[0], tc.want) {
				t.Errorf("notified %v, want %v", h.notifier.errors, tc.want)
			}
		})
	}
}

func TestLargeImageConfirmation(t *testing.T) {
	testCases := []struct {
		name   string
		answer bool
		state  AppState
		loads  int
	}{
		{"accepted", true, ImageLoaded, 1},
		{"declined", false, NoImage, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.loader.warnings = []string{"image is huge"}
			h.notifier.answer = tc.answer

			h.ctrl.LoadImage("huge.png")

			if h.notifier.confirms != 1 {
				t.Errorf("confirmations = %d, want 1", h.notifier.confirms)
			}
			if h.ctrl.State() != tc.state {
				t.Errorf("state = %v, want %v", h.ctrl.State(), tc.state)
			}
			if h.loader.loads != tc.loads {
				t.Errorf("loads = %d, want %d", h.loader.loads, tc.loads)
			}
		})
	}
}

func TestCopyBounds(t *testing.T) {
	h := newHarness(t)
	for i, v := range []int{12, 34, 56, 170, 200, 255} {
		h.params.All()[i].Set(v)
	}

	h.ctrl.CopyLower()
	if h.clipboard.content != "12,34,56" {
		t.Errorf("lower copied as %q", h.clipboard.content)
	}

	h.ctrl.CopyUpper()
	if h.clipboard.content != "170,200,255" {
		t.Errorf("upper copied as %q", h.clipboard.content)
	}
	if h.view.message == "" {
		t.Error("copy should report in the status bar")
	}
}

func TestProcessingFailureKeepsPreviousFrame(t *testing.T) {
	testCases := []struct {
		name     string
		sabotage func(*countingEngine)
	}{
		{"engine error", func(e *countingEngine) { e.err = errors.New("cv failure") }},
		{"engine panic", func(e *countingEngine) { e.panics = true }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.ctrl.LoadImage("a.png")
			sets := h.view.result.sets
			frame := h.view.result.img

			tc.sabotage(h.engine)
			h.params.LowerS.Set(10)
			h.ctrl.Coalescer().Flush()

			if len(h.notifier.errors) != 1 || !errors.Is(h.notifier.errors[0], ErrProcessingFailed) {
				t.Errorf("notified %v, want ErrProcessingFailed", h.notifier.errors)
			}
			if h.view.result.sets != sets || h.view.result.img != frame {
				t.Error("result pane changed after a failed pass")
			}
			if h.ctrl.State() != ImageLoaded {
				t.Errorf("state = %v, want ImageLoaded", h.ctrl.State())
			}
		})
	}
}

func TestInvertedBoundsWarnButProcess(t *testing.T) {
	h := newHarness(t)
	h.ctrl.LoadImage("a.png")

	h.params.LowerH.Set(100)
	h.params.UpperH.Set(10)
	h.ctrl.Coalescer().Flush()

	if h.view.warning == "" {
		t.Error("expected an inverted-range warning")
	}
	if len(h.notifier.errors) != 0 {
		t.Errorf("inverted bounds must not be an error: %v", h.notifier.errors)
	}
	if h.view.stats == nil || h.view.stats.Selected != 0 {
		t.Errorf("stats = %+v, want empty selection", h.view.stats)
	}

	h.params.UpperH.Set(179)
	h.ctrl.Coalescer().Flush()
	if h.view.warning != "" {
		t.Errorf("warning %q should clear once bounds are ordered", h.view.warning)
	}
}

func TestAppStateString(t *testing.T) {
	testCases := []struct {
		state AppState
		want  string
	}{
		{NoImage, "no image"},
		{ImageLoaded, "image loaded"},
		{AppState(7), "AppState(7)"},
	}
	for _, tc := range testCases {
		if got := tc.state.String(); got != tc.want {
			t.Errorf("%d.String() = %q, want %q", int(tc.state), got, tc.want)
		}
	}
}
