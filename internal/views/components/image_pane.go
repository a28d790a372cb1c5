package components

import (
	"image"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	PaneMinWidth  = 300
	PaneMinHeight = 220
)

// ImagePane is a titled area that shows one rendered image, stretched to
// fill it. The renderer sizes images to PixelSize, so no scaling is visible.
type ImagePane struct {
	container   *fyne.Container
	title       *widget.Label
	image       *canvas.Image
	placeholder *fyne.Container
	layout      *paneLayout
	scale       func() float32
}

func NewImagePane(title, placeholderText string) *ImagePane {
	p := &ImagePane{
		layout: &paneLayout{min: fyne.NewSize(PaneMinWidth, PaneMinHeight)},
	}

	p.title = widget.NewLabelWithStyle(title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	p.image = canvas.NewImageFromImage(nil)
	p.image.FillMode = canvas.ImageFillStretch
	p.image.ScaleMode = canvas.ImageScaleSmooth
	p.image.Hide()

	p.placeholder = container.NewCenter(widget.NewLabel(placeholderText))

	area := container.New(p.layout,
		canvas.NewRectangle(color.NRGBA{R: 240, G: 240, B: 240, A: 255}),
		p.image,
		p.placeholder,
	)

	p.container = container.NewBorder(p.title, nil, nil, nil, area)
	return p
}

// PixelSize is the current size of the image area in device pixels, zero
// before layout.
func (p *ImagePane) PixelSize() (int, int) {
	size := p.layout.last
	scale := float32(1)
	if p.scale != nil {
		if s := p.scale(); s > 0 {
			scale = s
		}
	}
	return toPixels(size.Width, scale), toPixels(size.Height, scale)
}

// SetScaleFunc sets the source of the canvas scale, usually
// window.Canvas().Scale. Without one the pane assumes a scale of 1.
func (p *ImagePane) SetScaleFunc(fn func() float32) {
	p.scale = fn
}

// SetImage replaces the displayed image. The pane keeps img until the next
// SetImage or Clear.
func (p *ImagePane) SetImage(img image.Image) {
	p.image.Image = img
	if img != nil {
		p.placeholder.Hide()
		p.image.Show()
	} else {
		p.image.Hide()
		p.placeholder.Show()
	}
	p.image.Refresh()
}

func (p *ImagePane) Clear() {
	p.SetImage(nil)
}

// Image returns what the pane is showing, or nil.
func (p *ImagePane) Image() image.Image {
	return p.image.Image
}

func (p *ImagePane) SetTitle(title string) {
	p.title.SetText(title)
}

func (p *ImagePane) Title() string {
	return p.title.Text
}

// SetOnResize registers fn to run whenever the image area changes size.
func (p *ImagePane) SetOnResize(fn func()) {
	p.layout.onResize = fn
}

func (p *ImagePane) GetContainer() *fyne.Container {
	return p.container
}

func toPixels(v, scale float32) int {
	return int(math.Round(float64(v * scale)))
}

// paneLayout stacks its objects and reports size changes.
type paneLayout struct {
	min      fyne.Size
	last     fyne.Size
	onResize func()
}

func (l *paneLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	for _, o := range objects {
		o.Move(fyne.NewPos(0, 0))
		o.Resize(size)
	}

	if size != l.last {
		l.last = size
		if l.onResize != nil {
			l.onResize()
		}
	}
}

func (l *paneLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	return l.min
}
