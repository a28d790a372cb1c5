package components

import (
	"fmt"

	"hsv-range-finder/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const swatchSize = 28

// Swatch previews one HSV bound as a colour chip.
type Swatch struct {
	container *fyne.Container
	name      string
	chip      *canvas.Rectangle
	label     *widget.Label
}

func NewSwatch(name string) *Swatch {
	s := &Swatch{
		name:  name,
		chip:  canvas.NewRectangle(models.Triple{}.Color()),
		label: widget.NewLabel(name),
	}
	s.chip.StrokeWidth = 1
	s.chip.StrokeColor = models.Triple{V: 128}.Color()
	s.chip.SetMinSize(fyne.NewSize(swatchSize, swatchSize))

	s.container = container.NewHBox(container.NewCenter(s.chip), s.label)
	return s
}

func (s *Swatch) SetTriple(t models.Triple) {
	s.chip.FillColor = t.Color()
	s.chip.Refresh()
	s.label.SetText(fmt.Sprintf("%s %s", s.name, models.FormatTriple(t)))
}

func (s *Swatch) Text() string {
	return s.label.Text
}

func (s *Swatch) GetContainer() *fyne.Container {
	return s.container
}
