package components

import (
	"math"
	"strconv"

	"hsv-range-finder/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const entryWidth = 64

// valueEntry is an Entry that reports focus loss.
type valueEntry struct {
	widget.Entry
	onFocusLost func()
}

func newValueEntry() *valueEntry {
	e := &valueEntry{}
	e.ExtendBaseWidget(e)
	return e
}

func (e *valueEntry) FocusLost() {
	e.Entry.FocusLost()
	if e.onFocusLost != nil {
		e.onFocusLost()
	}
}

// ParameterRow binds a slider, an entry and a value label to one
// BoundedParameter. The parameter is the single source of truth: widgets
// write to it and redraw from its observer callback.
type ParameterRow struct {
	param *models.BoundedParameter

	container  *fyne.Container
	nameLabel  *widget.Label
	slider     *widget.Slider
	entry      *valueEntry
	valueLabel *widget.Label

	// updating is set while the row redraws from the parameter so widget
	// callbacks do not write back.
	updating bool
}

func NewParameterRow(param *models.BoundedParameter) *ParameterRow {
	r := &ParameterRow{param: param}

	r.nameLabel = widget.NewLabel(param.Name())

	r.slider = widget.NewSlider(float64(param.Min()), float64(param.Max()))
	r.slider.Step = 1
	r.slider.Value = float64(param.Get())
	r.slider.OnChanged = r.onSlider

	r.entry = newValueEntry()
	r.entry.SetText(strconv.Itoa(param.Get()))
	r.entry.OnSubmitted = func(string) { r.commitEntry() }
	r.entry.onFocusLost = r.commitEntry

	r.valueLabel = widget.NewLabel(strconv.Itoa(param.Get()))

	entryBox := container.NewGridWrap(fyne.NewSize(entryWidth, r.entry.MinSize().Height), r.entry)
	r.container = container.NewBorder(nil, nil, r.nameLabel, container.NewHBox(entryBox, r.valueLabel), r.slider)

	param.Subscribe(r.sync)
	return r
}

func (r *ParameterRow) onSlider(v float64) {
	if r.updating {
		return
	}
	r.param.Set(int(math.Round(v)))
}

// commitEntry applies the entry text. Rejected text is replaced by the
// current value.
func (r *ParameterRow) commitEntry() {
	if r.updating {
		return
	}
	r.param.SetText(r.entry.Text)
	r.sync(r.param.Get())
}

func (r *ParameterRow) sync(v int) {
	r.updating = true
	defer func() { r.updating = false }()

	text := strconv.Itoa(v)
	r.slider.SetValue(float64(v))
	if r.entry.Text != text {
		r.entry.SetText(text)
	}
	r.valueLabel.SetText(text)
}

func (r *ParameterRow) Parameter() *models.BoundedParameter {
	return r.param
}

func (r *ParameterRow) GetContainer() *fyne.Container {
	return r.container
}
