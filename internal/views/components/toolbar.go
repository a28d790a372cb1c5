package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	showBinaryLabel   = "Show Binary Mask"
	showFilteredLabel = "Show Filtered Image"
)

// Toolbar holds the window's action buttons.
type Toolbar struct {
	container       *fyne.Container
	loadButton      *widget.Button
	toggleButton    *widget.Button
	copyLowerButton *widget.Button
	copyUpperButton *widget.Button

	loadHandler      func()
	toggleHandler    func()
	copyLowerHandler func()
	copyUpperHandler func()
}

func NewToolbar() *Toolbar {
	t := &Toolbar{}
	t.createComponents()
	t.buildLayout()
	return t
}

func (t *Toolbar) createComponents() {
	t.loadButton = widget.NewButtonWithIcon("Load Image", theme.FolderOpenIcon(), func() {
		if t.loadHandler != nil {
			t.loadHandler()
		}
	})
	t.loadButton.Importance = widget.HighImportance

	t.toggleButton = widget.NewButton(showBinaryLabel, func() {
		if t.toggleHandler != nil {
			t.toggleHandler()
		}
	})

	t.copyLowerButton = widget.NewButtonWithIcon("Copy Lower", theme.ContentCopyIcon(), func() {
		if t.copyLowerHandler != nil {
			t.copyLowerHandler()
		}
	})

	t.copyUpperButton = widget.NewButtonWithIcon("Copy Upper", theme.ContentCopyIcon(), func() {
		if t.copyUpperHandler != nil {
			t.copyUpperHandler()
		}
	})
}

func (t *Toolbar) buildLayout() {
	t.container = container.NewHBox(
		t.loadButton,
		widget.NewSeparator(),
		t.toggleButton,
		widget.NewSeparator(),
		t.copyLowerButton,
		t.copyUpperButton,
	)
}

func (t *Toolbar) SetLoadHandler(handler func()) {
	t.loadHandler = handler
}

func (t *Toolbar) SetToggleHandler(handler func()) {
	t.toggleHandler = handler
}

func (t *Toolbar) SetCopyLowerHandler(handler func()) {
	t.copyLowerHandler = handler
}

func (t *Toolbar) SetCopyUpperHandler(handler func()) {
	t.copyUpperHandler = handler
}

// SetShowBinary updates the toggle to offer the other view.
func (t *Toolbar) SetShowBinary(showBinary bool) {
	if showBinary {
		t.toggleButton.SetText(showFilteredLabel)
	} else {
		t.toggleButton.SetText(showBinaryLabel)
	}
}

func (t *Toolbar) ToggleText() string {
	return t.toggleButton.Text
}

func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}
