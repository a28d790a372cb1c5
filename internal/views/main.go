package views

import (
	"hsv-range-finder/internal/models"
	"hsv-range-finder/internal/render"
	"hsv-range-finder/internal/services"
	"hsv-range-finder/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	originalTitle = "Original Image"
	filteredTitle = "Filtered Image"
	binaryTitle   = "Binary Mask"
)

// MainView is the application window's content. It renders what the
// controller tells it to and forwards user actions to the registered
// handlers.
type MainView struct {
	window        fyne.Window
	mainContainer *fyne.Container

	toolbar      *components.Toolbar
	originalPane *components.ImagePane
	resultPane   *components.ImagePane
	rows         []*components.ParameterRow
	lowerSwatch  *components.Swatch
	upperSwatch  *components.Swatch
	statusBar    *components.StatusBar

	loadImageHandler func(path string)
	resizeHandler    func()
}

func NewMainView(window fyne.Window, params *models.ParameterSet) *MainView {
	mv := &MainView{
		window: window,
	}

	mv.initializeComponents(params)
	mv.buildLayout()
	mv.setupEventHandlers()

	return mv
}

func (mv *MainView) initializeComponents(params *models.ParameterSet) {
	mv.toolbar = components.NewToolbar()
	mv.originalPane = components.NewImagePane(originalTitle, "Load an image to begin")
	mv.resultPane = components.NewImagePane(filteredTitle, "The selected range will appear here")
	canvasScale := func() float32 { return mv.window.Canvas().Scale() }
	mv.originalPane.SetScaleFunc(canvasScale)
	mv.resultPane.SetScaleFunc(canvasScale)

	for _, p := range params.All() {
		mv.rows = append(mv.rows, components.NewParameterRow(p))
	}

	mv.lowerSwatch = components.NewSwatch("Lower")
	mv.upperSwatch = components.NewSwatch("Upper")
	mv.statusBar = components.NewStatusBar()
}

func (mv *MainView) buildLayout() {
	panes := container.NewHSplit(mv.originalPane.GetContainer(), mv.resultPane.GetContainer())
	panes.SetOffset(0.5)

	lower := container.NewVBox(widget.NewLabelWithStyle("Lower Bound", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	upper := container.NewVBox(widget.NewLabelWithStyle("Upper Bound", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	for i, row := range mv.rows {
		if i < 3 {
			lower.Add(row.GetContainer())
		} else {
			upper.Add(row.GetContainer())
		}
	}
	lower.Add(mv.lowerSwatch.GetContainer())
	upper.Add(mv.upperSwatch.GetContainer())

	bottom := container.NewVBox(
		container.NewGridWithColumns(2, lower, upper),
		widget.NewSeparator(),
		mv.statusBar.GetContainer(),
	)

	mv.mainContainer = container.NewBorder(
		mv.toolbar.GetContainer(),
		bottom,
		nil,
		nil,
		panes,
	)

	mv.window.SetContent(mv.mainContainer)
}

func (mv *MainView) setupEventHandlers() {
	mv.toolbar.SetLoadHandler(mv.showOpenDialog)

	onResize := func() {
		if mv.resizeHandler != nil {
			mv.resizeHandler()
		}
	}
	mv.originalPane.SetOnResize(onResize)
	mv.resultPane.SetOnResize(onResize)
}

func (mv *MainView) showOpenDialog() {
	open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mv.ShowError("Open Failed", err)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		if mv.loadImageHandler != nil {
			mv.loadImageHandler(path)
		}
	}, mv.window)
	open.SetFilter(storage.NewExtensionFileFilter(services.Extensions))
	open.Show()
}

// Handler setters, called while wiring the application.

func (mv *MainView) SetLoadImageHandler(handler func(path string)) {
	mv.loadImageHandler = handler
}

func (mv *MainView) SetToggleViewHandler(handler func()) {
	mv.toolbar.SetToggleHandler(handler)
}

func (mv *MainView) SetCopyLowerHandler(handler func()) {
	mv.toolbar.SetCopyLowerHandler(handler)
}

func (mv *MainView) SetCopyUpperHandler(handler func()) {
	mv.toolbar.SetCopyUpperHandler(handler)
}

// SetResizeHandler registers handler to run when either pane changes size.
func (mv *MainView) SetResizeHandler(handler func()) {
	mv.resizeHandler = handler
}

func (mv *MainView) OriginalSurface() render.Surface {
	return mv.originalPane
}

func (mv *MainView) ResultSurface() render.Surface {
	return mv.resultPane
}

func (mv *MainView) SetShowBinary(showBinary bool) {
	mv.toolbar.SetShowBinary(showBinary)
	if showBinary {
		mv.resultPane.SetTitle(binaryTitle)
	} else {
		mv.resultPane.SetTitle(filteredTitle)
	}
}

func (mv *MainView) ShowImageInfo(img *models.LoadedImage) {
	mv.statusBar.SetImageInfo(img)
	if img != nil {
		mv.window.SetTitle("HSV Range Finder - " + img.Path)
	}
}

func (mv *MainView) ShowBounds(bounds models.HSVBounds) {
	mv.lowerSwatch.SetTriple(bounds.Lower)
	mv.upperSwatch.SetTriple(bounds.Upper)
}

func (mv *MainView) ShowSelection(stats *models.SelectionStats) {
	mv.statusBar.SetSelection(stats)
}

func (mv *MainView) ShowWarning(message string) {
	mv.statusBar.SetWarning(message)
}

func (mv *MainView) ShowMessage(message string) {
	mv.statusBar.SetMessage(message)
}

func (mv *MainView) ShowError(title string, err error) {
	mv.statusBar.SetMessage(title)
	dialog.ShowError(err, mv.window)
}

func (mv *MainView) Confirm(title, message string, onResult func(bool)) {
	dialog.ShowConfirm(title, message, onResult, mv.window)
}
