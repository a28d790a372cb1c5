package components

import (
	"fmt"
	"path/filepath"

	"hsv-range-finder/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	readyText       = "Ready"
	noImageText     = "No image loaded"
	noSelectionText = "Selection: --"
)

// StatusBar shows the last message, image details, what the current range
// selects and any range warning.
type StatusBar struct {
	container    *fyne.Container
	messageLabel *widget.Label
	imageInfo    *widget.Label
	selection    *widget.Label
	warning      *widget.Label
}

func NewStatusBar() *StatusBar {
	sb := &StatusBar{}
	sb.createComponents()
	sb.buildLayout()
	return sb
}

func (sb *StatusBar) createComponents() {
	sb.messageLabel = widget.NewLabel(readyText)
	sb.imageInfo = widget.NewLabel(noImageText)
	sb.selection = widget.NewLabel(noSelectionText)
	sb.warning = widget.NewLabel("")
	sb.warning.Importance = widget.WarningImportance
	sb.warning.Hide()
}

func (sb *StatusBar) buildLayout() {
	sb.container = container.NewHBox(
		sb.messageLabel,
		widget.NewSeparator(),
		sb.imageInfo,
		widget.NewSeparator(),
		sb.selection,
		sb.warning,
	)
}

func (sb *StatusBar) SetMessage(message string) {
	sb.messageLabel.SetText(message)
}

func (sb *StatusBar) SetImageInfo(img *models.LoadedImage) {
	if img == nil {
		sb.imageInfo.SetText(noImageText)
		return
	}
	sb.imageInfo.SetText(fmt.Sprintf("%s: %dx%d, %s", filepath.Base(img.Path), img.Width, img.Height, img.Format))
}

// SetSelection summarises stats, or resets the label when stats is nil.
func (sb *StatusBar) SetSelection(stats *models.SelectionStats) {
	if stats == nil {
		sb.selection.SetText(noSelectionText)
		return
	}
	sb.selection.SetText(FormatSelection(*stats))
}

// SetWarning shows message, or hides the warning when it is empty.
func (sb *StatusBar) SetWarning(message string) {
	sb.warning.SetText(message)
	if message == "" {
		sb.warning.Hide()
	} else {
		sb.warning.Show()
	}
}

func (sb *StatusBar) Message() string   { return sb.messageLabel.Text }
func (sb *StatusBar) ImageInfo() string { return sb.imageInfo.Text }
func (sb *StatusBar) Selection() string { return sb.selection.Text }
func (sb *StatusBar) Warning() string   { return sb.warning.Text }

func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}

// FormatSelection renders coverage and the mean HSV of the selection.
func FormatSelection(s models.SelectionStats) string {
	if s.Selected == 0 {
		return fmt.Sprintf("Selection: 0 of %d px", s.Total)
	}
	return fmt.Sprintf("Selection: %d of %d px (%.1f%%), mean H %.0f±%.0f S %.0f±%.0f V %.0f±%.0f",
		s.Selected, s.Total, s.Coverage*100,
		s.Mean[0], s.StdDev[0], s.Mean[1], s.StdDev[1], s.Mean[2], s.StdDev[2])
}
