package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// shortcutGroup is one titled section of the shortcut help
type shortcutGroup struct {
	title     string
	shortcuts [][2]string // key, description
}

var shortcutGroups = []shortcutGroup{
	{
		title: "Global",
		shortcuts: [][2]string{
			{"?  /  Ctrl+/", "Show this help overlay"},
			{"Escape", "Close overlay / dialog"},
			{"Ctrl+N", "New card"},
			{"Ctrl+S", "Save card"},
			{"Ctrl+Q", "Quit"},
		},
	},
	{
		title: "Editor",
		shortcuts: [][2]string{
			{"Ctrl+Shift+C", "Add chapter"},
			{"Ctrl+Shift+T", "Add track to selected chapter"},
			{"Delete", "Remove selected chapter or track"},
		},
	},
}

// ShortcutOverlay is a modal popup listing keyboard shortcuts grouped by
// section. Toggled from the Help menu or the "?" key, dismissed with Escape.
type ShortcutOverlay struct {
	window  fyne.Window
	popup   *widget.PopUp
	visible bool
}

// NewShortcutOverlay creates the overlay for the given window
func NewShortcutOverlay(window fyne.Window) *ShortcutOverlay {
	return &ShortcutOverlay{window: window}
}

// Toggle shows the overlay if hidden and hides it if visible
func (o *ShortcutOverlay) Toggle() {
	if o.visible {
		o.Hide()
	} else {
		o.Show()
	}
}

// Show builds and displays the overlay
func (o *ShortcutOverlay) Show() {
	if o.visible {
		return
	}

	title := widget.NewLabel("Keyboard Shortcuts")
	title.TextStyle = fyne.TextStyle{Bold: true}

	closeBtn := widget.NewButton(IconClose, o.Hide)
	closeBtn.Importance = widget.LowImportance

	sections := container.NewVBox(container.NewBorder(nil, nil, title, closeBtn))

	for _, group := range shortcutGroups {
		sectionLabel := widget.NewLabel(group.title)
		sectionLabel.TextStyle = fyne.TextStyle{Bold: true}
		sections.Add(widget.NewSeparator())
		sections.Add(sectionLabel)

		grid := container.NewVBox()
		for _, sc := range group.shortcuts {
			keyLabel := widget.NewLabel(sc[0])
			keyLabel.TextStyle = fyne.TextStyle{Monospace: true}
			descLabel := widget.NewLabel(sc[1])
			grid.Add(container.NewBorder(nil, nil, keyLabel, nil, descLabel))
		}
		sections.Add(grid)
	}

	o.popup = widget.NewModalPopUp(sections, o.window.Canvas())
	o.popup.Show()
	o.visible = true
}

// Hide dismisses the overlay
func (o *ShortcutOverlay) Hide() {
	if !o.visible {
		return
	}
	o.popup.Hide()
	o.popup = nil
	o.visible = false
}

// Visible reports whether the overlay is currently shown
func (o *ShortcutOverlay) Visible() bool {
	return o.visible
}
