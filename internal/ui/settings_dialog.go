package ui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/yotoup/card-studio/internal/config"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	store  *config.Store
	window fyne.Window
	dialog *dialog.ConfirmDialog

	// UI components
	debugCheck        *widget.Check
	cacheEnabledCheck *widget.Check
	cacheMaxAgeEntry  *widget.Entry
	targetLUFSEntry   *widget.Entry
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(store *config.Store, window fyne.Window) *SettingsDialog {
	sd := &SettingsDialog{
		store:  store,
		window: window,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	sd.debugCheck = widget.NewCheck("Enable debug logging", nil)

	sd.cacheEnabledCheck = widget.NewCheck("Cache API responses", nil)

	sd.cacheMaxAgeEntry = widget.NewEntry()
	sd.cacheMaxAgeEntry.SetPlaceHolder("Seconds, 0 = no expiry")

	sd.targetLUFSEntry = widget.NewEntry()
	sd.targetLUFSEntry.SetPlaceHolder("-16.0")

	form := container.NewVBox(
		widget.NewLabel("General"),
		widget.NewSeparator(),

		sd.debugCheck,

		widget.NewSeparator(),
		widget.NewLabel("Cache"),
		widget.NewSeparator(),

		sd.cacheEnabledCheck,

		widget.NewLabel("Cache Max Age:"),
		sd.cacheMaxAgeEntry,

		widget.NewSeparator(),
		widget.NewLabel("Audio"),
		widget.NewSeparator(),

		widget.NewLabel("Normalization Target (LUFS):"),
		sd.targetLUFSEntry,
	)

	sd.dialog = dialog.NewCustomConfirm(
		"Settings",
		"Save",
		"Cancel",
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(460, 380))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.debugCheck.SetChecked(sd.store.Debug())
	sd.cacheEnabledCheck.SetChecked(sd.store.CacheEnabled())
	sd.cacheMaxAgeEntry.SetText(strconv.Itoa(sd.store.CacheMaxAge()))
	sd.targetLUFSEntry.SetText(strconv.FormatFloat(sd.store.AudioTargetLUFS(), 'f', 1, 64))
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	if err := sd.store.SetDebug(sd.debugCheck.Checked); err != nil {
		dialog.ShowError(err, sd.window)
		return
	}

	if err := sd.store.SetCacheEnabled(sd.cacheEnabledCheck.Checked); err != nil {
		dialog.ShowError(err, sd.window)
		return
	}

	if maxAgeStr := sd.cacheMaxAgeEntry.Text; maxAgeStr != "" {
		maxAge, err := strconv.Atoi(maxAgeStr)
		if err != nil {
			dialog.ShowInformation("Settings", "Cache max age must be a whole number of seconds", sd.window)
			return
		}
		if err := sd.store.SetCacheMaxAge(maxAge); err != nil {
			dialog.ShowError(err, sd.window)
			return
		}
	}

	if lufsStr := sd.targetLUFSEntry.Text; lufsStr != "" {
		lufs, err := strconv.ParseFloat(lufsStr, 64)
		if err != nil {
			dialog.ShowInformation("Settings", "Normalization target must be a number, e.g. -16.0", sd.window)
			return
		}
		if err := sd.store.SetAudioTargetLUFS(lufs); err != nil {
			dialog.ShowError(err, sd.window)
			return
		}
	}

	dialog.ShowInformation("Settings", "Settings saved successfully!", sd.window)
}
