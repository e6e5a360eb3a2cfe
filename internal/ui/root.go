package ui

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/yotoup/card-studio/internal/api"
	"github.com/yotoup/card-studio/internal/audio"
	"github.com/yotoup/card-studio/internal/config"
	"github.com/yotoup/card-studio/internal/editor"
	"github.com/yotoup/card-studio/internal/model"
)

// Device authorization polling timeout
const DeviceAuthTimeout = 5 * time.Minute

// CardAPI is the slice of the API client the UI depends on
type CardAPI interface {
	Authenticated() bool
	StartDeviceAuthorization(ctx context.Context) (*api.DeviceCode, error)
	PollForToken(ctx context.Context, code *api.DeviceCode) (*api.Token, error)
	ListCards(ctx context.Context) ([]*model.Card, error)
	GetCard(ctx context.Context, id string) (*model.Card, error)
}

// RootUI represents the main UI structure
type RootUI struct {
	window fyne.Window
	store  *config.Store
	client CardAPI

	toasts     *ToastManager
	editorPage *EditorPage
	overlay    *ShortcutOverlay
	settingsDg *SettingsDialog
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, store *config.Store, client CardAPI, saver editor.Saver, audioSvc audio.Normalizer) *RootUI {
	ui := &RootUI{
		window: window,
		store:  store,
		client: client,
	}

	ui.toasts = NewToastManager(window)
	ui.editorPage = NewEditorPage(window, store, saver, audioSvc, ui.toasts)
	ui.overlay = NewShortcutOverlay(window)
	ui.settingsDg = NewSettingsDialog(store, window)

	log.Printf("RootUI initialized, authenticated: %v", client.Authenticated())

	ui.setupUI()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()
	ui.registerShortcuts()

	ui.window.SetContent(container.NewStack(ui.editorPage.Content()))
	ui.window.Resize(fyne.NewSize(WindowMinWidth, WindowMinHeight))

	// Confirm before closing with unsaved changes
	ui.window.SetCloseIntercept(func() {
		ui.editorPage.ConfirmDiscard(func() {
			ui.window.Close()
		})
	})
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	newItem := fyne.NewMenuItem("New Card", ui.onNewCard)
	settingsItem := fyne.NewMenuItem("Settings…", ui.onShowSettings)

	signInItem := fyne.NewMenuItem("Sign In…", ui.onSignIn)
	libraryItem := fyne.NewMenuItem("Open from Library…", ui.onOpenLibrary)

	shortcutsItem := fyne.NewMenuItem("Keyboard Shortcuts", ui.overlay.Toggle)

	mainMenu := fyne.NewMainMenu(
		fyne.NewMenu("File", newItem, fyne.NewMenuItemSeparator(), settingsItem),
		fyne.NewMenu("Account", signInItem, libraryItem),
		fyne.NewMenu("Help", shortcutsItem),
	)

	ui.window.SetMainMenu(mainMenu)
}

// registerShortcuts wires the global keyboard shortcuts
func (ui *RootUI) registerShortcuts() {
	canvas := ui.window.Canvas()

	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyN, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		ui.onNewCard()
	})
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		ui.editorPage.onSave()
	})
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeySlash, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		ui.overlay.Toggle()
	})
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyC, Modifier: fyne.KeyModifierControl | fyne.KeyModifierShift}, func(fyne.Shortcut) {
		ui.editorPage.onAddChapter()
	})
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyT, Modifier: fyne.KeyModifierControl | fyne.KeyModifierShift}, func(fyne.Shortcut) {
		ui.editorPage.onAddTrack()
	})

	canvas.SetOnTypedRune(func(r rune) {
		if r == '?' {
			ui.overlay.Toggle()
		}
	})
	canvas.SetOnTypedKey(func(event *fyne.KeyEvent) {
		switch event.Name {
		case fyne.KeyEscape:
			if ui.overlay.Visible() {
				ui.overlay.Hide()
			}
		case fyne.KeyDelete:
			if ui.editorPage.selectedID != "" {
				ui.editorPage.onRemoveSelected()
			}
		}
	})
}

// onNewCard starts a fresh card
func (ui *RootUI) onNewCard() {
	ui.editorPage.NewCard()
}

// onShowSettings opens the settings dialog
func (ui *RootUI) onShowSettings() {
	ui.settingsDg.Show()
}

// onSignIn runs the device-code sign-in flow
func (ui *RootUI) onSignIn() {
	if ui.client.Authenticated() {
		ui.toasts.Info("Already signed in")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), DeviceAuthTimeout)

		code, err := ui.client.StartDeviceAuthorization(ctx)
		if err != nil {
			cancel()
			fyne.Do(func() {
				ui.toasts.Error("Sign-in failed: " + err.Error())
			})
			return
		}

		fyne.Do(func() {
			ui.showDeviceCodeDialog(ctx, cancel, code)
		})

		_, err = ui.client.PollForToken(ctx, code)
		cancel()
		fyne.Do(func() {
			if err != nil {
				if ctx.Err() == nil {
					ui.toasts.Error("Sign-in failed: " + err.Error())
				}
				return
			}
			ui.toasts.Success("Signed in to Yoto")
		})
	}()
}

// showDeviceCodeDialog shows the verification URL and user code while the
// background poll waits for the user to approve the device
func (ui *RootUI) showDeviceCodeDialog(ctx context.Context, cancel context.CancelFunc, code *api.DeviceCode) {
	codeLabel := widget.NewLabel(code.UserCode)
	codeLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}

	content := container.NewVBox(
		widget.NewLabel("Visit the link below and enter this code:"),
		codeLabel,
	)

	if parsed, err := url.Parse(code.VerificationURIComplete); err == nil && parsed.Scheme != "" {
		content.Add(widget.NewHyperlink(code.VerificationURIComplete, parsed))
	} else {
		content.Add(widget.NewLabel(code.VerificationURI))
	}

	authDialog := dialog.NewCustom("Sign In to Yoto", "Cancel", content, ui.window)
	authDialog.SetOnClosed(func() {
		// Closing the dialog aborts the poll unless it already finished
		if ctx.Err() == nil {
			cancel()
		}
	})
	authDialog.Show()

	go func() {
		<-ctx.Done()
		fyne.Do(authDialog.Hide)
	}()
}

// onOpenLibrary lists the user's cards and loads the selected one
func (ui *RootUI) onOpenLibrary() {
	if !ui.client.Authenticated() {
		ui.toasts.Warning("Sign in first")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		cards, err := ui.client.ListCards(ctx)
		fyne.Do(func() {
			if err != nil {
				ui.toasts.Error("Failed to load library: " + err.Error())
				return
			}
			if len(cards) == 0 {
				ui.toasts.Info("Your library is empty")
				return
			}
			ui.showLibraryDialog(cards)
		})
	}()
}

// showLibraryDialog presents the card list for selection
func (ui *RootUI) showLibraryDialog(cards []*model.Card) {
	list := widget.NewList(
		func() int { return len(cards) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			card := cards[i]
			label := obj.(*widget.Label)
			label.SetText(fmt.Sprintf("%s%s%d tracks", card.GetDisplayTitle(), MiddleDotSeparator, card.TrackCount()))
		},
	)

	var libraryDialog *dialog.CustomDialog
	list.OnSelected = func(i widget.ListItemID) {
		cardID := cards[i].CardID
		libraryDialog.Hide()
		ui.openCard(cardID)
	}

	libraryDialog = dialog.NewCustom("Your Library", "Close", list, ui.window)
	libraryDialog.Resize(fyne.NewSize(420, 480))
	libraryDialog.Show()
}

// openCard fetches the full card and loads it into the editor
func (ui *RootUI) openCard(cardID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		card, err := ui.client.GetCard(ctx, cardID)
		fyne.Do(func() {
			if err != nil {
				ui.toasts.Error("Failed to load card: " + err.Error())
				return
			}
			ui.editorPage.ConfirmDiscard(func() {
				ui.editorPage.LoadCard(card)
				ui.toasts.Success("Loaded " + card.GetDisplayTitle())
			})
		})
	}()
}
