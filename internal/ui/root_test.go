package ui

import (
	"context"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"github.com/yotoup/card-studio/internal/api"
	"github.com/yotoup/card-studio/internal/config"
	"github.com/yotoup/card-studio/internal/model"
)

// fakeAPI is an inert CardAPI for UI tests
type fakeAPI struct {
	authenticated bool
}

func (f *fakeAPI) Authenticated() bool { return f.authenticated }

func (f *fakeAPI) StartDeviceAuthorization(ctx context.Context) (*api.DeviceCode, error) {
	return &api.DeviceCode{}, nil
}

func (f *fakeAPI) PollForToken(ctx context.Context, code *api.DeviceCode) (*api.Token, error) {
	return &api.Token{}, nil
}

func (f *fakeAPI) ListCards(ctx context.Context) ([]*model.Card, error) {
	return nil, nil
}

func (f *fakeAPI) GetCard(ctx context.Context, id string) (*model.Card, error) {
	return &model.Card{CardID: id}, nil
}

func newTestRootUI(t *testing.T) *RootUI {
	t.Helper()
	test.NewApp()

	window := test.NewWindow(nil)
	t.Cleanup(window.Close)

	store := config.NewStore(filepath.Join(t.TempDir(), "settings.json"))
	return NewRootUI(window, store, &fakeAPI{}, &fakeSaver{}, &fakeNormalizer{})
}

func TestRootUIDeleteKeyRemovesSelection(t *testing.T) {
	ui := newTestRootUI(t)

	ui.editorPage.onAddChapter()
	chapters := ui.editorPage.Card().Content.Chapters
	if len(chapters) != 1 {
		t.Fatalf("Expected 1 chapter, got %d", len(chapters))
	}
	ui.editorPage.selectedID = chapters[0].Key

	ui.window.Canvas().OnTypedKey()(&fyne.KeyEvent{Name: fyne.KeyDelete})

	if got := len(ui.editorPage.Card().Content.Chapters); got != 0 {
		t.Errorf("Expected chapter removed via Delete key, still have %d", got)
	}
}

func TestRootUIDeleteKeyWithoutSelection(t *testing.T) {
	ui := newTestRootUI(t)

	ui.editorPage.onAddChapter()

	// No selection: Delete must leave the card alone
	ui.window.Canvas().OnTypedKey()(&fyne.KeyEvent{Name: fyne.KeyDelete})

	if got := len(ui.editorPage.Card().Content.Chapters); got != 1 {
		t.Errorf("Expected chapter untouched without selection, have %d", got)
	}
}

func TestRootUIQuestionMarkTogglesOverlay(t *testing.T) {
	ui := newTestRootUI(t)

	ui.window.Canvas().OnTypedRune()('?')
	if !ui.overlay.Visible() {
		t.Fatal("Expected overlay visible after typing ?")
	}

	ui.window.Canvas().OnTypedKey()(&fyne.KeyEvent{Name: fyne.KeyEscape})
	if ui.overlay.Visible() {
		t.Error("Expected overlay hidden after Escape")
	}
}
