package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
)

func newTestToastManager(t *testing.T) *ToastManager {
	t.Helper()
	test.NewApp()

	window := test.NewWindow(nil)
	window.Resize(fyne.NewSize(800, 600))
	t.Cleanup(window.Close)

	return NewToastManager(window)
}

func TestToastManagerShows(t *testing.T) {
	manager := newTestToastManager(t)

	manager.Success("saved")

	if got := manager.ActiveCount(); got != 1 {
		t.Errorf("Expected 1 active toast, got %d", got)
	}
}

func TestToastManagerCapsStack(t *testing.T) {
	manager := newTestToastManager(t)

	for i := 0; i < ToastMaxCount+3; i++ {
		manager.Info("note")
	}

	if got := manager.ActiveCount(); got != ToastMaxCount {
		t.Errorf("Expected %d active toasts, got %d", ToastMaxCount, got)
	}
}

func TestToastTypeIcons(t *testing.T) {
	tests := []struct {
		kind     ToastType
		expected string
	}{
		{ToastSuccess, IconSuccess},
		{ToastError, IconError},
		{ToastInfo, IconInfo},
		{ToastWarning, IconWarning},
	}

	for _, tt := range tests {
		if got := tt.kind.Icon(); got != tt.expected {
			t.Errorf("Icon for type %d = %q, want %q", tt.kind, got, tt.expected)
		}
	}
}
