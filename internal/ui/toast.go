package ui

import (
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// ToastType represents the kind of toast notification
type ToastType int

const (
	ToastSuccess ToastType = iota
	ToastError
	ToastInfo
	ToastWarning
)

// Icon returns the symbol shown in front of the toast message
func (t ToastType) Icon() string {
	switch t {
	case ToastSuccess:
		return IconSuccess
	case ToastError:
		return IconError
	case ToastWarning:
		return IconWarning
	default:
		return IconInfo
	}
}

// toast is a single visible notification
type toast struct {
	popup  *widget.PopUp
	height float32
}

// ToastManager shows transient notifications stacked in the bottom-right
// corner of the window. At most ToastMaxCount toasts are visible; older ones
// are dismissed to make room. Methods must be called on the UI thread.
type ToastManager struct {
	window fyne.Window
	mutex  sync.Mutex
	toasts []*toast
}

// NewToastManager creates a toast manager for the given window
func NewToastManager(window fyne.Window) *ToastManager {
	return &ToastManager{window: window}
}

// Success shows a success toast
func (m *ToastManager) Success(message string) {
	m.Show(ToastSuccess, message)
}

// Error shows an error toast
func (m *ToastManager) Error(message string) {
	m.Show(ToastError, message)
}

// Info shows an info toast
func (m *ToastManager) Info(message string) {
	m.Show(ToastInfo, message)
}

// Warning shows a warning toast
func (m *ToastManager) Warning(message string) {
	m.Show(ToastWarning, message)
}

// Show displays a toast of the given type and schedules its auto-dismiss
func (m *ToastManager) Show(kind ToastType, message string) {
	iconLabel := widget.NewLabel(kind.Icon())
	iconLabel.TextStyle = fyne.TextStyle{Bold: true}

	messageLabel := widget.NewLabel(message)
	messageLabel.Wrapping = fyne.TextWrapWord

	item := &toast{}

	closeBtn := widget.NewButton(IconClose, func() {
		m.dismiss(item)
	})
	closeBtn.Importance = widget.LowImportance

	content := container.NewBorder(nil, nil, iconLabel, closeBtn, messageLabel)

	item.popup = widget.NewPopUp(content, m.window.Canvas())
	item.popup.Resize(fyne.NewSize(ToastWidth, item.popup.MinSize().Height))
	item.height = item.popup.MinSize().Height

	m.mutex.Lock()
	// Drop the oldest toast when the stack is full
	if len(m.toasts) >= ToastMaxCount {
		oldest := m.toasts[0]
		m.toasts = m.toasts[1:]
		oldest.popup.Hide()
	}
	m.toasts = append(m.toasts, item)
	m.mutex.Unlock()

	m.reposition()
	item.popup.Show()

	// Auto-hide after the configured time
	go func() {
		time.Sleep(ToastAutoHide)
		fyne.Do(func() {
			m.dismiss(item)
		})
	}()
}

// dismiss hides a toast and compacts the stack
func (m *ToastManager) dismiss(item *toast) {
	m.mutex.Lock()
	found := false
	for i, t := range m.toasts {
		if t == item {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			found = true
			break
		}
	}
	m.mutex.Unlock()

	if !found {
		return
	}

	item.popup.Hide()
	m.reposition()
}

// ActiveCount returns the number of visible toasts
func (m *ToastManager) ActiveCount() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.toasts)
}

// reposition stacks the visible toasts upwards from the bottom-right corner
func (m *ToastManager) reposition() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	canvasSize := m.window.Canvas().Size()
	y := canvasSize.Height - ToastMargin

	// Newest toast sits closest to the corner
	for i := len(m.toasts) - 1; i >= 0; i-- {
		t := m.toasts[i]
		y -= t.height
		t.popup.Move(fyne.NewPos(canvasSize.Width-ToastWidth-ToastMargin, y))
		y -= ToastSpacing
	}
}
