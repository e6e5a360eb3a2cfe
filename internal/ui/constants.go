package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconFolder  = "📁"
	IconMusic   = "🎵"
	IconChapter = "📖"
	IconClose   = "×"
	IconSuccess = "✓"
	IconError   = "✗"
	IconInfo    = "ℹ"
	IconWarning = "⚠"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	DashPlaceholder    = "—"
)

// Layout sizing
const (
	WindowMinWidth  float32 = 900
	WindowMinHeight float32 = 640

	CoverPreviewSize float32 = 160
)

// Age range bounds for the metadata form
const (
	MinCardAge = 0
	MaxCardAge = 18
)

// Toast notification sizing and behavior
const (
	ToastWidth    float32 = 300
	ToastMargin   float32 = 16
	ToastSpacing  float32 = 8
	ToastMaxCount         = 5
	ToastAutoHide         = 4 * time.Second
)
