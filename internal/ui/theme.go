package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Catppuccin Mocha palette used across the app
var (
	ColorBase    = color.RGBA{R: 0x1e, G: 0x1e, B: 0x2e, A: 0xff}
	ColorSurface = color.RGBA{R: 0x31, G: 0x32, B: 0x44, A: 0xff}
	ColorText    = color.RGBA{R: 0xcd, G: 0xd6, B: 0xf4, A: 0xff}
	ColorSubtext = color.RGBA{R: 0xa6, G: 0xad, B: 0xc8, A: 0xff}
	ColorBlue    = color.RGBA{R: 0x89, G: 0xb4, B: 0xfa, A: 0xff}
	ColorGreen   = color.RGBA{R: 0xa6, G: 0xe3, B: 0xa1, A: 0xff}
	ColorRed     = color.RGBA{R: 0xf3, G: 0x8b, B: 0xa8, A: 0xff}
	ColorYellow  = color.RGBA{R: 0xf9, G: 0xe2, B: 0xaf, A: 0xff}
)

// StudioTheme is a dark theme built on the Catppuccin Mocha palette with
// slightly compacted sizes.
type StudioTheme struct{}

// NewStudioTheme creates the app theme
func NewStudioTheme() fyne.Theme {
	return &StudioTheme{}
}

// Color returns theme colors
func (t *StudioTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return ColorBase
	case theme.ColorNameInputBackground, theme.ColorNameMenuBackground, theme.ColorNameOverlayBackground:
		return ColorSurface
	case theme.ColorNameForeground:
		return ColorText
	case theme.ColorNamePlaceHolder, theme.ColorNameDisabled:
		return ColorSubtext
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return ColorBlue
	case theme.ColorNameSuccess:
		return ColorGreen
	case theme.ColorNameError:
		return ColorRed
	case theme.ColorNameWarning:
		return ColorYellow
	}

	// Use default dark-variant colors for everything else
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}

// Font returns theme fonts
func (t *StudioTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon returns theme icons
func (t *StudioTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns theme sizes with compact adjustments
func (t *StudioTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameLineSpacing:
		return 2
	case theme.SizeNameText:
		return 13
	case theme.SizeNameHeadingText:
		return 16
	case theme.SizeNameSubHeadingText:
		return 13
	case theme.SizeNameInputRadius:
		return 3
	case theme.SizeNameSelectionRadius:
		return 2
	}

	return theme.DefaultTheme().Size(name)
}
