package ui

// Package ui contains the Fyne-based desktop user interface for the application.
// It wires user interactions to the save and audio services and renders the card
// editor, toasts, dialogs, and the keyboard shortcut overlay.
