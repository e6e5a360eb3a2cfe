package editor

// Package editor runs card saves in the background so the UI thread stays
// responsive. Status transitions are reported through a callback; callers on
// the UI side marshal updates onto the UI thread themselves.
