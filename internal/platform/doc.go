package platform

// Package platform contains OS integration helpers: configuration and data
// paths, directory creation, audio file detection for imports, and opening
// files in the system file manager.
