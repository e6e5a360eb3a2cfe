package config

// Package config implements the JSON-file-backed application settings store.
// The effective settings always contain every default key; unknown keys found
// in the file are preserved across load/save round trips. The backing file
// path is injected at construction so tests can point the store at a
// temporary location.
