package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
)

// Settings keys persisted in the settings file
const (
	KeyDebug          = "debug"
	KeyCacheEnabled   = "cache_enabled"
	KeyCacheMaxAge    = "cache_max_age"
	KeyAudioTargetLUF = "audio_target_lufs"
)

// Default values
const (
	DefaultDebug          = false
	DefaultCacheEnabled   = false
	DefaultCacheMaxAge    = 0
	DefaultAudioTargetLUF = -16.0
)

// File permissions
const (
	SettingsDirPermissions  = 0755
	SettingsFilePermissions = 0644
)

// Settings is the flat key-value settings mapping
type Settings map[string]any

// Store is a JSON-file-backed settings store.
//
// Reads are best-effort: a missing, unreadable, or malformed backing file yields
// the defaults, so configuration absence never blocks startup. Writes propagate
// errors, since silently dropping a user-initiated settings change would be a
// correctness bug. There is no in-memory cache and no locking; the store is
// meant for single-writer, low-frequency changes by the app itself.
type Store struct {
	path string
}

// NewStore creates a settings store backed by the JSON file at path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file location
func (s *Store) Path() string {
	return s.path
}

// defaults returns a fresh mapping seeded with every default key
func defaults() Settings {
	return Settings{
		KeyDebug:          DefaultDebug,
		KeyCacheEnabled:   DefaultCacheEnabled,
		KeyCacheMaxAge:    DefaultCacheMaxAge,
		KeyAudioTargetLUF: DefaultAudioTargetLUF,
	}
}

// Load returns the effective settings mapping: the defaults merged with
// whatever the backing file holds. Load never fails. A missing file or invalid
// JSON yields the defaults silently; unexpected read errors (e.g. permission
// denied) are logged and also yield the defaults. A file whose top-level value
// is not an object is treated as absent.
func (s *Store) Load() Settings {
	settings := defaults()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("Warning: failed to read settings file %s: %v", s.path, err)
		}
		return settings
	}

	var loaded map[string]any
	if err := json.Unmarshal(data, &loaded); err != nil {
		return settings
	}

	for key, value := range loaded {
		settings[key] = value
	}
	return settings
}

// Save persists the given mapping, replacing the backing file in full. The
// parent directory is created if necessary. Write failures are returned.
func (s *Store) Save(settings Settings) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, SettingsDirPermissions); err != nil {
		return fmt.Errorf("failed to create settings directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := os.WriteFile(s.path, data, SettingsFilePermissions); err != nil {
		return fmt.Errorf("failed to write settings file %s: %w", s.path, err)
	}
	return nil
}

// Get returns a single setting value, or fallback when the key is absent.
// Performs a full load on every call.
func (s *Store) Get(key string, fallback any) any {
	if value, ok := s.Load()[key]; ok {
		return value
	}
	return fallback
}

// Set updates a single setting value and saves the full mapping. Not atomic
// across concurrent callers: last write wins.
func (s *Store) Set(key string, value any) error {
	settings := s.Load()
	settings[key] = value
	return s.Save(settings)
}

// Debug returns whether verbose diagnostics are enabled
func (s *Store) Debug() bool {
	return boolValue(s.Get(KeyDebug, DefaultDebug), DefaultDebug)
}

// SetDebug enables or disables verbose diagnostics
func (s *Store) SetDebug(enabled bool) error {
	return s.Set(KeyDebug, enabled)
}

// CacheEnabled returns whether the API cache layer is active
func (s *Store) CacheEnabled() bool {
	return boolValue(s.Get(KeyCacheEnabled, DefaultCacheEnabled), DefaultCacheEnabled)
}

// SetCacheEnabled toggles the API cache layer
func (s *Store) SetCacheEnabled(enabled bool) error {
	return s.Set(KeyCacheEnabled, enabled)
}

// CacheMaxAge returns the cache entry lifetime in seconds
func (s *Store) CacheMaxAge() int {
	return intValue(s.Get(KeyCacheMaxAge, DefaultCacheMaxAge), DefaultCacheMaxAge)
}

// SetCacheMaxAge sets the cache entry lifetime in seconds
func (s *Store) SetCacheMaxAge(seconds int) error {
	if seconds < 0 {
		seconds = 0
	}
	return s.Set(KeyCacheMaxAge, seconds)
}

// AudioTargetLUFS returns the target loudness for audio normalization
func (s *Store) AudioTargetLUFS() float64 {
	return floatValue(s.Get(KeyAudioTargetLUF, DefaultAudioTargetLUF), DefaultAudioTargetLUF)
}

// SetAudioTargetLUFS sets the target loudness for audio normalization
func (s *Store) SetAudioTargetLUFS(lufs float64) error {
	return s.Set(KeyAudioTargetLUF, lufs)
}

// boolValue coerces a loaded setting to bool, falling back on type mismatch
func boolValue(value any, fallback bool) bool {
	if b, ok := value.(bool); ok {
		return b
	}
	return fallback
}

// intValue coerces a loaded setting to int. JSON numbers decode as float64,
// so both representations are accepted.
func intValue(value any, fallback int) int {
	switch v := value.(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return fallback
	}
}

// floatValue coerces a loaded setting to float64
func floatValue(value any, fallback float64) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return fallback
	}
}
