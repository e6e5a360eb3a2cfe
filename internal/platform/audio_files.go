package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Audio file extensions recognized when importing files or folders
var audioExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".m4b":  true,
	".aac":  true,
	".ogg":  true,
	".opus": true,
	".flac": true,
	".wav":  true,
	".wma":  true,
	".aiff": true,
	".aif":  true,
}

// AudioExtensions returns the supported audio extensions sorted alphabetically
func AudioExtensions() []string {
	exts := make([]string, 0, len(audioExtensions))
	for ext := range audioExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// IsAudioFile reports whether the path has a supported audio extension
func IsAudioFile(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

// ListAudioFiles returns the audio files directly inside folder, sorted by name.
// Subdirectories are not descended into; a folder maps to a single chapter.
func ListAudioFiles(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder %s: %w", folder, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if IsAudioFile(entry.Name()) {
			files = append(files, filepath.Join(folder, entry.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}

// TrackTitleFromPath derives a track title from a file name (stem without extension)
func TrackTitleFromPath(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// TrackFormatFromPath derives the track format from a file extension (e.g. "mp3")
func TrackFormatFromPath(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
