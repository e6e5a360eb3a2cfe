package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsAudioFile(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"song.mp3", true},
		{"SONG.MP3", true},
		{"book.m4b", true},
		{"track.flac", true},
		{"movie.mp4", false},
		{"notes.txt", false},
		{"noextension", false},
		{"/some/dir/tale.ogg", true},
	}

	for _, tt := range tests {
		if got := IsAudioFile(tt.path); got != tt.expected {
			t.Errorf("IsAudioFile(%q): expected %v, got %v", tt.path, tt.expected, got)
		}
	}
}

func TestListAudioFiles(t *testing.T) {
	dir := t.TempDir()

	// Audio files plus noise: non-audio file and a subdirectory
	for _, name := range []string{"02 second.mp3", "01 first.mp3", "cover.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.mp3"), 0755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}

	files, err := ListAudioFiles(dir)
	if err != nil {
		t.Fatalf("Failed to list audio files: %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("Expected 2 audio files, got %d: %v", len(files), files)
	}

	// Sorted by name
	if filepath.Base(files[0]) != "01 first.mp3" || filepath.Base(files[1]) != "02 second.mp3" {
		t.Errorf("Expected sorted audio files, got %v", files)
	}
}

func TestListAudioFilesMissingFolder(t *testing.T) {
	_, err := ListAudioFiles(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Error("Expected error for missing folder, got nil")
	}
}

func TestTrackTitleFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/music/01 Intro.mp3", "01 Intro"},
		{"story.m4b", "story"},
		{"/a/b/noext", "noext"},
	}

	for _, tt := range tests {
		if got := TrackTitleFromPath(tt.path); got != tt.expected {
			t.Errorf("TrackTitleFromPath(%q): expected %q, got %q", tt.path, tt.expected, got)
		}
	}
}

func TestTrackFormatFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/music/01 Intro.MP3", "mp3"},
		{"story.m4b", "m4b"},
		{"noext", ""},
	}

	for _, tt := range tests {
		if got := TrackFormatFromPath(tt.path); got != tt.expected {
			t.Errorf("TrackFormatFromPath(%q): expected %q, got %q", tt.path, tt.expected, got)
		}
	}
}
