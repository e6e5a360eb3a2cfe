package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Card categories recognized by the Yoto API
const (
	CategoryNone       = "none"
	CategoryStories    = "stories"
	CategoryMusic      = "music"
	CategoryRadio      = "radio"
	CategoryPodcast    = "podcast"
	CategorySFX        = "sfx"
	CategoryActivities = "activities"
	CategoryAlarms     = "alarms"
)

// Track type constants
const (
	TrackTypeAudio = "audio"
)

// Key length for chapter and track keys (short UUID prefix)
const (
	ContentKeyLength = 8
)

// UntitledCardTitle is shown for cards without a title
const UntitledCardTitle = "Untitled Card"

// Card represents a Yoto card: a titled playlist of chapters with metadata
type Card struct {
	CardID   string        `json:"cardId,omitempty"`
	Title    string        `json:"title"`
	Metadata *CardMetadata `json:"metadata,omitempty"`
	Content  *CardContent  `json:"content,omitempty"`
}

// CardMetadata holds descriptive card fields shown in the Yoto app
type CardMetadata struct {
	Author      string     `json:"author,omitempty"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category,omitempty"`
	Genre       []string   `json:"genre,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	MinAge      int        `json:"minAge,omitempty"`
	MaxAge      int        `json:"maxAge,omitempty"`
	Cover       *CardCover `json:"cover,omitempty"`
}

// CardCover holds cover art references
type CardCover struct {
	ImageL string `json:"imageL,omitempty"`
}

// CardContent is the playable content of a card
type CardContent struct {
	Chapters []*Chapter `json:"chapters,omitempty"`
}

// Chapter groups tracks under a title
type Chapter struct {
	Key    string   `json:"key"`
	Title  string   `json:"title"`
	Tracks []*Track `json:"tracks,omitempty"`
}

// Track is a single audio entry within a chapter
type Track struct {
	Key      string  `json:"key"`
	Title    string  `json:"title"`
	TrackURL string  `json:"trackUrl,omitempty"`
	Duration float64 `json:"duration,omitempty"` // seconds
	Format   string  `json:"format,omitempty"`   // e.g. "mp3"
	Type     string  `json:"type,omitempty"`     // e.g. "audio"
}

// Categories returns the selectable card categories in display order
func Categories() []string {
	return []string{
		CategoryNone, CategoryStories, CategoryMusic, CategoryRadio,
		CategoryPodcast, CategorySFX, CategoryActivities, CategoryAlarms,
	}
}

// NewContentKey generates a short key for chapters and tracks
func NewContentKey() string {
	return uuid.NewString()[:ContentKeyLength]
}

// IsNew returns true if the card has not been saved to the cloud yet
func (c *Card) IsNew() bool {
	return c.CardID == ""
}

// TrackCount returns the total number of tracks across all chapters
func (c *Card) TrackCount() int {
	if c.Content == nil {
		return 0
	}
	count := 0
	for _, chapter := range c.Content.Chapters {
		count += len(chapter.Tracks)
	}
	return count
}

// GetDisplayTitle returns the card title, or a placeholder for untitled cards
func (c *Card) GetDisplayTitle() string {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return UntitledCardTitle
	}
	return title
}

// GetDurationString formats the track duration as m:ss, or "" when unknown
func (t *Track) GetDurationString() string {
	if t.Duration <= 0 {
		return ""
	}
	total := int(t.Duration)
	minutes := total / 60
	seconds := total % 60
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// ParseCommaList splits a comma-separated entry field into trimmed values.
// Empty segments are dropped; an all-empty input yields nil.
func ParseCommaList(input string) []string {
	var values []string
	for _, part := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

// JoinCommaList renders a list field back into its editable form
func JoinCommaList(values []string) string {
	return strings.Join(values, ", ")
}
