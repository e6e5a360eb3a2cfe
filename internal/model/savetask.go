package model

import "time"

// SaveTask represents a single background save of a card to the cloud API
type SaveTask struct {
	ID         string
	Card       *Card
	Status     TaskStatus
	LastError  string    // last error message if any
	CardID     string    // card ID assigned by the API after a successful save
	StartedAt  time.Time // when the save started
	FinishedAt time.Time // when the save finished
}

// NormalizeTask represents a single background audio normalization run
type NormalizeTask struct {
	ID         string
	InputPath  string
	OutputPath string
	TargetLUFS float64
	Status     TaskStatus
	Progress   float64 // 0.0 to 1.0
	Percent    int     // 0 to 100
	LastError  string  // last error message if any
	StartedAt  time.Time
	FinishedAt time.Time
}
