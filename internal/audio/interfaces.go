package audio

import (
	"github.com/yotoup/card-studio/internal/model"
)

// Normalizer defines the interface for the audio service.
type Normalizer interface {
	SetUpdateCallback(func(*model.NormalizeTask))
	ProbeDuration(filePath string) (float64, error)
	StartNormalize(inputPath string, targetLUFS float64) (*model.NormalizeTask, error)
	CancelNormalize(taskID string) error
	GetTask(taskID string) (*model.NormalizeTask, bool)
}
