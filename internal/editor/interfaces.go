package editor

import (
	"context"

	"github.com/yotoup/card-studio/internal/model"
)

// CardSaver is the slice of the API client the save service depends on.
type CardSaver interface {
	CreateOrUpdateCard(ctx context.Context, card *model.Card) (*model.Card, error)
}

// Saver defines the interface for the background save service.
type Saver interface {
	SetUpdateCallback(func(*model.SaveTask))
	SaveCard(card *model.Card) (*model.SaveTask, error)
	GetTask(id string) (*model.SaveTask, bool)
	GetAllTasks() []*model.SaveTask
	CancelSave(id string) error
}
