package editor

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yotoup/card-studio/internal/model"
)

// Retry behavior for failed saves
const (
	MaxRetries   = 1
	RetryBackoff = 2 * time.Second
)

// Task ID prefix
const (
	TaskIDPrefix = "save-"
)

// Service runs card saves against the cloud API in the background. The UI
// thread is never blocked: saves run in goroutines and report status changes
// through the update callback.
type Service struct {
	client     CardSaver
	tasks      map[string]*model.SaveTask
	cancels    map[string]context.CancelFunc
	tasksMutex sync.RWMutex
	onUpdate   func(*model.SaveTask) // callback for UI updates
}

// NewService creates a new save service
func NewService(client CardSaver) *Service {
	return &Service{
		client:  client,
		tasks:   make(map[string]*model.SaveTask),
		cancels: make(map[string]context.CancelFunc),
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.SaveTask)) {
	s.onUpdate = callback
}

// SaveCard queues a background save of the given card. A second save of the
// same card while one is still active is rejected.
func (s *Service) SaveCard(card *model.Card) (*model.SaveTask, error) {
	if card == nil {
		return nil, fmt.Errorf("card is nil")
	}

	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	if card.CardID != "" {
		for _, task := range s.tasks {
			if task.Card.CardID == card.CardID && task.Status.IsActive() {
				return nil, fmt.Errorf("save already in progress for card: %s", card.CardID)
			}
		}
	}

	task := &model.SaveTask{
		ID:        generateTaskID(),
		Card:      card,
		Status:    model.TaskStatusPending,
		StartedAt: time.Now(),
	}
	s.tasks[task.ID] = task

	ctx, cancel := context.WithCancel(context.Background())
	s.cancels[task.ID] = cancel

	go s.runSave(ctx, task)

	return task, nil
}

// GetTask returns a task by ID
func (s *Service) GetTask(id string) (*model.SaveTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[id]
	return task, exists
}

// GetAllTasks returns all tasks
func (s *Service) GetAllTasks() []*model.SaveTask {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	tasks := make([]*model.SaveTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task)
	}
	return tasks
}

// CancelSave cancels a running save task
func (s *Service) CancelSave(id string) error {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	task, exists := s.tasks[id]
	if !exists {
		return fmt.Errorf("save task not found: %s", id)
	}
	if !task.Status.IsActive() {
		return fmt.Errorf("save task is not active: %s", task.Status)
	}

	task.Status = model.TaskStatusCancelling
	if cancel, ok := s.cancels[id]; ok {
		cancel()
	}

	s.notifyUpdate(task)
	return nil
}

// runSave performs the save with retry and reports the outcome
func (s *Service) runSave(ctx context.Context, task *model.SaveTask) {
	defer func() {
		s.tasksMutex.Lock()
		delete(s.cancels, task.ID)
		s.tasksMutex.Unlock()
	}()

	s.tasksMutex.Lock()
	task.Status = model.TaskStatusRunning
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)

	saved, err := s.saveWithRetry(ctx, task)

	s.tasksMutex.Lock()
	if err != nil {
		if ctx.Err() == context.Canceled {
			task.Status = model.TaskStatusCancelled
		} else {
			task.Status = model.TaskStatusError
			task.LastError = err.Error()
		}
	} else {
		task.Status = model.TaskStatusCompleted
		task.CardID = saved.CardID
		task.Card.CardID = saved.CardID
	}
	task.FinishedAt = time.Now()
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)
}

// saveWithRetry attempts the API call with retry logic
func (s *Service) saveWithRetry(ctx context.Context, task *model.SaveTask) (*model.Card, error) {
	var lastErr error

	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			// Backoff delay
			select {
			case <-time.After(RetryBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}

			log.Printf("Retrying save for task %s, attempt %d", task.ID, attempt+1)
		}

		saved, err := s.client.CreateOrUpdateCard(ctx, task.Card)
		if err == nil {
			return saved, nil
		}

		lastErr = err
		log.Printf("Save attempt %d failed for task %s: %v", attempt+1, task.ID, err)

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.SaveTask) {
	if s.onUpdate != nil {
		s.onUpdate(task)
	}
}

// generateTaskID generates a unique task ID using UUID v7 for time ordering
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
