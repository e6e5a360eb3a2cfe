package editor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yotoup/card-studio/internal/model"
)

// fakeSaver is a controllable CardSaver for tests
type fakeSaver struct {
	mutex    sync.Mutex
	calls    int
	failures int           // fail this many calls before succeeding
	block    chan struct{} // if set, calls block until closed or ctx is done
}

func (f *fakeSaver) CreateOrUpdateCard(ctx context.Context, card *model.Card) (*model.Card, error) {
	f.mutex.Lock()
	f.calls++
	calls := f.calls
	failures := f.failures
	block := f.block
	f.mutex.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if calls <= failures {
		return nil, errors.New("simulated API failure")
	}

	saved := *card
	if saved.CardID == "" {
		saved.CardID = "server-id"
	}
	return &saved, nil
}

func (f *fakeSaver) callCount() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.calls
}

// waitForStatus blocks until the task reaches a finished status
func waitForFinished(t *testing.T, updates <-chan model.TaskStatus) model.TaskStatus {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case status := <-updates:
			if status.IsFinished() {
				return status
			}
		case <-deadline:
			t.Fatal("Timed out waiting for task to finish")
		}
	}
}

func newTestService(saver CardSaver) (*Service, chan model.TaskStatus) {
	service := NewService(saver)
	updates := make(chan model.TaskStatus, 16)
	service.SetUpdateCallback(func(task *model.SaveTask) {
		updates <- task.Status
	})
	return service, updates
}

func TestSaveCardCompletes(t *testing.T) {
	service, updates := newTestService(&fakeSaver{})

	card := &model.Card{Title: "Bedtime Stories"}
	task, err := service.SaveCard(card)
	if err != nil {
		t.Fatalf("SaveCard failed: %v", err)
	}

	if status := waitForFinished(t, updates); status != model.TaskStatusCompleted {
		t.Fatalf("Expected completed status, got %s", status)
	}

	got, exists := service.GetTask(task.ID)
	if !exists {
		t.Fatal("Expected task to exist after completion")
	}
	if got.CardID != "server-id" {
		t.Errorf("Expected server-assigned card ID, got %q", got.CardID)
	}
	if card.CardID != "server-id" {
		t.Errorf("Expected card to carry the server-assigned ID, got %q", card.CardID)
	}
}

func TestSaveCardRetriesOnce(t *testing.T) {
	saver := &fakeSaver{failures: 1}
	service, updates := newTestService(saver)

	_, err := service.SaveCard(&model.Card{Title: "Flaky"})
	if err != nil {
		t.Fatalf("SaveCard failed: %v", err)
	}

	if status := waitForFinished(t, updates); status != model.TaskStatusCompleted {
		t.Fatalf("Expected completed status after retry, got %s", status)
	}
	if saver.callCount() != 2 {
		t.Errorf("Expected 2 API calls (initial + retry), got %d", saver.callCount())
	}
}

func TestSaveCardErrorAfterRetries(t *testing.T) {
	saver := &fakeSaver{failures: MaxRetries + 1}
	service, updates := newTestService(saver)

	task, err := service.SaveCard(&model.Card{Title: "Broken"})
	if err != nil {
		t.Fatalf("SaveCard failed: %v", err)
	}

	if status := waitForFinished(t, updates); status != model.TaskStatusError {
		t.Fatalf("Expected error status, got %s", status)
	}

	got, _ := service.GetTask(task.ID)
	if !strings.Contains(got.LastError, "simulated API failure") {
		t.Errorf("Expected last error to carry API failure, got %q", got.LastError)
	}
}

func TestSaveCardRejectsNil(t *testing.T) {
	service, _ := newTestService(&fakeSaver{})

	if _, err := service.SaveCard(nil); err == nil {
		t.Error("Expected error for nil card, got nil")
	}
}

func TestSaveCardRejectsConcurrentSave(t *testing.T) {
	block := make(chan struct{})
	saver := &fakeSaver{block: block}
	service, updates := newTestService(saver)

	card := &model.Card{CardID: "card-42", Title: "Busy"}
	if _, err := service.SaveCard(card); err != nil {
		t.Fatalf("First SaveCard failed: %v", err)
	}

	if _, err := service.SaveCard(card); err == nil {
		t.Error("Expected error for concurrent save of the same card, got nil")
	}

	close(block)
	waitForFinished(t, updates)

	// After the first save finishes, saving again is allowed
	if _, err := service.SaveCard(card); err != nil {
		t.Errorf("Expected save to be accepted after completion, got %v", err)
	}
	waitForFinished(t, updates)
}

func TestCancelSave(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	saver := &fakeSaver{block: block}
	service, updates := newTestService(saver)

	task, err := service.SaveCard(&model.Card{Title: "Slow"})
	if err != nil {
		t.Fatalf("SaveCard failed: %v", err)
	}

	// Give the goroutine a moment to enter the blocked API call
	time.Sleep(50 * time.Millisecond)

	if err := service.CancelSave(task.ID); err != nil {
		t.Fatalf("CancelSave failed: %v", err)
	}

	if status := waitForFinished(t, updates); status != model.TaskStatusCancelled {
		t.Fatalf("Expected cancelled status, got %s", status)
	}
}

func TestCancelSaveUnknownTask(t *testing.T) {
	service, _ := newTestService(&fakeSaver{})

	if err := service.CancelSave("no-such-task"); err == nil {
		t.Error("Expected error for unknown task, got nil")
	}
}

func TestGetAllTasks(t *testing.T) {
	service, updates := newTestService(&fakeSaver{})

	for i := 0; i < 3; i++ {
		if _, err := service.SaveCard(&model.Card{Title: "Card"}); err != nil {
			t.Fatalf("SaveCard failed: %v", err)
		}
		waitForFinished(t, updates)
	}

	if got := len(service.GetAllTasks()); got != 3 {
		t.Errorf("Expected 3 tasks, got %d", got)
	}
}
