package model

import "testing"

func TestTaskStatusString(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		expected string
	}{
		{TaskStatusPending, "Pending"},
		{TaskStatusRunning, "Running"},
		{TaskStatusCancelling, "Cancelling"},
		{TaskStatusCancelled, "Cancelled"},
		{TaskStatusCompleted, "Completed"},
		{TaskStatusError, "Error"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.expected {
			t.Errorf("Expected status string %q, got %q", tt.expected, got)
		}
	}
}

func TestTaskStatusIsActive(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		expected bool
	}{
		{TaskStatusPending, true},
		{TaskStatusRunning, true},
		{TaskStatusCancelling, true},
		{TaskStatusCancelled, false},
		{TaskStatusCompleted, false},
		{TaskStatusError, false},
	}

	for _, tt := range tests {
		if got := tt.status.IsActive(); got != tt.expected {
			t.Errorf("IsActive(%s): expected %v, got %v", tt.status, tt.expected, got)
		}
	}
}

func TestTaskStatusIsFinished(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		expected bool
	}{
		{TaskStatusPending, false},
		{TaskStatusRunning, false},
		{TaskStatusCancelling, false},
		{TaskStatusCancelled, true},
		{TaskStatusCompleted, true},
		{TaskStatusError, true},
	}

	for _, tt := range tests {
		if got := tt.status.IsFinished(); got != tt.expected {
			t.Errorf("IsFinished(%s): expected %v, got %v", tt.status, tt.expected, got)
		}
	}
}
