package model

// TaskStatus represents the status of a background task (card save, normalization)
type TaskStatus string

const (
	// TaskStatusPending means the task is queued but not started
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusRunning means the task is in progress
	TaskStatusRunning TaskStatus = "Running"

	// TaskStatusCancelling means the task is in the process of being cancelled
	TaskStatusCancelling TaskStatus = "Cancelling"

	// TaskStatusCancelled means the task was cancelled by the user
	TaskStatusCancelled TaskStatus = "Cancelled"

	// TaskStatusCompleted means the task finished successfully
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusError means the task failed with an error
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the task is in an active state
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusPending || ts == TaskStatusRunning || ts == TaskStatusCancelling
}

// IsFinished returns true if the task is in a finished state (completed, cancelled, or error)
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusCancelled || ts == TaskStatusError
}
