package audio

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yotoup/card-studio/internal/model"
)

// FFmpeg constants for loudness normalization
const (
	// Audio codec settings
	AudioCodec   = "libmp3lame"
	AudioBitrate = "128k"

	// Loudnorm filter bounds
	MinTargetLUFS = -70.0
	MaxTargetLUFS = -5.0

	// Output suffix
	NormalizedSuffix = "-normalized"

	// Executable and I/O constants
	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	ProgressPipeTarget  = "pipe:2"
	ProgressTimePrefix  = "out_time_us="
	TaskIDPrefix        = "normalize-"
)

// Service handles audio probing and loudness normalization
type Service struct {
	tasks      map[string]*model.NormalizeTask
	tasksMutex sync.RWMutex
	onUpdate   func(*model.NormalizeTask) // callback for UI updates
}

// NewService creates a new audio service
func NewService() *Service {
	return &Service{
		tasks: make(map[string]*model.NormalizeTask),
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.NormalizeTask)) {
	s.onUpdate = callback
}

// ProbeDuration returns the duration of an audio file in seconds using ffprobe
func (s *Service) ProbeDuration(filePath string) (float64, error) {
	cmd := exec.Command(FFprobeCommand, "-v", FFprobeLogLevel, "-show_entries", FFprobeShowEntries, "-of", FFprobeOutputFormat, filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}

	durationStr := strings.TrimSpace(string(output))
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return duration, nil
}

// StartNormalize starts normalizing an audio file to the target loudness
func (s *Service) StartNormalize(inputPath string, targetLUFS float64) (*model.NormalizeTask, error) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	// Check if normalization is already in progress for this file
	for _, task := range s.tasks {
		if task.InputPath == inputPath && task.Status.IsActive() {
			return nil, fmt.Errorf("normalization already in progress for file: %s", inputPath)
		}
	}

	if targetLUFS < MinTargetLUFS || targetLUFS > MaxTargetLUFS {
		return nil, fmt.Errorf("target loudness out of range: %.1f LUFS", targetLUFS)
	}

	// Check if input file exists
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("input file does not exist: %s", inputPath)
	}

	task := &model.NormalizeTask{
		ID:         generateTaskID(),
		InputPath:  inputPath,
		OutputPath: generateOutputPath(inputPath),
		TargetLUFS: targetLUFS,
		Status:     model.TaskStatusPending,
		Progress:   0.0,
		Percent:    0,
		StartedAt:  time.Now(),
	}

	s.tasks[task.ID] = task

	// Start normalization in background
	go s.runNormalize(task)

	return task, nil
}

// CancelNormalize cancels a running normalization task
func (s *Service) CancelNormalize(taskID string) error {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return fmt.Errorf("normalize task not found: %s", taskID)
	}

	if !task.Status.IsActive() {
		return fmt.Errorf("normalize task is not active: %s", task.Status)
	}

	task.Status = model.TaskStatusCancelling
	s.notifyUpdate(task)

	return nil
}

// runNormalize performs the actual normalization
func (s *Service) runNormalize(task *model.NormalizeTask) {
	s.tasksMutex.Lock()
	task.Status = model.TaskStatusRunning
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)

	// Get duration of input file for progress calculation
	duration, err := s.ProbeDuration(task.InputPath)
	if err != nil {
		log.Printf("Failed to get audio duration for %s: %v", task.InputPath, err)
		s.setTaskError(task, err)
		return
	}

	// Create context for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Monitor for cancel requests
	go func() {
		for {
			s.tasksMutex.RLock()
			status := task.Status
			s.tasksMutex.RUnlock()

			if status == model.TaskStatusCancelling {
				cancel()
				return
			}
			if status.IsFinished() {
				return
			}
			time.Sleep(100 * time.Millisecond)
		}
	}()

	// Build ffmpeg command
	args := s.BuildFFmpegArgs(task.InputPath, task.OutputPath, task.TargetLUFS)
	cmd := exec.CommandContext(ctx, FFmpegCommand, args...)

	// Setup progress monitoring
	stderr, err := cmd.StderrPipe()
	if err != nil {
		s.setTaskError(task, fmt.Errorf("failed to create stderr pipe: %w", err))
		return
	}

	// Start ffmpeg process
	if err := cmd.Start(); err != nil {
		s.setTaskError(task, fmt.Errorf("failed to start ffmpeg: %w", err))
		return
	}

	// Monitor progress
	go s.monitorProgress(stderr, task, duration)

	// Wait for completion
	err = cmd.Wait()

	// Handle result
	s.tasksMutex.Lock()
	if ctx.Err() == context.Canceled {
		task.Status = model.TaskStatusCancelled
		// Remove partial output file
		os.Remove(task.OutputPath)
	} else if err != nil {
		task.Status = model.TaskStatusError
		task.LastError = err.Error()
		// Remove partial output file
		os.Remove(task.OutputPath)
	} else {
		task.Status = model.TaskStatusCompleted
		task.Progress = 1.0
		task.Percent = 100
	}
	task.FinishedAt = time.Now()
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)
}

// GetTask returns a normalize task by ID
func (s *Service) GetTask(taskID string) (*model.NormalizeTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[taskID]
	return task, exists
}

// BuildFFmpegArgs builds the ffmpeg command arguments
func (s *Service) BuildFFmpegArgs(inputPath, outputPath string, targetLUFS float64) []string {
	loudnorm := fmt.Sprintf("loudnorm=I=%.1f", targetLUFS)
	return []string{
		"-y",            // Overwrite output file
		"-i", inputPath, // Input file
		"-af", loudnorm, // Loudness normalization filter
		"-c:a", AudioCodec, // Audio codec
		"-b:a", AudioBitrate, // Audio bitrate
		"-progress", ProgressPipeTarget, // Progress to stderr
		"-nostats", // No stats output
		outputPath, // Output file
	}
}

// monitorProgress monitors ffmpeg progress output
func (s *Service) monitorProgress(stderr io.ReadCloser, task *model.NormalizeTask, totalDuration float64) {
	defer stderr.Close()
	scanner := bufio.NewScanner(stderr)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Parse progress line: out_time_us=123456
		if strings.HasPrefix(line, ProgressTimePrefix) {
			timeStr := strings.TrimPrefix(line, ProgressTimePrefix)
			timeMicroseconds, err := strconv.ParseInt(timeStr, 10, 64)
			if err != nil {
				continue
			}

			// Convert to seconds
			timeSeconds := float64(timeMicroseconds) / 1000000.0

			// Calculate progress percentage
			if totalDuration > 0 {
				progress := timeSeconds / totalDuration
				if progress > 1.0 {
					progress = 1.0
				}

				s.tasksMutex.Lock()
				task.Progress = progress
				task.Percent = int(progress * 100)
				s.tasksMutex.Unlock()

				s.notifyUpdate(task)
			}
		}
	}
}

// setTaskError sets an error state for a task
func (s *Service) setTaskError(task *model.NormalizeTask, err error) {
	s.tasksMutex.Lock()
	task.Status = model.TaskStatusError
	task.LastError = err.Error()
	task.FinishedAt = time.Now()
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.NormalizeTask) {
	if s.onUpdate != nil {
		s.onUpdate(task)
	}
}

// generateOutputPath generates the output path for the normalized file
func generateOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	baseName := strings.TrimSuffix(inputPath, ext)
	return baseName + NormalizedSuffix + ext
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
