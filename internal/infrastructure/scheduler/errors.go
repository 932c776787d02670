package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when a task is missing its name, interval or function
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrAlreadyRunning is returned when a task is added to a started scheduler
	ErrAlreadyRunning = errors.New("scheduler is already running")
)
