package task

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid task input")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")
	ErrSelfDependency  = errors.New("task cannot depend on itself")
)
