package models

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation error")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrPreconditionFailed  = errors.New("precondition failed")
	ErrSolverFailed        = errors.New("route solver failed")
	ErrSolverTimeout       = errors.New("route solver timeout")
	ErrSelectionSuperseded = errors.New("selection superseded by a newer request")
)
