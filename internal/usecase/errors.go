package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrAlreadyStarted        = errors.New("match already started")
	ErrIneligibleTeam        = errors.New("team not eligible")
	ErrAlreadyGraded         = errors.New("result already set")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
