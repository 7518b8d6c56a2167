package service

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrValidation       = errors.New("validation failed")
	ErrPrecondition     = errors.New("precondition failed")
	ErrConflict         = errors.New("conflict")
	ErrAlreadyConfirmed = errors.New("already_confirmed")
)
