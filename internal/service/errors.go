package service

import "errors"

var (
	ErrSubmissionPending = errors.New("a booking for this selection is already being submitted")
	ErrSessionRequired   = errors.New("session id is required")
)
