package application

import "errors"

var (
	ErrNotFound           = errors.New("application not found")
	ErrInvalidTransition  = errors.New("invalid state transition")
	ErrMissingDocuments   = errors.New("mandatory documents missing")
	ErrReviewerRequired   = errors.New("reviewer role required")
	ErrReasonRequired     = errors.New("rejection reason required")
	ErrAlreadyTerminal    = errors.New("application already in a terminal state")
)
