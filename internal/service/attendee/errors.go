package attendee

import "errors"

// Sentinel errors for the attendee service layer.
var (
	ErrNotFound      = errors.New("attendee not found")
	ErrDuplicatePass = errors.New("pass_id already exists")
	ErrMissingPassID = errors.New("pass_id is required")
)
