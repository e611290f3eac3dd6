package domain

import "errors"

var (
	// ErrNoQuestionAvailable is returned when the pool is empty or the chosen target has no answerable fields.
	ErrNoQuestionAvailable = errors.New("no question available")
	// ErrSessionNotFound is returned when a quiz session has not been opened.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrUnknownGroup indicates a group outside the configured catalog.
	ErrUnknownGroup = errors.New("unknown group")
	// ErrInvalidProfile indicates a profile draft with missing or invalid fields.
	ErrInvalidProfile = errors.New("invalid profile")
	// ErrPasscodeRequired is returned when a gated view is requested without a passcode.
	ErrPasscodeRequired = errors.New("passcode required")
	// ErrPasscodeMismatch is returned when the supplied passcode is wrong.
	ErrPasscodeMismatch = errors.New("passcode mismatch")
	// ErrUnknownView indicates a navigation target that does not exist.
	ErrUnknownView = errors.New("unknown view")
)

// ErrProfilesNotFound is returned by a profile store that has never been written.
var ErrProfilesNotFound = errors.New("profiles not found")
