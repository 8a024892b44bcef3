// Package errors provides sentinel errors for the didyoueat application.
package errors

import "errors"

// Setup and settings errors
var (
	// ErrSetupIncomplete is returned when a command needs a completed setup.
	ErrSetupIncomplete = errors.New("setup not complete - run 'didyoueat setup' first")

	// ErrMissingContact is returned when the emergency contact name or phone is empty.
	ErrMissingContact = errors.New("emergency contact name and phone are required")

	// ErrInvalidPhone is returned when the contact phone lacks the international '+' prefix.
	ErrInvalidPhone = errors.New("phone number must start with '+' and include the country code")

	// ErrInvalidTime is returned when a reminder time is not HH:MM.
	ErrInvalidTime = errors.New("time must be in HH:MM 24-hour format")
)

// Check-in errors
var (
	// ErrUnknownCategory is returned when parsing a category outside the closed set.
	ErrUnknownCategory = errors.New("unknown check-in category")

	// ErrUnknownOutcome is returned when parsing an outcome outside the closed set.
	ErrUnknownOutcome = errors.New("unknown check-in outcome")

	// ErrUnknownAction is returned for an unrecognised notification action.
	ErrUnknownAction = errors.New("unknown check-in action")
)

// Runtime configuration errors
var (
	// ErrInvalidConfig is returned when runtime options fail validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownStore is returned when the store backend name is not recognised.
	ErrUnknownStore = errors.New("unknown store backend")
)
