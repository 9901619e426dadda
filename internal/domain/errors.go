package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

// MalformedTicketError covers QR payloads that do not decode into a ticket
// or lack a bookingId. No alternate formats are guessed at.
type MalformedTicketError struct {
	Reason string
}

func (e MalformedTicketError) Error() string {
	if e.Reason == "" {
		return "malformed ticket"
	}
	return "malformed ticket: " + e.Reason
}

// InvalidSignatureError deliberately carries no detail about which part of
// the signature failed to match.
type InvalidSignatureError struct{}

func (InvalidSignatureError) Error() string { return "invalid ticket signature" }

// IneligibleStateError reports a booking whose status bars the operation.
type IneligibleStateError struct {
	Status string
}

func (e IneligibleStateError) Error() string {
	return fmt.Sprintf("booking status is %s", e.Status)
}

// InvalidTransitionError reports a state-machine precondition failure, e.g.
// confirming a booking that is no longer PENDING.
type InvalidTransitionError struct {
	BookingID string
	Status    string
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("booking %s cannot transition from status %s", e.BookingID, e.Status)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

func IsMalformedTicket(err error) bool {
	var target MalformedTicketError
	return errors.As(err, &target)
}

func IsInvalidSignature(err error) bool {
	var target InvalidSignatureError
	return errors.As(err, &target)
}

func IsIneligibleState(err error) bool {
	var target IneligibleStateError
	return errors.As(err, &target)
}

func IsInvalidTransition(err error) bool {
	var target InvalidTransitionError
	return errors.As(err, &target)
}
