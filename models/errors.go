package models

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrForbidden          = errors.New("forbidden")
	ErrTournamentClosed   = errors.New("tournament is not accepting bookings")
	ErrSlotTaken          = errors.New("slot already taken")
	ErrAlreadyBooked      = errors.New("user already holds a slot in this tournament")
	ErrInsufficientCoins  = errors.New("insufficient coins")
	ErrTransactionSettled = errors.New("transaction is already settled")
	ErrUnavailable        = errors.New("feature not configured")
)

// ValidationError carries a message meant to be shown to the user as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// InsufficientCoinsError keeps the amounts involved so the caller can show
// "You need X coins, but you have Y." and still match ErrInsufficientCoins.
type InsufficientCoinsError struct {
	Need int64
	Have int64
	Msg  string
}

func (e *InsufficientCoinsError) Error() string {
	return e.Msg
}

func (e *InsufficientCoinsError) Is(target error) bool {
	return target == ErrInsufficientCoins
}
