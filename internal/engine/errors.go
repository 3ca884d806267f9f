package engine

import "errors"

var (
	// ErrCharacterNotFound reports a filter or lookup against an
	// undeclared character number.
	ErrCharacterNotFound = errors.New("character not found")

	// ErrItemNotFound reports a lookup against an undeclared item number.
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidValue reports a filter value whose syntax does not fit
	// the character's declared type.
	ErrInvalidValue = errors.New("invalid value for character type")
)
