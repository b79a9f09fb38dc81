// Package services turns API input into record store writes and loads the
// reconciled dashboard.
package services

import "errors"

var (
	ErrInvalidForm     = errors.New("invalid form")
	ErrToolCheckedOut  = errors.New("tool is checked out")
	ErrAlreadyReturned = errors.New("checkout already returned")
)
