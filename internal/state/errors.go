package state

import "errors"

// Navigation errors. They describe transitions that are not available in
// the current state; callers treat them as no-ops.
var (
	ErrNoSelection    = errors.New("no feed selected")
	ErrNoItems        = errors.New("no items loaded")
	ErrDrillUnderflow = errors.New("already at the item list")
	ErrDrillLimit     = errors.New("already viewing an item")
	ErrNoMatch        = errors.New("no matching item")
)
