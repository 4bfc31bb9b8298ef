package tui

import (
	"errors"
	"fmt"

	"github.com/pders01/fred/internal/state"
)

// wrapErr formats an error with a contextual prefix.
func wrapErr(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// isNavigation reports whether err is one of the recoverable navigation
// errors that the UI only logs.
func isNavigation(err error) bool {
	return errors.Is(err, state.ErrNoSelection) ||
		errors.Is(err, state.ErrNoItems) ||
		errors.Is(err, state.ErrDrillUnderflow) ||
		errors.Is(err, state.ErrDrillLimit) ||
		errors.Is(err, state.ErrNoMatch)
}
