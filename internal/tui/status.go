package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pders01/fred/internal/feed"
)

// Canonical short status messages used across the app.
const (
	MsgLoading    = "Loading…"
	MsgNoDocument = "No feed loaded. Select a feed and press enter."
	MsgEmptyFeed  = "This feed has no items"
	MsgNoFeeds    = "No feeds configured"
	MsgCannotFind = "Nothing to search"
)

func MsgLoadingPending(pending int) string {
	if pending <= 1 {
		return MsgLoading
	}
	return fmt.Sprintf("Loading… (%d queued)", pending)
}

func MsgLoaded(title string, count int) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "feed"
	}
	if count == 1 {
		return fmt.Sprintf("Loaded '%s' (1 item)", title)
	}
	return fmt.Sprintf("Loaded '%s' (%d items)", title, count)
}

func MsgNoMatch(query string) string {
	return fmt.Sprintf("No match for '%s'", query)
}

// MsgFetchFailed describes a failed fetch for the status bar.
func MsgFetchFailed(err error) string {
	var fe *feed.FetchError
	if !errors.As(err, &fe) {
		return fmt.Sprintf("Fetch failed: %v", err)
	}
	switch {
	case feed.IsNetwork(err):
		return fmt.Sprintf("Could not reach %s: %v", fe.URL, fe.Err)
	case feed.IsParse(err):
		return fmt.Sprintf("Could not read feed %s: %v", fe.URL, fe.Err)
	default:
		return fmt.Sprintf("Fetch failed: %v", err)
	}
}
