package state

import "github.com/pders01/fred/internal/feed"

// Snapshot is a read-only copy of State for one render pass. Cursor
// fields are -1 when nothing is selected.
type Snapshot struct {
	Feeds      []feed.Source
	FeedCursor int
	ActiveFeed int

	HasDocument   bool
	DocumentTitle string
	Items         []feed.Item
	ItemCursor    int

	Mode   Mode
	Depth  int
	Detail *feed.Item

	IsLoading bool
	Pending   int
	LastError error

	CanActivate bool
	CanBack     bool
	CanFind     bool
}

// Snapshot copies the current state under the lock.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Feeds:      s.feeds.Items(),
		FeedCursor: cursorOrNone(s.feeds.Cursor()),
		ActiveFeed: s.activeFeed,
		ItemCursor: -1,
		Mode:       s.mode,
		Depth:      s.drill.Depth(),
		IsLoading:  s.loading,
		Pending:    s.pending,
		LastError:  s.lastErr,
		CanBack:    s.drill.Depth() > 0,
	}

	if s.document != nil {
		snap.HasDocument = true
		snap.DocumentTitle = s.document.Title
		snap.Items = s.items.Items()
		snap.ItemCursor = cursorOrNone(s.items.Cursor())
		snap.CanFind = s.finder != nil && s.items.Len() > 0

		if s.drill.Depth() > 0 && s.drill.Index() < len(snap.Items) {
			item := snap.Items[s.drill.Index()]
			snap.Detail = &item
		}
	}

	switch s.mode {
	case ModeFeeds:
		_, snap.CanActivate = s.feeds.Cursor()
	case ModeItems:
		snap.CanActivate = s.items != nil && s.items.Len() > 0 && s.drill.Depth() < MaxDrillDepth
	}

	return snap
}

func cursorOrNone(i int, ok bool) int {
	if !ok {
		return -1
	}
	return i
}

// Source returns the configured feed at index i.
func (snap Snapshot) Source(i int) (feed.Source, bool) {
	if i < 0 || i >= len(snap.Feeds) {
		return feed.Source{}, false
	}
	return snap.Feeds[i], true
}
