// Package state holds the model shared by the render loop and the fetch
// worker. Every exported method on State takes the same mutex, so callers
// never observe a partially applied update.
package state

import (
	"fmt"
	"sync"

	"github.com/pders01/fred/internal/debuglog"
	"github.com/pders01/fred/internal/feed"
)

// Mode selects which list receives cursor movement.
type Mode int

const (
	ModeFeeds Mode = iota
	ModeItems
)

func (m Mode) String() string {
	switch m {
	case ModeFeeds:
		return "feeds"
	case ModeItems:
		return "items"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// MaxDrillDepth is the depth of the item detail view.
const MaxDrillDepth = 1

// Drill tracks whether an item detail is open and which item it shows.
type Drill struct {
	depth int
	index int
}

func (d Drill) Depth() int { return d.depth }
func (d Drill) Index() int { return d.index }

func (d *Drill) push(index int) error {
	if d.depth >= MaxDrillDepth {
		return ErrDrillLimit
	}
	d.depth++
	d.index = index
	return nil
}

func (d *Drill) pop() error {
	if d.depth == 0 {
		return ErrDrillUnderflow
	}
	d.depth--
	d.index = 0
	return nil
}

// Request asks the worker to fetch one configured feed.
type Request struct {
	FeedIndex int
	URL       string
}

// Dispatcher hands requests to the worker. Send must not block.
type Dispatcher interface {
	Send(Request) error
}

// Finder searches the items of the loaded document and returns matching
// item indexes, best match first.
type Finder interface {
	Find(query string) ([]int, error)
	Close() error
}

// Result is what the worker reports back for one request.
type Result struct {
	Request  Request
	Document *feed.Document
	Finder   Finder
	Err      error
}

type State struct {
	mu sync.Mutex

	feeds      *List[feed.Source]
	document   *feed.Document
	items      *List[feed.Item]
	finder     Finder
	mode       Mode
	drill      Drill
	loading    bool
	pending    int
	lastErr    error
	activeFeed int

	dispatcher Dispatcher
}

// New builds the state for the configured sources. Requests issued by
// Activate go to d.
func New(sources []feed.Source, d Dispatcher) *State {
	return &State{
		feeds:      NewList(sources),
		mode:       ModeFeeds,
		activeFeed: -1,
		dispatcher: d,
	}
}

// ToggleView swaps between the feed list and the item list.
func (s *State) ToggleView() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == ModeFeeds {
		s.mode = ModeItems
	} else {
		s.mode = ModeFeeds
	}
}

// Mode returns the current navigation mode.
func (s *State) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Next moves the cursor of the focused list forward.
func (s *State) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l := s.focused(); l != nil {
		l.SelectNext()
	}
}

// Previous moves the cursor of the focused list back.
func (s *State) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l := s.focused(); l != nil {
		l.SelectPrevious()
	}
}

// Unselect clears the cursor of the focused list.
func (s *State) Unselect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l := s.focused(); l != nil {
		l.Unselect()
	}
}

type cursorMover interface {
	SelectNext()
	SelectPrevious()
	Unselect()
}

// focused returns the list that receives cursor movement, or nil in the
// item view before any document has loaded. Caller holds mu.
func (s *State) focused() cursorMover {
	if s.mode == ModeFeeds {
		return s.feeds
	}
	if s.items != nil {
		return s.items
	}
	return nil
}

// Activate performs the enter action for the current mode. In the feed
// list it dispatches a fetch of the selected feed; in the item list it
// opens the detail of the item under the cursor.
func (s *State) Activate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == ModeFeeds {
		i, ok := s.feeds.Cursor()
		if !ok {
			return ErrNoSelection
		}
		src, _ := s.feeds.Selected()
		s.dispatch(Request{FeedIndex: i, URL: src.URL})
		return nil
	}

	if s.items == nil || s.items.Len() == 0 {
		return ErrNoItems
	}
	index, _ := s.items.Cursor()
	return s.drill.push(index)
}

// dispatch marks the state as loading before the request leaves, so the
// next render shows it. Caller holds mu.
func (s *State) dispatch(req Request) {
	s.loading = true
	s.pending++
	s.lastErr = nil

	log := debuglog.WithFields(map[string]interface{}{"feed": req.FeedIndex, "url": req.URL})
	if s.dispatcher == nil {
		s.loading = false
		s.pending--
		log.Warnf("no dispatcher, request dropped")
		return
	}
	if err := s.dispatcher.Send(req); err != nil {
		s.loading = false
		s.pending--
		log.Warnf("dispatch failed: %v", err)
		return
	}
	log.Debugf("dispatched, %d pending", s.pending)
}

// Back leaves the item detail. At the item list it returns
// ErrDrillUnderflow and changes nothing.
func (s *State) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drill.pop()
}

// QuitOrBack leaves the item detail if one is open and reports false;
// otherwise it reports true and the caller should exit.
func (s *State) QuitOrBack() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.drill.Depth() > 0 {
		_ = s.drill.pop()
		return false
	}
	return true
}

// Find moves the item cursor to the next item matching query, searching
// forward from the cursor and wrapping around.
func (s *State) Find(query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.items == nil || s.items.Len() == 0 {
		return ErrNoItems
	}
	if s.finder == nil {
		return ErrNoMatch
	}

	hits, err := s.finder.Find(query)
	if err != nil {
		return fmt.Errorf("searching items: %w", err)
	}
	if len(hits) == 0 {
		return ErrNoMatch
	}

	next, found := nextHit(hits, s.items)
	if !found {
		return ErrNoMatch
	}
	s.mode = ModeItems
	s.items.Select(next)
	return nil
}

// nextHit picks the first hit after the cursor in list order, wrapping to
// the lowest hit. With nothing selected the best-scored hit wins.
func nextHit(hits []int, l *List[feed.Item]) (int, bool) {
	cur, selected := l.Cursor()
	first, after, lowest := -1, -1, -1
	for _, h := range hits {
		if h < 0 || h >= l.Len() {
			continue
		}
		if first == -1 {
			first = h
		}
		if lowest == -1 || h < lowest {
			lowest = h
		}
		if selected && h > cur && (after == -1 || h < after) {
			after = h
		}
	}

	switch {
	case first == -1:
		return 0, false
	case !selected:
		return first, true
	case after != -1:
		return after, true
	default:
		return lowest, true
	}
}

// Complete merges the outcome of one request. The loading flag is cleared
// whether or not the fetch succeeded; a failure leaves the loaded document
// untouched and is kept as LastError.
func (s *State) Complete(res Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = false
	if s.pending > 0 {
		s.pending--
	}

	if res.Err != nil || res.Document == nil {
		s.lastErr = res.Err
		if s.lastErr == nil {
			s.lastErr = fmt.Errorf("fetch of %s returned no document", res.Request.URL)
		}
		if res.Finder != nil {
			res.Finder.Close()
		}
		return
	}

	if s.finder != nil {
		s.finder.Close()
	}

	s.document = res.Document
	s.items = NewList(res.Document.Items)
	s.finder = res.Finder
	s.drill = Drill{}
	s.activeFeed = res.Request.FeedIndex
	s.lastErr = nil
}

// Close releases the search index of the loaded document.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finder == nil {
		return nil
	}
	err := s.finder.Close()
	s.finder = nil
	return err
}
