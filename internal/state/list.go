package state

// List is an ordered sequence with an optional cursor. When the cursor is
// set it always points inside the sequence.
type List[T any] struct {
	items    []T
	cursor   int
	selected bool
}

// NewList copies items into a list with nothing selected.
func NewList[T any](items []T) *List[T] {
	cp := make([]T, len(items))
	copy(cp, items)
	return &List[T]{items: cp}
}

func (l *List[T]) Len() int {
	return len(l.items)
}

// Items returns a copy of the underlying sequence.
func (l *List[T]) Items() []T {
	cp := make([]T, len(l.items))
	copy(cp, l.items)
	return cp
}

// Cursor returns the selected index, if any.
func (l *List[T]) Cursor() (int, bool) {
	return l.cursor, l.selected
}

// Selected returns the item under the cursor.
func (l *List[T]) Selected() (T, bool) {
	var zero T
	if !l.selected {
		return zero, false
	}
	return l.items[l.cursor], true
}

// Select moves the cursor to i. Out-of-range indexes are rejected.
func (l *List[T]) Select(i int) bool {
	if i < 0 || i >= len(l.items) {
		return false
	}
	l.cursor = i
	l.selected = true
	return true
}

// SelectNext advances the cursor, wrapping from the last item to the
// first. With nothing selected it selects the first item. Empty lists are
// left untouched.
func (l *List[T]) SelectNext() {
	if len(l.items) == 0 {
		return
	}
	if !l.selected {
		l.Select(0)
		return
	}
	l.Select((l.cursor + 1) % len(l.items))
}

// SelectPrevious moves the cursor back, wrapping from the first item to
// the last. With nothing selected it selects the first item.
func (l *List[T]) SelectPrevious() {
	if len(l.items) == 0 {
		return
	}
	if !l.selected {
		l.Select(0)
		return
	}
	l.Select((l.cursor - 1 + len(l.items)) % len(l.items))
}

func (l *List[T]) Unselect() {
	l.cursor = 0
	l.selected = false
}
