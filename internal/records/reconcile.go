package records

// List is the in-memory collection a view holds between fetches. Instead of
// refetching after every mutation, callers apply the server's typed result
// flags through the Apply methods, so the visible list changes exactly when
// the server confirms a change and stays byte-identical otherwise.
//
// Order is whatever the server returned plus appends at the tail; the list
// never re-sorts.
type List[T any] struct {
	items []T
	id    func(T) string
}

// NewList creates a List keyed by the given identity function.
func NewList[T any](id func(T) string, items ...T) *List[T] {
	l := &List[T]{id: id}
	l.items = append(l.items, items...)
	return l
}

// Items returns a copy of the current items.
func (l *List[T]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of items.
func (l *List[T]) Len() int { return len(l.items) }

// ApplyCreate appends item when the server reports it was created. A false
// flag is the server's duplicate signal — an informational no-op, not an
// error — and leaves the list untouched. Reports whether the list changed.
func (l *List[T]) ApplyCreate(created bool, item T) bool {
	if !created {
		return false
	}
	l.items = append(l.items, item)
	return true
}

// ApplyUpdate replaces the item with the same ID when the server confirmed
// the update. Reports whether the list changed.
func (l *List[T]) ApplyUpdate(updated bool, item T) bool {
	if !updated {
		return false
	}
	want := l.id(item)
	for i := range l.items {
		if l.id(l.items[i]) == want {
			l.items[i] = item
			return true
		}
	}
	return false
}

// ApplyDelete removes the item with the given ID when the server confirmed
// the deletion. Reports whether the list changed.
func (l *List[T]) ApplyDelete(deleted bool, id string) bool {
	if !deleted {
		return false
	}
	for i := range l.items {
		if l.id(l.items[i]) == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}
