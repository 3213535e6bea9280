package projection

const (
	// DefaultLimit applies when a listing does not ask for a page size.
	DefaultLimit = 50
	// MaxLimit caps the page size of every listing.
	MaxLimit = 200
)

// Window is the limit/offset pair of a listing.
type Window struct {
	Limit  int
	Offset int
}

// Normalize clamps the window into the accepted range.
func (w Window) Normalize() Window {
	if w.Limit <= 0 {
		w.Limit = DefaultLimit
	}
	if w.Limit > MaxLimit {
		w.Limit = MaxLimit
	}
	if w.Offset < 0 {
		w.Offset = 0
	}
	return w
}

// Apply slices items according to the window. Used by in-memory adapters.
func Apply[T any](items []T, w Window) []T {
	w = w.Normalize()
	if w.Offset >= len(items) {
		return []T{}
	}
	end := w.Offset + w.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[w.Offset:end]
}

// Page represents one window of a listing plus the total matching count.
type Page[T any] struct {
	Items  []T
	Total  int
	Limit  int
	Offset int
}

// NewPage wraps items with their window and total.
func NewPage[T any](items []T, total int, w Window) Page[T] {
	w = w.Normalize()
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Limit: w.Limit, Offset: w.Offset}
}
