package view

// History is a browser-style history stack with a cursor. The fragment is
// always the entry under the cursor.
type History struct {
	entries []string
	cursor  int
}

// NewHistory starts with one entry holding the initial fragment.
func NewHistory(initial string) *History {
	return &History{entries: []string{initial}}
}

// Push discards forward entries and appends path. Pushing the entry that
// is already current is a no-op, so a history pop followed by a re-render
// keeps the forward stack.
func (h *History) Push(path string) {
	if h.entries[h.cursor] == path {
		return
	}
	h.entries = append(h.entries[:h.cursor+1], path)
	h.cursor++
}

// Back moves the cursor one entry back. It reports false at the start.
func (h *History) Back() bool {
	if h.cursor == 0 {
		return false
	}
	h.cursor--
	return true
}

// Forward moves the cursor one entry forward. It reports false at the end.
func (h *History) Forward() bool {
	if h.cursor >= len(h.entries)-1 {
		return false
	}
	h.cursor++
	return true
}

// Current returns the fragment under the cursor.
func (h *History) Current() string {
	return h.entries[h.cursor]
}

// Entries returns a copy of the stack and the cursor position.
func (h *History) Entries() ([]string, int) {
	return append([]string(nil), h.entries...), h.cursor
}
