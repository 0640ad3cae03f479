// Package progress renders a single overwritten status line for long-running
// batch operations. On a terminal each update replaces the previous one; on any
// other writer (CI logs, files) updates are written one per line.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/term"
)

// defaultWidth is used when the terminal size cannot be determined.
const defaultWidth = 80

// Line is a concurrency-safe single-line progress display.
type Line struct {
	mu      sync.Mutex
	w       io.Writer
	tty     bool
	width   int
	total   int
	count   int
	last    string
	lastLen int // in runes
	active  bool
}

// New creates a Line writing to w. Terminal behavior is enabled when w is a
// terminal file descriptor.
func New(w io.Writer) *Line {
	l := &Line{w: w, width: defaultWidth}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		l.tty = true
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			l.width = width
		}
	}
	return l
}

// NewTerminal creates a Line that always behaves as a terminal of the given
// width, regardless of what w is.
func NewTerminal(w io.Writer, width int) *Line {
	if width <= 0 {
		width = defaultWidth
	}
	return &Line{w: w, tty: true, width: width}
}

// Start resets the counter for a batch of total items.
func (l *Line) Start(total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.total = total
	l.count = 0
}

// Update advances the counter and shows name and detail for the item that is
// about to start.
func (l *Line) Update(name, detail string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.count++
	text := name
	if detail != "" {
		text += " " + detail
	}
	if l.total > 0 {
		text = fmt.Sprintf("[%d/%d] %s", l.count, l.total, text)
	}

	if !l.tty {
		if text == l.last {
			return
		}
		l.last = text
		fmt.Fprintln(l.w, text)
		return
	}

	// Leave the last column free so the cursor never wraps.
	text = truncate(text, l.width-1)
	n := utf8.RuneCountInString(text)
	pad := ""
	if l.lastLen > n {
		pad = strings.Repeat(" ", l.lastLen-n)
	}
	fmt.Fprintf(l.w, "\r%s%s", text, pad)
	l.last = text
	l.lastLen = n
	l.active = true
}

// Done terminates the status line. It is safe to call more than once.
func (l *Line) Done() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.tty && l.active {
		fmt.Fprintln(l.w)
	}
	l.active = false
	l.lastLen = 0
	l.last = ""
}

// truncate cuts s to at most limit runes.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	for i := range s {
		if limit == 0 {
			return s[:i]
		}
		limit--
	}
	return s
}
