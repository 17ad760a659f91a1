// Package source produces the text samples that drive live analysis: either
// debounced user edits or a simulated chat stream.
package source

import "time"

// DefaultDebounce is the quiet window after the last edit.
const DefaultDebounce = 380 * time.Millisecond

// Mode selects the active event source.
type Mode int

const (
	ModeText Mode = iota
	ModeStream
)

func (m Mode) String() string {
	if m == ModeStream {
		return "stream"
	}
	return "text"
}

// Debouncer coalesces a burst of edits into the last one. It is owned by a
// single goroutine, which selects on C and calls Fire when it triggers.
type Debouncer struct {
	delay   time.Duration
	timer   *time.Timer
	pending string
	armed   bool
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Push records text and restarts the quiet window.
func (d *Debouncer) Push(text string) {
	d.pending = text
	d.armed = true
	if d.timer == nil {
		d.timer = time.NewTimer(d.delay)
		return
	}
	d.timer.Reset(d.delay)
}

// C returns the timer channel, or nil if nothing is pending.
func (d *Debouncer) C() <-chan time.Time {
	if !d.armed || d.timer == nil {
		return nil
	}
	return d.timer.C
}

// Fire returns the pending text once; later calls report false until the next Push.
func (d *Debouncer) Fire() (string, bool) {
	if !d.armed {
		return "", false
	}
	d.armed = false
	text := d.pending
	d.pending = ""
	return text, true
}

// Pending reports whether an edit is waiting for its quiet window.
func (d *Debouncer) Pending() bool { return d.armed }

// Cancel drops the pending edit and stops the timer.
func (d *Debouncer) Cancel() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.armed = false
	d.pending = ""
}
