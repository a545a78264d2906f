package logging

import (
	"strings"
	"sync"
)

// Ring is a bounded in-memory buffer of complete log lines. It backs
// the control panel's log view, so writes must never fail or block on
// anything beyond the mutex.
type Ring struct {
	mu    sync.Mutex
	max   int
	lines []string
	part  strings.Builder
}

func NewRing(max int) *Ring {
	if max <= 0 {
		max = 50
	}
	return &Ring{max: max}
}

// Write splits p on newlines, buffering any trailing partial line until
// its terminator arrives.
func (r *Ring) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range p {
		if b == '\n' {
			r.push(r.part.String())
			r.part.Reset()
			continue
		}
		r.part.WriteByte(b)
	}
	return len(p), nil
}

func (r *Ring) push(line string) {
	if line == "" {
		return
	}
	r.lines = append(r.lines, line)
	if len(r.lines) > r.max {
		r.lines = r.lines[len(r.lines)-r.max:]
	}
}

// Lines returns a copy of the buffered lines, oldest first.
func (r *Ring) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}
