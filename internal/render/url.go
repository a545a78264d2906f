package render

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"titan-tictactoe/internal/game"
)

// BoardURL builds the image link posted to the room. The query carries
// the serialized board (b), the winning line if any (w), the hosting
// identity (h), and a cache-busting timestamp (t).
func BoardURL(base string, b game.Board, line []int, host string, ts time.Time) string {
	q := url.Values{}
	q.Set("b", b.String())
	q.Set("w", lineParam(line))
	q.Set("h", host)
	q.Set("t", fmt.Sprintf("%d", ts.Unix()))
	return strings.TrimRight(base, "/") + "/render?" + q.Encode()
}

func lineParam(line []int) string {
	if len(line) != 3 {
		return ""
	}
	return fmt.Sprintf("%d,%d,%d", line[0], line[1], line[2])
}

// ParseLine reads a w query parameter back into cell indices.
func ParseLine(s string) ([]int, bool) {
	if s == "" {
		return nil, false
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, false
	}
	out := make([]int, 3)
	for i, p := range parts {
		var v int
		if _, err := fmt.Sscanf(p, "%d", &v); err != nil || v < 0 || v > 8 {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
