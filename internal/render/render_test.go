package render

import (
	"bytes"
	"image/png"
	"net/url"
	"strings"
	"testing"
	"time"

	"titan-tictactoe/internal/game"
)

func TestBoardURL(t *testing.T) {
	b := game.ParseBoard("XX_OO____")
	ts := time.Unix(1700000000, 0)
	got := BoardURL("http://example.com/", b, []int{0, 1, 2}, "alice", ts)
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if u.Path != "/render" {
		t.Fatalf("path = %q", u.Path)
	}
	q := u.Query()
	if q.Get("b") != "XX_OO____" {
		t.Fatalf("b = %q", q.Get("b"))
	}
	if q.Get("w") != "0,1,2" {
		t.Fatalf("w = %q", q.Get("w"))
	}
	if q.Get("h") != "alice" {
		t.Fatalf("h = %q", q.Get("h"))
	}
	if q.Get("t") != "1700000000" {
		t.Fatalf("t = %q", q.Get("t"))
	}
}

func TestBoardURLNoLine(t *testing.T) {
	got := BoardURL("http://example.com", game.NewBoard(), nil, "alice", time.Unix(0, 0))
	if !strings.Contains(got, "w=&") && !strings.HasSuffix(got, "w=") && !strings.Contains(got, "&w=") {
		t.Fatalf("expected empty w param in %q", got)
	}
}

func TestParseLine(t *testing.T) {
	line, ok := ParseLine("0,4,8")
	if !ok {
		t.Fatal("expected ok")
	}
	if line[0] != 0 || line[1] != 4 || line[2] != 8 {
		t.Fatalf("line = %v", line)
	}
	for _, bad := range []string{"", "1,2", "a,b,c", "0,4,9", "-1,0,1"} {
		if _, ok := ParseLine(bad); ok {
			t.Fatalf("ParseLine(%q) accepted", bad)
		}
	}
}

func TestPNGEncodesFullSizeImage(t *testing.T) {
	var buf bytes.Buffer
	b := game.ParseBoard("X_O_X___O")
	if err := PNG(&buf, b, []int{0, 4, 8}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != Size || bounds.Dy() != Size {
		t.Fatalf("bounds = %v, want %dx%d", bounds, Size, Size)
	}
}

func TestDrawMarksCells(t *testing.T) {
	img := Draw(game.ParseBoard("X___O____"), nil)
	// Center of cell 4 holds part of the O ring.
	ringX, ringY := cellCenter(4)
	ringY -= 100 // top of the ring
	if img.RGBAAt(ringX, ringY) != oColor {
		t.Fatalf("cell 4 ring pixel = %v", img.RGBAAt(ringX, ringY))
	}
	// Center of cell 0 sits on the X crossing.
	cx, cy := cellCenter(0)
	if img.RGBAAt(cx, cy) != xColor {
		t.Fatalf("cell 0 cross pixel = %v", img.RGBAAt(cx, cy))
	}
	// An empty cell keeps the background.
	ex, ey := cellCenter(8)
	if img.RGBAAt(ex, ey) != background {
		t.Fatalf("empty cell pixel = %v", img.RGBAAt(ex, ey))
	}
}
