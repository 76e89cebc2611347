package at

import (
	"bytes"
	"strings"
)

// Framer accumulates raw transport bytes and yields complete logical lines.
//
// A line ends at the earliest CR or LF byte, whichever occurs first, and the
// terminator is consumed singly: a CR immediately followed by LF produces an
// extra empty line, which is dropped like any other empty line. Lines are
// whitespace-trimmed. Unterminated trailing bytes stay buffered until a
// later Feed completes them, so a byte stream split across reads at any
// point frames to the same line sequence as a single read.
//
// Lines are never reordered or partially emitted. There is no length cap.
type Framer struct {
	buf []byte
}

// Feed appends p to the internal buffer and returns every line completed by
// it, in arrival order. The returned slice is nil when no line completed.
func (f *Framer) Feed(p []byte) []string {
	f.buf = append(f.buf, p...)

	var lines []string
	for {
		i := bytes.IndexAny(f.buf, "\r\n")
		if i < 0 {
			break
		}
		line := strings.TrimSpace(string(f.buf[:i]))
		f.buf = f.buf[i+1:]
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Pending reports whether unterminated bytes remain buffered.
func (f *Framer) Pending() bool {
	return len(f.buf) > 0
}
