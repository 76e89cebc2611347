package modem

import (
	"io"
	"sync"
)

// TestTransport is a test helper that simulates a blocking endpoint using
// channels. The engine's reader goroutine continuously reads from its
// transport, so reads must block until data arrives, the way a real
// pseudo-terminal would. Writes are recorded for inspection.
type TestTransport struct {
	mu       sync.Mutex
	path     string
	readChan chan []byte
	writes   [][]byte
	closed   bool
}

// NewTestTransport creates a test transport answering to the given device
// path. Exported for use in tests.
func NewTestTransport(path string) *TestTransport {
	return &TestTransport{
		path:     path,
		readChan: make(chan []byte, 10),
	}
}

func (t *TestTransport) Read(p []byte) (n int, err error) {
	data, ok := <-t.readChan
	if !ok {
		return 0, io.EOF
	}
	return copy(p, data), nil
}

func (t *TestTransport) Write(p []byte) (n int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	buf := make([]byte, len(p))
	copy(buf, p)
	t.writes = append(t.writes, buf)
	return len(p), nil
}

func (t *TestTransport) Path() string {
	return t.path
}

// Close ends the peer side: already queued data is still delivered, then
// reads report EOF. This mirrors how a channel drains after close and is
// exactly the reboot guarantee the engine relies on.
func (t *TestTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	close(t.readChan)
	return nil
}

// SendData queues data for the engine to read, simulating a client writing
// to the device.
func (t *TestTransport) SendData(data string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.readChan <- []byte(data)
	}
}

// Writes returns a snapshot of everything transmitted so far.
func (t *TestTransport) Writes() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.writes))
	for i, w := range t.writes {
		out[i] = string(w)
	}
	return out
}
