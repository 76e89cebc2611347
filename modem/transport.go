package modem

import (
	"io"
)

//go:generate go run go.uber.org/mock/mockgen -source=transport.go -destination=transport_mock.go -package=modem

// Transport represents an established, bidirectional byte stream to the
// client side of the emulated device.
//
// A Transport is assumed to be already connected and ready for use. Reads
// block until the client sends data and return io.EOF (or a zero-length
// read) once the peer is gone. Typical implementations are the engine-side
// end of a pseudo-terminal pair, or in-memory fakes used for testing.
type Transport interface {
	io.ReadWriteCloser

	// Path returns the canonical filesystem path a client opens to reach
	// this endpoint, e.g. "/dev/pts/4".
	Path() string
}

// Allocator creates Transports and manages the stable alias that shields
// client configuration from the device path changing across reboots.
//
// Allocator abstracts how the endpoint is created (a real pseudo-terminal,
// or a test double) and is the single seam behind which platform
// differences live.
type Allocator interface {
	// Open allocates a fresh endpoint. It is called once at startup and
	// once per reboot.
	Open() (Transport, error)

	// SetAlias points aliasPath at devicePath, removing any alias already
	// there. A permission failure is returned for the caller to report;
	// the engine keeps serving on the raw device path.
	SetAlias(devicePath, aliasPath string) error

	// ClearAlias removes aliasPath. Removing an alias that does not exist
	// is not an error.
	ClearAlias(aliasPath string) error
}
