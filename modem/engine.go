package modem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/AmulyaX/fake-atc/at"
)

// Engine drives one emulated device. It owns the live Transport, the line
// framer buffer and the alias path; no other goroutine touches them.
// Commands are processed strictly one at a time: read, frame, parse,
// resolve, optional delay, transmit. That ordering guarantee is the only
// admission control the device has.
type Engine struct {
	config    Config
	transport Transport
	framer    at.Framer
	log       *slog.Logger
	closed    bool
}

// New creates an Engine, allocates its first endpoint and points the alias
// at it. An alias failure is reported and tolerated; an allocation failure
// is not.
func New(config Config) (*Engine, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	config.setDefaults()

	e := &Engine{config: config, log: config.Logger}
	if err := e.attach(); err != nil {
		return nil, err
	}
	return e, nil
}

// Path returns the device path clients open to reach the engine. It changes
// across reboots; the alias, when configured, does not.
func (e *Engine) Path() string {
	return e.transport.Path()
}

// attach opens a fresh endpoint and repoints the alias at it. The previous
// alias, if any, is removed first so at most one is ever live.
func (e *Engine) attach() error {
	t, err := e.config.Allocator.Open()
	if err != nil {
		return fmt.Errorf("open transport: %w", err)
	}
	e.transport = t
	e.log.Info("device ready", "path", t.Path())

	if e.config.AliasPath != "" {
		if err := e.config.Allocator.SetAlias(t.Path(), e.config.AliasPath); err != nil {
			e.log.Warn("could not create alias, serving on raw device path",
				"alias", e.config.AliasPath, "error", err)
		} else {
			e.log.Info("alias ready", "alias", e.config.AliasPath, "path", t.Path())
		}
	}
	return nil
}

// reader moves bytes from one transport generation into a channel so the
// engine loop can select on input alongside cancellation. The chunk channel
// closes when the transport reports end of input or is closed underneath
// the goroutine; a read failure is delivered on errs before that.
type reader struct {
	chunks chan []byte
	errs   chan error
	done   chan struct{}
}

func newReader(t Transport) *reader {
	r := &reader{
		chunks: make(chan []byte, 8),
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
	}
	go func() {
		defer close(r.chunks)
		buf := make([]byte, 1024)
		for {
			n, err := t.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				select {
				case r.chunks <- chunk:
				case <-r.done:
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					r.errs <- err
				}
				return
			}
			if n == 0 {
				// Zero-length read without error: peer closed.
				return
			}
		}
	}()
	return r
}

// stop releases the goroutine if it is blocked handing over a chunk nobody
// will consume. Call at most once per reader.
func (r *reader) stop() {
	close(r.done)
}

// Run executes the engine loop until the context is cancelled, the peer
// closes the device, or the transport fails. It returns nil on peer close,
// the context error on cancellation, and the transport error otherwise.
// Teardown (alias removal, endpoint close) runs on every exit path.
func (e *Engine) Run(ctx context.Context) error {
	if e.closed {
		return ErrAlreadyClosed
	}
	defer e.teardown()

	rd := newReader(e.transport)
	defer func() { rd.stop() }()

	var pending []string

	for {
		// Every already-framed line is fully resolved, delayed and
		// transmitted before the next read is admitted.
		for len(pending) > 0 {
			line := pending[0]
			pending = pending[1:]

			name, args := at.Parse(line)
			res := Resolve(name, args, e.config.Table)
			e.log.Debug("rx", "line", line, "name", name,
				"delay", res.Delay, "signal", res.Signal)

			if res.Delay > 0 {
				if !e.sleep(ctx, res.Delay) {
					return ctx.Err()
				}
			}
			if _, err := e.transport.Write([]byte(res.Payload)); err != nil {
				err = fmt.Errorf("write response: %w", err)
				e.log.Error("transport failed", "error", err)
				return err
			}

			if res.Signal == SignalReboot {
				if !e.sleep(ctx, e.config.SettleInterval) {
					return ctx.Err()
				}
				next, lines, err := e.reboot(rd)
				if err != nil {
					return err
				}
				rd = next
				pending = append(pending, lines...)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-rd.errs:
			err = fmt.Errorf("read: %w", err)
			e.log.Error("transport failed", "error", err)
			return err

		case chunk, ok := <-rd.chunks:
			if !ok {
				// A read failure is queued before the channel closes;
				// distinguish it from a clean peer departure.
				select {
				case err := <-rd.errs:
					err = fmt.Errorf("read: %w", err)
					e.log.Error("transport failed", "error", err)
					return err
				default:
				}
				e.log.Info("peer closed, shutting down")
				return nil
			}
			pending = append(pending, e.framer.Feed(chunk)...)
		}
	}
}

// reboot implements the simulated hardware reset: the current endpoint is
// torn down and a fresh one allocated, with the alias repointed. Bytes the
// old endpoint delivered before closing are drained into the framer first,
// so buffered-but-unprocessed input is not lost; only the output side moves
// to the new transport.
func (e *Engine) reboot(old *reader) (*reader, []string, error) {
	e.log.Info("rebooting", "path", e.transport.Path())

	if err := e.transport.Close(); err != nil {
		e.log.Warn("close old transport", "error", err)
	}

	// Closing the transport makes the old generation's read fail, which
	// closes its chunk channel behind any chunks it already produced.
	var lines []string
	for chunk := range old.chunks {
		lines = append(lines, e.framer.Feed(chunk)...)
	}

	if err := e.attach(); err != nil {
		return nil, nil, err
	}
	return newReader(e.transport), lines, nil
}

// sleep suspends the loop, honoring cancellation so shutdown stays prompt
// even mid-delay. Reports false when the context ended first.
func (e *Engine) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// teardown removes the alias if one is configured and closes the endpoint.
// Alias removal failures are reported, not fatal: the process is exiting
// anyway and the worst outcome is a dangling symlink.
func (e *Engine) teardown() {
	if e.closed {
		return
	}
	e.closed = true

	if e.config.AliasPath != "" {
		if err := e.config.Allocator.ClearAlias(e.config.AliasPath); err != nil {
			e.log.Warn("could not remove alias",
				"alias", e.config.AliasPath, "error", err)
		} else {
			e.log.Info("cleaned alias", "alias", e.config.AliasPath)
		}
	}
	if e.transport != nil {
		if err := e.transport.Close(); err != nil {
			e.log.Debug("close transport", "error", err)
		}
	}
}
