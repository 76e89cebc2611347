//go:build unix

package modem

import (
	"fmt"
	"os"

	"github.com/creack/pty"
	"golang.org/x/term"
)

// PTYAllocator allocates pseudo-terminal pairs. The engine reads and writes
// the controller side; the replica device node is what clients open as
// their "serial port", either directly or through the symlink alias.
type PTYAllocator struct{}

type ptyTransport struct {
	controller *os.File
	replica    *os.File
	path       string
}

func (PTYAllocator) Open() (Transport, error) {
	controller, replica, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("allocate pty: %w", err)
	}

	// Raw line discipline on the device: no echo, no canonical
	// buffering. Clients reconfigure their own side when they open it.
	if _, err := term.MakeRaw(int(replica.Fd())); err != nil {
		controller.Close()
		replica.Close()
		return nil, fmt.Errorf("raw mode on %s: %w", replica.Name(), err)
	}

	return &ptyTransport{
		controller: controller,
		replica:    replica,
		path:       replica.Name(),
	}, nil
}

func (t *ptyTransport) Read(p []byte) (int, error) {
	return t.controller.Read(p)
}

func (t *ptyTransport) Write(p []byte) (int, error) {
	return t.controller.Write(p)
}

func (t *ptyTransport) Path() string {
	return t.path
}

// Close closes both ends. The engine holds the replica open for the whole
// transport lifetime so the pair stays usable while no client has it open.
func (t *ptyTransport) Close() error {
	err := t.controller.Close()
	if cerr := t.replica.Close(); err == nil {
		err = cerr
	}
	return err
}

func (PTYAllocator) SetAlias(devicePath, aliasPath string) error {
	if info, err := os.Lstat(aliasPath); err == nil {
		if info.Mode()&os.ModeSymlink == 0 {
			return fmt.Errorf("%s exists and is not a symlink", aliasPath)
		}
		if err := os.Remove(aliasPath); err != nil {
			return fmt.Errorf("remove previous alias: %w", err)
		}
	}
	if err := os.Symlink(devicePath, aliasPath); err != nil {
		return fmt.Errorf("link %s -> %s: %w", aliasPath, devicePath, err)
	}
	return nil
}

func (PTYAllocator) ClearAlias(aliasPath string) error {
	info, err := os.Lstat(aliasPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return fmt.Errorf("%s is not a symlink", aliasPath)
	}
	if err := os.Remove(aliasPath); err != nil {
		return fmt.Errorf("remove alias: %w", err)
	}
	return nil
}
