//go:build unix

package modem_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AmulyaX/fake-atc/modem"
)

func TestPTYAllocatorOpen(t *testing.T) {
	alloc := modem.PTYAllocator{}

	tr, err := alloc.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer tr.Close()

	if _, err := os.Stat(tr.Path()); err != nil {
		t.Fatalf("Device node %s: %v", tr.Path(), err)
	}

	// Act as the client: open the device node like a serial port.
	client, err := os.OpenFile(tr.Path(), os.O_RDWR, 0)
	if err != nil {
		t.Fatalf("Open client side: %v", err)
	}
	defer client.Close()

	if _, err := client.Write([]byte("ATI\r")); err != nil {
		t.Fatalf("Client write: %v", err)
	}

	// Raw mode means no echo and no canonical buffering: the transport
	// sees exactly the bytes the client wrote.
	got := make([]byte, 0, 4)
	buf := make([]byte, 16)
	for len(got) < 4 {
		n, err := tr.Read(buf)
		if err != nil {
			t.Fatalf("Transport read: %v", err)
		}
		got = append(got, buf[:n]...)
	}
	if string(got) != "ATI\r" {
		t.Errorf("Expected %q, got %q", "ATI\r", got)
	}

	if _, err := tr.Write([]byte("\r\nOK\r\n")); err != nil {
		t.Fatalf("Transport write: %v", err)
	}
	if err := client.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline: %v", err)
	}
	n, err := client.Read(buf)
	if err != nil {
		t.Fatalf("Client read: %v", err)
	}
	if string(buf[:n]) == "" {
		t.Error("Client read nothing back")
	}
}

func TestPTYAllocatorAlias(t *testing.T) {
	alloc := modem.PTYAllocator{}

	tr1, err := alloc.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer tr1.Close()
	tr2, err := alloc.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer tr2.Close()

	alias := filepath.Join(t.TempDir(), "ttyFAKE")

	if err := alloc.SetAlias(tr1.Path(), alias); err != nil {
		t.Fatalf("SetAlias: %v", err)
	}
	if target, err := os.Readlink(alias); err != nil || target != tr1.Path() {
		t.Fatalf("Expected link to %s, got %s (err %v)", tr1.Path(), target, err)
	}

	// Repointing replaces the previous link.
	if err := alloc.SetAlias(tr2.Path(), alias); err != nil {
		t.Fatalf("SetAlias repoint: %v", err)
	}
	if target, _ := os.Readlink(alias); target != tr2.Path() {
		t.Fatalf("Expected link repointed to %s, got %s", tr2.Path(), target)
	}

	if err := alloc.ClearAlias(alias); err != nil {
		t.Fatalf("ClearAlias: %v", err)
	}
	if _, err := os.Lstat(alias); !os.IsNotExist(err) {
		t.Errorf("Expected alias removed, got %v", err)
	}

	// Clearing an absent alias is not an error.
	if err := alloc.ClearAlias(alias); err != nil {
		t.Errorf("ClearAlias on absent path: %v", err)
	}

	// A regular file at the alias path is refused, not clobbered.
	regular := filepath.Join(t.TempDir(), "notalink")
	if err := os.WriteFile(regular, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := alloc.SetAlias(tr1.Path(), regular); err == nil {
		t.Error("SetAlias over a regular file should fail")
	}
	if err := alloc.ClearAlias(regular); err == nil {
		t.Error("ClearAlias on a regular file should fail")
	}
}
