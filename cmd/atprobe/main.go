// atprobe is a small line-mode serial client for poking the emulated
// device (or a real modem). It sends each stdin line CR-terminated and
// prints whatever the device answers within the wait window.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.bug.st/serial"
)

func main() {
	portName := flag.String("p", "/dev/ttyUSB0", "Serial device or alias path")
	baud := flag.Int("baud", 115200, "Baud rate")
	wait := flag.Duration("wait", 500*time.Millisecond, "How long to wait for output after each command")
	flag.Parse()

	port, err := serial.Open(*portName, &serial.Mode{BaudRate: *baud})
	if err != nil {
		slog.Error("Failed to open port", "port", *portName, "error", err)
		os.Exit(1)
	}
	defer port.Close()

	if err := port.SetReadTimeout(*wait); err != nil {
		slog.Error("Failed to set read timeout", "error", err)
		os.Exit(1)
	}

	stdin := bufio.NewScanner(os.Stdin)
	buf := make([]byte, 4096)

	for {
		fmt.Print("> ")
		if !stdin.Scan() {
			break
		}
		cmd := strings.TrimSpace(stdin.Text())
		if cmd == "" {
			continue
		}

		if _, err := port.Write([]byte(cmd + "\r")); err != nil {
			slog.Error("Write failed", "error", err)
			os.Exit(1)
		}

		// Read until the device goes quiet for a full wait window.
		for {
			n, err := port.Read(buf)
			if err != nil {
				slog.Error("Read failed", "error", err)
				os.Exit(1)
			}
			if n == 0 {
				break
			}
			os.Stdout.Write(buf[:n])
		}
		fmt.Println()
	}

	if err := stdin.Err(); err != nil {
		slog.Error("Stdin failed", "error", err)
		os.Exit(1)
	}
}
