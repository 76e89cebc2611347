package modem

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/AmulyaX/fake-atc/at"
)

// Signal tells the engine loop what to do after transmitting a response.
type Signal int

const (
	// SignalNone: transmit and keep processing.
	SignalNone Signal = iota
	// SignalReboot: transmit, wait the settle interval, then run the
	// reboot protocol.
	SignalReboot
)

// Resolution is the outcome of resolving one parsed command against the
// table.
type Resolution struct {
	// Delay suspends the engine loop before Payload is transmitted.
	// Because the loop is single-threaded and non-pipelined, no further
	// input is consumed during the suspension.
	Delay time.Duration
	// Payload is the complete wire response, terminator-wrapped.
	Payload string
	Signal Signal
}

// Reserved wire commands. These are checked before the table, so table
// entries with the same name are never consulted.
const (
	cmdDelay = "AT+DELAY"
	cmdCFUN  = "AT+CFUN"
)

// Resolve produces the wire response for one command.
//
// The reserved chain runs first: AT+DELAY=<ms> acknowledges with OK after
// an induced delay, AT+CFUN=1,1 acknowledges and requests a reboot, and any
// other AT+CFUN form is acknowledged with no state change. Everything else
// is a table lookup; a miss answers ERROR, a hit answers the entry's
// template after placeholder substitution, delayed by the entry's
// configured delay.
func Resolve(name string, args []string, table Table) Resolution {
	switch name {
	case cmdDelay:
		if len(args) == 0 || !allDigits(args[0]) {
			return Resolution{Payload: at.Wrap(at.ERROR)}
		}
		ms, err := strconv.Atoi(args[0])
		if err != nil {
			return Resolution{Payload: at.Wrap(at.ERROR)}
		}
		return Resolution{
			Delay:   time.Duration(ms) * time.Millisecond,
			Payload: at.Wrap(at.OK),
		}

	case cmdCFUN:
		if len(args) == 2 && args[0] == "1" && args[1] == "1" {
			return Resolution{Payload: at.Wrap(at.OK), Signal: SignalReboot}
		}
		// Unconditionally acknowledged, no state change.
		return Resolution{Payload: at.Wrap(at.OK)}
	}

	entry, ok := table[name]
	if !ok {
		return Resolution{Payload: at.Wrap(at.ERROR)}
	}

	text := entry.Resp
	if len(args) > 0 {
		text = strings.ReplaceAll(text, "{arg}", args[0])
	}
	text = expand(text, name, table)

	return Resolution{
		Delay:   time.Duration(entry.Delay) * time.Millisecond,
		Payload: at.Wrap(text),
	}
}

// expand runs the single cross-reference pass: every other table key K
// contributes the placeholder token "{" + lower(K) without "+" + "}", and
// matches are replaced with K's raw, unresolved template.
//
// The pass is deliberately non-recursive: no cycle detection, no
// fixed-point iteration. A referenced template whose own text carries
// placeholder tokens leaves them visible in the output. Keys apply in
// sorted order so the result does not depend on map iteration.
func expand(text, self string, table Table) string {
	keys := make([]string, 0, len(table))
	for k := range table {
		if k != self {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		token := "{" + strings.ReplaceAll(strings.ToLower(k), "+", "") + "}"
		if strings.Contains(text, token) {
			text = strings.ReplaceAll(text, token, table[k].Resp)
		}
	}
	return text
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
