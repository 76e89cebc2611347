package at

import "strings"

// Parse splits one command line into its normalized name and arguments.
//
// When the line contains "=", everything left of the first occurrence,
// upper-cased, is the name; the remainder is split on "," with each piece
// trimmed. Without "=" the whole trimmed line, upper-cased, is the name and
// args is nil. No shape validation happens here: an unknown or malformed
// command simply misses the table later.
func Parse(line string) (name string, args []string) {
	line = strings.TrimSpace(line)

	head, rest, found := strings.Cut(line, "=")
	if !found {
		return strings.ToUpper(line), nil
	}

	parts := strings.Split(rest, ",")
	args = make([]string, len(parts))
	for i, p := range parts {
		args[i] = strings.TrimSpace(p)
	}
	return strings.ToUpper(strings.TrimSpace(head)), args
}
