package modem

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is one command table value: a response template plus an optional
// induced delay in milliseconds. In the source document an entry is either
// a bare template string or an object {"delay": ms, "resp": template}.
type Entry struct {
	Delay int    `json:"delay" yaml:"delay"`
	Resp  string `json:"resp" yaml:"resp"`
}

// Table maps normalized command names to response definitions. It is built
// once at startup and read-only for the rest of the process lifetime.
type Table map[string]Entry

// Format selects the command table document syntax.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (e *Entry) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = Entry{Resp: s}
		return nil
	}

	type plain Entry // no methods, avoids recursing into this one
	var v plain
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	*e = Entry(v)
	return nil
}

func (e *Entry) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*e = Entry{Resp: s}
		return nil
	}

	type plain Entry
	var v plain
	if err := value.Decode(&v); err != nil {
		return err
	}
	*e = Entry(v)
	return nil
}

// LoadTable reads and validates a command table document. The syntax is
// chosen by extension: ".yaml" and ".yml" parse as YAML, everything else as
// JSON. Loading is all-or-nothing; every failure wraps ErrBadTable.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadTable, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseTable(data, FormatYAML)
	default:
		return ParseTable(data, FormatJSON)
	}
}

// ParseTable decodes and validates a command table document. Command names
// are upper-cased so they match what the parser produces; names that
// collide after normalization are rejected rather than silently merged.
func ParseTable(data []byte, format Format) (Table, error) {
	raw := map[string]Entry{}

	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadTable, err)
	}

	table := make(Table, len(raw))
	for name, entry := range raw {
		key := strings.ToUpper(strings.TrimSpace(name))
		if key == "" {
			return nil, fmt.Errorf("%w: empty command name", ErrBadTable)
		}
		if entry.Delay < 0 {
			return nil, fmt.Errorf("%w: %s: negative delay %d", ErrBadTable, key, entry.Delay)
		}
		if _, dup := table[key]; dup {
			return nil, fmt.Errorf("%w: duplicate command %s", ErrBadTable, key)
		}
		table[key] = entry
	}
	return table, nil
}
