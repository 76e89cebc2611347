package modem_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/AmulyaX/fake-atc/modem"
)

func TestParseTableJSON(t *testing.T) {
	data := []byte(`{
		"ATI": "Fake Modem v1",
		"at+creg?": {"delay": 150, "resp": "+CREG: 0,1"},
		"AT+CSQ": {"resp": "+CSQ: 23,0"}
	}`)

	table, err := modem.ParseTable(data, modem.FormatJSON)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(table) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(table))
	}

	if e := table["ATI"]; e.Resp != "Fake Modem v1" || e.Delay != 0 {
		t.Errorf("ATI: unexpected entry %+v", e)
	}
	// Keys are normalized to the parser's casing convention.
	if e, ok := table["AT+CREG?"]; !ok || e.Delay != 150 || e.Resp != "+CREG: 0,1" {
		t.Errorf("AT+CREG?: unexpected entry %+v (present=%v)", e, ok)
	}
	if e := table["AT+CSQ"]; e.Delay != 0 || e.Resp != "+CSQ: 23,0" {
		t.Errorf("AT+CSQ: unexpected entry %+v", e)
	}
}

func TestParseTableYAML(t *testing.T) {
	data := []byte(`
ATI: Fake Modem v1
AT+CREG?:
  delay: 150
  resp: "+CREG: 0,1"
`)

	table, err := modem.ParseTable(data, modem.FormatYAML)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if e := table["ATI"]; e.Resp != "Fake Modem v1" {
		t.Errorf("ATI: unexpected entry %+v", e)
	}
	if e := table["AT+CREG?"]; e.Delay != 150 || e.Resp != "+CREG: 0,1" {
		t.Errorf("AT+CREG?: unexpected entry %+v", e)
	}
}

func TestParseTableErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format modem.Format
	}{
		{
			name:   "Malformed JSON",
			data:   `{"ATI": `,
			format: modem.FormatJSON,
		},
		{
			name:   "Wrong value type",
			data:   `{"ATI": 42}`,
			format: modem.FormatJSON,
		},
		{
			name:   "Unknown field",
			data:   `{"ATI": {"dely": 5, "resp": "x"}}`,
			format: modem.FormatJSON,
		},
		{
			name:   "Negative delay",
			data:   `{"ATI": {"delay": -1, "resp": "x"}}`,
			format: modem.FormatJSON,
		},
		{
			name:   "Duplicate after normalization",
			data:   `{"ATI": "a", "ati": "b"}`,
			format: modem.FormatJSON,
		},
		{
			name:   "Empty command name",
			data:   `{"  ": "a"}`,
			format: modem.FormatJSON,
		},
		{
			name:   "Malformed YAML",
			data:   "ATI: [unclosed",
			format: modem.FormatYAML,
		},
		{
			name:   "Negative delay in YAML",
			data:   "ATI:\n  delay: -5\n  resp: x\n",
			format: modem.FormatYAML,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := modem.ParseTable([]byte(tt.data), tt.format)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errors.Is(err, modem.ErrBadTable) {
				t.Errorf("Expected ErrBadTable wrap, got: %v", err)
			}
		})
	}
}

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "commands.json")
	if err := os.WriteFile(jsonPath, []byte(`{"ATI": "Fake Modem v1"}`), 0644); err != nil {
		t.Fatal(err)
	}
	yamlPath := filepath.Join(dir, "commands.yaml")
	if err := os.WriteFile(yamlPath, []byte("ATI: Fake Modem v1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{jsonPath, yamlPath} {
		table, err := modem.LoadTable(path)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", path, err)
		}
		if e := table["ATI"]; e.Resp != "Fake Modem v1" {
			t.Errorf("%s: unexpected entry %+v", path, e)
		}
	}

	if _, err := modem.LoadTable(filepath.Join(dir, "missing.json")); !errors.Is(err, modem.ErrBadTable) {
		t.Errorf("Missing file: expected ErrBadTable wrap, got: %v", err)
	}
}
