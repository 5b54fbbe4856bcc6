package output

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

type sample struct {
	Name    string  `json:"name" yaml:"name"`
	Hash    *string `json:"hash" yaml:"hash"`
	Version string  `json:"version" yaml:"version"`
}

func (s sample) WriteText(w io.Writer) error {
	_, err := io.WriteString(w, s.Name+" "+s.Version+"\n")
	return err
}

type stringer struct{}

func (stringer) String() string { return "stringer output" }

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestWriteJSONKeepsNullHash(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(&buf, FormatJSON).Write(sample{Name: "waterfox", Version: "1.1.9"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"hash": null`) {
		t.Errorf("JSON output = %s, want explicit null hash", buf.String())
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(&buf, FormatYAML).Write(sample{Name: "waterfox", Version: "1.1.9"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "name: waterfox") || !strings.Contains(out, "hash: null") {
		t.Errorf("YAML output = %s", out)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, FormatText)

	if err := w.Write(sample{Name: "waterfox", Version: "1.1.9"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Write(stringer{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Write(42); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	want := "waterfox 1.1.9\nstringer output\n42\n"
	if buf.String() != want {
		t.Errorf("text output = %q, want %q", buf.String(), want)
	}
}
