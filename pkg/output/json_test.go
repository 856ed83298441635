package output

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestJSONFormatter_Full(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	var buf bytes.Buffer

	if err := f.Format(context.Background(), sampleReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if decoded.Summary.TotalLines != 3 {
		t.Errorf("TotalLines = %d, want 3", decoded.Summary.TotalLines)
	}
	if decoded.Summary.ParsedLines != 2 {
		t.Errorf("ParsedLines = %d, want 2", decoded.Summary.ParsedLines)
	}
	if len(decoded.Participants) != 2 {
		t.Errorf("Participants = %v, want [Alice Bob]", decoded.Participants)
	}
	if len(decoded.Diagnostics) != 1 {
		t.Errorf("Diagnostics = %v, want 1 entry", decoded.Diagnostics)
	}
}

func TestJSONFormatter_Quiet(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{Quiet: true})
	var buf bytes.Buffer

	if err := f.Format(context.Background(), sampleReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var decoded Summary
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("quiet output is not a bare summary: %v", err)
	}
	if decoded.FailedLines != 1 {
		t.Errorf("FailedLines = %d, want 1", decoded.FailedLines)
	}
}

func TestJSONFormatter_Name(t *testing.T) {
	if got := NewJSONFormatter(FormatOptions{}).Name(); got != "json" {
		t.Errorf("Name() = %q, want json", got)
	}
}
