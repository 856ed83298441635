// Package transcript parses exported chat transcripts into typed events.
package transcript

import (
	"sort"
	"time"

	"github.com/ccollicutt/chatsift/pkg/media"
)

// Event is a single normalized chat event. Events are created exclusively by
// Parser.Parse during one pass and never mutated afterward.
type Event struct {
	// Timestamp is the instant the message was sent, always present:
	// lines without a parseable timestamp never become events.
	Timestamp time.Time `json:"timestamp"`

	// Sender is the display name of the author, or "System" for
	// system-generated events.
	Sender string `json:"sender"`

	// IsSystem is true for system notices (group changes, encryption
	// banners, and so on).
	IsSystem bool `json:"is_system"`

	// Body is the message text with media markup stripped.
	Body string `json:"body"`

	// Media describes an attachment referenced by the message, nil when
	// the message carries none.
	Media *MediaRef `json:"media,omitempty"`
}

// MediaRef identifies media referenced by an event.
type MediaRef struct {
	// Filename is the attachment filename, empty for omitted media.
	Filename string `json:"filename,omitempty"`

	// Kind is the classified media kind.
	Kind media.Kind `json:"kind"`
}

// SystemSender is the sender recorded on system-generated events.
const SystemSender = "System"

// DiagnosticReason describes why a line could not become an event.
type DiagnosticReason string

const (
	// ReasonInvalidDate marks a line that matched a message pattern but
	// carried an unparseable or out-of-range date/time.
	ReasonInvalidDate DiagnosticReason = "invalid_date"

	// ReasonNoPatternMatch marks a line that matched no known format.
	ReasonNoPatternMatch DiagnosticReason = "no_pattern_match"
)

// Diagnostic records one unparseable transcript line.
type Diagnostic struct {
	// LineNumber is the 1-based line number in the transcript.
	LineNumber int `json:"line_number"`

	// RawLine is the original line content.
	RawLine string `json:"raw_line"`

	// Reason is why the line failed.
	Reason DiagnosticReason `json:"reason"`
}

// Counters holds aggregate statistics for one parse pass.
// Invariant: Parsed + Failed + Blank == Total.
type Counters struct {
	Total  int `json:"total"`  // lines seen
	Parsed int `json:"parsed"` // lines that became events
	Failed int `json:"failed"` // lines that became diagnostics
	Blank  int `json:"blank"`  // blank lines (neither event nor diagnostic)
	Media  int `json:"media"`  // events referencing media
	System int `json:"system"` // system events
}

// Result is the complete output of one parse pass.
type Result struct {
	Events      []Event      `json:"events"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Counters    Counters     `json:"counters"`
}

// HasFailures returns true if any line failed to parse.
func (r *Result) HasFailures() bool {
	return r.Counters.Failed > 0
}

// Participants returns the distinct non-system senders across events,
// lexicographically sorted.
func Participants(events []Event) []string {
	seen := make(map[string]bool)
	var names []string
	for _, ev := range events {
		if ev.IsSystem || seen[ev.Sender] {
			continue
		}
		seen[ev.Sender] = true
		names = append(names, ev.Sender)
	}
	sort.Strings(names)
	return names
}

// DateRange returns the minimum and maximum event timestamps.
// Both are zero when events is empty.
func DateRange(events []Event) (start, end time.Time) {
	for _, ev := range events {
		if start.IsZero() || ev.Timestamp.Before(start) {
			start = ev.Timestamp
		}
		if end.IsZero() || ev.Timestamp.After(end) {
			end = ev.Timestamp
		}
	}
	return start, end
}
