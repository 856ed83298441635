// Package output provides formatting and output generation for parse reports.
package output

import (
	"time"

	"github.com/ccollicutt/chatsift/pkg/transcript"
)

// Report is the complete parse output for display.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Participants lists distinct non-system senders, sorted.
	Participants []string `json:"participants"`

	// FirstEvent and LastEvent bound the conversation, zero when empty.
	FirstEvent time.Time `json:"first_event,omitempty"`
	LastEvent  time.Time `json:"last_event,omitempty"`

	// Diagnostics lists every line that failed to parse.
	Diagnostics []transcript.Diagnostic `json:"diagnostics,omitempty"`

	// Metadata provides context about the parse run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	TotalLines     int `json:"total_lines"`
	ParsedLines    int `json:"parsed_lines"`
	FailedLines    int `json:"failed_lines"`
	BlankLines     int `json:"blank_lines"`
	MediaMessages  int `json:"media_messages"`
	SystemMessages int `json:"system_messages"`
}

// Metadata provides context about the parse run.
type Metadata struct {
	// Sources lists the transcript files that were parsed.
	Sources []string `json:"sources,omitempty"`

	// ParsedAt is when the parse was performed.
	ParsedAt time.Time `json:"parsed_at"`
}

// NewReport creates a Report from a parse result.
func NewReport(result *transcript.Result, sources []string) *Report {
	first, last := transcript.DateRange(result.Events)
	return &Report{
		Summary: Summary{
			TotalLines:     result.Counters.Total,
			ParsedLines:    result.Counters.Parsed,
			FailedLines:    result.Counters.Failed,
			BlankLines:     result.Counters.Blank,
			MediaMessages:  result.Counters.Media,
			SystemMessages: result.Counters.System,
		},
		Participants: transcript.Participants(result.Events),
		FirstEvent:   first,
		LastEvent:    last,
		Diagnostics:  result.Diagnostics,
		Metadata: Metadata{
			Sources:  sources,
			ParsedAt: time.Now(),
		},
	}
}

// HasFailures returns true if any line failed to parse.
func (r *Report) HasFailures() bool {
	return r.Summary.FailedLines > 0
}
