package transcript

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/ccollicutt/chatsift/pkg/media"
)

// lineFormat is one known transcript line shape. Formats are tried in order
// and the first structural match wins: a line that matches a format but
// carries a bad date is reported as a failure, never retried against a
// lower-precedence format.
type lineFormat struct {
	Name    string
	Pattern *regexp.Regexp
	System  bool // true when the format has no sender (system notices)
}

const (
	// FormatBracketed is "[31/12/2023, 10:30 PM] Alice: message".
	FormatBracketed = "bracketed"
	// FormatDashed is "31/12/2023, 10:30 PM - Alice: message".
	FormatDashed = "dashed"
	// FormatSystem is "31/12/2023, 10:30 PM - Messages are encrypted".
	FormatSystem = "system"
)

// messageFormats returns the built-in line formats in precedence order.
func messageFormats() []lineFormat {
	const (
		date = `([0-9]{1,4}[/.][0-9]{1,2}[/.][0-9]{1,4})`
		tod  = `([0-9]{1,2}:[0-9]{2}(?::[0-9]{2})?(?:\s?[AaPp][Mm])?)`
	)

	return []lineFormat{
		{
			Name:    FormatBracketed,
			Pattern: regexp.MustCompile(`^\[` + date + `,\s*` + tod + `\]\s*([^:]+?):\s(.*)$`),
		},
		{
			Name:    FormatDashed,
			Pattern: regexp.MustCompile(`^` + date + `,\s*` + tod + `\s*-\s*([^:]+?):\s(.*)$`),
		},
		{
			Name:    FormatSystem,
			Pattern: regexp.MustCompile(`^` + date + `,\s*` + tod + `\s*-\s*(.*)$`),
			System:  true,
		},
	}
}

// attachmentMarker matches the explicit "<attached: NAME>" media markup.
var attachmentMarker = regexp.MustCompile(`<attached:\s*([^>]+?)\s*>`)

// leadingFilename matches a filename token at the start of a body,
// e.g. "IMG-20240115-WA0001.jpg (file attached)".
var leadingFilename = regexp.MustCompile(`^([\w-]+\.(\w+))(?:\s+|$)`)

// defaultOmittedPhrases are the export phrases that stand in for stripped
// media. English-only: localized exports are a known gap and degrade to
// plain text bodies.
var defaultOmittedPhrases = []string{
	"media omitted",
	"image omitted",
	"video omitted",
	"audio omitted",
	"document omitted",
	"contact card omitted",
}

// mapsLocationMarker identifies shared-location messages.
const mapsLocationMarker = "maps.google.com"

// Parser turns raw transcript text into a Result. Each line is processed
// independently of its neighbors, so a parse can be restarted or tested
// line by line.
type Parser struct {
	formats        []lineFormat
	omittedPhrases []string
}

// Option configures the Parser.
type Option func(*Parser)

// WithOmittedPhrases appends extra omitted-media phrases (lowercase matching)
// to the built-in English set. Intended for localized exports.
func WithOmittedPhrases(phrases ...string) Option {
	return func(p *Parser) {
		for _, phrase := range phrases {
			phrase = strings.ToLower(strings.TrimSpace(phrase))
			if phrase != "" {
				p.omittedPhrases = append(p.omittedPhrases, phrase)
			}
		}
	}
}

// NewParser creates a Parser with the built-in formats.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		formats:        messageFormats(),
		omittedPhrases: append([]string(nil), defaultOmittedPhrases...),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse processes transcript text line by line and returns the full result.
// Parsing never fails: malformed lines become diagnostics and the pass always
// completes with whatever could be recovered. Event order equals line order.
func (p *Parser) Parse(text string) *Result {
	result := &Result{
		Events:      make([]Event, 0),
		Diagnostics: make([]Diagnostic, 0),
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line size

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		p.parseLine(scanner.Text(), lineNum, result)
	}
	// A line longer than the buffer ends the scan early; everything parsed
	// up to that point is still returned.

	return result
}

// FormatBreakdown counts structural matches per line format, ignoring date
// validity. Diagnostic aid: tells an operator which shapes a transcript
// actually uses.
func FormatBreakdown(text string) map[string]int {
	counts := make(map[string]int)
	formats := messageFormats()

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		for _, format := range formats {
			if format.Pattern.MatchString(line) {
				counts[format.Name]++
				break
			}
		}
	}
	return counts
}

// parseLine classifies one line and appends an event or diagnostic.
func (p *Parser) parseLine(line string, lineNum int, result *Result) {
	result.Counters.Total++

	if strings.TrimSpace(line) == "" {
		result.Counters.Blank++
		return
	}

	for _, format := range p.formats {
		matches := format.Pattern.FindStringSubmatch(line)
		if matches == nil {
			continue
		}

		ts, err := NormalizeDateTime(matches[1], matches[2])
		if err != nil {
			result.Counters.Failed++
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				LineNumber: lineNum,
				RawLine:    line,
				Reason:     ReasonInvalidDate,
			})
			return
		}

		event := Event{Timestamp: ts}
		if format.System {
			event.Sender = SystemSender
			event.IsSystem = true
			event.Body = strings.TrimSpace(matches[3])
			result.Counters.System++
		} else {
			event.Sender = strings.TrimSpace(matches[3])
			event.Body, event.Media = p.extractMedia(matches[4])
			if event.Media != nil {
				result.Counters.Media++
			}
		}

		result.Counters.Parsed++
		result.Events = append(result.Events, event)
		return
	}

	result.Counters.Failed++
	result.Diagnostics = append(result.Diagnostics, Diagnostic{
		LineNumber: lineNum,
		RawLine:    line,
		Reason:     ReasonNoPatternMatch,
	})
}

// extractMedia applies the media extraction rules to a parsed body.
// Exactly one rule applies, tried in order: explicit <attached:> marker,
// leading filename token, omitted-media phrase, none.
func (p *Parser) extractMedia(body string) (string, *MediaRef) {
	body = strings.TrimSpace(body)

	// (a) Explicit attachment marker.
	if m := attachmentMarker.FindStringSubmatch(body); m != nil {
		name := strings.TrimSpace(m[1])
		stripped := strings.TrimSpace(attachmentMarker.ReplaceAllString(body, ""))
		return stripped, &MediaRef{Filename: name, Kind: media.Classify(name)}
	}

	// (b) Leading filename token with a known media extension.
	if m := leadingFilename.FindStringSubmatch(body); m != nil && media.KnownExtension(m[2]) {
		name := m[1]
		stripped := strings.TrimSpace(strings.TrimPrefix(body, m[0]))
		return stripped, &MediaRef{Filename: name, Kind: media.Classify(name)}
	}

	// (c) Omitted-media phrase or shared location.
	lower := strings.ToLower(body)
	for _, phrase := range p.omittedPhrases {
		if strings.Contains(lower, phrase) {
			return body, &MediaRef{Kind: media.KindOmitted}
		}
	}
	if strings.Contains(lower, mapsLocationMarker) {
		return body, &MediaRef{Kind: media.KindOmitted}
	}

	// (d) No media.
	return body, nil
}
