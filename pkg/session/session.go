// Package session ties archive extraction, transcript parsing, and the media
// cache together behind the consumer-facing read API.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ccollicutt/chatsift/pkg/archive"
	"github.com/ccollicutt/chatsift/pkg/config"
	"github.com/ccollicutt/chatsift/pkg/mediacache"
	"github.com/ccollicutt/chatsift/pkg/transcript"
)

// ErrNoArchive is returned when an operation needs a loaded archive and
// none is present.
var ErrNoArchive = errors.New("no archive loaded")

// LoadResult summarizes a successful archive load.
type LoadResult struct {
	// TranscriptFound is false when the archive carried no .txt transcript.
	TranscriptFound bool `json:"transcript_found"`

	// TranscriptName is the logical transcript filename.
	TranscriptName string `json:"transcript_name,omitempty"`

	// MediaCount is the number of retained media entries.
	MediaCount int `json:"media_count"`

	// MediaNames lists the retained media filenames, sorted.
	MediaNames []string `json:"media_names,omitempty"`
}

// Session owns exactly one archive's worth of state at a time: the extracted
// export, the transcript parser, and the media cache. Loading a new archive
// is all-or-nothing - a failed load leaves the previous state untouched, and
// a successful load discards it atomically before the new state is visible.
type Session struct {
	mu sync.Mutex

	parser  *transcript.Parser
	manager *mediacache.Manager
	export  *archive.Export

	log *logrus.Logger
}

// Option configures the Session.
type Option func(*settings)

type settings struct {
	alertFn mediacache.AlertFunc
	log     *logrus.Logger
}

// WithAlertFunc installs the hook for the media exhaustion alert.
func WithAlertFunc(fn mediacache.AlertFunc) Option {
	return func(s *settings) { s.alertFn = fn }
}

// WithLogger overrides the default logger.
func WithLogger(log *logrus.Logger) Option {
	return func(s *settings) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a Session from a configuration. A nil cfg uses defaults.
func New(cfg *config.Config, opts ...Option) (*Session, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	s := &settings{log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(s)
	}

	managerOpts := []mediacache.Option{
		mediacache.WithCapacity(cfg.Cache.Capacity),
		mediacache.WithMissingAlertThreshold(cfg.Cache.MissingAlertThreshold),
		mediacache.WithLogger(s.log),
	}
	if s.alertFn != nil {
		managerOpts = append(managerOpts, mediacache.WithAlertFunc(s.alertFn))
	}

	manager, err := mediacache.New(managerOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating media cache: %w", err)
	}

	return &Session{
		parser:  transcript.NewParser(transcript.WithOmittedPhrases(cfg.Media.OmittedPhrases...)),
		manager: manager,
		log:     s.log,
	}, nil
}

// LoadArchive extracts archive bytes and installs them as the session's
// current state. The previous archive is discarded only after extraction
// succeeds, so consumers never observe a mixed old/new state.
func (s *Session) LoadArchive(ctx context.Context, data []byte) (*LoadResult, error) {
	// The caller has already awaited the full byte payload; this is the
	// one cancellation point before synchronous extraction begins.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	export, err := archive.Extract(data)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.export = export
	s.manager.SetExport(export)
	s.mu.Unlock()

	names := export.MediaNames()
	sort.Strings(names)

	s.log.WithFields(logrus.Fields{
		"transcript": export.TranscriptName,
		"media":      len(names),
	}).Debug("archive loaded")

	return &LoadResult{
		TranscriptFound: export.TranscriptName != "",
		TranscriptName:  export.TranscriptName,
		MediaCount:      len(names),
		MediaNames:      names,
	}, nil
}

// Parse runs the transcript parser over the loaded archive's transcript.
func (s *Session) Parse() (*transcript.Result, error) {
	s.mu.Lock()
	export := s.export
	s.mu.Unlock()

	if export == nil {
		return nil, ErrNoArchive
	}
	return s.parser.Parse(export.TranscriptText), nil
}

// ParseText runs the transcript parser over standalone transcript text,
// independent of any loaded archive.
func (s *Session) ParseText(text string) *transcript.Result {
	return s.parser.Parse(text)
}

// ResolveMedia returns the display handle for a media filename, or nil when
// the archive doesn't contain it.
func (s *Session) ResolveMedia(filename string) (*mediacache.Handle, error) {
	return s.manager.Resolve(filename)
}

// EvictMedia releases one cached handle on demand.
func (s *Session) EvictMedia(filename string) bool {
	return s.manager.Evict(filename)
}

// CacheStats returns a snapshot of media cache occupancy.
func (s *Session) CacheStats() mediacache.Stats {
	return s.manager.Stats()
}

// MemoryEstimate returns the advisory memory estimate for the loaded archive.
func (s *Session) MemoryEstimate() int64 {
	return s.manager.MemoryEstimate()
}

// Clear releases every live handle and drops all archive state.
func (s *Session) Clear() {
	s.mu.Lock()
	s.export = nil
	s.manager.Clear()
	s.mu.Unlock()
}
