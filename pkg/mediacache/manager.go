// Package mediacache provides bounded, on-demand access to the media
// payloads of a loaded chat archive. Decompressed payloads live behind
// revocable display handles; an LRU policy keeps at most a configurable
// number of handles alive at once.
package mediacache

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/ccollicutt/chatsift/pkg/archive"
)

const (
	// DefaultCapacity bounds the number of live display handles.
	DefaultCapacity = 50

	// DefaultMissingAlertThreshold is the missing-lookup count at which the
	// one-time exhaustion alert fires.
	DefaultMissingAlertThreshold = 10000
)

// Stats is a snapshot of cache occupancy.
type Stats struct {
	// Size is the number of live display handles.
	Size int `json:"size"`

	// Capacity is the configured handle limit.
	Capacity int `json:"capacity"`

	// TotalMedia is the number of media entries in the loaded archive.
	TotalMedia int `json:"total_media"`

	// MissingCount is the number of distinct filenames requested but
	// absent from the archive.
	MissingCount int `json:"missing_count"`

	// UtilizationPercent is Size relative to Capacity.
	UtilizationPercent float64 `json:"utilization_percent"`
}

// AlertFunc receives the one-time exhaustion signal with the missing-file
// count at the moment the threshold was crossed.
type AlertFunc func(missingCount int)

// Manager maps media filenames to display handles with LRU-by-count
// eviction, and tracks lookups for filenames absent from the archive.
// All mutable state is owned by the Manager; it is safe for use from
// multiple goroutines and instantiable multiple times per process.
type Manager struct {
	mu sync.Mutex

	capacity       int
	alertThreshold int
	alertFn        AlertFunc
	log            *logrus.Logger

	cache           *lru.Cache[string, *Handle]
	entries         map[string]*archive.Entry
	transcriptBytes int64

	missing map[string]struct{}
	alerted bool
}

// Option configures the Manager.
type Option func(*Manager)

// WithCapacity sets the maximum number of live handles (default 50).
func WithCapacity(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.capacity = n
		}
	}
}

// WithMissingAlertThreshold sets the missing-lookup count that triggers the
// one-time exhaustion alert (default 10000).
func WithMissingAlertThreshold(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.alertThreshold = n
		}
	}
}

// WithAlertFunc installs a hook invoked exactly once per loaded archive when
// the missing-file count crosses the alert threshold.
func WithAlertFunc(fn AlertFunc) Option {
	return func(m *Manager) {
		m.alertFn = fn
	}
}

// WithLogger overrides the default logger.
func WithLogger(log *logrus.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// New creates a Manager with no loaded archive.
func New(opts ...Option) (*Manager, error) {
	m := &Manager{
		capacity:       DefaultCapacity,
		alertThreshold: DefaultMissingAlertThreshold,
		log:            logrus.StandardLogger(),
		missing:        make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	cache, err := lru.NewWithEvict(m.capacity, func(name string, h *Handle) {
		h.release()
		m.log.WithField("file", name).Debug("released display handle")
	})
	if err != nil {
		return nil, fmt.Errorf("creating handle cache: %w", err)
	}
	m.cache = cache

	return m, nil
}

// SetExport replaces the manager's media table with a freshly extracted
// archive. All previous state (handles, missing set, alert latch) is
// discarded first.
func (m *Manager) SetExport(export *archive.Export) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reset()
	if export == nil {
		return
	}
	m.entries = export.Media
	m.transcriptBytes = int64(len(export.TranscriptText))
}

// Resolve returns the display handle for filename, creating one on demand.
//
// Filenames absent from the archive are recorded in the missing set
// (idempotently) and resolve to nil without touching the LRU structure.
// A cache hit marks the handle most-recently-used and returns it unchanged;
// no duplicate handle is ever created for a cached filename. A miss
// decompresses the stored payload, evicting the least-recently-used handle
// first when at capacity, so the live handle count never exceeds capacity
// even transiently.
func (m *Manager) Resolve(filename string) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, known := m.entries[filename]
	if !known {
		m.recordMissing(filename)
		return nil, nil
	}

	if h, ok := m.cache.Get(filename); ok {
		return h, nil
	}

	// Make room before constructing the new handle.
	if m.cache.Len() >= m.capacity {
		m.cache.RemoveOldest()
	}

	data, err := entry.Bytes()
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", filename, err)
	}

	h := newHandle(filename, data)
	m.cache.Add(filename, h)
	m.log.WithFields(logrus.Fields{
		"file": filename,
		"size": len(data),
	}).Debug("created display handle")

	return h, nil
}

// Evict removes and releases one cached handle on demand, independent of
// LRU order. Returns true if a handle was released.
func (m *Manager) Evict(filename string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cache.Remove(filename)
}

// Clear releases every live handle and resets all state: media entries,
// missing set, transcript reference, and the alert latch.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
}

// reset assumes m.mu is held.
func (m *Manager) reset() {
	m.cache.Purge()
	m.entries = nil
	m.transcriptBytes = 0
	m.missing = make(map[string]struct{})
	m.alerted = false
}

// Stats returns a snapshot of cache occupancy.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Stats{
		Size:         m.cache.Len(),
		Capacity:     m.capacity,
		TotalMedia:   len(m.entries),
		MissingCount: len(m.missing),
	}
	if s.Capacity > 0 {
		s.UtilizationPercent = float64(s.Size) / float64(s.Capacity) * 100
	}
	return s
}

// MemoryEstimate returns the decoded transcript size plus the sum of
// compressed media payload sizes, in bytes. Advisory telemetry only:
// eviction is purely LRU-by-count.
func (m *Manager) MemoryEstimate() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := m.transcriptBytes
	for _, entry := range m.entries {
		total += entry.CompressedSize
	}
	return total
}

// recordMissing assumes m.mu is held.
func (m *Manager) recordMissing(filename string) {
	if _, seen := m.missing[filename]; seen {
		return
	}
	m.missing[filename] = struct{}{}

	if m.alerted || len(m.missing) < m.alertThreshold {
		return
	}
	// Fires exactly once per loaded archive, however far past the
	// threshold the count grows.
	m.alerted = true
	m.log.WithField("missing", len(m.missing)).Warn("archive media references are pervasively broken")
	if m.alertFn != nil {
		m.alertFn(len(m.missing))
	}
}
