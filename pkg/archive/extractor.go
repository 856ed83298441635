// Package archive extracts chat export bundles into a transcript and a
// table of compressed media payloads.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/ccollicutt/chatsift/pkg/media"
)

var (
	// ErrCorruptArchive is returned when the archive bytes cannot be read
	// as a zip bundle.
	ErrCorruptArchive = errors.New("corrupt archive")

	// ErrDecompressionUnavailable is returned when an entry uses a
	// compression method this build cannot decode.
	ErrDecompressionUnavailable = errors.New("decompression unavailable")
)

// Entry is one media payload held in compressed form. The payload is only
// decompressed when Bytes is called.
type Entry struct {
	// Name is the logical filename (last path segment).
	Name string

	// Kind is the classified media kind.
	Kind media.Kind

	// CompressedSize is the stored (compressed) payload size in bytes.
	CompressedSize int64

	file *zip.File
}

// Bytes decompresses and returns the payload.
func (e *Entry) Bytes() ([]byte, error) {
	rc, err := e.file.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", e.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", e.Name, err)
	}
	return data, nil
}

// Export is the extracted content of one archive. It owns one archive's
// worth of state and is replaced wholesale when a new archive is loaded.
type Export struct {
	// TranscriptName is the logical name of the transcript file,
	// empty when the archive carried none.
	TranscriptName string

	// TranscriptText is the decoded transcript content.
	TranscriptText string

	// Media maps logical filename to its compressed payload entry.
	Media map[string]*Entry
}

// MediaNames returns the media filenames in archive order.
func (e *Export) MediaNames() []string {
	names := make([]string, 0, len(e.Media))
	for name := range e.Media {
		names = append(names, name)
	}
	return names
}

// Extract decodes archive bytes into an Export.
//
// Directory structure inside the archive is discarded: only the last path
// segment of each entry is kept. The first .txt file found becomes the
// transcript; further .txt entries are ignored since an export contains at
// most one transcript. Entries that don't classify as media are dropped
// without diagnostic.
func Extract(data []byte) (*Export, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}

	export := &Export{Media: make(map[string]*Entry)}

	for _, f := range reader.File {
		if f.FileInfo().IsDir() {
			continue
		}

		name := path.Base(f.Name)

		if strings.EqualFold(path.Ext(name), ".txt") {
			if export.TranscriptName != "" {
				continue
			}
			text, err := readAll(f)
			if err != nil {
				return nil, err
			}
			export.TranscriptName = name
			export.TranscriptText = string(text)
			continue
		}

		kind := media.Classify(name)
		if kind == media.KindUnknown {
			continue
		}

		if f.Method != zip.Store && f.Method != zip.Deflate {
			return nil, fmt.Errorf("%w: entry %s uses method %d", ErrDecompressionUnavailable, name, f.Method)
		}

		// First occurrence of a name wins; nested duplicates are dropped.
		if _, exists := export.Media[name]; exists {
			continue
		}
		export.Media[name] = &Entry{
			Name:           name,
			Kind:           kind,
			CompressedSize: int64(f.CompressedSize64),
			file:           f,
		}
	}

	// An archive without any transcript still extracts: callers surface
	// that through a transcript-found flag, not an error.
	return export, nil
}

func readAll(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		if errors.Is(err, zip.ErrAlgorithm) {
			return nil, fmt.Errorf("%w: %s", ErrDecompressionUnavailable, f.Name)
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrCorruptArchive, f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrCorruptArchive, f.Name, err)
	}
	return data, nil
}
