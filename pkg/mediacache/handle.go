package mediacache

import (
	"github.com/google/uuid"

	"github.com/ccollicutt/chatsift/pkg/media"
)

// Handle is a revocable, short-lived reference to decompressed media bytes.
// Handles are created by the Manager on first resolution of a filename and
// released on eviction or teardown; a released handle keeps its URI but no
// longer exposes the payload.
type Handle struct {
	uri         string
	filename    string
	contentType string
	data        []byte
	released    bool
}

func newHandle(filename string, data []byte) *Handle {
	return &Handle{
		uri:         "mem://" + uuid.NewString(),
		filename:    filename,
		contentType: media.MIMEType(filename),
		data:        data,
	}
}

// URI returns the opaque display reference for this handle.
func (h *Handle) URI() string { return h.uri }

// Filename returns the media filename the handle was created for.
func (h *Handle) Filename() string { return h.filename }

// ContentType returns the payload's content-type label.
func (h *Handle) ContentType() string { return h.contentType }

// Bytes returns the decompressed payload, or nil once released.
func (h *Handle) Bytes() []byte {
	if h.released {
		return nil
	}
	return h.data
}

// Released reports whether the handle has been revoked.
func (h *Handle) Released() bool { return h.released }

// release revokes the handle and drops its payload reference.
// Releasing twice is a no-op.
func (h *Handle) release() {
	h.released = true
	h.data = nil
}
