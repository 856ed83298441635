// Package media classifies attachment filenames into media kinds and MIME types.
package media

import (
	"path/filepath"
	"strings"
)

// Kind is the coarse media category of an attachment.
type Kind string

const (
	KindImage    Kind = "image"
	KindVideo    Kind = "video"
	KindAudio    Kind = "audio"
	KindDocument Kind = "document"
	KindContact  Kind = "contact"

	// KindOmitted marks a message whose media was stripped from the export
	// ("<Media omitted>" and friends). Never returned by Classify; set by
	// the transcript parser from body text.
	KindOmitted Kind = "omitted"

	// KindFile is the fallback for filenames with an unrecognized extension.
	KindFile Kind = "file"

	// KindUnknown marks entries that don't look like media at all
	// (no extension). Archive extraction drops these.
	KindUnknown Kind = "unknown"
)

// kindByExtension maps lowercase extensions (without dot) to kinds.
// This table mirrors what chat export producers actually emit.
var kindByExtension = map[string]Kind{
	// Images
	"jpg": KindImage, "jpeg": KindImage, "png": KindImage,
	"gif": KindImage, "webp": KindImage,
	// Video
	"mp4": KindVideo, "3gp": KindVideo, "mov": KindVideo,
	"avi": KindVideo, "mkv": KindVideo, "webm": KindVideo,
	// Audio
	"opus": KindAudio, "mp3": KindAudio, "aac": KindAudio,
	"m4a": KindAudio, "wav": KindAudio,
	// Documents
	"pdf": KindDocument, "doc": KindDocument, "docx": KindDocument,
	"xls": KindDocument, "xlsx": KindDocument, "ppt": KindDocument,
	"pptx": KindDocument, "txt": KindDocument,
	// Contact cards
	"vcf": KindContact,
}

// mimeByExtension maps lowercase extensions to content-type labels.
var mimeByExtension = map[string]string{
	"jpg": "image/jpeg", "jpeg": "image/jpeg", "png": "image/png",
	"gif": "image/gif", "webp": "image/webp",
	"mp4": "video/mp4", "3gp": "video/3gpp", "mov": "video/quicktime",
	"avi": "video/x-msvideo", "mkv": "video/x-matroska", "webm": "video/webm",
	"opus": "audio/ogg", "mp3": "audio/mpeg", "aac": "audio/aac",
	"m4a": "audio/mp4", "wav": "audio/wav",
	"pdf": "application/pdf",
	"doc": "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"txt":  "text/plain",
	"vcf":  "text/vcard",
}

// Classify returns the media kind for a filename based on its extension.
// Classification is advisory, not safety-critical: an unrecognized extension
// yields KindFile, a filename without any extension yields KindUnknown.
// The function is pure - the same filename always yields the same kind.
func Classify(filename string) Kind {
	ext := extension(filename)
	if ext == "" {
		return KindUnknown
	}
	if kind, ok := kindByExtension[ext]; ok {
		return kind
	}
	return KindFile
}

// MIMEType returns the content-type label for a filename.
// Unrecognized extensions fall back to application/octet-stream.
func MIMEType(filename string) string {
	if mt, ok := mimeByExtension[extension(filename)]; ok {
		return mt
	}
	return "application/octet-stream"
}

// KnownExtension reports whether ext (without dot, any case) appears in the
// classification table. Used by the transcript parser to decide whether a
// leading body token is a media filename.
func KnownExtension(ext string) bool {
	_, ok := kindByExtension[strings.ToLower(ext)]
	return ok
}

// extension returns the lowercase extension of filename without the dot.
func extension(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
