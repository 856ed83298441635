package session

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/ccollicutt/chatsift/pkg/config"
	"github.com/ccollicutt/chatsift/pkg/media"
)

const sampleTranscript = "[1/1/2024, 10:00 AM] Alice: Hello\n" +
	"bad line\n" +
	"1/1/2024, 10:01 AM - Bob: Hi Alice!\n" +
	"[32/13/2024, 10:02 AM] C: x\n" +
	"[1/1/2024, 10:03 AM] Alice: <attached: photo.jpg> look"

// buildArchive creates a zip with a transcript plus media files.
func buildArchive(t *testing.T, transcriptName, transcriptText string, mediaFiles map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	if transcriptName != "" {
		f, err := w.Create(transcriptName)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte(transcriptText)); err != nil {
			t.Fatal(err)
		}
	}
	for name, content := range mediaFiles {
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newSession(t *testing.T, cfg *config.Config, opts ...Option) *Session {
	t.Helper()
	s, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func TestSession_LoadArchive(t *testing.T) {
	s := newSession(t, nil)
	data := buildArchive(t, "chat.txt", sampleTranscript, map[string]string{
		"photo.jpg": "jpeg-payload",
		"note.opus": "opus-payload",
	})

	result, err := s.LoadArchive(context.Background(), data)
	if err != nil {
		t.Fatalf("LoadArchive() error = %v", err)
	}

	if !result.TranscriptFound {
		t.Error("TranscriptFound = false, want true")
	}
	if result.TranscriptName != "chat.txt" {
		t.Errorf("TranscriptName = %q, want chat.txt", result.TranscriptName)
	}
	if result.MediaCount != 2 {
		t.Errorf("MediaCount = %d, want 2", result.MediaCount)
	}
	want := []string{"note.opus", "photo.jpg"}
	for i, name := range want {
		if result.MediaNames[i] != name {
			t.Errorf("MediaNames[%d] = %q, want %q (sorted)", i, result.MediaNames[i], name)
		}
	}
}

func TestSession_LoadArchive_NoTranscript(t *testing.T) {
	s := newSession(t, nil)
	data := buildArchive(t, "", "", map[string]string{"photo.jpg": "x"})

	result, err := s.LoadArchive(context.Background(), data)
	if err != nil {
		t.Fatalf("LoadArchive() error = %v", err)
	}
	if result.TranscriptFound {
		t.Error("TranscriptFound = true, want false")
	}
	if result.MediaCount != 1 {
		t.Errorf("MediaCount = %d, want 1", result.MediaCount)
	}
}

func TestSession_LoadArchive_FailureKeepsOldState(t *testing.T) {
	s := newSession(t, nil)
	good := buildArchive(t, "chat.txt", sampleTranscript, map[string]string{"photo.jpg": "x"})

	if _, err := s.LoadArchive(context.Background(), good); err != nil {
		t.Fatalf("LoadArchive() error = %v", err)
	}

	// A corrupt load must not disturb the loaded archive.
	if _, err := s.LoadArchive(context.Background(), []byte("garbage")); err == nil {
		t.Fatal("LoadArchive(garbage) succeeded, want error")
	}

	result, err := s.Parse()
	if err != nil {
		t.Fatalf("Parse() after failed reload error = %v", err)
	}
	if len(result.Events) != 3 {
		t.Errorf("got %d events after failed reload, want 3", len(result.Events))
	}
	if h, _ := s.ResolveMedia("photo.jpg"); h == nil {
		t.Error("media from the previous archive unavailable after failed reload")
	}
}

func TestSession_LoadArchive_ReplacesWholesale(t *testing.T) {
	s := newSession(t, nil)

	first := buildArchive(t, "a.txt", "[1/1/2024, 10:00 AM] A: one", map[string]string{"old.jpg": "x"})
	if _, err := s.LoadArchive(context.Background(), first); err != nil {
		t.Fatal(err)
	}
	oldHandle, _ := s.ResolveMedia("old.jpg")
	if oldHandle == nil {
		t.Fatal("old.jpg did not resolve")
	}

	second := buildArchive(t, "b.txt", "[2/2/2024, 11:00 AM] B: two", map[string]string{"new.jpg": "y"})
	if _, err := s.LoadArchive(context.Background(), second); err != nil {
		t.Fatal(err)
	}

	if !oldHandle.Released() {
		t.Error("handle from the previous archive not released on reload")
	}
	if h, _ := s.ResolveMedia("old.jpg"); h != nil {
		t.Error("old archive's media still resolvable after reload")
	}
	stats := s.CacheStats()
	if stats.TotalMedia != 1 {
		t.Errorf("TotalMedia = %d, want 1 (new archive only)", stats.TotalMedia)
	}
	// old.jpg lookup above counts against the new archive's missing set.
	if stats.MissingCount != 1 {
		t.Errorf("MissingCount = %d, want 1", stats.MissingCount)
	}
}

func TestSession_LoadArchive_Cancelled(t *testing.T) {
	s := newSession(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.LoadArchive(ctx, buildArchive(t, "chat.txt", "x", nil))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("LoadArchive() error = %v, want context.Canceled", err)
	}
}

func TestSession_ParseWithoutArchive(t *testing.T) {
	s := newSession(t, nil)
	if _, err := s.Parse(); !errors.Is(err, ErrNoArchive) {
		t.Errorf("Parse() error = %v, want ErrNoArchive", err)
	}
}

func TestSession_EndToEnd(t *testing.T) {
	s := newSession(t, nil)
	data := buildArchive(t, "chat.txt", sampleTranscript, map[string]string{
		"photo.jpg": "jpeg-payload",
	})

	if _, err := s.LoadArchive(context.Background(), data); err != nil {
		t.Fatalf("LoadArchive() error = %v", err)
	}

	result, err := s.Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(result.Events) != 3 || len(result.Diagnostics) != 2 {
		t.Fatalf("got %d events / %d diagnostics, want 3 / 2",
			len(result.Events), len(result.Diagnostics))
	}

	ref := result.Events[2].Media
	if ref == nil || ref.Filename != "photo.jpg" || ref.Kind != media.KindImage {
		t.Fatalf("last event media = %+v, want photo.jpg image", ref)
	}

	h, err := s.ResolveMedia(ref.Filename)
	if err != nil {
		t.Fatalf("ResolveMedia() error = %v", err)
	}
	if h == nil || string(h.Bytes()) != "jpeg-payload" {
		t.Fatalf("ResolveMedia() handle = %v", h)
	}

	s.Clear()
	if !h.Released() {
		t.Error("handle not released on Clear()")
	}
	if _, err := s.Parse(); !errors.Is(err, ErrNoArchive) {
		t.Error("Parse() after Clear() should report no archive")
	}
}

func TestSession_ConfiguredCapacityAndPhrases(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Cache.Capacity = 1
	cfg.Media.OmittedPhrases = []string{"medien weggelassen"}

	s := newSession(t, cfg)
	data := buildArchive(t, "chat.txt",
		"[1/1/2024, 10:00 AM] Alice: <Medien weggelassen>",
		map[string]string{"a.jpg": "a", "b.jpg": "b"})

	if _, err := s.LoadArchive(context.Background(), data); err != nil {
		t.Fatal(err)
	}

	result, _ := s.Parse()
	if m := result.Events[0].Media; m == nil || m.Kind != media.KindOmitted {
		t.Errorf("localized omitted phrase not recognized: %+v", m)
	}

	ha, _ := s.ResolveMedia("a.jpg")
	s.ResolveMedia("b.jpg")
	if !ha.Released() {
		t.Error("capacity 1 cache did not evict the first handle")
	}
}
