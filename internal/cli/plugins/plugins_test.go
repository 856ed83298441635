package plugins

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFindPlugin_NotFound(t *testing.T) {
	_, err := FindPlugin("nonexistent-plugin-xyz")
	if !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("expected ErrPluginNotFound, got %v", err)
	}
}

func TestFindPlugin_InPluginsDir(t *testing.T) {
	// Create a fake home directory with a plugin
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)

	pluginsDir := filepath.Join(tmpHome, ".chatsift", "plugins")
	if err := os.MkdirAll(pluginsDir, 0755); err != nil {
		t.Fatalf("failed to create plugins dir: %v", err)
	}

	pluginPath := filepath.Join(pluginsDir, "chatsift-testplugin")
	if err := os.WriteFile(pluginPath, []byte("#!/bin/sh\necho test"), 0755); err != nil {
		t.Fatalf("failed to create plugin: %v", err)
	}

	found, err := FindPlugin("testplugin")
	if err != nil {
		t.Fatalf("FindPlugin failed: %v", err)
	}
	if found != pluginPath {
		t.Errorf("found = %q, want %q", found, pluginPath)
	}
}

func TestFormatNotFoundError_KnownPlugin(t *testing.T) {
	msg := FormatNotFoundError("viewer")

	if !strings.Contains(msg, `unknown command "viewer" for "chatsift"`) {
		t.Errorf("message missing unknown command line: %q", msg)
	}
	if !strings.Contains(msg, "available as a plugin") {
		t.Errorf("message missing known plugin hint: %q", msg)
	}
	if !strings.Contains(msg, "~/.chatsift/plugins/chatsift-viewer") {
		t.Errorf("message missing install location: %q", msg)
	}
}

func TestFormatNotFoundError_UnknownPlugin(t *testing.T) {
	msg := FormatNotFoundError("frobnicate")

	if !strings.Contains(msg, `unknown command "frobnicate" for "chatsift"`) {
		t.Errorf("message missing unknown command line: %q", msg)
	}
	if strings.Contains(msg, "available as a plugin") {
		t.Errorf("message should not claim unknown command is a known plugin: %q", msg)
	}
	if !strings.Contains(msg, "chatsift-frobnicate anywhere in your PATH") {
		t.Errorf("message missing PATH hint: %q", msg)
	}
}

func TestIsExecutable(t *testing.T) {
	dir := t.TempDir()

	execFile := filepath.Join(dir, "exec")
	if err := os.WriteFile(execFile, []byte("#!/bin/sh"), 0755); err != nil {
		t.Fatal(err)
	}
	plainFile := filepath.Join(dir, "plain")
	if err := os.WriteFile(plainFile, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	if !isExecutable(execFile) {
		t.Error("expected executable file to be detected")
	}
	if isExecutable(plainFile) {
		t.Error("expected non-executable file to be rejected")
	}
	if isExecutable(filepath.Join(dir, "missing")) {
		t.Error("expected missing file to be rejected")
	}
}

func TestKnownPlugins(t *testing.T) {
	if _, ok := KnownPlugins["viewer"]; !ok {
		t.Error("expected viewer to be a known plugin")
	}
}
