package main

import (
	"bytes"
	"runtime/debug"
	"strings"
	"testing"
)

func TestReadBuildInfo(t *testing.T) {
	info := readBuildInfo()

	if info.Version == "" || info.GoVersion == "" || info.Module == "" {
		t.Errorf("incomplete build info: %+v", info)
	}
}

func TestWriteVersion(t *testing.T) {
	info := buildInfo{
		Version:   "v1.2.3",
		Commit:    "abc123",
		Date:      "2026-01-02",
		Module:    "github.com/vango-dev/gatefx",
		GoVersion: "go1.24.11",
		Deps: []*debug.Module{
			{Path: "github.com/spf13/cobra", Version: "v1.10.2"},
			{Path: "gopkg.in/yaml.v3", Version: "v3.0.1", Replace: &debug.Module{Path: "../yaml"}},
		},
	}

	var buf bytes.Buffer
	writeVersion(&buf, info, false)
	out := buf.String()
	for _, want := range []string{"Version:    v1.2.3", "Commit:     abc123", "Go version: go1.24.11"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "cobra") {
		t.Error("dependencies should only be listed with --deps")
	}

	buf.Reset()
	writeVersion(&buf, info, true)
	out = buf.String()
	if !strings.Contains(out, "github.com/spf13/cobra") || !strings.Contains(out, "v3.0.1 => ../yaml") {
		t.Errorf("--deps output:\n%s", out)
	}
}
