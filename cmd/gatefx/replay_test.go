package main

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/gatefx/internal/config"
	"github.com/vango-dev/gatefx/pkg/reactive"
	"github.com/vango-dev/gatefx/pkg/scenario"
)

func testEnv() *runtimeEnv {
	return &runtimeEnv{
		cfg:      config.New(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		registry: prometheus.NewRegistry(),
		observer: reactive.NopObserver{},
	}
}

func TestRunReplayTable(t *testing.T) {
	var out bytes.Buffer
	err := runReplay(context.Background(), testEnv(), "../../pkg/scenario/testdata/tag-filter.yaml", false, &out)
	if err != nil {
		t.Fatalf("runReplay() error: %v", err)
	}

	got := out.String()
	for _, want := range []string{"tag-filter (comparator: unordered)", "CYCLE", "3 runs, 2 suppressed, 2 cleanups"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunReplayJSONFault(t *testing.T) {
	var out bytes.Buffer
	err := runReplay(context.Background(), testEnv(), "../../pkg/scenario/testdata/fault.json", true, &out)
	if !stderrors.Is(err, scenario.ErrComparatorPanic) {
		t.Fatalf("error = %v, want ErrComparatorPanic", err)
	}

	var report scenario.Report
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("output is not a JSON report: %v\n%s", err, out.String())
	}
	if len(report.Cycles) != 3 || report.Cycles[2].Fault == "" {
		t.Errorf("partial report = %+v", report)
	}
}

func TestRunReplayMissingFile(t *testing.T) {
	err := runReplay(context.Background(), testEnv(), filepath.Join(t.TempDir(), "nope.yaml"), false, io.Discard)
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestObjectGetterLocalRef(t *testing.T) {
	client, err := testEnv().objectGetter(context.Background(), "scenarios/a.yaml")
	if err != nil || client != nil {
		t.Errorf("objectGetter(local) = %v, %v; want nil, nil", client, err)
	}
}

func TestSetupAppliesFlags(t *testing.T) {
	dir := t.TempDir()
	content := `{"logLevel": "warn", "metrics": {"namespace": "custom"}}`
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	defer func() { reactive.DebugMode = false }()

	env, err := setup(&globalFlags{configDir: dir, debug: true, logLevel: "debug"})
	if err != nil {
		t.Fatalf("setup() error: %v", err)
	}
	if !env.cfg.Debug || !reactive.DebugMode {
		t.Error("--debug should enable debug mode")
	}
	if env.cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("--log-level should override gatefx.json, got %v", env.cfg.SlogLevel())
	}
	if env.cfg.Metrics.Namespace != "custom" {
		t.Errorf("namespace = %q", env.cfg.Metrics.Namespace)
	}

	if _, err := setup(&globalFlags{configDir: dir, logLevel: "loud"}); err == nil {
		t.Error("invalid --log-level should fail validation")
	}
}
