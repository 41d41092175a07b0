package inspect

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/gatefx/pkg/reactive"
	"github.com/vango-dev/gatefx/pkg/scenario"
	"github.com/vango-dev/gatefx/pkg/telemetry"
)

const tagFilter = `name: tag-filter
comparator: unordered
cycles:
  - deps: [[a, b], 10]
  - deps: [[b, a], 10]
  - deps: [[b, c], 10]
  - deps: [[c, b], 10]
  - deps: [[c, b], 20]
`

func newTestServer(t *testing.T) (*Server, *prometheus.Registry, *httptest.Server) {
	t.Helper()
	reg := prometheus.NewRegistry()
	s := New(Config{
		Gatherer: reg,
		Observer: telemetry.Prometheus(telemetry.WithRegistry(reg)),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.Hub().Close()
		ts.Close()
	})
	return s, reg, ts
}

func postScenario(t *testing.T, url, contentType, body string) (*http.Response, replayResponse) {
	t.Helper()
	resp, err := http.Post(url+"/replay", contentType, strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /replay: %v", err)
	}
	defer resp.Body.Close()

	var out replayResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, out
}

func TestHealthz(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("GET /healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestReplayYAML(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, out := postScenario(t, ts.URL, "application/yaml", tagFilter)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, error = %q", resp.StatusCode, out.Error)
	}

	report := out.Report
	if report == nil {
		t.Fatal("missing report")
	}
	if report.Run == "" {
		t.Error("report should carry a run ID")
	}
	if report.Runs != 3 || report.Suppressed != 2 {
		t.Errorf("runs/suppressed = %d/%d, want 3/2", report.Runs, report.Suppressed)
	}
	want := []bool{true, false, true, false, true}
	for i, c := range report.Cycles {
		if c.Ran != want[i] {
			t.Errorf("cycle %d ran = %v, want %v", i, c.Ran, want[i])
		}
	}
}

func TestReplayJSONFault(t *testing.T) {
	_, _, ts := newTestServer(t)

	body := `{"name":"fault","comparator":"never-equal","cycles":[{"deps":[1]},{"deps":[1]},{"deps":[2],"panic":true}]}`
	resp, out := postScenario(t, ts.URL, "application/json", body)

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	if out.Report == nil || len(out.Report.Cycles) != 3 {
		t.Fatalf("partial report = %+v", out.Report)
	}
	if out.Report.Cycles[2].Fault == "" {
		t.Error("faulted cycle should carry the panic value")
	}
	if out.Report.Cycles[2].Baseline != 1 {
		t.Errorf("baseline after fault = %d, want 1", out.Report.Cycles[2].Baseline)
	}
}

func TestReplayRejectsBadScenario(t *testing.T) {
	_, _, ts := newTestServer(t)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"unparsable", "cycles: [", "G201"},
		{"empty", "name: empty\n", "G201"},
		{"unknown comparator", "comparator: fuzzy\ncycles:\n  - deps: [1]\n", "G202"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, out := postScenario(t, ts.URL, "application/yaml", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			if out.Code != tt.code {
				t.Errorf("code = %q, want %q (error %q)", out.Code, tt.code, out.Error)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, _, ts := newTestServer(t)
	postScenario(t, ts.URL, "application/yaml", tagFilter)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(data), `gatefx_effect_runs_total{hook="UseCustomCompareEffect"} 3`) {
		t.Errorf("metrics missing run count:\n%s", data)
	}
}

func TestWebSocketStream(t *testing.T) {
	s, _, ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.Hub().ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	postScenario(t, ts.URL, "application/yaml", tagFilter)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var run string
	wantBaseline := []int{0, 0, 2, 2, 4}
	for i := range wantBaseline {
		var res scenario.CycleResult
		if err := conn.ReadJSON(&res); err != nil {
			t.Fatalf("read cycle %d: %v", i, err)
		}
		if res.Cycle != i || res.Scenario != "tag-filter" {
			t.Errorf("message %d = %+v", i, res)
		}
		if i == 0 {
			run = res.Run
		}
		if res.Run == "" || res.Run != run {
			t.Errorf("cycle %d run = %q, want %q", i, res.Run, run)
		}
		if res.Baseline != wantBaseline[i] {
			t.Errorf("cycle %d baseline = %d, want %d", i, res.Baseline, wantBaseline[i])
		}
	}
}

func TestAllowedOrigins(t *testing.T) {
	s := New(Config{
		Gatherer:       prometheus.NewRegistry(),
		AllowedOrigins: []string{"http://allowed.example"},
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	header := http.Header{"Origin": []string{"http://evil.example"}}
	if _, _, err := websocket.DefaultDialer.Dial(wsURL, header); err == nil {
		t.Error("dial from a disallowed origin should fail")
	}

	header.Set("Origin", "http://allowed.example")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial from allowed origin: %v", err)
	}
	conn.Close()
}

func TestReplayRejectsNonStringKeys(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, out := postScenario(t, ts.URL, "application/yaml", "cycles: [{deps: [{1: a}]}, {deps: [{1: b}]}]")
	if resp.StatusCode != http.StatusBadRequest || out.Code != "G201" {
		t.Errorf("status = %d, code = %q, want 400 G201", resp.StatusCode, out.Code)
	}
}

func TestWriteJSONUnencodable(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.writeJSON(rec, http.StatusOK, map[any]any{1: "a"})

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	var out replayResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil || out.Error == "" {
		t.Errorf("body = %q, want a JSON error", rec.Body.String())
	}
}

type panickingObserver struct {
	reactive.NopObserver
}

func (panickingObserver) EffectScheduled(reactive.EffectInfo) { panic("observer bug") }

func TestReplayRenderPanicIsServerError(t *testing.T) {
	s := New(Config{
		Gatherer: prometheus.NewRegistry(),
		Observer: panickingObserver{},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, out := postScenario(t, ts.URL, "application/yaml", tagFilter)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
	if !strings.Contains(out.Error, "render panicked") {
		t.Errorf("error = %q", out.Error)
	}
}
