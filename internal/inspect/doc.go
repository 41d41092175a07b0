// Package inspect serves the gatefx inspector: a small HTTP server for
// replaying scenarios against the live runtime and watching the result.
//
// Routes:
//
//	GET  /healthz  liveness probe
//	GET  /metrics  Prometheus metrics
//	GET  /ws       WebSocket stream of scenario.CycleResult JSON
//	POST /replay   run a YAML or JSON scenario and return its report
//
// Every cycle replayed through POST /replay is broadcast to the connected
// WebSocket clients as it completes. Each replay gets a run ID, carried by
// its report and cycles, so clients can tell concurrent replays apart.
package inspect
