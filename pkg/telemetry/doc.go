// Package telemetry provides reactive.Observer implementations that export
// effect activity to Prometheus and OpenTelemetry.
//
//	registry := prometheus.NewRegistry()
//	owner.SetObserver(telemetry.Multi(
//	    telemetry.Prometheus(telemetry.WithRegistry(registry)),
//	    telemetry.OpenTelemetry(telemetry.WithTracerName("checkout")),
//	))
package telemetry
