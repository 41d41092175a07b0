// Package config loads gatefx.json, the configuration file read by the
// gatefx CLI.
//
// A missing file is not an error for callers that use LoadOrDefault; every
// field has a default:
//
//	{
//	  "debug": false,
//	  "logLevel": "info",
//	  "inspector": { "addr": "localhost:7070" },
//	  "metrics": { "namespace": "gatefx" },
//	  "tracing": { "enabled": false, "tracerName": "gatefx" },
//	  "s3": { "region": "" }
//	}
package config
