// Package observe wires structured logging (bolt) and tracing (OpenTelemetry)
// for the command line and storage layers.
package observe
