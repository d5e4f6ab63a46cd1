// Package observability builds the logger, metrics recorder and tracer that the CLI injects
// into recipebook components. Library packages never read global logging or metrics state.
package observability
