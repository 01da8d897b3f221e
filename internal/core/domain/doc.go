// Package domain contains the core business types for the Tecfag
// retrieval pipeline: document chunks, query analysis results and
// the aggregates produced by multi-query search.
//
// Types in this package are plain values with no I/O. Infrastructure
// concerns live behind the ports in internal/core/ports.
package domain
