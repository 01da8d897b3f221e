// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): embedding providers, completion
// providers and chunk storage.
package driven
