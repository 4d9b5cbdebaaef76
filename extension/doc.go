// Package extension provides the run-time registries shared by the
// coordinator and the worker binaries: task services by name and the Go
// types of their method signatures.
//
// Both sides of a pool must register the same services; only a handler
// reference ("<service>.<method>") and its arguments travel between
// processes.
package extension
