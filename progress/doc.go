// Package progress keeps aggregated job counters of a coordinator.
package progress
