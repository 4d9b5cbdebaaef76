// Package metrics exports coordinator events as Prometheus collectors.
package metrics
