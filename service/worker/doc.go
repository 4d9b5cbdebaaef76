// Package worker hosts the cooperative loop that runs inside a spawned
// worker process.
//
// The coordinator writes one newline terminated startup record to the
// worker's standard input, then frames task references. The worker answers
// with a readiness record, and for every task it writes the task output
// followed by a Finished message. Panics and task errors are reported as an
// Exception followed by Dead, after which the loop exits with status 1.
package worker
