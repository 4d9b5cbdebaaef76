// Package coordinator owns a pool of worker processes. It grants jobs to
// idle workers in index order, queues the rest, and routes every message a
// worker sends back: hints and unknown text to callbacks, intermediate
// values to the job record, and Finished to the job's promise.
//
// Progress is poll driven: callers repeatedly invoke Tick or Wait.
package coordinator
