// Package promise wraps a task reference with an ordered chain of
// continuations and an optional error handler, resolved on the coordinator
// once the task finishes.
package promise
