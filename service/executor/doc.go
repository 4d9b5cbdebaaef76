// Package executor resolves a task reference against the task registry,
// converts its arguments into the method's typed input and invokes the
// method.
package executor
