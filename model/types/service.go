package types

// Service is a named group of task methods. The same set of services is
// compiled into the coordinator and the worker binaries; only the handler
// name and its arguments cross the process boundary.
type Service interface {
	Name() string
	Methods() Signatures
	Method(name string) (Executable, error)
}
