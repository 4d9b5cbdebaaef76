package worker

// Role tells a loop which side of the pool it runs on
type Role int

const (
	// RoleCoordinator is the zero value; hint output is disabled
	RoleCoordinator Role = iota
	// RoleWorker enables hint output
	RoleWorker
)

func (r Role) String() string {
	if r == RoleWorker {
		return "worker"
	}
	return "coordinator"
}
