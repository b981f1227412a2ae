package svcctl

// State is the coarse run state of an OS-managed service. The maintenance
// flow only distinguishes running from not running.
type State string

const (
	StateRunning State = "running"
	StateStopped State = "stopped"
	StateUnknown State = "unknown"
)

// Controller queries and mutates OS service run state by name.
// Platform-specific constructors are implemented in controller_*.go files.
type Controller interface {
	Status(name string) (State, error)
	Start(name string) error
}
