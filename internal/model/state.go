package model

// ConnectionState is the lifecycle state of a single connection handle.
type ConnectionState int

const (
	StateOpening ConnectionState = iota
	StateOpen
	StateClosed
)

var stateNames = map[ConnectionState]string{
	StateOpening: "opening",
	StateOpen:    "open",
	StateClosed:  "closed",
}

// String returns the lowercase state name.
func (s ConnectionState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// OpenStatus is the outcome reported by opening a connection.
type OpenStatus int

const (
	OpenSuccess OpenStatus = iota
	OpenRequestTimedOut
	OpenDeniedBySystem
	OpenUnknownFailure
)

// String returns a human-readable status name.
func (s OpenStatus) String() string {
	switch s {
	case OpenSuccess:
		return "success"
	case OpenRequestTimedOut:
		return "request timed out"
	case OpenDeniedBySystem:
		return "denied by system"
	case OpenUnknownFailure:
		return "unknown failure"
	default:
		return "unknown"
	}
}

// OpenResult is returned by a connection's Open call.
type OpenResult struct {
	Status OpenStatus
	Reason string // Platform error name or message, empty on success
}

// Succeeded reports whether the connection is now open.
func (r OpenResult) Succeeded() bool {
	return r.Status == OpenSuccess
}
