package permits

import "fmt"

// ConfigError marks an invalid policy set or route table. It is fatal at
// load/startup time: a process must refuse to serve requests with an
// incomplete or inconsistent configuration rather than default-allow.
type ConfigError struct {
	Subject string // policy id or route key the error refers to
	Reason  string
}

func (e *ConfigError) Error() string {
	if e.Subject == "" {
		return "permits: invalid configuration: " + e.Reason
	}
	return fmt.Sprintf("permits: invalid configuration (%s): %s", e.Subject, e.Reason)
}

// UnmappedRouteError is returned when a method/route pair has no entry in the
// action table. Callers must treat it as a configuration error and fail
// closed, never as an implicit allow.
type UnmappedRouteError struct {
	Method   string
	Template string
}

func (e *UnmappedRouteError) Error() string {
	return fmt.Sprintf("permits: no action mapped for route %s %s", e.Method, e.Template)
}
