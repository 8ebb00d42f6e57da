// Package firewall models the host firewall boundary: a typed rule listing
// plus add/delete commands, all behind a Client interface so the reconciler
// can be tested against an in-memory implementation.
package firewall

// Client is the capability the reconciler needs from the host firewall.
// The live implementation shells out to ufw; tests use MemoryClient.
type Client interface {
	// Rules returns the current live rule listing with indices and comments.
	Rules() ([]Rule, error)

	// AllowFrom adds an allow rule for traffic from source (IP or CIDR)
	// to any destination, tagged with comment.
	AllowFrom(source, comment string) error

	// AllowService adds an allow rule for the given port/protocol from
	// any source, tagged with comment.
	AllowService(port int, proto, comment string) error

	// DeleteByIndex deletes the rule at the given 1-based index. The
	// store re-indexes after each deletion.
	DeleteByIndex(index int) error

	// Status returns the tool's status output for reporting.
	Status() (string, error)
}
