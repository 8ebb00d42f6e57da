package firewall

import (
	"fmt"
	"strconv"
	"strings"
)

// Action is a firewall rule verb as reported by the tool.
type Action string

const (
	ActionAllow  Action = "ALLOW"
	ActionDeny   Action = "DENY"
	ActionReject Action = "REJECT"
	ActionLimit  Action = "LIMIT"
)

// Anywhere is the wildcard source/destination in ufw listings.
const Anywhere = "Anywhere"

// Rule is one entry of the live rule listing, parsed into typed fields so
// matching is equality logic instead of text pattern matching against raw
// tool output.
type Rule struct {
	// Index is the 1-based ordinal in the live store. The store re-indexes
	// after every deletion, so deletions must run highest-first.
	Index int

	// To is the destination column: a service ("22/tcp", "443"), an
	// address, or Anywhere.
	To string

	Action    Action
	Direction string // IN, OUT, FWD; empty when the tool omits it

	// From is the source column: an address, a CIDR, or Anywhere.
	From string

	// Comment is the rule tag, without the leading "# ".
	Comment string
}

// AllowsFrom reports whether the rule is an allow rule for exactly the
// given source.
func (r Rule) AllowsFrom(source string) bool {
	return r.Action == ActionAllow && r.From == source
}

// AllowsService reports whether the rule is an allow rule for the given
// port/protocol service, from any source.
func (r Rule) AllowsService(port int, proto string) bool {
	if r.Action != ActionAllow {
		return false
	}
	p := strconv.Itoa(port)
	return r.To == p+"/"+strings.ToLower(proto) || r.To == p
}

func (r Rule) String() string {
	s := fmt.Sprintf("[%2d] %s %s", r.Index, r.Action, r.To)
	if r.Direction != "" {
		s += " " + r.Direction
	}
	s += " from " + r.From
	if r.Comment != "" {
		s += " # " + r.Comment
	}
	return s
}

// FilterByComment returns the rules whose comment equals tag exactly.
func FilterByComment(rules []Rule, tag string) []Rule {
	var out []Rule
	for _, r := range rules {
		if r.Comment == tag {
			out = append(out, r)
		}
	}
	return out
}
