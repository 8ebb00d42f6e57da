package firewall

import (
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// ufwBinary is the firewall control tool geogate drives.
const ufwBinary = "ufw"

// numberedRuleRegex matches one line of `ufw status numbered` output:
//
//	[ 3] Anywhere                   ALLOW IN    10.0.0.0/8                 # geogate:local
//
// Columns are separated by runs of two or more spaces.
var numberedRuleRegex = regexp.MustCompile(
	`^\[\s*(\d+)\]\s+(.+?)\s{2,}(ALLOW|DENY|REJECT|LIMIT)(?:\s+(IN|OUT|FWD))?\s{2,}(\S+(?: \(v6\))?)\s*(?:#\s*(.*\S))?\s*$`)

// UFW is the live firewall client. All state mutation goes through the
// external tool; nothing is cached between calls.
type UFW struct {
	runner CommandRunner
}

// NewUFW creates a ufw-backed client. A nil runner uses the real one.
func NewUFW(runner CommandRunner) *UFW {
	if runner == nil {
		runner = DefaultCommandRunner
	}
	return &UFW{runner: runner}
}

// Available reports whether the ufw binary is installed.
func Available() error {
	if _, err := exec.LookPath(ufwBinary); err != nil {
		return fmt.Errorf("required tool %q not found in PATH: %w", ufwBinary, err)
	}
	return nil
}

// Rules lists the current rules via `ufw status numbered`.
func (u *UFW) Rules() ([]Rule, error) {
	out, err := u.runner.Output(ufwBinary, "status", "numbered")
	if err != nil {
		return nil, fmt.Errorf("listing rules failed: %w", err)
	}
	return ParseNumberedStatus(string(out)), nil
}

// AllowFrom runs `ufw allow from <source> to any comment <comment>`.
func (u *UFW) AllowFrom(source, comment string) error {
	return u.runner.Run(ufwBinary, "allow", "from", source, "to", "any", "comment", comment)
}

// AllowService runs `ufw allow <port>/<proto> comment <comment>`.
func (u *UFW) AllowService(port int, proto, comment string) error {
	service := fmt.Sprintf("%d/%s", port, strings.ToLower(proto))
	return u.runner.Run(ufwBinary, "allow", service, "comment", comment)
}

// DeleteByIndex runs `ufw --force delete <index>`. The force flag skips the
// interactive confirmation prompt.
func (u *UFW) DeleteByIndex(index int) error {
	return u.runner.Run(ufwBinary, "--force", "delete", strconv.Itoa(index))
}

// Status returns the plain `ufw status` output.
func (u *UFW) Status() (string, error) {
	out, err := u.runner.Output(ufwBinary, "status")
	if err != nil {
		return "", fmt.Errorf("status failed: %w", err)
	}
	return string(out), nil
}

// ParseNumberedStatus parses `ufw status numbered` output into Rules.
// Header lines and anything that does not look like a numbered rule are
// ignored.
func ParseNumberedStatus(out string) []Rule {
	var rules []Rule
	for _, line := range strings.Split(out, "\n") {
		m := numberedRuleRegex.FindStringSubmatch(strings.TrimRight(line, " \t"))
		if m == nil {
			continue
		}

		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		rules = append(rules, Rule{
			Index:     index,
			To:        stripV6Marker(m[2]),
			Action:    Action(m[3]),
			Direction: m[4],
			From:      stripV6Marker(m[5]),
			Comment:   m[6],
		})
	}
	return rules
}

// stripV6Marker removes ufw's " (v6)" column suffix.
func stripV6Marker(s string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "(v6)"))
}
