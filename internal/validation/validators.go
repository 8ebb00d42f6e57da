// Package validation provides syntax validation for the values geogate
// passes to the firewall tool. Everything that ends up as an exec argument
// goes through here first.
package validation

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
)

var (
	// Dotted quad with an optional /prefix. Octet ranges and prefix bounds
	// are checked numerically after the shape matches.
	ipv4CIDRRegex = regexp.MustCompile(`^(\d{1,3})\.(\d{1,3})\.(\d{1,3})\.(\d{1,3})(?:/(\d{1,2}))?$`)

	// Country codes are two ASCII letters (ISO 3166-1 alpha-2).
	countryCodeRegex = regexp.MustCompile(`^[a-zA-Z]{2}$`)

	// Rule tags: alphanumeric plus -_.: so namespaced tags like
	// "geogate:country" pass.
	tagRegex = regexp.MustCompile(`^[a-zA-Z0-9_.:-]+$`)

	// Characters that must never reach a shell-adjacent argument.
	dangerousChars = []string{";", "|", "&", "$", "`", "(", ")", "<", ">", "\\", "\"", "'", "\n", "\r", " "}
)

// ValidateIPv4CIDR validates an IPv4 address with an optional /prefix
// (prefix 0-32). This is the shape the country range lists use.
func ValidateIPv4CIDR(s string) error {
	if s == "" {
		return fmt.Errorf("CIDR cannot be empty")
	}

	m := ipv4CIDRRegex.FindStringSubmatch(s)
	if m == nil {
		return fmt.Errorf("not an IPv4 address or CIDR: %s", s)
	}

	for i := 1; i <= 4; i++ {
		octet, err := strconv.Atoi(m[i])
		if err != nil || octet > 255 {
			return fmt.Errorf("invalid octet in %s", s)
		}
	}

	if m[5] != "" {
		prefix, err := strconv.Atoi(m[5])
		if err != nil || prefix > 32 {
			return fmt.Errorf("invalid prefix length in %s (must be 0-32)", s)
		}
	}

	return nil
}

// ParseIPv4CIDR parses an IPv4 address or CIDR into a *net.IPNet.
// A bare address is treated as a /32.
func ParseIPv4CIDR(s string) (*net.IPNet, error) {
	if err := ValidateIPv4CIDR(s); err != nil {
		return nil, err
	}

	if !strings.Contains(s, "/") {
		s += "/32"
	}

	_, ipnet, err := net.ParseCIDR(s)
	if err != nil {
		return nil, fmt.Errorf("invalid CIDR: %w", err)
	}
	return ipnet, nil
}

// ValidateIPOrCIDR validates an IPv4 or IPv6 address, with or without a
// prefix. Used for sources read back from the firewall listing.
func ValidateIPOrCIDR(s string) error {
	if s == "" {
		return fmt.Errorf("IP/CIDR cannot be empty")
	}

	if strings.Contains(s, "/") {
		if _, _, err := net.ParseCIDR(s); err != nil {
			return fmt.Errorf("invalid CIDR: %w", err)
		}
		return nil
	}

	if net.ParseIP(s) == nil {
		return fmt.Errorf("invalid IP address: %s", s)
	}
	return nil
}

// ValidateCountryCode validates an ISO 3166-1 alpha-2 country code.
func ValidateCountryCode(code string) error {
	if !countryCodeRegex.MatchString(code) {
		return fmt.Errorf("invalid country code: %q (must be two letters)", code)
	}
	return nil
}

// ValidateTag validates a rule comment tag.
func ValidateTag(tag string) error {
	if tag == "" {
		return fmt.Errorf("tag cannot be empty")
	}
	if len(tag) > 255 {
		return fmt.Errorf("tag too long (max 255 characters)")
	}
	if !tagRegex.MatchString(tag) {
		return fmt.Errorf("invalid tag: %s (must be alphanumeric with -_.:)", tag)
	}
	for _, c := range dangerousChars {
		if strings.Contains(tag, c) {
			return fmt.Errorf("tag contains dangerous character: %s", c)
		}
	}
	return nil
}

// ValidatePortNumber validates a TCP/UDP port number.
func ValidatePortNumber(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port number: %d (must be 1-65535)", port)
	}
	return nil
}

// ValidateProtocol validates a transport protocol name.
func ValidateProtocol(proto string) error {
	switch strings.ToLower(proto) {
	case "tcp", "udp":
		return nil
	}
	return fmt.Errorf("invalid protocol: %s (must be tcp or udp)", proto)
}
