package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIPv4CIDR(t *testing.T) {
	valid := []string{
		"10.0.0.0/8",
		"192.168.1.0/24",
		"5.5.5.5/32",
		"5.5.5.5",
		"0.0.0.0/0",
		"255.255.255.255",
	}
	for _, s := range valid {
		assert.NoError(t, ValidateIPv4CIDR(s), s)
	}

	invalid := []string{
		"",
		"not-an-ip",
		"10.0.0.0/99",
		"10.0.0.0/33",
		"256.1.1.1",
		"10.0.0/8",
		"10.0.0.0.0/8",
		"2001:db8::/32",
		"10.0.0.0/8 extra",
		"10.0.0.0/8;rm",
	}
	for _, s := range invalid {
		assert.Error(t, ValidateIPv4CIDR(s), s)
	}
}

func TestParseIPv4CIDR(t *testing.T) {
	n, err := ParseIPv4CIDR("10.0.0.0/8")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.0/8", n.String())

	// Bare address becomes a /32.
	n, err = ParseIPv4CIDR("5.5.5.5")
	require.NoError(t, err)
	assert.Equal(t, "5.5.5.5/32", n.String())

	// Host bits are masked off.
	n, err = ParseIPv4CIDR("10.1.2.3/8")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.0/8", n.String())

	_, err = ParseIPv4CIDR("bad")
	assert.Error(t, err)
}

func TestValidateIPOrCIDR(t *testing.T) {
	assert.NoError(t, ValidateIPOrCIDR("127.0.0.1"))
	assert.NoError(t, ValidateIPOrCIDR("::1"))
	assert.NoError(t, ValidateIPOrCIDR("10.0.0.0/8"))
	assert.NoError(t, ValidateIPOrCIDR("2001:db8::/32"))
	assert.Error(t, ValidateIPOrCIDR(""))
	assert.Error(t, ValidateIPOrCIDR("example.com"))
}

func TestValidateCountryCode(t *testing.T) {
	assert.NoError(t, ValidateCountryCode("de"))
	assert.NoError(t, ValidateCountryCode("US"))
	assert.Error(t, ValidateCountryCode(""))
	assert.Error(t, ValidateCountryCode("deu"))
	assert.Error(t, ValidateCountryCode("d1"))
}

func TestValidateTag(t *testing.T) {
	assert.NoError(t, ValidateTag("geogate:country"))
	assert.NoError(t, ValidateTag("local-net_rule.v2"))
	assert.Error(t, ValidateTag(""))
	assert.Error(t, ValidateTag("has space"))
	assert.Error(t, ValidateTag("rm;-rf"))
	assert.Error(t, ValidateTag("$(boom)"))
}

func TestValidatePortAndProtocol(t *testing.T) {
	assert.NoError(t, ValidatePortNumber(22))
	assert.Error(t, ValidatePortNumber(0))
	assert.Error(t, ValidatePortNumber(70000))

	assert.NoError(t, ValidateProtocol("tcp"))
	assert.NoError(t, ValidateProtocol("UDP"))
	assert.Error(t, ValidateProtocol("icmp"))
}
