package firewall

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleNumberedStatus = `Status: active

     To                         Action      From
     --                         ------      ----
[ 1] 22/tcp                     ALLOW IN    Anywhere                   # geogate:ssh
[ 2] Anywhere                   ALLOW IN    127.0.0.1                  # geogate:loopback
[ 3] Anywhere                   ALLOW IN    10.0.0.0/8                 # geogate:local
[ 4] Anywhere                   ALLOW IN    5.5.5.5/32                 # geogate:country
[ 5] 80/tcp                     DENY IN     203.0.113.7
[ 6] Anywhere (v6)              ALLOW IN    ::1                        # geogate:loopback
[ 7] 443                        ALLOW IN    Anywhere
`

func TestParseNumberedStatus(t *testing.T) {
	rules := ParseNumberedStatus(sampleNumberedStatus)
	require.Len(t, rules, 7)

	assert.Equal(t, Rule{
		Index: 1, To: "22/tcp", Action: ActionAllow, Direction: "IN",
		From: Anywhere, Comment: "geogate:ssh",
	}, rules[0])

	assert.Equal(t, Rule{
		Index: 3, To: Anywhere, Action: ActionAllow, Direction: "IN",
		From: "10.0.0.0/8", Comment: "geogate:local",
	}, rules[2])

	// Rule without comment.
	assert.Equal(t, Rule{
		Index: 5, To: "80/tcp", Action: ActionDeny, Direction: "IN",
		From: "203.0.113.7",
	}, rules[4])

	// v6 marker stripped from both columns.
	assert.Equal(t, Anywhere, rules[5].To)
	assert.Equal(t, "::1", rules[5].From)
}

func TestParseNumberedStatusIgnoresGarbage(t *testing.T) {
	assert.Empty(t, ParseNumberedStatus("Status: inactive\n"))
	assert.Empty(t, ParseNumberedStatus(""))
	assert.Empty(t, ParseNumberedStatus("not a rule line\n[ x] broken\n"))
}

func TestRuleMatching(t *testing.T) {
	r := Rule{To: Anywhere, Action: ActionAllow, From: "10.0.0.0/8"}
	assert.True(t, r.AllowsFrom("10.0.0.0/8"))
	assert.False(t, r.AllowsFrom("10.0.0.0/16"))

	deny := Rule{To: Anywhere, Action: ActionDeny, From: "10.0.0.0/8"}
	assert.False(t, deny.AllowsFrom("10.0.0.0/8"))

	ssh := Rule{To: "22/tcp", Action: ActionAllow, From: Anywhere}
	assert.True(t, ssh.AllowsService(22, "tcp"))
	assert.True(t, ssh.AllowsService(22, "TCP"))
	assert.False(t, ssh.AllowsService(22, "udp"))
	assert.False(t, ssh.AllowsService(2222, "tcp"))

	bare := Rule{To: "22", Action: ActionAllow, From: Anywhere}
	assert.True(t, bare.AllowsService(22, "tcp"))
}

func TestFilterByComment(t *testing.T) {
	rules := ParseNumberedStatus(sampleNumberedStatus)

	country := FilterByComment(rules, "geogate:country")
	require.Len(t, country, 1)
	assert.Equal(t, "5.5.5.5/32", country[0].From)

	loopback := FilterByComment(rules, "geogate:loopback")
	assert.Len(t, loopback, 2)

	assert.Empty(t, FilterByComment(rules, "geogate"))
}

func TestUFWCommands(t *testing.T) {
	runner := new(MockCommandRunner)
	u := NewUFW(runner)

	runner.On("Output", "ufw", "status", "numbered").Return([]byte(sampleNumberedStatus), nil)
	rules, err := u.Rules()
	require.NoError(t, err)
	assert.Len(t, rules, 7)

	runner.On("Run", "ufw", "allow", "from", "8.8.8.0/24", "to", "any", "comment", "geogate:country").Return(nil)
	require.NoError(t, u.AllowFrom("8.8.8.0/24", "geogate:country"))

	runner.On("Run", "ufw", "allow", "22/tcp", "comment", "geogate:ssh").Return(nil)
	require.NoError(t, u.AllowService(22, "TCP", "geogate:ssh"))

	runner.On("Run", "ufw", "--force", "delete", "4").Return(nil)
	require.NoError(t, u.DeleteByIndex(4))

	runner.On("Output", "ufw", "status").Return([]byte("Status: active\n"), nil)
	status, err := u.Status()
	require.NoError(t, err)
	assert.Contains(t, status, "active")

	runner.AssertExpectations(t)
}

func TestUFWListFailure(t *testing.T) {
	runner := new(MockCommandRunner)
	runner.On("Output", "ufw", "status", "numbered").Return(nil, errors.New("exit status 1"))

	u := NewUFW(runner)
	_, err := u.Rules()
	assert.Error(t, err)
}
