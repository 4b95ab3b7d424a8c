// partialmatch_test.go - test harness for the Thompson-NFA partial matcher

package walk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPartialMatcherFullMatch(t *testing.T) {
	m, err := newPartialMatcher(`^/etc/.*\.conf$`)
	require.NoError(t, err)

	matched, _ := m.run("/etc/a.conf", true)
	require.True(t, matched)
}

func TestPartialMatcherPrefixStaysAlive(t *testing.T) {
	m, err := newPartialMatcher(`^/etc/.*\.conf$`)
	require.NoError(t, err)

	matched, alive := m.run("/etc", false)
	require.False(t, matched)
	require.True(t, alive, "a prefix of a matching path must stay alive")
}

func TestPartialMatcherDeadPrefix(t *testing.T) {
	m, err := newPartialMatcher(`^/etc/.*\.conf$`)
	require.NoError(t, err)

	_, alive := m.run("/var", false)
	require.False(t, alive, "a prefix that diverges from the anchored literal must die")
}

func TestPartialMatcherWordBoundaryPermissive(t *testing.T) {
	m, err := newPartialMatcher(`\btarget\b`)
	require.NoError(t, err)

	_, alive := m.run("/some/pre", false)
	require.True(t, alive)
}
