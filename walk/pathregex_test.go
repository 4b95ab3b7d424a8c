// pathregex_test.go - test harness for CompilePattern and partial matching

package walk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompilePatternPrunable(t *testing.T) {
	p, err := CompilePattern(`^/etc/.*\.conf$`)
	require.NoError(t, err)
	require.True(t, p.prunable)

	p, err = CompilePattern(`.*\.conf$`)
	require.NoError(t, err)
	require.False(t, p.prunable)
}

func TestCompilePatternBad(t *testing.T) {
	_, err := CompilePattern(`(unterminated`)
	require.Error(t, err)
}

func TestMatchFull(t *testing.T) {
	p, err := CompilePattern(`^/etc/.*\.conf$`)
	require.NoError(t, err)
	require.Equal(t, Full, p.Match("/etc/a.conf", false))
	require.Equal(t, NoMatch, p.Match("/var/a.conf", false))
}

func TestMatchPartialPrefix(t *testing.T) {
	p, err := CompilePattern(`^/etc/.*\.conf$`)
	require.NoError(t, err)

	require.Equal(t, Partial, p.Match("/etc", true))
	require.Equal(t, NoMatch, p.Match("/var", true))
	require.Equal(t, Full, p.Match("/etc/a.conf", true))
}

func TestMatchUnanchoredNeverPrunes(t *testing.T) {
	p, err := CompilePattern(`a\.conf$`)
	require.NoError(t, err)
	require.False(t, p.prunable)
	require.Equal(t, Partial, p.Match("/anything/at/all", true))
}
