// devset_test.go - test harness for DeviceSet

package walk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeviceSetContainsTempDir(t *testing.T) {
	ds, err := NewDeviceSet()
	require.NoError(t, err)
	defer ds.Close()

	ok, err := ds.ContainsPath(t.TempDir())
	require.NoError(t, err)
	require.True(t, ok, "a directory under the default temp dir must resolve to a device in the local set")
}

func TestDeviceSetUnknownID(t *testing.T) {
	ds, err := NewDeviceSet()
	require.NoError(t, err)
	defer ds.Close()

	require.False(t, ds.ContainsID(^uint64(0)))
}
