// driver_test.go - test harness for the raw traversal driver

package walk

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0o755))
}

func mustWriteFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func drain(t *testing.T, d *driver) []*driverEntry {
	t.Helper()
	var out []*driverEntry
	for {
		e, err := d.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, e)
	}
}

func TestDriverOrdering(t *testing.T) {
	root := t.TempDir()
	mustMkdir(t, filepath.Join(root, "sub"))
	mustWriteFile(t, filepath.Join(root, "a.txt"))
	mustWriteFile(t, filepath.Join(root, "sub", "b.txt"))

	d := newDriver([]string{root}, true)
	entries := drain(t, d)

	var tags []ftsTag
	for _, e := range entries {
		tags = append(tags, e.Tag)
	}

	// root D, then its two children in some order (sub's D is followed by
	// b.txt and sub's DP), then root's DP.
	require.Equal(t, tagD, tags[0])
	require.Equal(t, tagDP, tags[len(tags)-1])
	require.Equal(t, root, entries[0].FullPath)
}

func TestDriverSkipPrunesSubtree(t *testing.T) {
	root := t.TempDir()
	mustMkdir(t, filepath.Join(root, "pruned"))
	mustWriteFile(t, filepath.Join(root, "pruned", "hidden.txt"))
	mustWriteFile(t, filepath.Join(root, "kept.txt"))

	d := newDriver([]string{root}, true)

	var seen []string
	for {
		e, err := d.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		seen = append(seen, e.FullPath)
		if e.Tag == tagD && filepath.Base(e.FullPath) == "pruned" {
			d.Skip(e)
		}
	}

	for _, p := range seen {
		require.NotEqual(t, filepath.Join(root, "pruned", "hidden.txt"), p)
	}
}

func TestDriverFollowsSymlinkOnDirective(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "target")
	mustMkdir(t, target)
	mustWriteFile(t, filepath.Join(target, "f.txt"))
	require.NoError(t, os.Symlink(target, filepath.Join(root, "link")))

	d := newDriver([]string{root}, true)

	var sawF bool
	for {
		e, err := d.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if e.Tag == tagSL {
			d.Follow(e)
		}
		if e.Tag == tagF && e.FullPath == filepath.Join(root, "link", "f.txt") {
			sawF = true
		}
	}
	require.True(t, sawF, "following the symlink directive should descend into its target")
}

func TestDriverCycleDetection(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	mustMkdir(t, sub)
	require.NoError(t, os.Symlink(root, filepath.Join(sub, "loop")))

	d := newDriver([]string{root}, true)

	var sawCycle bool
	for {
		e, err := d.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if e.Tag == tagSL {
			d.Follow(e)
		}
		if e.Tag == tagDC {
			sawCycle = true
		}
	}
	require.True(t, sawCycle)
}
