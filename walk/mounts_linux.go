//go:build linux

// mounts_linux.go - local mount enumeration via /proc/self/mounts
//
// Licensing Terms: GPLv2

package walk

import (
	"bufio"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// networkFstypes lists filesystem types oval_fts's local-filesystem check
// excludes, because a device id on one of these does not identify a
// locally-attached disk the way it does for ext4/xfs/btrfs/etc.
var networkFstypes = map[string]bool{
	"nfs":        true,
	"nfs4":       true,
	"cifs":       true,
	"smbfs":      true,
	"afs":        true,
	"autofs":     true,
	"proc":       true,
	"sysfs":      true,
	"devpts":     true,
	"devtmpfs":   true,
	"tmpfs":      true, // no backing block device, not a local disk
	"cgroup":     true,
	"cgroup2":    true,
	"debugfs":    true,
	"tracefs":    true,
	"securityfs": true,
	"fuse.sshfs": true,
	"9p":         true,
}

func localDevices() ([]uint64, error) {
	f, err := os.Open("/proc/self/mounts")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	seen := make(map[uint64]bool)
	var devs []uint64

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := splitMountLine(sc.Text())
		if len(fields) < 3 {
			continue
		}
		mountpoint, fstype := unescapeMountField(fields[1]), fields[2]
		if networkFstypes[fstype] {
			continue
		}

		var st unix.Stat_t
		if err := unix.Stat(mountpoint, &st); err != nil {
			continue
		}
		id := uint64(st.Dev)
		if !seen[id] {
			seen[id] = true
			devs = append(devs, id)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return devs, nil
}

func splitMountLine(line string) []string {
	var fields []string
	start := -1
	for i, r := range line {
		if r == ' ' || r == '\t' {
			if start >= 0 {
				fields = append(fields, line[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		fields = append(fields, line[start:])
	}
	return fields
}

// unescapeMountField undoes the kernel's octal escaping of whitespace and
// backslash in /proc/self/mounts fields (\040 space, \011 tab, \012
// newline, \134 backslash), so a mountpoint containing those bytes stats
// the path the kernel actually mounted rather than a truncated prefix.
func unescapeMountField(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) {
			if c, ok := octalEscape(s[i+1 : i+4]); ok {
				b.WriteByte(c)
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// octalEscape decodes a 3-digit octal escape as used by the kernel's mount
// table fields. Only the four sequences the kernel actually emits are
// recognized; anything else is left alone.
func octalEscape(digits string) (byte, bool) {
	switch digits {
	case "040":
		return ' ', true
	case "011":
		return '\t', true
	case "012":
		return '\n', true
	case "134":
		return '\\', true
	}
	return 0, false
}
