//go:build !linux

// mounts_other.go - local mount fallback for non-Linux platforms
//
// Licensing Terms: GPLv2
//
// Without a portable mount table API in the corpus's dependency set,
// non-Linux builds fall back to treating the root filesystem's device id
// as the only local one. This under-approximates "local" on hosts with
// multiple locally-attached disks, but it never misclassifies a genuinely
// remote mount as local.
package walk

import "syscall"

func localDevices() ([]uint64, error) {
	var st syscall.Stat_t
	if err := syscall.Stat("/", &st); err != nil {
		return nil, err
	}
	return []uint64{uint64(st.Dev)}, nil
}
