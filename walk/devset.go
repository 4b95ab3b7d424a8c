// devset.go - the set of device ids that make up the local filesystem
//
// Licensing Terms: GPLv2

package walk

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sys/unix"
)

// DeviceSet is the set of device ids the walker treats as "local" when a
// behaviors record asks for recurse_file_system=local. It is safe for
// concurrent reads from multiple Walker handles built against the same
// instance, mirroring the concurrency guarantee opencoff/go-fio gives its
// own xsync-backed maps even though a single Walker itself is not meant
// to be shared across goroutines.
type DeviceSet struct {
	ids *xsync.MapOf[uint64, struct{}]
}

// NewDeviceSet enumerates the local, non-network mount points of the host
// and returns the set of their device ids.
func NewDeviceSet() (*DeviceSet, error) {
	devs, err := localDevices()
	if err != nil {
		return nil, err
	}

	ds := &DeviceSet{ids: xsync.NewMapOf[uint64, struct{}]()}
	for _, d := range devs {
		ds.ids.Store(d, struct{}{})
	}
	return ds, nil
}

// ContainsID reports whether id belongs to a local device.
func (d *DeviceSet) ContainsID(id uint64) bool {
	_, ok := d.ids.Load(id)
	return ok
}

// ContainsPath stats path and reports whether the device it resides on is
// local.
func (d *DeviceSet) ContainsPath(path string) (bool, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return false, fmt.Errorf("devset: stat %s: %w", path, err)
	}
	return d.ContainsID(uint64(st.Dev)), nil
}

// Close releases any resources held by the set. There are none today; it
// exists so callers have a single, stable release point if that changes.
func (d *DeviceSet) Close() error {
	return nil
}
