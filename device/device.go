// Package device maps a caller-requested logical GPU index to a physical
// device index when the environment hides some of the enumerated devices from
// the process.
//
// GPU drivers enumerate every device installed in the machine, but a cgroup
// device rule (the usual container setup) can block the process from opening
// some of them. A caller that was given "GPU 0" expects the first device it
// can actually use, not the first device the driver happens to report.
// Select performs that indirection: it filters the enumerated devices through
// an accessibility probe and resolves the logical index against the filtered
// list.
package device

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	// ErrNoDevice is returned by Select when platform enumeration reported
	// zero devices.
	ErrNoDevice = errors.New("no accelerator device found")

	// ErrOutOfRange is returned by Select when the logical index does not
	// fall inside the visible device list. Match with errors.Is.
	ErrOutOfRange = errors.New("device index out of range")
)

// Probe reports whether the process can actually use the physical device with
// the given enumeration index. A nil Probe treats every device as usable.
//
// Probes must not mutate device state; opening a control handle read-only and
// closing it again is the expected implementation.
type Probe func(physical int) bool

// Visible returns the enumeration indices of the devices the process can use,
// in enumeration order.
//
// With a single enumerated device the probe is skipped: there is no
// alternative to pick, and hiding the only device from a process is not a
// configuration worth guessing about.
func Visible(total int, probe Probe) []int {
	if total == 1 {
		return []int{0}
	}
	visible := make([]int, 0, total)
	for i := 0; i < total; i++ {
		if probe == nil || probe(i) {
			visible = append(visible, i)
		}
	}
	return visible
}

// Select resolves a logical device index to a physical enumeration index,
// given the total number of devices reported by platform enumeration and an
// accessibility probe.
//
// The visible list is rebuilt on every call: accessibility can change between
// context creations, and the list is cheap to recompute.
//
// It fails with ErrNoDevice when total is zero and with ErrOutOfRange when
// logical is negative or not covered by the visible devices. It never clamps
// or wraps the index; callers that want fallback behavior must re-invoke
// Select with a different logical index.
func Select(total, logical int, probe Probe) (physical int, err error) {
	if total <= 0 {
		return -1, errors.WithStack(ErrNoDevice)
	}
	if logical < 0 {
		return -1, errors.Wrapf(ErrOutOfRange, "device index must be non-negative, got %d", logical)
	}
	visible := Visible(total, probe)
	if logical >= len(visible) {
		return -1, errors.Wrapf(ErrOutOfRange, "requested device %d but only %d devices are visible", logical, len(visible))
	}
	if len(visible) == total {
		klog.Infof("Detected %d devices. Using device %d", total, logical)
		return logical, nil
	}
	physical = visible[logical]
	klog.Infof("%d out of %d devices are accessible. Using device %d whose physical id is %d.",
		len(visible), total, logical, physical)
	return physical, nil
}
