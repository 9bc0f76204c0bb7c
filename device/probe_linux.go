//go:build linux

package device

import (
	"fmt"

	"golang.org/x/sys/unix"
	"k8s.io/klog/v2"
)

// NvidiaReadable reports whether /dev/nvidia<physical> can be opened for
// reading. The driver keeps enumerating devices that a cgroup rule blocks,
// so attempting the open is the only reliable accessibility signal. The
// device node is closed immediately; nothing is read or written.
func NvidiaReadable(physical int) bool {
	dev := fmt.Sprintf("/dev/nvidia%d", physical)
	fd, err := unix.Open(dev, unix.O_RDONLY, 0)
	if err != nil {
		klog.V(1).Infof("%s is not readable: %v", dev, err)
		return false
	}
	_ = unix.Close(fd)
	return true
}

// Default is the accessibility probe context backends use when the caller
// supplies none.
var Default Probe = NvidiaReadable
