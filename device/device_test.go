package device

import (
	"testing"

	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

func init() {
	klog.InitFlags(nil)
}

// maskProbe builds a probe that accepts exactly the given physical indices
// and records every index it was asked about.
func maskProbe(accessible ...int) (Probe, *[]int) {
	calls := &[]int{}
	set := make(map[int]bool, len(accessible))
	for _, i := range accessible {
		set[i] = true
	}
	return func(physical int) bool {
		*calls = append(*calls, physical)
		return set[physical]
	}, calls
}

func TestSelectSingleDeviceSkipsProbe(t *testing.T) {
	probe, calls := maskProbe() // Accepts nothing: it must never be consulted.
	physical, err := Select(1, 0, probe)
	require.NoError(t, err)
	require.Equal(t, 0, physical)
	require.Empty(t, *calls, "probe must not run when there is only one device")
}

func TestSelectIdentityWhenAllAccessible(t *testing.T) {
	const total = 4
	probe, _ := maskProbe(0, 1, 2, 3)
	for logical := 0; logical < total; logical++ {
		physical, err := Select(total, logical, probe)
		require.NoError(t, err)
		require.Equal(t, logical, physical, "selection must be the identity when nothing is filtered")
	}
}

func TestSelectRemapsFilteredDevices(t *testing.T) {
	// Four enumerated devices, the cgroup lets us open only 1 and 3.
	probe, _ := maskProbe(1, 3)

	physical, err := Select(4, 0, probe)
	require.NoError(t, err)
	require.Equal(t, 1, physical)

	physical, err = Select(4, 1, probe)
	require.NoError(t, err)
	require.Equal(t, 3, physical)

	_, err = Select(4, 2, probe)
	require.ErrorIs(t, err, ErrOutOfRange)
	require.ErrorContains(t, err, "requested device 2 but only 2 devices are visible")
}

func TestSelectNoDevices(t *testing.T) {
	for _, logical := range []int{0, 1, 7} {
		_, err := Select(0, logical, nil)
		require.ErrorIs(t, err, ErrNoDevice)
	}
}

func TestSelectNegativeIndex(t *testing.T) {
	_, err := Select(2, -1, nil)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestSelectNeverClampsOrWraps(t *testing.T) {
	probe, _ := maskProbe(0, 1, 2)
	for _, logical := range []int{3, 4, 100} {
		_, err := Select(3, logical, probe)
		require.ErrorIs(t, err, ErrOutOfRange, "logical index %d must not be clamped to a valid device", logical)
	}
}

func TestVisiblePreservesEnumerationOrder(t *testing.T) {
	probe, _ := maskProbe(0, 2, 4)
	require.Equal(t, []int{0, 2, 4}, Visible(6, probe))
}

func TestVisibleNilProbeAcceptsAll(t *testing.T) {
	require.Equal(t, []int{0, 1, 2}, Visible(3, nil))
}

func TestSelectReturnsEnumeratedDevice(t *testing.T) {
	// Whatever the filtering, the result must be one of the enumerated indices.
	masks := [][]int{
		{0}, {5}, {0, 1, 2, 3, 4, 5}, {1, 3, 5}, {2}, {0, 5},
	}
	const total = 6
	for _, mask := range masks {
		probe, _ := maskProbe(mask...)
		for logical := 0; logical < len(mask); logical++ {
			physical, err := Select(total, logical, probe)
			require.NoError(t, err)
			require.GreaterOrEqual(t, physical, 0)
			require.Less(t, physical, total)
			require.Equal(t, mask[logical], physical)
		}
	}
}

func BenchmarkSelect(b *testing.B) {
	probe := func(physical int) bool { return physical%2 == 1 }
	for i := 0; i < b.N; i++ {
		_, _ = Select(16, 3, probe)
	}
}
