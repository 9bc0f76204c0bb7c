package glctx

import (
	"flag"
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

var flagBackend = flag.String("backend", "", "force a backend for the context test: window, egl, glx or cgl")

func init() {
	klog.InitFlags(nil)
}

func TestConfigValidation(t *testing.T) {
	for _, cfg := range []Config{
		{Backend: EGLDevice, Width: 0, Height: 64},
		{Backend: EGLDevice, Width: 64, Height: 0},
		{Backend: EGLDevice, Width: -1, Height: -1},
		{Backend: EGLDevice, Device: -1, Width: 64, Height: 64},
	} {
		_, err := New(cfg)
		require.Errorf(t, err, "config %+v must be rejected", cfg)
	}

	_, err := New(Config{Backend: Backend(42), Width: 64, Height: 64})
	require.ErrorContains(t, err, "unknown backend")
}

func TestBackendNames(t *testing.T) {
	for _, b := range []Backend{Window, EGLDevice, GLXPbuffer, CGL} {
		parsed, err := ParseBackend(b.String())
		require.NoError(t, err)
		require.Equal(t, b, parsed)
	}

	_, err := ParseBackend("metal")
	require.Error(t, err)
	require.Equal(t, "invalid", Backend(42).String())
}

func TestDefaultHeadless(t *testing.T) {
	if runtime.GOOS == "darwin" {
		require.Equal(t, CGL, DefaultHeadless())
	} else {
		require.Equal(t, EGLDevice, DefaultHeadless())
	}
}

// TestHeadlessContext exercises a real context when the machine has a GPU and
// a driver; it skips otherwise. Run with -backend to force a given variant.
func TestHeadlessContext(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	cfg := Config{Backend: DefaultHeadless(), Width: 64, Height: 64}
	if *flagBackend != "" {
		var err error
		cfg.Backend, err = ParseBackend(*flagBackend)
		require.NoError(t, err)
	}

	ctx, err := New(cfg)
	if err != nil {
		t.Skipf("no %s context available on this machine: %v", cfg.Backend, err)
	}
	defer ctx.Release()

	info, err := ctx.Info()
	require.NoError(t, err)
	require.NotEmpty(t, info.Version)
	require.NotEmpty(t, info.Renderer)
	fmt.Printf("%s\n", info)

	// Rebind after an explicit unbind; the context must survive.
	ctx.ReleaseCurrent()
	require.NoError(t, ctx.MakeCurrent())
	_, err = ctx.Info()
	require.NoError(t, err)
}
