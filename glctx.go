// Package glctx creates and tears down OpenGL rendering contexts: on-screen
// through a GLFW window, or headless through one of the platform off-screen
// APIs (EGL device contexts and GLX pixel-buffers on Linux, CGL on macOS).
//
// A context is thread-affine platform state. The goroutine that creates a
// Context must be locked to its OS thread (runtime.LockOSThread) and every
// later call on the Context must come from that same thread. There is no
// locking around the platform's current-context slot: concurrently binding
// contexts from multiple threads is the caller's problem to avoid.
//
// On Linux the headless EGL backend selects the GPU by logical index: devices
// the process cannot open (blocked by a cgroup device rule, typically) are
// filtered out before the index is applied. See the device package.
package glctx

import (
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// Backend selects how the OpenGL context is obtained.
type Backend int

const (
	// Window creates an on-screen GLFW window and uses its context.
	Window Backend = iota
	// EGLDevice creates a headless context bound directly to a GPU
	// enumerated through the EGL device extensions. Linux only; works
	// without any display server.
	EGLDevice
	// GLXPbuffer creates a headless context backed by a GLX pixel-buffer.
	// Linux only; requires a running X server.
	GLXPbuffer
	// CGL creates a headless context with the native macOS context API.
	CGL
)

// String returns the name ParseBackend accepts for b.
func (b Backend) String() string {
	switch b {
	case Window:
		return "window"
	case EGLDevice:
		return "egl"
	case GLXPbuffer:
		return "glx"
	case CGL:
		return "cgl"
	}
	return "invalid"
}

// ParseBackend converts a backend name to a Backend value.
func ParseBackend(name string) (Backend, error) {
	switch strings.ToLower(name) {
	case "window":
		return Window, nil
	case "egl":
		return EGLDevice, nil
	case "glx":
		return GLXPbuffer, nil
	case "cgl":
		return CGL, nil
	}
	return 0, errors.Errorf("unknown backend %q, want one of window, egl, glx or cgl", name)
}

// DefaultHeadless returns the headless backend native to the build OS:
// EGLDevice on Linux, CGL on macOS.
func DefaultHeadless() Backend {
	if runtime.GOOS == "darwin" {
		return CGL
	}
	return EGLDevice
}

// Config carries the inputs for context creation. All fields are plain
// configuration supplied by the embedding application.
type Config struct {
	// Backend selects the context variant. The zero value is Window.
	Backend Backend

	// Device is the logical index of the GPU to bind, 0-based and counted
	// over the devices this process can actually access. Only the
	// EGLDevice backend uses it; the other backends have no device choice.
	Device int

	// Width and Height give the drawable size in pixels: the window size
	// for the Window backend, the pixel-buffer size for GLXPbuffer, and
	// the initial viewport for the surfaceless backends. Both must be
	// positive.
	Width, Height int
}

func (cfg Config) validate() error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return errors.Errorf("drawable size must be positive, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Device < 0 {
		return errors.Errorf("device index must be non-negative, got %d", cfg.Device)
	}
	return nil
}

// Context is an acquired OpenGL context. Implementations are not safe for
// concurrent use; see the package comment for the threading rules.
type Context interface {
	// MakeCurrent binds the context to the calling thread. New returns
	// the context already current, so this is only needed after
	// ReleaseCurrent or when reusing the context from another (locked)
	// thread.
	MakeCurrent() error

	// ReleaseCurrent unbinds the context from the calling thread without
	// destroying it.
	ReleaseCurrent()

	// Release unbinds and destroys the context and every platform handle
	// behind it. The Context is invalid afterwards.
	Release()

	// Info reads the driver's diagnostic strings. The context must be
	// current on the calling thread.
	Info() (Info, error)
}

// New creates an OpenGL context and makes it current on the calling thread.
//
// Every failure aborts creation: enumeration failures, an absent or
// inaccessible device, and platform context-creation errors all surface as a
// descriptive error with nothing left to release. Callers that want fallback
// behavior (say, trying the next device index) re-invoke New with a changed
// Config.
func New(cfg Config) (Context, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case Window:
		return newWindowContext(cfg)
	case EGLDevice:
		return newEGLContext(cfg)
	case GLXPbuffer:
		return newGLXContext(cfg)
	case CGL:
		return newCGLContext(cfg)
	}
	return nil, errors.Errorf("unknown backend %d", int(cfg.Backend))
}
