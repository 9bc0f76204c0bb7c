//go:build linux

package glctx

// Headless GLX contexts backed by a pixel-buffer. Unlike the EGL backend this
// needs a running X server, but it works on drivers without the EGL device
// extensions.

/*
#cgo LDFLAGS: -lX11 -lGL

#include <stdlib.h>
#include <X11/Xlib.h>
#include <GL/glx.h>

// DefaultScreen is a macro, so it cannot be called from Go directly.
static int glctx_default_screen(Display *dpy) {
	return DefaultScreen(dpy);
}

// glXCreateContextAttribsARB only exists on servers with
// GLX_ARB_create_context and must be fetched at runtime.
typedef GLXContext (*glctxCreateContextAttribsARBProc)(Display*, GLXFBConfig, GLXContext, Bool, const int*);

static GLXContext glctx_glx_create_context(Display *dpy, GLXFBConfig config, const int *attribs) {
	glctxCreateContextAttribsARBProc create = (glctxCreateContextAttribsARBProc)
		glXGetProcAddressARB((const GLubyte *)"glXCreateContextAttribsARB");
	if (create == NULL) {
		return NULL;
	}
	return create(dpy, config, 0, True, attribs);
}
*/
import "C"
import (
	"unsafe"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// glxContextAttribs requests a 3.3 core profile debug context, same as the
// headless EGL path ends up with.
var glxContextAttribs = []C.int{
	C.GLX_CONTEXT_MAJOR_VERSION_ARB, 3,
	C.GLX_CONTEXT_MINOR_VERSION_ARB, 3,
	C.GLX_CONTEXT_FLAGS_ARB, C.GLX_CONTEXT_DEBUG_BIT_ARB,
	C.GLX_CONTEXT_PROFILE_MASK_ARB, C.GLX_CONTEXT_CORE_PROFILE_BIT_ARB,
	C.None,
}

type glxContext struct {
	dpy     *C.Display
	ctx     C.GLXContext
	pbuffer C.GLXPbuffer
}

func newGLXContext(cfg Config) (Context, error) {
	dpy := C.XOpenDisplay(nil)
	if dpy == nil {
		return nil, errors.New("cannot connect to the X display: is DISPLAY set?")
	}

	visualAttribs := []C.int{C.None}
	var numConfigs C.int
	fbcs := C.glXChooseFBConfig(dpy, C.glctx_default_screen(dpy), &visualAttribs[0], &numConfigs)
	if fbcs == nil || numConfigs == 0 {
		C.XCloseDisplay(dpy)
		return nil, errors.New("no GLX framebuffer configurations available")
	}
	fbc := *fbcs // First configuration, any will do for FBO-only rendering.

	ctx := C.glctx_glx_create_context(dpy, fbc, &glxContextAttribs[0])
	if ctx == nil {
		C.XFree(unsafe.Pointer(fbcs))
		C.XCloseDisplay(dpy)
		return nil, errors.New("glXCreateContextAttribsARB failed: GLX_ARB_create_context may be unsupported")
	}

	pbufferAttribs := []C.int{
		C.GLX_PBUFFER_WIDTH, C.int(cfg.Width),
		C.GLX_PBUFFER_HEIGHT, C.int(cfg.Height),
		C.None,
	}
	pbuffer := C.glXCreatePbuffer(dpy, fbc, &pbufferAttribs[0])
	C.XFree(unsafe.Pointer(fbcs))
	C.XSync(dpy, C.False)

	c := &glxContext{dpy: dpy, ctx: ctx, pbuffer: pbuffer}
	if err := c.MakeCurrent(); err != nil {
		c.Release()
		return nil, err
	}
	if err := initGL(cfg.Width, cfg.Height); err != nil {
		c.Release()
		return nil, err
	}
	klog.V(1).Infof("GLX pbuffer context created (%dx%d)", cfg.Width, cfg.Height)
	return c, nil
}

func (c *glxContext) MakeCurrent() error {
	if C.glXMakeContextCurrent(c.dpy, C.GLXDrawable(c.pbuffer), C.GLXDrawable(c.pbuffer), c.ctx) == 0 {
		return errors.New("failed to make the GLX context current")
	}
	return nil
}

func (c *glxContext) ReleaseCurrent() {
	C.glXMakeContextCurrent(c.dpy, 0, 0, nil)
}

func (c *glxContext) Release() {
	if c.dpy == nil {
		return
	}
	c.ReleaseCurrent()
	C.glXDestroyContext(c.dpy, c.ctx)
	C.glXDestroyPbuffer(c.dpy, c.pbuffer)
	C.XCloseDisplay(c.dpy)
	c.dpy = nil
}

func (c *glxContext) Info() (Info, error) {
	return currentInfo()
}
