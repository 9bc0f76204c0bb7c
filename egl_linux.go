//go:build linux

package glctx

// Headless EGL contexts bound directly to a GPU, no display server involved.
// See https://developer.nvidia.com/blog/egl-eye-opengl-visualization-without-x-server/

/*
#cgo LDFLAGS: -lEGL

#include <stdlib.h>
#include <EGL/egl.h>
#include <EGL/eglext.h>

// The device enumeration entry points live behind EGL_EXT_device_enumeration
// and EGL_EXT_platform_device; they must be resolved at runtime.
static PFNEGLQUERYDEVICESEXTPROC glctx_queryDevicesEXT = NULL;
static PFNEGLGETPLATFORMDISPLAYEXTPROC glctx_getPlatformDisplayEXT = NULL;

static int glctx_egl_load_extensions() {
	glctx_queryDevicesEXT =
		(PFNEGLQUERYDEVICESEXTPROC)eglGetProcAddress("eglQueryDevicesEXT");
	glctx_getPlatformDisplayEXT =
		(PFNEGLGETPLATFORMDISPLAYEXTPROC)eglGetProcAddress("eglGetPlatformDisplayEXT");
	return glctx_queryDevicesEXT != NULL && glctx_getPlatformDisplayEXT != NULL;
}

static EGLBoolean glctx_egl_query_devices(EGLint max, EGLDeviceEXT *devices, EGLint *num) {
	return glctx_queryDevicesEXT(max, devices, num);
}

static EGLDisplay glctx_egl_device_display(EGLDeviceEXT device) {
	return glctx_getPlatformDisplayEXT(EGL_PLATFORM_DEVICE_EXT, device, NULL);
}
*/
import "C"
import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gorender/glctx/device"
)

// eglConfigAttribs asks for a pbuffer-capable RGB888 configuration with a
// 24-bit depth buffer, renderable with desktop OpenGL.
var eglConfigAttribs = []C.EGLint{
	C.EGL_SURFACE_TYPE, C.EGL_PBUFFER_BIT,
	C.EGL_BLUE_SIZE, 8,
	C.EGL_GREEN_SIZE, 8,
	C.EGL_RED_SIZE, 8,
	C.EGL_DEPTH_SIZE, 24,
	C.EGL_RENDERABLE_TYPE, C.EGL_OPENGL_BIT,
	C.EGL_NONE,
}

// eglContext is the headless Linux variant bound to one enumerated EGL
// device. It is bound surfaceless: rendering targets must be framebuffer
// objects.
type eglContext struct {
	disp C.EGLDisplay
	ctx  C.EGLContext
}

// eglErr converts the thread's last EGL error code into a Go error.
func eglErr(op string) error {
	code := C.eglGetError()
	if code == C.EGL_SUCCESS {
		return errors.Errorf("%s failed", op)
	}
	return errors.Errorf("%s failed: EGL error 0x%x", op, int(code))
}

// enumerateEGLDevices returns every device handle the EGL driver reports,
// accessible or not.
func enumerateEGLDevices() ([]C.EGLDeviceEXT, error) {
	var num C.EGLint
	if C.glctx_egl_query_devices(0, nil, &num) == C.EGL_FALSE {
		return nil, eglErr("eglQueryDevicesEXT")
	}
	if num == 0 {
		return nil, nil
	}
	devs := make([]C.EGLDeviceEXT, int(num))
	if C.glctx_egl_query_devices(num, &devs[0], &num) == C.EGL_FALSE {
		return nil, eglErr("eglQueryDevicesEXT")
	}
	return devs[:int(num)], nil
}

func newEGLContext(cfg Config) (Context, error) {
	if C.glctx_egl_load_extensions() == 0 {
		return nil, errors.New("failed to resolve eglQueryDevicesEXT/eglGetPlatformDisplayEXT: " +
			"the EGL driver does not support device enumeration")
	}
	devs, err := enumerateEGLDevices()
	if err != nil {
		return nil, err
	}

	// The enumeration order matches the driver's device numbering, so the
	// physical index from the selector indexes both the handle array and
	// the /dev/nvidiaX nodes the probe inspects.
	physical, err := device.Select(len(devs), cfg.Device, device.Default)
	if err != nil {
		return nil, err
	}

	disp := C.glctx_egl_device_display(devs[physical])
	if disp == C.EGLDisplay(C.EGL_NO_DISPLAY) {
		return nil, eglErr("eglGetPlatformDisplayEXT")
	}
	var major, minor C.EGLint
	if C.eglInitialize(disp, &major, &minor) == C.EGL_FALSE {
		return nil, eglErr("eglInitialize")
	}
	klog.V(1).Infof("EGL %d.%d initialized on physical device %d", int(major), int(minor), physical)
	c := &eglContext{disp: disp}

	var config C.EGLConfig
	var numConfigs C.EGLint
	if C.eglChooseConfig(disp, &eglConfigAttribs[0], &config, 1, &numConfigs) == C.EGL_FALSE {
		c.Release()
		return nil, eglErr("eglChooseConfig")
	}
	if numConfigs != 1 {
		c.Release()
		return nil, errors.New("no usable EGL framebuffer configuration: the driver may not support EGL")
	}
	if C.eglBindAPI(C.EGL_OPENGL_API) == C.EGL_FALSE {
		c.Release()
		return nil, eglErr("eglBindAPI")
	}
	c.ctx = C.eglCreateContext(disp, config, C.EGLContext(C.EGL_NO_CONTEXT), nil)
	if c.ctx == C.EGLContext(C.EGL_NO_CONTEXT) {
		c.Release()
		return nil, eglErr("eglCreateContext")
	}
	if err := c.MakeCurrent(); err != nil {
		c.Release()
		return nil, err
	}
	if err := initGL(cfg.Width, cfg.Height); err != nil {
		c.Release()
		return nil, err
	}
	return c, nil
}

// MakeCurrent binds the context without a surface (EGL_KHR_surfaceless_context).
func (c *eglContext) MakeCurrent() error {
	if C.eglMakeCurrent(c.disp,
		C.EGLSurface(C.EGL_NO_SURFACE), C.EGLSurface(C.EGL_NO_SURFACE), c.ctx) == C.EGL_FALSE {
		return eglErr("eglMakeCurrent")
	}
	return nil
}

func (c *eglContext) ReleaseCurrent() {
	C.eglMakeCurrent(c.disp,
		C.EGLSurface(C.EGL_NO_SURFACE), C.EGLSurface(C.EGL_NO_SURFACE), C.EGLContext(C.EGL_NO_CONTEXT))
}

func (c *eglContext) Release() {
	if c.disp == C.EGLDisplay(C.EGL_NO_DISPLAY) {
		return
	}
	c.ReleaseCurrent()
	if c.ctx != C.EGLContext(C.EGL_NO_CONTEXT) {
		C.eglDestroyContext(c.disp, c.ctx)
		c.ctx = C.EGLContext(C.EGL_NO_CONTEXT)
	}
	C.eglTerminate(c.disp)
	c.disp = C.EGLDisplay(C.EGL_NO_DISPLAY)
}

func (c *eglContext) Info() (Info, error) {
	return currentInfo()
}
