//go:build darwin

package glctx

/*
#cgo LDFLAGS: -framework OpenGL

#include <OpenGL/OpenGL.h>
*/
import "C"
import "github.com/pkg/errors"

// cglContext is the native macOS headless variant. There is no surface and
// no device choice; rendering targets must be framebuffer objects.
type cglContext struct {
	ctx C.CGLContextObj
}

// cglErr converts a CGLError into a Go error, nil on kCGLNoError.
func cglErr(op string, code C.CGLError) error {
	if code == C.kCGLNoError {
		return nil
	}
	return errors.Errorf("%s failed: %s (CGL error %d)", op, C.GoString(C.CGLErrorString(code)), int(code))
}

func newCGLContext(cfg Config) (Context, error) {
	// Hardware-accelerated 3.2 core profile; no software rendering fallback.
	attribs := []C.CGLPixelFormatAttribute{
		C.kCGLPFAAccelerated,
		C.kCGLPFAOpenGLProfile, C.CGLPixelFormatAttribute(C.kCGLOGLPVersion_3_2_Core),
		0,
	}
	var pix C.CGLPixelFormatObj
	var num C.GLint
	if err := cglErr("CGLChoosePixelFormat", C.CGLChoosePixelFormat(&attribs[0], &pix, &num)); err != nil {
		return nil, err
	}
	c := &cglContext{}
	err := cglErr("CGLCreateContext", C.CGLCreateContext(pix, nil, &c.ctx))
	C.CGLDestroyPixelFormat(pix)
	if err != nil {
		return nil, err
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

func (c *cglContext) MakeCurrent() error {
	return cglErr("CGLSetCurrentContext", C.CGLSetCurrentContext(c.ctx))
}

func (c *cglContext) ReleaseCurrent() {
	C.CGLSetCurrentContext(nil)
}

func (c *cglContext) Release() {
	if c.ctx == nil {
		return
	}
	C.CGLSetCurrentContext(nil)
	C.CGLDestroyContext(c.ctx)
	c.ctx = nil
}

func (c *cglContext) Info() (Info, error) {
	return currentInfo()
}
