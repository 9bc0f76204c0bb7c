package glctx

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
)

// windowContext is the on-screen variant: the context belongs to a GLFW
// window. GLFW requires creation to happen on the main thread.
type windowContext struct {
	win *glfw.Window
}

func newWindowContext(cfg Config) (Context, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize GLFW")
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, "glctx", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "failed to create GLFW window")
	}
	win.MakeContextCurrent()
	if err := initGL(cfg.Width, cfg.Height); err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, err
	}
	return &windowContext{win: win}, nil
}

func (c *windowContext) MakeCurrent() error {
	if c.win == nil {
		return errors.New("window context already released")
	}
	c.win.MakeContextCurrent()
	return nil
}

func (c *windowContext) ReleaseCurrent() {
	glfw.DetachCurrentContext()
}

func (c *windowContext) Release() {
	if c.win != nil {
		c.win.Destroy()
		c.win = nil
	}
	glfw.Terminate()
}

func (c *windowContext) Info() (Info, error) {
	return currentInfo()
}
