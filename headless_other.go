//go:build !linux

package glctx

import (
	"runtime"

	"github.com/pkg/errors"
)

func newEGLContext(cfg Config) (Context, error) {
	return nil, errors.Errorf("EGL device contexts are only supported on linux, not %s", runtime.GOOS)
}

func newGLXContext(cfg Config) (Context, error) {
	return nil, errors.Errorf("GLX pbuffer contexts are only supported on linux, not %s", runtime.GOOS)
}
