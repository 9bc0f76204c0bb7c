//go:build !darwin

package glctx

import (
	"runtime"

	"github.com/pkg/errors"
)

func newCGLContext(cfg Config) (Context, error) {
	return nil, errors.Errorf("CGL contexts are only supported on darwin, not %s", runtime.GOOS)
}
