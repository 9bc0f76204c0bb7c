// glinfo creates an OpenGL context (headless by default) and prints the
// diagnostic information the driver reports. Run with -v=1 to also see the
// device selection decisions.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"

	"github.com/gorender/glctx"
)

var (
	flagBackend = flag.String("backend", "", "context backend: window, egl, glx or cgl; defaults to the native headless backend")
	flagDevice  = flag.Int("device", 0, "logical index of the GPU to use (egl backend only)")
	flagWidth   = flag.Int("width", 64, "drawable width in pixels")
	flagHeight  = flag.Int("height", 64, "drawable height in pixels")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `glinfo creates an OpenGL context and prints the GL version, GLSL version,
vendor and renderer reported by the driver. By default it uses the headless
backend native to this OS; on multi-GPU Linux machines -device selects which
accessible GPU to bind.

Usage:
`)
		flag.PrintDefaults()
	}
	klog.InitFlags(flag.CommandLine)
	flag.Parse()

	// The created context is bound to this thread.
	runtime.LockOSThread()

	cfg := glctx.Config{
		Backend: glctx.DefaultHeadless(),
		Device:  *flagDevice,
		Width:   *flagWidth,
		Height:  *flagHeight,
	}
	if *flagBackend != "" {
		cfg.Backend = must.M1(glctx.ParseBackend(*flagBackend))
	}

	ctx := must.M1(glctx.New(cfg))
	defer ctx.Release()
	fmt.Println(must.M1(ctx.Info()))
}
