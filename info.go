package glctx

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Info holds the diagnostic strings the driver reports for a context.
type Info struct {
	Version     string // OpenGL version string.
	GLSLVersion string // Shading language version.
	Vendor      string // Driver vendor.
	Renderer    string // Device the context renders on.
}

// String renders the info as a banner block suitable for logs.
func (i Info) String() string {
	var b strings.Builder
	b.WriteString("----------- OpenGL Context Info --------------\n")
	fmt.Fprintf(&b, "GL Version: %s\n", i.Version)
	fmt.Fprintf(&b, "GLSL Version: %s\n", i.GLSLVersion)
	fmt.Fprintf(&b, "Vendor: %s\n", i.Vendor)
	fmt.Fprintf(&b, "Renderer: %s\n", i.Renderer)
	b.WriteString("----------------------------------------------")
	return b.String()
}

// initGL loads the OpenGL function pointers and sets the viewport to the
// configured drawable size. Every backend calls this once, with the freshly
// created context current on the calling thread.
func initGL(width, height int) error {
	if err := gl.Init(); err != nil {
		return errors.Wrap(err, "failed to load OpenGL functions")
	}
	gl.Viewport(0, 0, int32(width), int32(height))
	return nil
}

// currentInfo reads the diagnostic strings of whatever context is current on
// the calling thread.
func currentInfo() (Info, error) {
	version := gl.GetString(gl.VERSION)
	if version == nil {
		return Info{}, errors.New("no OpenGL context is current on this thread")
	}
	info := Info{
		Version:     gl.GoStr(version),
		GLSLVersion: gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
		Vendor:      gl.GoStr(gl.GetString(gl.VENDOR)),
		Renderer:    gl.GoStr(gl.GetString(gl.RENDERER)),
	}
	klog.V(1).Infof("Current OpenGL context: %s on %s (%s)", info.Version, info.Renderer, info.Vendor)
	return info, nil
}
