//go:build !linux

package device

// Default is nil outside linux: there is no device-node convention to probe,
// so every enumerated device counts as accessible.
var Default Probe
