// Package player provides media engines for the native adapter.
// The primary implementation drives mpv through its JSON IPC interface.
package player

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/cinewatch/cinewatch/native"
)

// MPVName is the name of the mpv engine in configuration.
const MPVName = "mpv"

// Available lists the engine names New accepts.
func Available() []string {
	return []string{MPVName}
}

// New returns the engine with the given name.
func New(name string) (native.Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", MPVName:
		return NewMPV(), nil
	default:
		return nil, fmt.Errorf("unknown player %q, available: %s", name, strings.Join(Available(), ", "))
	}
}

// Installed reports whether the engine's executable is on PATH.
func Installed(name string) bool {
	if name == "" {
		name = MPVName
	}
	_, err := exec.LookPath(name)
	return err == nil
}
