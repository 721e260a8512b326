// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package firejail

import (
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"
)

// LauncherName is the binary the spawner resolves when no explicit
// launcher path is configured via [Command.Launcher].
const LauncherName = "firejail"

// launcherLocations are checked, in order, when PATH lookup fails.
// Setuid installs commonly live here even when PATH is stripped.
var launcherLocations = []string{
	"/usr/bin/firejail",
	"/usr/local/bin/firejail",
	"/bin/firejail",
}

// LauncherPath locates the launcher binary: PATH first, then the
// standard system locations, requiring execute permission.
func LauncherPath() (string, error) {
	if path, err := exec.LookPath(LauncherName); err == nil {
		return path, nil
	}

	for _, path := range launcherLocations {
		if unix.Access(path, unix.X_OK) == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("%s not found in PATH or standard locations", LauncherName)
}

// Capability describes what launcher support is available on this
// system.
type Capability struct {
	// Available is true if the launcher binary was found.
	Available bool

	// Path is the launcher binary if available.
	Path string

	// Version is the launcher's reported version, e.g. "0.9.72".
	Version string
}

// DetectCapability probes the host for a usable launcher.
func DetectCapability() *Capability {
	c := &Capability{}

	path, err := LauncherPath()
	if err != nil {
		return c
	}
	c.Available = true
	c.Path = path

	// Get version.
	if out, err := exec.Command(path, "--version").Output(); err == nil {
		c.Version = parseLauncherVersion(string(out))
	}

	return c
}

// parseLauncherVersion extracts the version number from --version
// output. The first line reads "firejail version 0.9.72".
func parseLauncherVersion(out string) string {
	line, _, _ := strings.Cut(out, "\n")
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// SkipReason returns a human-readable reason why sandboxed execution
// isn't available, or empty string if it is available.
func (c *Capability) SkipReason() string {
	if !c.Available {
		return "firejail not installed"
	}
	return ""
}
