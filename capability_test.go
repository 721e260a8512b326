// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package firejail

import "testing"

func TestParseLauncherVersion(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want string
	}{
		{"plain", "firejail version 0.9.72\n", "0.9.72"},
		{"rev suffix", "firejail version 0.9.74rc1\n\nCompile options: apparmor\n", "0.9.74rc1"},
		{"no newline", "firejail version 0.9.72", "0.9.72"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseLauncherVersion(tt.out); got != tt.want {
				t.Errorf("parseLauncherVersion(%q) = %q, want %q", tt.out, got, tt.want)
			}
		})
	}
}

func TestDetectCapability(t *testing.T) {
	c := DetectCapability()

	t.Logf("Available: %v", c.Available)
	t.Logf("Path: %s", c.Path)
	t.Logf("Version: %s", c.Version)
	t.Logf("SkipReason: %q", c.SkipReason())

	if c.Available && c.Path == "" {
		t.Error("available launcher must carry a path")
	}
	if !c.Available && c.SkipReason() == "" {
		t.Error("unavailable launcher must carry a skip reason")
	}
}
