// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package preset

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/bureau-foundation/firejail"
)

func TestParsePresetsConfig(t *testing.T) {
	config, err := ParsePresetsConfig([]byte(`
presets:
  locked:
    description: "Locked down"
    switches:
      - nonewprivs
      - noroot
    caps_drop_all: true
    net: none
    timeout: 90s
    binds:
      - source: /var/data
        target: /data
    env:
      MODE: batch
`))
	if err != nil {
		t.Fatalf("ParsePresetsConfig failed: %v", err)
	}

	preset, ok := config.Presets["locked"]
	if !ok {
		t.Fatal("preset locked not found")
	}
	if preset.Name != "locked" {
		t.Errorf("expected name from map key, got %q", preset.Name)
	}
	if !preset.CapsDropAll {
		t.Error("expected caps_drop_all")
	}
	if want := []string{"nonewprivs", "noroot"}; !slices.Equal(preset.Switches, want) {
		t.Errorf("switches = %v, want %v", preset.Switches, want)
	}
	if preset.Net != "none" {
		t.Errorf("net = %q, want none", preset.Net)
	}
	if preset.Timeout != "90s" {
		t.Errorf("timeout = %q, want 90s", preset.Timeout)
	}
	if len(preset.Binds) != 1 || preset.Binds[0] != (Bind{Source: "/var/data", Target: "/data"}) {
		t.Errorf("binds = %v", preset.Binds)
	}
	if preset.Env["MODE"] != "batch" {
		t.Errorf("env MODE = %q, want batch", preset.Env["MODE"])
	}
}

func TestParsePresetsConfigJSON(t *testing.T) {
	config, err := ParsePresetsConfigJSON([]byte(`{
	// Browser-style preset with comments and trailing commas.
	"presets": {
		"browser": {
			"description": "Browser sandbox",
			"switches": ["nonewprivs", "private-tmp"],
			"x11": "xephyr", /* nested server */
		},
	},
}`))
	if err != nil {
		t.Fatalf("ParsePresetsConfigJSON failed: %v", err)
	}

	preset, ok := config.Presets["browser"]
	if !ok {
		t.Fatal("preset browser not found")
	}
	if preset.Name != "browser" {
		t.Errorf("expected name from map key, got %q", preset.Name)
	}
	if want := []string{"nonewprivs", "private-tmp"}; !slices.Equal(preset.Switches, want) {
		t.Errorf("switches = %v, want %v", preset.Switches, want)
	}
	if preset.X11 != X11ModeXephyr {
		t.Errorf("x11 = %q, want xephyr", preset.X11)
	}
}

func TestParsePresetsConfigEmptyBody(t *testing.T) {
	config, err := ParsePresetsConfig([]byte("presets:\n  bare:\n"))
	if err != nil {
		t.Fatalf("ParsePresetsConfig failed: %v", err)
	}

	preset, ok := config.Presets["bare"]
	if !ok || preset == nil {
		t.Fatal("expected empty preset, got nil")
	}
	if preset.Name != "bare" {
		t.Errorf("expected name from map key, got %q", preset.Name)
	}
	if err := preset.Validate(); err != nil {
		t.Errorf("empty preset should validate: %v", err)
	}
}

func TestPresetApply(t *testing.T) {
	preset := &Preset{
		Name:      "locked",
		Switches:  []string{"nonewprivs", "noroot"},
		CapsKeep:  []string{"net_bind_service"},
		Seccomp:   true,
		Net:       "none",
		Shell:     "none",
		JailName:  "locked",
		Timeout:   "1h2m3s",
		Protocols: []string{"unix", "inet"},
		ReadOnly:  []string{"/srv"},
	}

	c := firejail.New("/usr/bin/env")
	if err := preset.Apply(c); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	want := []string{
		"firejail",
		"--quiet",
		"--caps",
		"--nonewprivs",
		"--noroot",
		"--caps.keep=net_bind_service",
		"--seccomp",
		"--net=none",
		"--shell=none",
		"--name=locked",
		"--timeout=01:02:03",
		"--protocol=unix,inet",
		"--read-only=/srv",
		"--",
		"/usr/bin/env",
	}
	if got := c.ArgVector(); !slices.Equal(got, want) {
		t.Errorf("ArgVector() = %v, want %v", got, want)
	}
}

func TestPresetApplyImpliesCaps(t *testing.T) {
	preset := &Preset{Name: "caps-only", CapsDropAll: true}

	c := firejail.New("/bin/true")
	if err := preset.Apply(c); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	want := []string{"firejail", "--quiet", "--caps", "--caps.drop=all", "--", "/bin/true"}
	if got := c.ArgVector(); !slices.Equal(got, want) {
		t.Errorf("ArgVector() = %v, want %v", got, want)
	}
}

func TestPresetApplyMatchesBuilder(t *testing.T) {
	preset := &Preset{
		Name:     "paired",
		Switches: []string{"apparmor", "private-dev"},
		Seccomp:  true,
		Net:      "eth0",
		IP:       "10.10.4.88",
		DNS:      []string{"9.9.9.9"},
		Private:  true,
	}

	fromPreset := firejail.New("/usr/bin/env")
	if err := preset.Apply(fromPreset); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	fromBuilder := firejail.New("/usr/bin/env").
		AppArmor().
		PrivateDev().
		Seccomp(firejail.SeccompFilter()).
		Net(firejail.NetInterface("eth0")).
		IP(firejail.IPAddress("10.10.4.88")).
		DNS("9.9.9.9").
		Private(firejail.PrivateHome())

	if got, want := fromPreset.ArgVector(), fromBuilder.ArgVector(); !slices.Equal(got, want) {
		t.Errorf("preset vector %v != builder vector %v", got, want)
	}
}

func TestPresetApplyEnvironment(t *testing.T) {
	preset := &Preset{
		Name:     "scrubbed",
		ClearEnv: true,
		Env:      map[string]string{"ONLY": "1"},
	}

	c := firejail.New("/usr/bin/env").Launcher("/bin/true")
	if err := preset.Apply(c); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	cmd, err := c.Cmd(context.Background())
	if err != nil {
		t.Fatalf("Cmd failed: %v", err)
	}
	if want := []string{"ONLY=1"}; !slices.Equal(cmd.Env, want) {
		t.Errorf("cmd.Env = %v, want %v", cmd.Env, want)
	}
}

func TestPresetApplyInvalidLeavesCommandUntouched(t *testing.T) {
	preset := &Preset{
		Name:        "broken",
		Seccomp:     true,
		SeccompDrop: []string{"clone"},
	}

	c := firejail.New("/bin/true")
	if err := preset.Apply(c); err == nil {
		t.Fatal("expected Apply to fail validation")
	}

	want := []string{"firejail", "--quiet", "--", "/bin/true"}
	if got := c.ArgVector(); !slices.Equal(got, want) {
		t.Errorf("ArgVector() = %v, want %v", got, want)
	}
}

func TestPresetValidate(t *testing.T) {
	tests := []struct {
		name    string
		preset  Preset
		wantErr string
	}{
		{"unknown switch", Preset{Switches: []string{"defragment"}}, "unknown switch"},
		{"caps conflict", Preset{CapsDropAll: true, CapsKeep: []string{"chown"}}, "caps_drop_all conflicts"},
		{"seccomp conflict", Preset{Seccomp: true, SeccompDrop: []string{"clone"}}, "mutually exclusive"},
		{"join conflict", Preset{Join: "jail", JoinNetwork: "jail"}, "mutually exclusive"},
		{"overlay conflict", Preset{Overlay: "root", OverlayNamed: "work"}, "overlay conflicts"},
		{"overlay mode", Preset{Overlay: "sideways"}, "invalid overlay mode"},
		{"private conflict", Preset{Private: true, PrivateDir: "/srv/home"}, "private conflicts"},
		{"private lists", Preset{PrivateBin: []string{"sh"}, PrivateEtc: []string{"hosts"}}, "mutually exclusive"},
		{"x11 mode", Preset{X11: "wayland"}, "invalid x11 mode"},
		{"bind target", Preset{Binds: []Bind{{Source: "/var/data"}}}, "target is required"},
		{"negative mtu", Preset{MTU: -1}, "mtu must be"},
		{"bad timeout", Preset{Timeout: "ten minutes"}, "invalid timeout"},
		{"negative timeout", Preset{Timeout: "-30s"}, "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.preset.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestPresetValidateOK(t *testing.T) {
	empty := &Preset{}
	if err := empty.Validate(); err != nil {
		t.Errorf("empty preset should validate: %v", err)
	}

	full := &Preset{
		Name:      "full",
		Switches:  []string{"caps", "nonewprivs", "private-tmp"},
		CapsKeep:  []string{"chown", "fowner"},
		Seccomp:   true,
		Net:       "eth0",
		IP:        "10.10.4.88",
		Netfilter: "default",
		Overlay:   OverlayModeTmpfs,
		Private:   true,
		Shell:     "none",
		X11:       X11ModeXvfb,
		Timeout:   "45m",
		Binds:     []Bind{{Source: "/var/data", Target: "/data"}},
	}
	if err := full.Validate(); err != nil {
		t.Errorf("full preset should validate: %v", err)
	}
}

func TestMergePresets(t *testing.T) {
	parent := &Preset{
		Name:        "parent",
		Description: "Parent",
		Switches:    []string{"nonewprivs", "noroot"},
		CapsDropAll: true,
		Net:         "none",
		ReadOnly:    []string{"/srv"},
		Env:         map[string]string{"A": "1", "B": "1"},
	}
	child := &Preset{
		Name:     "child",
		Inherit:  "parent",
		Switches: []string{"noroot", "private-tmp"},
		CapsKeep: []string{"chown"},
		ReadOnly: []string{"/opt"},
		Env:      map[string]string{"B": "2", "C": "3"},
	}

	merged := MergePresets(parent, child)

	if merged.Name != "child" {
		t.Errorf("name = %q, want child", merged.Name)
	}
	if merged.Inherit != "" {
		t.Errorf("inherit = %q, want empty", merged.Inherit)
	}
	if merged.Description != "Parent" {
		t.Errorf("description = %q, want Parent", merged.Description)
	}

	// Switches union, parent order first.
	if want := []string{"nonewprivs", "noroot", "private-tmp"}; !slices.Equal(merged.Switches, want) {
		t.Errorf("switches = %v, want %v", merged.Switches, want)
	}

	// The child's caps settings replace the parent's family.
	if merged.CapsDropAll {
		t.Error("caps_drop_all should be replaced by the child's caps settings")
	}
	if want := []string{"chown"}; !slices.Equal(merged.CapsKeep, want) {
		t.Errorf("caps_keep = %v, want %v", merged.CapsKeep, want)
	}

	// Net inherited from the parent.
	if merged.Net != "none" {
		t.Errorf("net = %q, want none", merged.Net)
	}

	// Lists replace wholesale.
	if want := []string{"/opt"}; !slices.Equal(merged.ReadOnly, want) {
		t.Errorf("read_only = %v, want %v", merged.ReadOnly, want)
	}

	// Env merges per key, child wins.
	wantEnv := map[string]string{"A": "1", "B": "2", "C": "3"}
	for k, v := range wantEnv {
		if merged.Env[k] != v {
			t.Errorf("env[%s] = %q, want %q", k, merged.Env[k], v)
		}
	}
	if len(merged.Env) != len(wantEnv) {
		t.Errorf("env = %v, want %v", merged.Env, wantEnv)
	}
}

func TestMergePresetsDoesNotMutateParent(t *testing.T) {
	parent := &Preset{
		Name:     "parent",
		Switches: []string{"noroot"},
		Env:      map[string]string{"A": "1"},
	}
	child := &Preset{
		Name:     "child",
		Switches: []string{"private-tmp"},
		Env:      map[string]string{"B": "2"},
	}

	merged := MergePresets(parent, child)
	merged.Switches = append(merged.Switches, "nosound")
	merged.Env["C"] = "3"

	if want := []string{"noroot"}; !slices.Equal(parent.Switches, want) {
		t.Errorf("parent switches mutated: %v", parent.Switches)
	}
	if len(parent.Env) != 1 || parent.Env["A"] != "1" {
		t.Errorf("parent env mutated: %v", parent.Env)
	}
}

func TestPresetClone(t *testing.T) {
	nice := 7
	original := &Preset{
		Name:     "original",
		Switches: []string{"noroot"},
		CapsKeep: []string{"chown"},
		Binds:    []Bind{{Source: "/var/data", Target: "/data"}},
		Env:      map[string]string{"A": "1"},
		Nice:     &nice,
	}

	clone := original.Clone()
	clone.Switches[0] = "nosound"
	clone.CapsKeep = append(clone.CapsKeep, "fowner")
	clone.Binds[0].Target = "/elsewhere"
	clone.Env["B"] = "2"
	*clone.Nice = -5

	if original.Switches[0] != "noroot" {
		t.Errorf("original switches mutated: %v", original.Switches)
	}
	if len(original.CapsKeep) != 1 {
		t.Errorf("original caps_keep mutated: %v", original.CapsKeep)
	}
	if original.Binds[0].Target != "/data" {
		t.Errorf("original binds mutated: %v", original.Binds)
	}
	if len(original.Env) != 1 {
		t.Errorf("original env mutated: %v", original.Env)
	}
	if *original.Nice != 7 {
		t.Errorf("original nice mutated: %d", *original.Nice)
	}
}
