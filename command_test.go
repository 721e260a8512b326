// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package firejail

import (
	"bytes"
	"context"
	"os/exec"
	"slices"
	"strings"
	"testing"
)

// testCapability caches launcher detection across tests.
var testCapability *Capability

func getTestCapability(t *testing.T) *Capability {
	if testCapability == nil {
		testCapability = DetectCapability()
		t.Logf("Launcher capability: available=%v path=%s version=%s",
			testCapability.Available,
			testCapability.Path,
			testCapability.Version)
	}
	return testCapability
}

func skipIfNoLauncher(t *testing.T) {
	c := getTestCapability(t)
	if reason := c.SkipReason(); reason != "" {
		t.Skipf("Skipping launcher test: %s", reason)
	}
}

// lookPath resolves a host binary for launcher-override tests, which
// run the emitted command line under a stand-in binary so they work
// on machines without firejail.
func lookPath(t *testing.T, name string) string {
	t.Helper()
	path, err := exec.LookPath(name)
	if err != nil {
		t.Skipf("%s not found in PATH", name)
	}
	return path
}

func TestCommandChaining(t *testing.T) {
	// Every setter returns the receiver so calls chain on one value.
	c := New("env")

	got := c.Caps().
		AppArmor().
		Verbose().
		Net(NetNone()).
		Hostname("jail").
		Bind("/a", "/b").
		Blacklist("/mnt").
		SetEnv("TERM", "xterm").
		Dir("/tmp")
	if got != c {
		t.Error("setter chain returned a different Command")
	}
}

func TestCommandArgVector(t *testing.T) {
	c := New("env").Caps().AppArmor()

	got := c.ArgVector()
	want := []string{"firejail", "--quiet", "--caps", "--apparmor", "--", "env"}
	if !slices.Equal(got, want) {
		t.Errorf("ArgVector = %v, want %v", got, want)
	}
}

func TestCommandString(t *testing.T) {
	c := New("env").Caps().Launcher("/opt/firejail/bin/firejail")

	want := "/opt/firejail/bin/firejail --quiet --caps -- env"
	if got := c.String(); got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}

func TestCommandProfileAccess(t *testing.T) {
	c := New("env")

	p := c.Profile()
	if p != c.Profile() {
		t.Error("Profile returned different pointers")
	}

	// Direct field writes and setters hit the same storage.
	p.Caps = true
	if got := c.ArgVector(); !slices.Contains(got, "--caps") {
		t.Errorf("direct profile write not reflected: %v", got)
	}
}

func TestCommandCmd(t *testing.T) {
	c := New("env").
		Arg("-0").
		Caps().
		Launcher("/usr/bin/firejail-test").
		Dir("/tmp")

	cmd, err := c.Cmd(context.Background())
	if err != nil {
		t.Fatalf("Cmd failed: %v", err)
	}

	wantArgs := []string{"/usr/bin/firejail-test", "--quiet", "--caps", "--", "env", "-0"}
	if !slices.Equal(cmd.Args, wantArgs) {
		t.Errorf("cmd.Args = %v, want %v", cmd.Args, wantArgs)
	}
	if cmd.Path != "/usr/bin/firejail-test" {
		t.Errorf("cmd.Path = %q, want the launcher override", cmd.Path)
	}
	if cmd.Dir != "/tmp" {
		t.Errorf("cmd.Dir = %q, want /tmp", cmd.Dir)
	}

	// No environment edits: inherit the parent environment.
	if cmd.Env != nil {
		t.Errorf("cmd.Env = %v, want nil (inherit)", cmd.Env)
	}
}

func TestCommandCmdRequiresExecutable(t *testing.T) {
	_, err := New("").Cmd(context.Background())
	if err == nil {
		t.Error("expected error for empty executable")
	}
}

func TestCommandEnvClearAndSet(t *testing.T) {
	c := New("env").
		Launcher("/usr/bin/firejail-test").
		ClearEnv().
		SetEnv("ONLY", "1")

	cmd, err := c.Cmd(context.Background())
	if err != nil {
		t.Fatalf("Cmd failed: %v", err)
	}

	want := []string{"ONLY=1"}
	if !slices.Equal(cmd.Env, want) {
		t.Errorf("cmd.Env = %v, want %v", cmd.Env, want)
	}
}

func TestCommandEnvClearDiscardsEarlierEdits(t *testing.T) {
	c := New("env").
		Launcher("/usr/bin/firejail-test").
		SetEnv("EARLY", "1").
		ClearEnv()

	cmd, err := c.Cmd(context.Background())
	if err != nil {
		t.Fatalf("Cmd failed: %v", err)
	}

	if len(cmd.Env) != 0 || cmd.Env == nil {
		t.Errorf("cmd.Env = %v, want empty non-nil", cmd.Env)
	}
}

func TestCommandEnvUnset(t *testing.T) {
	t.Setenv("FIREJAIL_TEST_UNSET", "host-value")

	c := New("env").
		Launcher("/usr/bin/firejail-test").
		UnsetEnv("FIREJAIL_TEST_UNSET")

	cmd, err := c.Cmd(context.Background())
	if err != nil {
		t.Fatalf("Cmd failed: %v", err)
	}

	for _, kv := range cmd.Env {
		if strings.HasPrefix(kv, "FIREJAIL_TEST_UNSET=") {
			t.Errorf("unset variable still present: %s", kv)
		}
	}
}

func TestCommandEnvLastWriteWins(t *testing.T) {
	c := New("env").
		Launcher("/usr/bin/firejail-test").
		ClearEnv().
		SetEnv("A", "1").
		SetEnv("A", "2")

	cmd, err := c.Cmd(context.Background())
	if err != nil {
		t.Fatalf("Cmd failed: %v", err)
	}

	want := []string{"A=2"}
	if !slices.Equal(cmd.Env, want) {
		t.Errorf("cmd.Env = %v, want %v", cmd.Env, want)
	}
}

func TestCommandSetEnvsSorted(t *testing.T) {
	c := New("env").
		Launcher("/usr/bin/firejail-test").
		ClearEnv().
		SetEnvs(map[string]string{
			"ZED":   "3",
			"ALPHA": "1",
			"MID":   "2",
		})

	cmd, err := c.Cmd(context.Background())
	if err != nil {
		t.Fatalf("Cmd failed: %v", err)
	}

	want := []string{"ALPHA=1", "MID=2", "ZED=3"}
	if !slices.Equal(cmd.Env, want) {
		t.Errorf("cmd.Env = %v, want %v", cmd.Env, want)
	}
}

func TestCommandEnable(t *testing.T) {
	c := New("env")

	if err := c.Enable("apparmor"); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	if !c.Profile().AppArmor {
		t.Error("Enable(apparmor) did not set the switch")
	}

	if err := c.Enable("does-not-exist"); err == nil {
		t.Error("expected error for unknown switch")
	}
}

func TestCommandEnableEverySwitch(t *testing.T) {
	c := New("env")
	for _, name := range SwitchNames() {
		if err := c.Enable(name); err != nil {
			t.Errorf("Enable(%q) failed: %v", name, err)
		}
	}

	got := c.ArgVector()
	// launcher + quiet + every switch + separator + target.
	if len(got) != 2+len(SwitchNames())+2 {
		t.Errorf("got %d entries, want %d: %v", len(got), 2+len(SwitchNames())+2, got)
	}
}

func TestCommandSpawnOnce(t *testing.T) {
	truePath := lookPath(t, "true")

	c := New("ignored").Launcher(truePath)

	ctx := context.Background()
	cmd, err := c.Spawn(ctx)
	if err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}
	if err := cmd.Wait(); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	if _, err := c.Spawn(ctx); err == nil {
		t.Error("expected error from second Spawn")
	}
	if err := c.Run(ctx); err == nil {
		t.Error("expected error from Run after Spawn")
	}
}

func TestCommandSpawnFailureLeavesReusable(t *testing.T) {
	truePath := lookPath(t, "true")

	c := New("ignored").Launcher("/nonexistent/firejail-missing")

	ctx := context.Background()
	if _, err := c.Spawn(ctx); err == nil {
		t.Fatal("expected error for missing launcher")
	}

	// A failed spawn must not latch the spawned state.
	c.Launcher(truePath)
	cmd, err := c.Spawn(ctx)
	if err != nil {
		t.Fatalf("Spawn after failure failed: %v", err)
	}
	if err := cmd.Wait(); err != nil {
		t.Errorf("Wait failed: %v", err)
	}
}

func TestCommandRunExitError(t *testing.T) {
	// "false" ignores the emitted flags and exits 1, which exercises
	// the ExitError mapping without firejail installed.
	falsePath := lookPath(t, "false")

	err := New("ignored").Launcher(falsePath).Run(context.Background())
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}

	code, ok := IsExitError(err)
	if !ok {
		t.Fatalf("expected ExitError, got: %v", err)
	}
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
}

func TestCommandStreams(t *testing.T) {
	// echo prints the flag vector handed to the launcher, proving
	// both argument pass-through and stdout wiring.
	echoPath := lookPath(t, "echo")

	var out bytes.Buffer
	c := New("env").Caps().Launcher(echoPath).Stdout(&out)

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := "--quiet --caps -- env\n"
	if out.String() != want {
		t.Errorf("stdout = %q, want %q", out.String(), want)
	}
}

func TestCommandRunSandboxed(t *testing.T) {
	skipIfNoLauncher(t)
	truePath := lookPath(t, "true")

	err := New(truePath).Run(context.Background())
	if err != nil {
		t.Errorf("Run failed: %v", err)
	}
}

func TestCommandRunSandboxedExitCode(t *testing.T) {
	skipIfNoLauncher(t)
	shPath := lookPath(t, "sh")

	err := New(shPath).Args("-c", "exit 42").Run(context.Background())
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}

	code, ok := IsExitError(err)
	if !ok {
		t.Fatalf("expected ExitError, got: %v", err)
	}
	if code != 42 {
		t.Errorf("expected exit code 42, got %d", code)
	}
}

func TestIsExitError(t *testing.T) {
	if _, ok := IsExitError(nil); ok {
		t.Error("nil is not an ExitError")
	}
	if _, ok := IsExitError(context.Canceled); ok {
		t.Error("context.Canceled is not an ExitError")
	}

	code, ok := IsExitError(&ExitError{Code: 7})
	if !ok || code != 7 {
		t.Errorf("IsExitError = (%d, %v), want (7, true)", code, ok)
	}
}
