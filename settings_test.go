// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package firejail

import (
	"slices"
	"testing"
)

func TestModeConstructorsCopyInput(t *testing.T) {
	// Constructors snapshot their list arguments; mutating the
	// caller's slice afterwards must not change the mode.
	syscalls := []string{"mount", "umount2"}
	m := SeccompSyscalls(syscalls...)
	syscalls[0] = "changed"

	p := Profile{Seccomp: m}
	got := p.Args("env", nil)
	want := []string{"--quiet", "--seccomp=mount,umount2", "--", "env"}
	if !slices.Equal(got, want) {
		t.Errorf("Args = %v, want %v", got, want)
	}
}

func TestPrivateListCopyInput(t *testing.T) {
	files := []string{"sh", "ls"}
	m := PrivateBin(files...)
	files[1] = "rm"

	p := Profile{PrivateList: m}
	got := p.Args("env", nil)
	want := []string{"--quiet", "--private-bin=sh,ls", "--", "env"}
	if !slices.Equal(got, want) {
		t.Errorf("Args = %v, want %v", got, want)
	}
}

func TestModeReplacement(t *testing.T) {
	// Setting a mode again replaces the earlier choice; exactly one
	// variant per feature is ever emitted.
	c := New("env").Net(NetInterface("eth0")).Net(NetNone())

	got := c.Profile().Args("env", nil)
	want := []string{"--quiet", "--net=none", "--", "env"}
	if !slices.Equal(got, want) {
		t.Errorf("Args = %v, want %v", got, want)
	}
}

func TestModesAreIndependent(t *testing.T) {
	// Different features stack; they never displace each other.
	c := New("env").
		Net(NetNone()).
		IP(IPNone()).
		Shell(ShellNone()).
		X11(X11None())

	got := c.Profile().Args("env", nil)
	want := []string{"--quiet", "--net=none", "--ip=none", "--shell=none", "--x11=none", "--", "env"}
	if !slices.Equal(got, want) {
		t.Errorf("Args = %v, want %v", got, want)
	}
}
