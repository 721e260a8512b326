// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package firejail

import "time"

// BindPair mounts Source at Target inside the sandbox
// (--bind=source,target).
type BindPair struct {
	Source string
	Target string
}

// Profile holds every supported launcher option for one invocation.
// The zero value requests nothing: every switch is off, every scalar
// and mode is unset, every list is empty. A zero Profile still emits
// --quiet, the separator, and the target invocation.
//
// Profiles are normally populated through [Command]'s fluent setters,
// but the fields are exported so callers can inspect a configuration
// or build one directly. Rendering is read-only: [Profile.Args] can be
// called any number of times and never mutates the receiver.
type Profile struct {
	// Verbose suppresses the --quiet flag that is otherwise always
	// emitted first. No positive flag replaces it.
	Verbose bool

	// Boolean switches. Each enabled switch emits one fixed flag; the
	// emission order is pinned by switchTable, not by field order.
	Caps                   bool
	AllUsers               bool
	AppArmor               bool
	AppImage               bool
	AllowDebuggers         bool
	DeterministicExitCode  bool
	DisableMnt             bool
	KeepDevShm             bool
	KeepVarTmp             bool
	MachineID              bool
	MemoryDenyWriteExecute bool
	No3D                   bool
	NoDVD                  bool
	NoGroups               bool
	NoNewPrivs             bool
	NoProfile              bool
	NoRoot                 bool
	NoSound                bool
	NoTV                   bool
	NoU2F                  bool
	NoVideo                bool
	PrivateCache           bool
	PrivateCwd             bool
	PrivateDev             bool
	PrivateLib             bool
	PrivateTmp             bool
	Tracelog               bool
	WritableEtc            bool
	WritableRunUser        bool
	WritableVar            bool
	WritableVarLog         bool

	// CapsDrop is read only when Caps is set; see [CapsDrop].
	CapsDrop CapsDrop

	// Mode selections, one launcher feature each. Zero values emit
	// nothing.
	Seccomp     SeccompMode
	Net         NetMode
	IP          IPMode
	Netfilter   NetfilterMode
	Join        JoinMode
	Overlay     OverlayMode
	Private     PrivateMode
	PrivateList PrivateListMode
	Shell       ShellMode
	X11         X11Mode

	// Scalar options. The zero value means "not set"; setting again
	// replaces the previous value.
	Cgroup    string
	DefaultGW string
	Hostname  string
	HostsFile string
	MAC       string
	MTU       int
	Name      string
	Netns     string
	// Nice is a pointer because 0 is a meaningful niceness.
	Nice        *int
	ProfileFile string
	// Timeout is rendered as hh:mm:ss and enforced by the launcher,
	// not by this package.
	Timeout time.Duration

	// CPUs emits as one comma-joined --cpu= flag; Protocols as one
	// comma-joined --protocol= flag.
	CPUs      []int
	Protocols []string

	// Per-entry path lists. Each element emits its own flag; emission
	// order is append order, duplicates included.
	Binds       []BindPair
	DNS         []string
	Blacklist   []string
	Ignore      []string
	Whitelist   []string
	NoBlacklist []string
	NoExec      []string
	ReadOnly    []string
	ReadWrite   []string
	Tmpfs       []string
}
