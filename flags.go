// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package firejail

import "strings"

// Flag strings for options that carry a value. Prefix constants end in
// "=" and get the rendered value appended; the emitter is the only
// consumer. Boolean switch flags live in switchTable below.
const (
	flagQuiet = "--quiet"

	// Capability dropping, consulted only while the caps switch is on.
	flagCapsDropAll = "--caps.drop=all"
	flagCapsKeep    = "--caps.keep="
	flagCapsDrop    = "--caps.drop="

	// Seccomp filters.
	flagSeccomp         = "--seccomp"
	flagSeccompSyscalls = "--seccomp="
	flagSeccompDrop     = "--seccomp.drop="
	flagSeccompKeep     = "--seccomp.keep="

	// Network stack.
	flagNet         = "--net="
	flagNetNone     = "--net=none"
	flagIP          = "--ip="
	flagIPNone      = "--ip=none"
	flagNetfilter   = "--netfilter"
	flagNetfilterEq = "--netfilter="
	flagDefaultGW   = "--defaultgw="
	flagMAC         = "--mac="
	flagMTU         = "--mtu="
	flagNetns       = "--netns="
	flagDNS         = "--dns="
	flagProtocol    = "--protocol="
	flagHostname    = "--hostname="
	flagHostsFile   = "--hosts-file="

	// Sandbox joining.
	flagJoin           = "--join="
	flagJoinNetwork    = "--join-network="
	flagJoinFilesystem = "--join-filesystem="

	// Filesystem.
	flagOverlay      = "--overlay"
	flagOverlayNamed = "--overlay-named="
	flagOverlayTmpfs = "--overlay-tmpfs"
	flagPrivate      = "--private"
	flagPrivateDir   = "--private="
	flagPrivateBin   = "--private-bin="
	flagPrivateEtc   = "--private-etc="
	flagPrivateHome  = "--private-home="
	flagPrivateOpt   = "--private-opt="
	flagPrivateSrv   = "--private-srv="
	flagBind         = "--bind="
	flagBlacklist    = "--blacklist="
	flagNoBlacklist  = "--noblacklist="
	flagWhitelist    = "--whitelist="
	flagNoExec       = "--noexec="
	flagReadOnly     = "--read-only="
	flagReadWrite    = "--read-write="
	flagTmpfs        = "--tmpfs="

	// Session.
	flagShell     = "--shell="
	flagShellNone = "--shell=none"
	flagX11       = "--x11"
	flagX11Eq     = "--x11="

	// Miscellaneous scalars.
	flagCgroup  = "--cgroup="
	flagCPU     = "--cpu="
	flagIgnore  = "--ignore="
	flagName    = "--name="
	flagNice    = "--nice="
	flagProfile = "--profile="
	flagTimeout = "--timeout="

	// argSeparator terminates launcher flags; everything after it is
	// the target program's own invocation.
	argSeparator = "--"
)

// switchSpec maps one boolean Profile switch to its launcher flag. The
// field accessor serves both emission (read) and the name-based setter
// (write), so adding a switch is one table line plus its Profile field
// and Command method.
type switchSpec struct {
	flag  string
	field func(*Profile) *bool
}

// name is the switch's registry name: the flag without the leading
// dashes. Presets and the CLI enable switches by this name.
func (s switchSpec) name() string {
	return strings.TrimPrefix(s.flag, "--")
}

// switchTable lists every boolean switch in emission order. The head
// (caps, allusers, apparmor, appimage) is fixed; the tail is
// alphabetical. Reordering entries changes emitted command lines, so
// append new switches to their alphabetical slot in the tail.
var switchTable = []switchSpec{
	{"--caps", func(p *Profile) *bool { return &p.Caps }},
	{"--allusers", func(p *Profile) *bool { return &p.AllUsers }},
	{"--apparmor", func(p *Profile) *bool { return &p.AppArmor }},
	{"--appimage", func(p *Profile) *bool { return &p.AppImage }},
	{"--allow-debuggers", func(p *Profile) *bool { return &p.AllowDebuggers }},
	{"--deterministic-exit-code", func(p *Profile) *bool { return &p.DeterministicExitCode }},
	{"--disable-mnt", func(p *Profile) *bool { return &p.DisableMnt }},
	{"--keep-dev-shm", func(p *Profile) *bool { return &p.KeepDevShm }},
	{"--keep-var-tmp", func(p *Profile) *bool { return &p.KeepVarTmp }},
	{"--machine-id", func(p *Profile) *bool { return &p.MachineID }},
	{"--memory-deny-write-execute", func(p *Profile) *bool { return &p.MemoryDenyWriteExecute }},
	{"--no3d", func(p *Profile) *bool { return &p.No3D }},
	{"--nodvd", func(p *Profile) *bool { return &p.NoDVD }},
	{"--nogroups", func(p *Profile) *bool { return &p.NoGroups }},
	{"--nonewprivs", func(p *Profile) *bool { return &p.NoNewPrivs }},
	{"--noprofile", func(p *Profile) *bool { return &p.NoProfile }},
	{"--noroot", func(p *Profile) *bool { return &p.NoRoot }},
	{"--nosound", func(p *Profile) *bool { return &p.NoSound }},
	{"--notv", func(p *Profile) *bool { return &p.NoTV }},
	{"--nou2f", func(p *Profile) *bool { return &p.NoU2F }},
	{"--novideo", func(p *Profile) *bool { return &p.NoVideo }},
	{"--private-cache", func(p *Profile) *bool { return &p.PrivateCache }},
	{"--private-cwd", func(p *Profile) *bool { return &p.PrivateCwd }},
	{"--private-dev", func(p *Profile) *bool { return &p.PrivateDev }},
	{"--private-lib", func(p *Profile) *bool { return &p.PrivateLib }},
	{"--private-tmp", func(p *Profile) *bool { return &p.PrivateTmp }},
	{"--tracelog", func(p *Profile) *bool { return &p.Tracelog }},
	{"--writable-etc", func(p *Profile) *bool { return &p.WritableEtc }},
	{"--writable-run-user", func(p *Profile) *bool { return &p.WritableRunUser }},
	{"--writable-var", func(p *Profile) *bool { return &p.WritableVar }},
	{"--writable-var-log", func(p *Profile) *bool { return &p.WritableVarLog }},
}

// lookupSwitch finds a switch by registry name.
func lookupSwitch(name string) (switchSpec, bool) {
	for _, s := range switchTable {
		if s.name() == name {
			return s, true
		}
	}
	return switchSpec{}, false
}

// SwitchNames returns the registry names of all boolean switches in
// emission order. These are the names accepted by [Command.Enable] and
// by preset files.
func SwitchNames() []string {
	names := make([]string, len(switchTable))
	for i, s := range switchTable {
		names[i] = s.name()
	}
	return names
}
