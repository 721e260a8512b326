// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package firejail

import "strings"

// The mode types below are closed sets of mutually exclusive choices
// for one launcher feature each. Their zero value means "not
// configured" and emits nothing; each non-zero variant maps to exactly
// one launcher flag. Variants are constructed through the package
// functions, never by filling struct fields, so the emitter's switch
// over the kind tag covers every value that can exist.

// SeccompMode selects the system-call filter applied inside the
// sandbox.
type SeccompMode struct {
	kind     seccompKind
	syscalls []string
}

type seccompKind int

const (
	seccompUnset seccompKind = iota
	seccompFilter
	seccompSyscalls
	seccompDrop
	seccompKeep
)

// SeccompFilter enables the launcher's default syscall filter
// (--seccomp).
func SeccompFilter() SeccompMode {
	return SeccompMode{kind: seccompFilter}
}

// SeccompSyscalls blacklists the named syscalls on top of the default
// filter (--seccomp=name,name).
func SeccompSyscalls(syscalls ...string) SeccompMode {
	return SeccompMode{kind: seccompSyscalls, syscalls: copyList(syscalls)}
}

// SeccompDrop blacklists only the named syscalls
// (--seccomp.drop=name,name).
func SeccompDrop(syscalls ...string) SeccompMode {
	return SeccompMode{kind: seccompDrop, syscalls: copyList(syscalls)}
}

// SeccompKeep whitelists the named syscalls and rejects everything
// else (--seccomp.keep=name,name).
func SeccompKeep(syscalls ...string) SeccompMode {
	return SeccompMode{kind: seccompKeep, syscalls: copyList(syscalls)}
}

func (m SeccompMode) appendArgs(args []string) []string {
	switch m.kind {
	case seccompFilter:
		return append(args, flagSeccomp)
	case seccompSyscalls:
		return append(args, flagSeccompSyscalls+strings.Join(m.syscalls, ","))
	case seccompDrop:
		return append(args, flagSeccompDrop+strings.Join(m.syscalls, ","))
	case seccompKeep:
		return append(args, flagSeccompKeep+strings.Join(m.syscalls, ","))
	}
	return args
}

// NetMode selects the sandbox's network namespace configuration.
type NetMode struct {
	kind  netKind
	iface string
}

type netKind int

const (
	netUnset netKind = iota
	netNone
	netInterface
)

// NetNone creates a network namespace with only the loopback device
// (--net=none).
func NetNone() NetMode {
	return NetMode{kind: netNone}
}

// NetInterface joins a new network namespace bridged to the named host
// interface (--net=eth0).
func NetInterface(name string) NetMode {
	return NetMode{kind: netInterface, iface: name}
}

func (m NetMode) appendArgs(args []string) []string {
	switch m.kind {
	case netNone:
		return append(args, flagNetNone)
	case netInterface:
		return append(args, flagNet+m.iface)
	}
	return args
}

// IPMode assigns the sandbox interface address. It only takes effect
// when the launcher also receives a network mode.
type IPMode struct {
	kind ipKind
	addr string
}

type ipKind int

const (
	ipUnset ipKind = iota
	ipNone
	ipAddress
)

// IPNone skips IP address assignment (--ip=none).
func IPNone() IPMode {
	return IPMode{kind: ipNone}
}

// IPAddress assigns a fixed address to the sandbox interface
// (--ip=10.10.20.5).
func IPAddress(addr string) IPMode {
	return IPMode{kind: ipAddress, addr: addr}
}

func (m IPMode) appendArgs(args []string) []string {
	switch m.kind {
	case ipNone:
		return append(args, flagIPNone)
	case ipAddress:
		return append(args, flagIP+m.addr)
	}
	return args
}

// NetfilterMode enables a network firewall inside the sandbox.
type NetfilterMode struct {
	kind netfilterKind
	file string
}

type netfilterKind int

const (
	netfilterUnset netfilterKind = iota
	netfilterDefault
	netfilterFile
)

// NetfilterDefault enables the launcher's default client firewall
// (--netfilter).
func NetfilterDefault() NetfilterMode {
	return NetfilterMode{kind: netfilterDefault}
}

// NetfilterFile loads firewall rules from the given file
// (--netfilter=file).
func NetfilterFile(file string) NetfilterMode {
	return NetfilterMode{kind: netfilterFile, file: file}
}

func (m NetfilterMode) appendArgs(args []string) []string {
	switch m.kind {
	case netfilterDefault:
		return append(args, flagNetfilter)
	case netfilterFile:
		return append(args, flagNetfilterEq+m.file)
	}
	return args
}

// JoinMode attaches the new process to an existing sandbox instead of
// creating a fresh one. The target is a sandbox name or PID.
type JoinMode struct {
	kind   joinKind
	target string
}

type joinKind int

const (
	joinUnset joinKind = iota
	joinSandbox
	joinNetwork
	joinFilesystem
)

// JoinSandbox joins the target sandbox completely (--join=target).
func JoinSandbox(target string) JoinMode {
	return JoinMode{kind: joinSandbox, target: target}
}

// JoinNetwork joins only the target's network namespace
// (--join-network=target). Requires root.
func JoinNetwork(target string) JoinMode {
	return JoinMode{kind: joinNetwork, target: target}
}

// JoinFilesystem joins only the target's mount namespace
// (--join-filesystem=target). Requires root.
func JoinFilesystem(target string) JoinMode {
	return JoinMode{kind: joinFilesystem, target: target}
}

func (m JoinMode) appendArgs(args []string) []string {
	switch m.kind {
	case joinSandbox:
		return append(args, flagJoin+m.target)
	case joinNetwork:
		return append(args, flagJoinNetwork+m.target)
	case joinFilesystem:
		return append(args, flagJoinFilesystem+m.target)
	}
	return args
}

// OverlayMode mounts an overlay filesystem on top of the sandbox root.
type OverlayMode struct {
	kind overlayKind
	name string
}

type overlayKind int

const (
	overlayUnset overlayKind = iota
	overlayRoot
	overlayNamed
	overlayTmpfs
)

// OverlayRoot mounts a persistent overlay stored under the user's home
// (--overlay).
func OverlayRoot() OverlayMode {
	return OverlayMode{kind: overlayRoot}
}

// OverlayNamed mounts a named persistent overlay that can be reused
// across sessions (--overlay-named=name).
func OverlayNamed(name string) OverlayMode {
	return OverlayMode{kind: overlayNamed, name: name}
}

// OverlayTmpfs mounts a volatile overlay discarded on exit
// (--overlay-tmpfs).
func OverlayTmpfs() OverlayMode {
	return OverlayMode{kind: overlayTmpfs}
}

func (m OverlayMode) appendArgs(args []string) []string {
	switch m.kind {
	case overlayRoot:
		return append(args, flagOverlay)
	case overlayNamed:
		return append(args, flagOverlayNamed+m.name)
	case overlayTmpfs:
		return append(args, flagOverlayTmpfs)
	}
	return args
}

// PrivateMode replaces the user's home directory inside the sandbox.
type PrivateMode struct {
	kind privateKind
	dir  string
}

type privateKind int

const (
	privateUnset privateKind = iota
	privateHome
	privateDirectory
)

// PrivateHome mounts a volatile tmpfs over the home directory
// (--private).
func PrivateHome() PrivateMode {
	return PrivateMode{kind: privateHome}
}

// PrivateDirectory mounts the given directory as the home directory
// (--private=dir).
func PrivateDirectory(dir string) PrivateMode {
	return PrivateMode{kind: privateDirectory, dir: dir}
}

func (m PrivateMode) appendArgs(args []string) []string {
	switch m.kind {
	case privateHome:
		return append(args, flagPrivate)
	case privateDirectory:
		return append(args, flagPrivateDir+m.dir)
	}
	return args
}

// PrivateListMode rebuilds one system directory inside the sandbox
// from an explicit file list.
type PrivateListMode struct {
	kind  privateListKind
	files []string
}

type privateListKind int

const (
	privateListUnset privateListKind = iota
	privateListBin
	privateListEtc
	privateListHome
	privateListOpt
	privateListSrv
)

// PrivateBin builds a new /bin containing only the named programs
// (--private-bin=prog,prog).
func PrivateBin(files ...string) PrivateListMode {
	return PrivateListMode{kind: privateListBin, files: copyList(files)}
}

// PrivateEtc builds a new /etc containing only the named entries
// (--private-etc=file,file).
func PrivateEtc(files ...string) PrivateListMode {
	return PrivateListMode{kind: privateListEtc, files: copyList(files)}
}

// PrivateHomeFiles builds a new home directory containing only the
// named entries (--private-home=file,file).
func PrivateHomeFiles(files ...string) PrivateListMode {
	return PrivateListMode{kind: privateListHome, files: copyList(files)}
}

// PrivateOpt builds a new /opt containing only the named entries
// (--private-opt=file,file).
func PrivateOpt(files ...string) PrivateListMode {
	return PrivateListMode{kind: privateListOpt, files: copyList(files)}
}

// PrivateSrv builds a new /srv containing only the named entries
// (--private-srv=file,file).
func PrivateSrv(files ...string) PrivateListMode {
	return PrivateListMode{kind: privateListSrv, files: copyList(files)}
}

func (m PrivateListMode) appendArgs(args []string) []string {
	joined := strings.Join(m.files, ",")
	switch m.kind {
	case privateListBin:
		return append(args, flagPrivateBin+joined)
	case privateListEtc:
		return append(args, flagPrivateEtc+joined)
	case privateListHome:
		return append(args, flagPrivateHome+joined)
	case privateListOpt:
		return append(args, flagPrivateOpt+joined)
	case privateListSrv:
		return append(args, flagPrivateSrv+joined)
	}
	return args
}

// ShellMode overrides the login shell used to run the target.
type ShellMode struct {
	kind shellKind
	path string
}

type shellKind int

const (
	shellUnset shellKind = iota
	shellNone
	shellPath
)

// ShellNone runs the target directly without a shell wrapper
// (--shell=none).
func ShellNone() ShellMode {
	return ShellMode{kind: shellNone}
}

// ShellPath runs the target through the given shell (--shell=/bin/sh).
func ShellPath(path string) ShellMode {
	return ShellMode{kind: shellPath, path: path}
}

func (m ShellMode) appendArgs(args []string) []string {
	switch m.kind {
	case shellNone:
		return append(args, flagShellNone)
	case shellPath:
		return append(args, flagShell+m.path)
	}
	return args
}

// X11Mode isolates the sandbox from the host X11 server by running a
// nested display server, or blocks X11 entirely.
type X11Mode struct {
	kind x11Kind
}

type x11Kind int

const (
	x11Unset x11Kind = iota
	x11Auto
	x11None
	x11Xephyr
	x11Xorg
	x11Xpra
	x11Xvfb
)

// X11Auto lets the launcher pick an available nested X11 server
// (--x11).
func X11Auto() X11Mode {
	return X11Mode{kind: x11Auto}
}

// X11None blocks access to the host X11 server (--x11=none).
func X11None() X11Mode {
	return X11Mode{kind: x11None}
}

// X11Xephyr runs the target under a nested Xephyr server
// (--x11=xephyr).
func X11Xephyr() X11Mode {
	return X11Mode{kind: x11Xephyr}
}

// X11Xorg uses the X11 security extension on the host server
// (--x11=xorg).
func X11Xorg() X11Mode {
	return X11Mode{kind: x11Xorg}
}

// X11Xpra runs the target under a nested xpra server (--x11=xpra).
func X11Xpra() X11Mode {
	return X11Mode{kind: x11Xpra}
}

// X11Xvfb runs the target under a headless Xvfb server (--x11=xvfb).
func X11Xvfb() X11Mode {
	return X11Mode{kind: x11Xvfb}
}

func (m X11Mode) appendArgs(args []string) []string {
	switch m.kind {
	case x11Auto:
		return append(args, flagX11)
	case x11None:
		return append(args, flagX11Eq+"none")
	case x11Xephyr:
		return append(args, flagX11Eq+"xephyr")
	case x11Xorg:
		return append(args, flagX11Eq+"xorg")
	case x11Xpra:
		return append(args, flagX11Eq+"xpra")
	case x11Xvfb:
		return append(args, flagX11Eq+"xvfb")
	}
	return args
}

// copyList snapshots a variadic list so later mutation of the caller's
// backing slice cannot change a stored mode value.
func copyList(list []string) []string {
	if len(list) == 0 {
		return nil
	}
	return append([]string(nil), list...)
}
