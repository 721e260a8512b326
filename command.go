// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package firejail

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"
)

// Command describes one sandboxed invocation: the target executable,
// its arguments, the restriction [Profile], and the process-level
// settings (working directory, environment edits, standard streams)
// forwarded to os/exec. Every setter mutates the command in place and
// returns the receiver, so calls chain:
//
//	err := firejail.New("/usr/bin/env").
//		Caps().
//		AppArmor().
//		Run(ctx)
//
// A Command is built and consumed by one goroutine; it has no internal
// locking.
type Command struct {
	profile    Profile
	executable string
	args       []string

	dir      string
	clearEnv bool
	envOps   []envOp
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer

	launcher string
	spawned  bool
}

// envOp is one recorded environment edit. Edits replay in call order
// over the inherited environment (or an empty one after ClearEnv).
type envOp struct {
	key   string
	value string
	unset bool
}

// New starts a command description for the given target executable.
// The path is handed to the launcher verbatim after the separator; no
// existence check is performed.
func New(executable string) *Command {
	return &Command{executable: executable}
}

// Arg appends one argument for the target program.
func (c *Command) Arg(arg string) *Command { c.args = append(c.args, arg); return c }

// Args appends arguments for the target program.
func (c *Command) Args(args ...string) *Command { c.args = append(c.args, args...); return c }

// Dir sets the child's working directory.
func (c *Command) Dir(dir string) *Command { c.dir = dir; return c }

// Launcher overrides the launcher binary path. Without an override the
// spawner resolves [LauncherName] via [LauncherPath].
func (c *Command) Launcher(path string) *Command { c.launcher = path; return c }

// ClearEnv starts the child from an empty environment, discarding any
// environment edits recorded so far. Later SetEnv calls still apply.
func (c *Command) ClearEnv() *Command {
	c.clearEnv = true
	c.envOps = nil
	return c
}

// UnsetEnv removes one variable from the child's environment.
func (c *Command) UnsetEnv(key string) *Command {
	c.envOps = append(c.envOps, envOp{key: key, unset: true})
	return c
}

// SetEnv sets one variable in the child's environment. Setting a key
// again replaces the earlier value.
func (c *Command) SetEnv(key, value string) *Command {
	c.envOps = append(c.envOps, envOp{key: key, value: value})
	return c
}

// SetEnvs sets every variable in env. Keys are applied in sorted order
// so repeated builds record the same edit sequence.
func (c *Command) SetEnvs(env map[string]string) *Command {
	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		c.envOps = append(c.envOps, envOp{key: key, value: env[key]})
	}
	return c
}

// Stdin sets the child's standard input. Left unset, the child reads
// from /dev/null, as with exec.Cmd.
func (c *Command) Stdin(r io.Reader) *Command { c.stdin = r; return c }

// Stdout sets the child's standard output. Left unset, output is
// discarded.
func (c *Command) Stdout(w io.Writer) *Command { c.stdout = w; return c }

// Stderr sets the child's standard error. Left unset, output is
// discarded.
func (c *Command) Stderr(w io.Writer) *Command { c.stderr = w; return c }

// Verbose enables launcher diagnostics by suppressing the --quiet flag
// that is otherwise emitted first.
func (c *Command) Verbose() *Command { c.profile.Verbose = true; return c }

// Boolean switches, one launcher flag each. Emission order is fixed by
// switchTable, not by the order these are called.

// Caps enables the default capability filter (--caps). It also gates
// any configured [CapsDrop].
func (c *Command) Caps() *Command { c.profile.Caps = true; return c }

// AllUsers makes all user home directories visible (--allusers).
func (c *Command) AllUsers() *Command { c.profile.AllUsers = true; return c }

// AppArmor confines the sandbox with the launcher's AppArmor profile
// (--apparmor).
func (c *Command) AppArmor() *Command { c.profile.AppArmor = true; return c }

// AppImage runs the target as an AppImage bundle (--appimage).
func (c *Command) AppImage() *Command { c.profile.AppImage = true; return c }

// AllowDebuggers permits ptrace-based tools inside the sandbox
// (--allow-debuggers).
func (c *Command) AllowDebuggers() *Command { c.profile.AllowDebuggers = true; return c }

// DeterministicExitCode always reports the first child's exit code
// (--deterministic-exit-code).
func (c *Command) DeterministicExitCode() *Command {
	c.profile.DeterministicExitCode = true
	return c
}

// DisableMnt blacklists /mnt, /media, /run/mount and /run/media
// (--disable-mnt).
func (c *Command) DisableMnt() *Command { c.profile.DisableMnt = true; return c }

// KeepDevShm keeps the host /dev/shm with --private-dev
// (--keep-dev-shm).
func (c *Command) KeepDevShm() *Command { c.profile.KeepDevShm = true; return c }

// KeepVarTmp keeps the host /var/tmp with --private-tmp
// (--keep-var-tmp).
func (c *Command) KeepVarTmp() *Command { c.profile.KeepVarTmp = true; return c }

// MachineID spoofs /etc/machine-id with a random value (--machine-id).
func (c *Command) MachineID() *Command { c.profile.MachineID = true; return c }

// MemoryDenyWriteExecute rejects writable-and-executable memory
// mappings (--memory-deny-write-execute).
func (c *Command) MemoryDenyWriteExecute() *Command {
	c.profile.MemoryDenyWriteExecute = true
	return c
}

// No3D disables 3D hardware acceleration (--no3d).
func (c *Command) No3D() *Command { c.profile.No3D = true; return c }

// NoDVD disables DVD and audio CD devices (--nodvd).
func (c *Command) NoDVD() *Command { c.profile.NoDVD = true; return c }

// NoGroups disables supplementary groups (--nogroups).
func (c *Command) NoGroups() *Command { c.profile.NoGroups = true; return c }

// NoNewPrivs sets the kernel no_new_privs flag (--nonewprivs).
func (c *Command) NoNewPrivs() *Command { c.profile.NoNewPrivs = true; return c }

// NoProfile skips the launcher's default profile files (--noprofile).
func (c *Command) NoProfile() *Command { c.profile.NoProfile = true; return c }

// NoRoot installs a user namespace with only the caller's user
// (--noroot).
func (c *Command) NoRoot() *Command { c.profile.NoRoot = true; return c }

// NoSound disables sound (--nosound).
func (c *Command) NoSound() *Command { c.profile.NoSound = true; return c }

// NoTV disables DVB television devices (--notv).
func (c *Command) NoTV() *Command { c.profile.NoTV = true; return c }

// NoU2F disables U2F devices (--nou2f).
func (c *Command) NoU2F() *Command { c.profile.NoU2F = true; return c }

// NoVideo disables video capture devices (--novideo).
func (c *Command) NoVideo() *Command { c.profile.NoVideo = true; return c }

// PrivateCache mounts a volatile tmpfs over ~/.cache (--private-cache).
func (c *Command) PrivateCache() *Command { c.profile.PrivateCache = true; return c }

// PrivateCwd sets the sandbox working directory to the home directory
// (--private-cwd).
func (c *Command) PrivateCwd() *Command { c.profile.PrivateCwd = true; return c }

// PrivateDev mounts a minimal /dev (--private-dev).
func (c *Command) PrivateDev() *Command { c.profile.PrivateDev = true; return c }

// PrivateLib builds a private /lib from the target's dependencies
// (--private-lib).
func (c *Command) PrivateLib() *Command { c.profile.PrivateLib = true; return c }

// PrivateTmp mounts a volatile tmpfs over /tmp (--private-tmp).
func (c *Command) PrivateTmp() *Command { c.profile.PrivateTmp = true; return c }

// Tracelog logs violations of the sandbox configuration to syslog
// (--tracelog).
func (c *Command) Tracelog() *Command { c.profile.Tracelog = true; return c }

// WritableEtc mounts /etc read-write (--writable-etc).
func (c *Command) WritableEtc() *Command { c.profile.WritableEtc = true; return c }

// WritableRunUser keeps /run/user subdirectories writable
// (--writable-run-user).
func (c *Command) WritableRunUser() *Command { c.profile.WritableRunUser = true; return c }

// WritableVar mounts /var read-write (--writable-var).
func (c *Command) WritableVar() *Command { c.profile.WritableVar = true; return c }

// WritableVarLog keeps /var/log writable (--writable-var-log).
func (c *Command) WritableVarLog() *Command { c.profile.WritableVarLog = true; return c }

// Enable turns on one boolean switch by registry name ("caps",
// "apparmor", ...). Preset files and the CLI use this path; direct
// callers normally use the typed methods above. See [SwitchNames].
func (c *Command) Enable(name string) error {
	s, ok := lookupSwitch(name)
	if !ok {
		return fmt.Errorf("unknown switch %q", name)
	}
	*s.field(&c.profile) = true
	return nil
}

// CapsDrop installs a capability-drop setting. It only affects the
// emitted arguments while [Command.Caps] is enabled.
func (c *Command) CapsDrop(d CapsDrop) *Command { c.profile.CapsDrop = d; return c }

// Mode selections. Each call replaces the previous value for its
// feature.

// Seccomp sets the syscall filter mode.
func (c *Command) Seccomp(m SeccompMode) *Command { c.profile.Seccomp = m; return c }

// Net sets the network namespace mode.
func (c *Command) Net(m NetMode) *Command { c.profile.Net = m; return c }

// IP sets the sandbox interface address mode.
func (c *Command) IP(m IPMode) *Command { c.profile.IP = m; return c }

// Netfilter sets the sandbox firewall mode.
func (c *Command) Netfilter(m NetfilterMode) *Command { c.profile.Netfilter = m; return c }

// Join attaches to an existing sandbox instead of creating one.
func (c *Command) Join(m JoinMode) *Command { c.profile.Join = m; return c }

// Overlay sets the root overlay filesystem mode.
func (c *Command) Overlay(m OverlayMode) *Command { c.profile.Overlay = m; return c }

// Private sets the home directory replacement mode.
func (c *Command) Private(m PrivateMode) *Command { c.profile.Private = m; return c }

// PrivateList rebuilds one system directory from an explicit file
// list.
func (c *Command) PrivateList(m PrivateListMode) *Command { c.profile.PrivateList = m; return c }

// Shell overrides the login shell used to run the target.
func (c *Command) Shell(m ShellMode) *Command { c.profile.Shell = m; return c }

// X11 sets the X11 isolation mode.
func (c *Command) X11(m X11Mode) *Command { c.profile.X11 = m; return c }

// Scalar options. Calling a setter again replaces the earlier value.

// Cgroup places the sandbox in the given cgroup (--cgroup=path).
func (c *Command) Cgroup(path string) *Command { c.profile.Cgroup = path; return c }

// DefaultGW sets the default gateway (--defaultgw=address).
func (c *Command) DefaultGW(address string) *Command { c.profile.DefaultGW = address; return c }

// Hostname sets the sandbox hostname (--hostname=name).
func (c *Command) Hostname(name string) *Command { c.profile.Hostname = name; return c }

// HostsFile substitutes /etc/hosts (--hosts-file=file).
func (c *Command) HostsFile(file string) *Command { c.profile.HostsFile = file; return c }

// MAC assigns a MAC address to the sandbox interface (--mac=address).
func (c *Command) MAC(address string) *Command { c.profile.MAC = address; return c }

// MTU assigns an MTU to the sandbox interface (--mtu=number).
func (c *Command) MTU(mtu int) *Command { c.profile.MTU = mtu; return c }

// Name names the sandbox for use with --join and launcher tooling
// (--name=name).
func (c *Command) Name(name string) *Command { c.profile.Name = name; return c }

// Netns joins the named persistent network namespace (--netns=name).
func (c *Command) Netns(name string) *Command { c.profile.Netns = name; return c }

// Nice sets the child's niceness (--nice=value). Zero is meaningful
// and is emitted.
func (c *Command) Nice(value int) *Command { c.profile.Nice = &value; return c }

// ProfileFile loads a launcher profile file (--profile=file).
func (c *Command) ProfileFile(file string) *Command { c.profile.ProfileFile = file; return c }

// Timeout shuts the sandbox down after the given duration
// (--timeout=hh:mm:ss). The launcher enforces it, not this package.
func (c *Command) Timeout(d time.Duration) *Command { c.profile.Timeout = d; return c }

// List options. Singular methods append one element, plural methods
// append several; emission order is append order and duplicates are
// kept.

// CPU appends one CPU index to the affinity list (--cpu=0,1,2).
func (c *Command) CPU(index int) *Command {
	c.profile.CPUs = append(c.profile.CPUs, index)
	return c
}

// CPUs appends CPU indices to the affinity list.
func (c *Command) CPUs(indices ...int) *Command {
	c.profile.CPUs = append(c.profile.CPUs, indices...)
	return c
}

// Protocol appends one protocol to the socket filter
// (--protocol=unix,inet).
func (c *Command) Protocol(protocol string) *Command {
	c.profile.Protocols = append(c.profile.Protocols, protocol)
	return c
}

// Protocols appends protocols to the socket filter.
func (c *Command) Protocols(protocols ...string) *Command {
	c.profile.Protocols = append(c.profile.Protocols, protocols...)
	return c
}

// Bind appends one bind mount (--bind=source,target).
func (c *Command) Bind(source, target string) *Command {
	c.profile.Binds = append(c.profile.Binds, BindPair{Source: source, Target: target})
	return c
}

// Binds appends bind mounts.
func (c *Command) Binds(pairs ...BindPair) *Command {
	c.profile.Binds = append(c.profile.Binds, pairs...)
	return c
}

// DNS appends one DNS server (--dns=address).
func (c *Command) DNS(server string) *Command {
	c.profile.DNS = append(c.profile.DNS, server)
	return c
}

// DNSServers appends DNS servers.
func (c *Command) DNSServers(servers ...string) *Command {
	c.profile.DNS = append(c.profile.DNS, servers...)
	return c
}

// Blacklist makes one path inaccessible (--blacklist=path).
func (c *Command) Blacklist(path string) *Command {
	c.profile.Blacklist = append(c.profile.Blacklist, path)
	return c
}

// Blacklists makes paths inaccessible.
func (c *Command) Blacklists(paths ...string) *Command {
	c.profile.Blacklist = append(c.profile.Blacklist, paths...)
	return c
}

// Ignore drops one profile-file directive (--ignore=directive).
func (c *Command) Ignore(directive string) *Command {
	c.profile.Ignore = append(c.profile.Ignore, directive)
	return c
}

// Ignores drops profile-file directives.
func (c *Command) Ignores(directives ...string) *Command {
	c.profile.Ignore = append(c.profile.Ignore, directives...)
	return c
}

// Whitelist keeps one path visible inside the sandbox
// (--whitelist=path).
func (c *Command) Whitelist(path string) *Command {
	c.profile.Whitelist = append(c.profile.Whitelist, path)
	return c
}

// Whitelists keeps paths visible inside the sandbox.
func (c *Command) Whitelists(paths ...string) *Command {
	c.profile.Whitelist = append(c.profile.Whitelist, paths...)
	return c
}

// NoBlacklist exempts one path from blacklisting (--noblacklist=path).
func (c *Command) NoBlacklist(path string) *Command {
	c.profile.NoBlacklist = append(c.profile.NoBlacklist, path)
	return c
}

// NoBlacklists exempts paths from blacklisting.
func (c *Command) NoBlacklists(paths ...string) *Command {
	c.profile.NoBlacklist = append(c.profile.NoBlacklist, paths...)
	return c
}

// NoExec remounts one path noexec (--noexec=path).
func (c *Command) NoExec(path string) *Command {
	c.profile.NoExec = append(c.profile.NoExec, path)
	return c
}

// NoExecs remounts paths noexec.
func (c *Command) NoExecs(paths ...string) *Command {
	c.profile.NoExec = append(c.profile.NoExec, paths...)
	return c
}

// ReadOnly remounts one path read-only (--read-only=path).
func (c *Command) ReadOnly(path string) *Command {
	c.profile.ReadOnly = append(c.profile.ReadOnly, path)
	return c
}

// ReadOnlyPaths remounts paths read-only.
func (c *Command) ReadOnlyPaths(paths ...string) *Command {
	c.profile.ReadOnly = append(c.profile.ReadOnly, paths...)
	return c
}

// ReadWrite remounts one path read-write (--read-write=path).
func (c *Command) ReadWrite(path string) *Command {
	c.profile.ReadWrite = append(c.profile.ReadWrite, path)
	return c
}

// ReadWritePaths remounts paths read-write.
func (c *Command) ReadWritePaths(paths ...string) *Command {
	c.profile.ReadWrite = append(c.profile.ReadWrite, paths...)
	return c
}

// Tmpfs mounts a tmpfs on one directory (--tmpfs=dir).
func (c *Command) Tmpfs(dir string) *Command {
	c.profile.Tmpfs = append(c.profile.Tmpfs, dir)
	return c
}

// TmpfsDirs mounts a tmpfs on each directory.
func (c *Command) TmpfsDirs(dirs ...string) *Command {
	c.profile.Tmpfs = append(c.profile.Tmpfs, dirs...)
	return c
}

// Profile returns the profile under construction. The pointer stays
// valid for the life of the Command; mutating it directly is
// equivalent to calling the setters.
func (c *Command) Profile() *Profile {
	return &c.profile
}

// ArgVector returns the full invocation, launcher first, as it would
// be executed. It uses the configured launcher path or the bare
// [LauncherName] without consulting PATH, so it never fails.
func (c *Command) ArgVector() []string {
	launcher := c.launcher
	if launcher == "" {
		launcher = LauncherName
	}
	return append([]string{launcher}, c.profile.Args(c.executable, c.args)...)
}

// String renders the invocation for logs and debugging. Arguments are
// space-joined without quoting.
func (c *Command) String() string {
	return strings.Join(c.ArgVector(), " ")
}

// Cmd builds the launcher invocation as an exec.Cmd without starting
// it. Callers that need pipes or process attributes beyond what the
// builder covers can adjust the returned command and start it
// themselves.
func (c *Command) Cmd(ctx context.Context) (*exec.Cmd, error) {
	if c.executable == "" {
		return nil, fmt.Errorf("executable is required")
	}

	launcher := c.launcher
	if launcher == "" {
		path, err := LauncherPath()
		if err != nil {
			return nil, err
		}
		launcher = path
	}

	cmd := exec.CommandContext(ctx, launcher, c.profile.Args(c.executable, c.args)...)
	cmd.Dir = c.dir
	if c.clearEnv || len(c.envOps) > 0 {
		cmd.Env = c.environ()
	}
	cmd.Stdin = c.stdin
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr
	return cmd, nil
}

// Spawn starts the launcher and returns the running process without
// waiting for it. The profile is read exactly once, here. A Command
// that has spawned successfully refuses to spawn again; a failed spawn
// leaves it reusable.
func (c *Command) Spawn(ctx context.Context) (*exec.Cmd, error) {
	if c.spawned {
		return nil, fmt.Errorf("command already spawned")
	}

	cmd, err := c.Cmd(ctx)
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start launcher: %w", err)
	}

	c.spawned = true
	return cmd, nil
}

// Run spawns the command and waits for it to finish. A non-zero exit
// from the child surfaces as *[ExitError]; other failures (launcher
// missing, process creation denied) surface as ordinary errors.
func (c *Command) Run(ctx context.Context) error {
	cmd, err := c.Spawn(ctx)
	if err != nil {
		return err
	}

	if err := cmd.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return &ExitError{Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("sandboxed command failed: %w", err)
	}
	return nil
}

// environ materializes the recorded environment edits over the parent
// environment, or over an empty one after ClearEnv. The result is
// non-nil so exec.Cmd does not fall back to inheriting.
func (c *Command) environ() []string {
	env := []string{}
	if !c.clearEnv {
		env = os.Environ()
	}
	for _, op := range c.envOps {
		env = envRemove(env, op.key)
		if !op.unset {
			env = append(env, op.key+"="+op.value)
		}
	}
	return env
}

// envRemove drops every entry for key from env, in place.
func envRemove(env []string, key string) []string {
	prefix := key + "="
	out := env[:0]
	for _, kv := range env {
		if !strings.HasPrefix(kv, prefix) {
			out = append(out, kv)
		}
	}
	return out
}

// ExitError reports a non-zero exit from the sandboxed command.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with code %d", e.Code)
}

// IsExitError checks if an error is an ExitError and returns the code.
func IsExitError(err error) (int, bool) {
	if exitErr, ok := err.(*ExitError); ok {
		return exitErr.Code, true
	}
	return 0, false
}
