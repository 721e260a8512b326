// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package firejail builds and spawns firejail sandbox invocations.
//
// The central type is [Command], a fluent builder that collects the
// target executable, its arguments, and a [Profile] of sandbox
// restrictions, then renders them into the launcher's exact argument
// vector and starts it via os/exec:
//
//	cmd := firejail.New("/usr/bin/env").
//		Caps().
//		AppArmor().
//		PrivateTmp().
//		Net(firejail.NetNone())
//	if err := cmd.Run(ctx); err != nil { ... }
//
// Flag emission is the behavioral contract. [Profile.Args] walks the
// finished profile in a fixed total order (quiet flag, boolean
// switches, capability-drop flags, mode selections, scalars, lists,
// separator, target) so two profiles with equal field values always
// produce byte-identical command lines, which keeps generated
// invocations testable and diffable. Boolean switches are driven by a
// single table (see SwitchNames); mode features like networking,
// seccomp, and X11 isolation are closed types ([NetMode],
// [SeccompMode], [X11Mode], ...) whose constructors are the only way
// to obtain a non-default value.
//
// Capability dropping uses a two-phase shape: a [CapsDropBuilder]
// accumulates keep and drop lists independently of any Command, and
// its Build snapshot is attached with [Command.CapsDrop]. The snapshot
// only reaches the command line while the caps switch is enabled.
//
// The package performs no validation beyond locating the launcher
// binary: paths are not checked for existence, flag combinations are
// not checked for launcher compatibility, and the launcher's own
// diagnostics are the only feedback for a rejected configuration.
// Spawning is delegated to os/exec; [Command.Cmd] exposes the
// underlying exec.Cmd for callers that need pipes or custom process
// attributes, [Command.Spawn] starts the child without waiting, and
// [Command.Run] waits and maps a non-zero exit to [ExitError].
//
// [Capability] probes the host for a usable launcher, mirroring how
// deployments differ: firejail may be absent, on PATH, or installed
// setuid in a standard location. Named, reusable configurations live
// in the preset subpackage.
package firejail
