// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package firejail

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Args renders the profile into the launcher's argument vector for the
// given target invocation. The result does not include the launcher
// binary itself.
//
// Emission order is a fixed total order so equal profiles produce
// byte-identical vectors no matter what call sequence built them:
//
//  1. --quiet, unless Verbose is set
//  2. boolean switches, in switchTable order
//  3. capability-drop flags, only while Caps is set
//  4. mode selections: seccomp, net, ip, netfilter, join, overlay,
//     private, private list, shell, x11
//  5. scalar options
//  6. comma-joined lists (--cpu=, --protocol=)
//  7. per-entry lists: binds, dns, blacklist, ignore, whitelist,
//     noblacklist, noexec, read-only, read-write, tmpfs, each in
//     append order
//  8. the -- separator, the executable, then its arguments verbatim
//
// Values are interpolated into flags as-is: no quoting, no escaping,
// no path checks. Each flag is one argv entry, so embedded spaces
// survive untouched.
func (p *Profile) Args(executable string, args []string) []string {
	v := make([]string, 0, 16+len(args))

	if !p.Verbose {
		v = append(v, flagQuiet)
	}

	for _, s := range switchTable {
		if *s.field(p) {
			v = append(v, s.flag)
		}
	}

	// Capability-drop configuration is inert without the switch.
	if p.Caps {
		v = p.CapsDrop.appendArgs(v)
	}

	v = p.Seccomp.appendArgs(v)
	v = p.Net.appendArgs(v)
	v = p.IP.appendArgs(v)
	v = p.Netfilter.appendArgs(v)
	v = p.Join.appendArgs(v)
	v = p.Overlay.appendArgs(v)
	v = p.Private.appendArgs(v)
	v = p.PrivateList.appendArgs(v)
	v = p.Shell.appendArgs(v)
	v = p.X11.appendArgs(v)

	v = p.appendScalarArgs(v)

	if len(p.CPUs) > 0 {
		v = append(v, flagCPU+joinInts(p.CPUs))
	}
	if len(p.Protocols) > 0 {
		v = append(v, flagProtocol+strings.Join(p.Protocols, ","))
	}

	for _, b := range p.Binds {
		v = append(v, flagBind+b.Source+","+b.Target)
	}
	for _, server := range p.DNS {
		v = append(v, flagDNS+server)
	}
	for _, path := range p.Blacklist {
		v = append(v, flagBlacklist+path)
	}
	for _, directive := range p.Ignore {
		v = append(v, flagIgnore+directive)
	}
	for _, path := range p.Whitelist {
		v = append(v, flagWhitelist+path)
	}
	for _, path := range p.NoBlacklist {
		v = append(v, flagNoBlacklist+path)
	}
	for _, path := range p.NoExec {
		v = append(v, flagNoExec+path)
	}
	for _, path := range p.ReadOnly {
		v = append(v, flagReadOnly+path)
	}
	for _, path := range p.ReadWrite {
		v = append(v, flagReadWrite+path)
	}
	for _, dir := range p.Tmpfs {
		v = append(v, flagTmpfs+dir)
	}

	v = append(v, argSeparator, executable)
	return append(v, args...)
}

// appendScalarArgs emits set scalar options in fixed order.
func (p *Profile) appendScalarArgs(v []string) []string {
	if p.Cgroup != "" {
		v = append(v, flagCgroup+p.Cgroup)
	}
	if p.DefaultGW != "" {
		v = append(v, flagDefaultGW+p.DefaultGW)
	}
	if p.Hostname != "" {
		v = append(v, flagHostname+p.Hostname)
	}
	if p.HostsFile != "" {
		v = append(v, flagHostsFile+p.HostsFile)
	}
	if p.MAC != "" {
		v = append(v, flagMAC+p.MAC)
	}
	if p.MTU != 0 {
		v = append(v, flagMTU+strconv.Itoa(p.MTU))
	}
	if p.Name != "" {
		v = append(v, flagName+p.Name)
	}
	if p.Netns != "" {
		v = append(v, flagNetns+p.Netns)
	}
	if p.Nice != nil {
		v = append(v, flagNice+strconv.Itoa(*p.Nice))
	}
	if p.ProfileFile != "" {
		v = append(v, flagProfile+p.ProfileFile)
	}
	if p.Timeout != 0 {
		v = append(v, flagTimeout+formatTimeout(p.Timeout))
	}
	return v
}

// joinInts renders ints in decimal, comma-joined, in slice order.
func joinInts(ints []int) string {
	parts := make([]string, len(ints))
	for i, n := range ints {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// formatTimeout renders a duration in the hh:mm:ss form the launcher
// expects. Sub-second remainders are truncated.
func formatTimeout(d time.Duration) string {
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
