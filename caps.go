// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package firejail

import "strings"

// CapsDrop configures Linux capability filtering for the sandbox. The
// zero value leaves filtering unconfigured. A CapsDrop is only read
// when the caps switch is enabled on the profile; configuring one
// without the switch is accepted and emits nothing.
type CapsDrop struct {
	kind capsKind
	keep []string
	drop []string
}

type capsKind int

const (
	capsUnset capsKind = iota
	capsAll
	capsSettings
)

// CapsDropAll drops every capability (--caps.drop=all).
func CapsDropAll() CapsDrop {
	return CapsDrop{kind: capsAll}
}

// CapsDropBuilder accumulates the keep and drop capability lists for a
// [CapsDrop] value. The builder is independent of any [Command]: lists
// can be assembled up front and the snapshot attached whenever the
// caller is ready.
type CapsDropBuilder struct {
	keep []string
	drop []string
}

// NewCapsDropBuilder returns an empty builder.
func NewCapsDropBuilder() *CapsDropBuilder {
	return &CapsDropBuilder{}
}

// Keep appends one capability name to the keep list.
func (b *CapsDropBuilder) Keep(capability string) *CapsDropBuilder {
	b.keep = append(b.keep, capability)
	return b
}

// KeepList appends every capability name to the keep list.
func (b *CapsDropBuilder) KeepList(capabilities ...string) *CapsDropBuilder {
	b.keep = append(b.keep, capabilities...)
	return b
}

// Drop appends one capability name to the drop list.
func (b *CapsDropBuilder) Drop(capability string) *CapsDropBuilder {
	b.drop = append(b.drop, capability)
	return b
}

// DropList appends every capability name to the drop list.
func (b *CapsDropBuilder) DropList(capabilities ...string) *CapsDropBuilder {
	b.drop = append(b.drop, capabilities...)
	return b
}

// Build snapshots the accumulated lists into an immutable [CapsDrop].
// The builder stays usable; later appends do not change values built
// earlier.
func (b *CapsDropBuilder) Build() CapsDrop {
	return CapsDrop{
		kind: capsSettings,
		keep: append([]string(nil), b.keep...),
		drop: append([]string(nil), b.drop...),
	}
}

// appendArgs emits the keep list before the drop list. An empty list
// on either side emits nothing for that side.
func (d CapsDrop) appendArgs(args []string) []string {
	switch d.kind {
	case capsAll:
		return append(args, flagCapsDropAll)
	case capsSettings:
		if len(d.keep) > 0 {
			args = append(args, flagCapsKeep+strings.Join(d.keep, ","))
		}
		if len(d.drop) > 0 {
			args = append(args, flagCapsDrop+strings.Join(d.drop, ","))
		}
	}
	return args
}
