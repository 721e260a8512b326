// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package preset loads declarative sandbox configurations and applies
// them to firejail commands.
//
// A [Preset] is the file-format counterpart of a programmatically built
// [firejail.Command]: switches, capability and seccomp restrictions,
// network and filesystem modes, environment edits. Presets are authored
// in YAML or JSONC ([ParsePresetsConfig], [ParsePresetsConfigJSON]) and
// support single inheritance via the Inherit field, resolved by
// [Loader.Resolve] with child settings merged over the parent
// ([MergePresets]). Inheritance cycles are detected and reported.
//
// [Loader] collects preset definitions from multiple sources - the
// built-in defaults, explicit files, directories, or the standard
// search paths ([ConfigSearchPaths]) - with later-loaded definitions
// shadowing earlier ones by name. Resolved presets are cached.
//
// [Preset.Apply] configures a command through the public builder API,
// so a preset and the equivalent method chain produce identical
// argument vectors. [Preset.Validate] checks a preset without applying
// it: unknown switch names, conflicting mutually exclusive settings,
// and malformed values are reported together.
package preset
