// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/firejail"
)

// Preset is a declarative sandbox configuration. Presets are authored
// in YAML or JSONC config files, resolved through single-parent
// inheritance, and applied to a [firejail.Command] to produce the
// launcher invocation.
//
// A zero-value field means "not specified": it contributes nothing
// when the preset is applied, and during inheritance it defers to the
// parent.
type Preset struct {
	// Name is the preset's key in the config file. It is set during
	// parsing and ignored when marshalling.
	Name string `yaml:"-" json:"-"`

	// Description is a human-readable summary shown by preset listings.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Inherit names a parent preset. The parent is resolved first and
	// this preset's settings are merged over it. Inheritance chains are
	// followed; cycles are an error.
	Inherit string `yaml:"inherit,omitempty" json:"inherit,omitempty"`

	// Verbose lets the launcher print its own diagnostics instead of
	// passing --quiet.
	Verbose bool `yaml:"verbose,omitempty" json:"verbose,omitempty"`

	// Switches lists boolean launcher features to enable, by flag name
	// without the leading dashes: "nonewprivs", "private-dev", "caps",
	// and so on. Unknown names fail validation.
	Switches []string `yaml:"switches,omitempty" json:"switches,omitempty"`

	// Capability restrictions. CapsDropAll drops every capability;
	// CapsKeep and CapsDrop name individual capabilities to retain or
	// remove. Setting any of these implies the "caps" switch, so the
	// flags are emitted without listing it in Switches.
	CapsDropAll bool     `yaml:"caps_drop_all,omitempty" json:"caps_drop_all,omitempty"`
	CapsKeep    []string `yaml:"caps_keep,omitempty" json:"caps_keep,omitempty"`
	CapsDrop    []string `yaml:"caps_drop,omitempty" json:"caps_drop,omitempty"`

	// Seccomp filtering. Seccomp enables the launcher's default filter;
	// SeccompSyscalls, SeccompDrop and SeccompKeep install an explicit
	// syscall list instead. At most one may be set.
	Seccomp         bool     `yaml:"seccomp,omitempty" json:"seccomp,omitempty"`
	SeccompSyscalls []string `yaml:"seccomp_syscalls,omitempty" json:"seccomp_syscalls,omitempty"`
	SeccompDrop     []string `yaml:"seccomp_drop,omitempty" json:"seccomp_drop,omitempty"`
	SeccompKeep     []string `yaml:"seccomp_keep,omitempty" json:"seccomp_keep,omitempty"`

	// Net selects the network mode: "none" for no networking, or the
	// name of a host interface to join.
	Net string `yaml:"net,omitempty" json:"net,omitempty"`

	// IP assigns the sandbox address: "none" to skip address
	// assignment, or an explicit address.
	IP string `yaml:"ip,omitempty" json:"ip,omitempty"`

	// Netfilter installs a network filter: "default" for the launcher's
	// built-in client filter, or the path to a filter file.
	Netfilter string `yaml:"netfilter,omitempty" json:"netfilter,omitempty"`

	// Join attaches to an existing sandbox by name or PID. JoinNetwork
	// and JoinFilesystem attach to only that sandbox's network or
	// filesystem. At most one may be set.
	Join           string `yaml:"join,omitempty" json:"join,omitempty"`
	JoinNetwork    string `yaml:"join_network,omitempty" json:"join_network,omitempty"`
	JoinFilesystem string `yaml:"join_filesystem,omitempty" json:"join_filesystem,omitempty"`

	// Overlay mounts an overlay filesystem over the root: "root" for a
	// persistent overlay, "tmpfs" for one discarded on exit.
	// OverlayNamed selects a persistent overlay by name. At most one
	// may be set.
	Overlay      string `yaml:"overlay,omitempty" json:"overlay,omitempty"`
	OverlayNamed string `yaml:"overlay_named,omitempty" json:"overlay_named,omitempty"`

	// Private replaces the home directory with a fresh tmpfs;
	// PrivateDir mounts the given directory as home instead. At most
	// one may be set.
	Private    bool   `yaml:"private,omitempty" json:"private,omitempty"`
	PrivateDir string `yaml:"private_dir,omitempty" json:"private_dir,omitempty"`

	// Private system directories: the sandbox sees a skeleton directory
	// containing only the named entries. At most one may be set.
	PrivateBin  []string `yaml:"private_bin,omitempty" json:"private_bin,omitempty"`
	PrivateEtc  []string `yaml:"private_etc,omitempty" json:"private_etc,omitempty"`
	PrivateHome []string `yaml:"private_home,omitempty" json:"private_home,omitempty"`
	PrivateOpt  []string `yaml:"private_opt,omitempty" json:"private_opt,omitempty"`
	PrivateSrv  []string `yaml:"private_srv,omitempty" json:"private_srv,omitempty"`

	// Shell selects the sandbox login shell: "none" to run the target
	// directly, or the path to a shell binary.
	Shell string `yaml:"shell,omitempty" json:"shell,omitempty"`

	// X11 selects X11 sandboxing: "auto", "none", "xephyr", "xorg",
	// "xpra", or "xvfb".
	X11 string `yaml:"x11,omitempty" json:"x11,omitempty"`

	// Single-value launcher options. Zero values are not emitted.
	Cgroup      string `yaml:"cgroup,omitempty" json:"cgroup,omitempty"`
	DefaultGW   string `yaml:"default_gw,omitempty" json:"default_gw,omitempty"`
	Hostname    string `yaml:"hostname,omitempty" json:"hostname,omitempty"`
	HostsFile   string `yaml:"hosts_file,omitempty" json:"hosts_file,omitempty"`
	MAC         string `yaml:"mac,omitempty" json:"mac,omitempty"`
	MTU         int    `yaml:"mtu,omitempty" json:"mtu,omitempty"`
	Netns       string `yaml:"netns,omitempty" json:"netns,omitempty"`
	ProfileFile string `yaml:"profile_file,omitempty" json:"profile_file,omitempty"`

	// JailName names the sandbox for --join and process listings.
	// The preset's own Name is the config file key, so the sandbox
	// name has its own field.
	JailName string `yaml:"jail_name,omitempty" json:"jail_name,omitempty"`

	// Nice sets the process scheduling priority. A pointer
	// distinguishes "not specified" from an explicit zero.
	Nice *int `yaml:"nice,omitempty" json:"nice,omitempty"`

	// Timeout shuts the sandbox down after a Go duration string such
	// as "90s" or "1h30m".
	Timeout string `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// CPUs pins the sandbox to the given CPU numbers.
	CPUs []int `yaml:"cpus,omitempty" json:"cpus,omitempty"`

	// Protocols restricts socket protocols: "unix", "inet", "inet6",
	// "netlink", "packet".
	Protocols []string `yaml:"protocols,omitempty" json:"protocols,omitempty"`

	// Binds bind-mounts host paths into the sandbox.
	Binds []Bind `yaml:"binds,omitempty" json:"binds,omitempty"`

	// DNS lists nameservers for the sandbox.
	DNS []string `yaml:"dns,omitempty" json:"dns,omitempty"`

	// Path visibility and mount adjustments, one launcher argument per
	// entry.
	Blacklist   []string `yaml:"blacklist,omitempty" json:"blacklist,omitempty"`
	NoBlacklist []string `yaml:"noblacklist,omitempty" json:"noblacklist,omitempty"`
	Whitelist   []string `yaml:"whitelist,omitempty" json:"whitelist,omitempty"`
	NoExec      []string `yaml:"noexec,omitempty" json:"noexec,omitempty"`
	ReadOnly    []string `yaml:"read_only,omitempty" json:"read_only,omitempty"`
	ReadWrite   []string `yaml:"read_write,omitempty" json:"read_write,omitempty"`
	Tmpfs       []string `yaml:"tmpfs,omitempty" json:"tmpfs,omitempty"`

	// Ignore drops directives from applied profile files.
	Ignore []string `yaml:"ignore,omitempty" json:"ignore,omitempty"`

	// ClearEnv starts the sandbox with an empty environment instead of
	// inheriting the parent process environment.
	ClearEnv bool `yaml:"clear_env,omitempty" json:"clear_env,omitempty"`

	// Env sets environment variables inside the sandbox.
	Env map[string]string `yaml:"env,omitempty" json:"env,omitempty"`

	// UnsetEnv removes inherited environment variables.
	UnsetEnv []string `yaml:"unset_env,omitempty" json:"unset_env,omitempty"`
}

// Bind describes a bind mount from a host path to a sandbox path.
type Bind struct {
	Source string `yaml:"source" json:"source"`
	Target string `yaml:"target" json:"target"`
}

// Overlay modes for [Preset.Overlay].
const (
	OverlayModeRoot  = "root"
	OverlayModeTmpfs = "tmpfs"
)

// X11 modes for [Preset.X11].
const (
	X11ModeAuto   = "auto"
	X11ModeNone   = "none"
	X11ModeXephyr = "xephyr"
	X11ModeXorg   = "xorg"
	X11ModeXpra   = "xpra"
	X11ModeXvfb   = "xvfb"
)

// PresetsConfig is the top-level structure of a preset config file.
type PresetsConfig struct {
	Presets map[string]*Preset `yaml:"presets" json:"presets"`
}

// ParsePresetsConfig parses a YAML preset config. Preset names are
// taken from the map keys.
func ParsePresetsConfig(data []byte) (*PresetsConfig, error) {
	var config PresetsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}
	config.setNames()
	return &config, nil
}

// ParsePresetsConfigJSON parses a JSON or JSONC preset config. JSONC
// extends JSON with // line comments, /* block comments */, and
// trailing commas.
func ParsePresetsConfigJSON(data []byte) (*PresetsConfig, error) {
	stripped := jsonc.ToJSON(data)
	var config PresetsConfig
	if err := json.Unmarshal(stripped, &config); err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}
	config.setNames()
	return &config, nil
}

// setNames fills each preset's Name from its map key. Entries with no
// body become empty presets rather than nils.
func (c *PresetsConfig) setNames() {
	for name, preset := range c.Presets {
		if preset == nil {
			preset = &Preset{}
			c.Presets[name] = preset
		}
		preset.Name = name
	}
}

// LoadPresetsConfig reads a preset config file, selecting the format
// by extension: .json and .jsonc parse as JSONC, everything else as
// YAML.
func LoadPresetsConfig(path string) (*PresetsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var config *PresetsConfig
	switch filepath.Ext(path) {
	case ".json", ".jsonc":
		config, err = ParsePresetsConfigJSON(data)
	default:
		config, err = ParsePresetsConfig(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// Clone creates a deep copy of the preset.
func (p *Preset) Clone() *Preset {
	clone := *p

	clone.Switches = cloneStrings(p.Switches)
	clone.CapsKeep = cloneStrings(p.CapsKeep)
	clone.CapsDrop = cloneStrings(p.CapsDrop)
	clone.SeccompSyscalls = cloneStrings(p.SeccompSyscalls)
	clone.SeccompDrop = cloneStrings(p.SeccompDrop)
	clone.SeccompKeep = cloneStrings(p.SeccompKeep)
	clone.PrivateBin = cloneStrings(p.PrivateBin)
	clone.PrivateEtc = cloneStrings(p.PrivateEtc)
	clone.PrivateHome = cloneStrings(p.PrivateHome)
	clone.PrivateOpt = cloneStrings(p.PrivateOpt)
	clone.PrivateSrv = cloneStrings(p.PrivateSrv)
	clone.Protocols = cloneStrings(p.Protocols)
	clone.DNS = cloneStrings(p.DNS)
	clone.Blacklist = cloneStrings(p.Blacklist)
	clone.NoBlacklist = cloneStrings(p.NoBlacklist)
	clone.Whitelist = cloneStrings(p.Whitelist)
	clone.NoExec = cloneStrings(p.NoExec)
	clone.ReadOnly = cloneStrings(p.ReadOnly)
	clone.ReadWrite = cloneStrings(p.ReadWrite)
	clone.Tmpfs = cloneStrings(p.Tmpfs)
	clone.Ignore = cloneStrings(p.Ignore)
	clone.UnsetEnv = cloneStrings(p.UnsetEnv)

	if p.CPUs != nil {
		clone.CPUs = make([]int, len(p.CPUs))
		copy(clone.CPUs, p.CPUs)
	}
	if p.Binds != nil {
		clone.Binds = make([]Bind, len(p.Binds))
		copy(clone.Binds, p.Binds)
	}
	if p.Env != nil {
		clone.Env = make(map[string]string, len(p.Env))
		for k, v := range p.Env {
			clone.Env[k] = v
		}
	}
	if p.Nice != nil {
		value := *p.Nice
		clone.Nice = &value
	}

	return &clone
}

// cloneStrings returns a copy of list, preserving nil.
func cloneStrings(list []string) []string {
	if list == nil {
		return nil
	}
	result := make([]string, len(list))
	copy(result, list)
	return result
}

// Validate checks that the preset is well-formed: switch names are
// known, mutually exclusive settings are not combined, and values
// with a closed syntax parse.
func (p *Preset) Validate() error {
	var errors []string

	known := make(map[string]bool)
	for _, name := range firejail.SwitchNames() {
		known[name] = true
	}
	for _, name := range p.Switches {
		if !known[name] {
			errors = append(errors, fmt.Sprintf("unknown switch %q", name))
		}
	}

	if p.CapsDropAll && (len(p.CapsKeep) > 0 || len(p.CapsDrop) > 0) {
		errors = append(errors, "caps_drop_all conflicts with caps_keep and caps_drop")
	}

	seccompModes := 0
	if p.Seccomp {
		seccompModes++
	}
	if len(p.SeccompSyscalls) > 0 {
		seccompModes++
	}
	if len(p.SeccompDrop) > 0 {
		seccompModes++
	}
	if len(p.SeccompKeep) > 0 {
		seccompModes++
	}
	if seccompModes > 1 {
		errors = append(errors, "seccomp, seccomp_syscalls, seccomp_drop and seccomp_keep are mutually exclusive")
	}

	joinModes := 0
	if p.Join != "" {
		joinModes++
	}
	if p.JoinNetwork != "" {
		joinModes++
	}
	if p.JoinFilesystem != "" {
		joinModes++
	}
	if joinModes > 1 {
		errors = append(errors, "join, join_network and join_filesystem are mutually exclusive")
	}

	if p.Overlay != "" && p.OverlayNamed != "" {
		errors = append(errors, "overlay conflicts with overlay_named")
	}
	if p.Overlay != "" && p.Overlay != OverlayModeRoot && p.Overlay != OverlayModeTmpfs {
		errors = append(errors, fmt.Sprintf("invalid overlay mode %q (must be root or tmpfs)", p.Overlay))
	}

	if p.Private && p.PrivateDir != "" {
		errors = append(errors, "private conflicts with private_dir")
	}

	privateLists := 0
	if len(p.PrivateBin) > 0 {
		privateLists++
	}
	if len(p.PrivateEtc) > 0 {
		privateLists++
	}
	if len(p.PrivateHome) > 0 {
		privateLists++
	}
	if len(p.PrivateOpt) > 0 {
		privateLists++
	}
	if len(p.PrivateSrv) > 0 {
		privateLists++
	}
	if privateLists > 1 {
		errors = append(errors, "private_bin, private_etc, private_home, private_opt and private_srv are mutually exclusive")
	}

	switch p.X11 {
	case "", X11ModeAuto, X11ModeNone, X11ModeXephyr, X11ModeXorg, X11ModeXpra, X11ModeXvfb:
	default:
		errors = append(errors, fmt.Sprintf("invalid x11 mode %q", p.X11))
	}

	for i, b := range p.Binds {
		if b.Source == "" {
			errors = append(errors, fmt.Sprintf("binds[%d]: source is required", i))
		}
		if b.Target == "" {
			errors = append(errors, fmt.Sprintf("binds[%d]: target is required", i))
		}
	}

	if p.MTU < 0 {
		errors = append(errors, "mtu must be >= 0")
	}

	if p.Timeout != "" {
		if d, err := time.ParseDuration(p.Timeout); err != nil {
			errors = append(errors, fmt.Sprintf("invalid timeout %q: %v", p.Timeout, err))
		} else if d < 0 {
			errors = append(errors, "timeout must not be negative")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("preset %q validation failed:\n  %s", p.Name, strings.Join(errors, "\n  "))
	}

	return nil
}

// Apply configures c with every setting in the preset. Settings go
// through the public builder API: switches and list entries accumulate
// on top of whatever the command already carries, while single-slot
// settings (network mode, overlay mode, and so on) replace any earlier
// selection.
//
// The preset is validated first, so a returned error normally leaves c
// untouched. Errors surfacing later can leave c partially configured.
func (p *Preset) Apply(c *firejail.Command) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if p.Verbose {
		c.Verbose()
	}
	for _, name := range p.Switches {
		if err := c.Enable(name); err != nil {
			return fmt.Errorf("preset %q: %w", p.Name, err)
		}
	}

	p.applyCaps(c)
	p.applySeccomp(c)
	p.applyNetwork(c)
	p.applyFilesystem(c)
	p.applySession(c)
	if err := p.applyScalars(c); err != nil {
		return fmt.Errorf("preset %q: %w", p.Name, err)
	}
	p.applyLists(c)
	p.applyEnvironment(c)

	return nil
}

func (p *Preset) applyCaps(c *firejail.Command) {
	switch {
	case p.CapsDropAll:
		c.Caps().CapsDrop(firejail.CapsDropAll())
	case len(p.CapsKeep) > 0 || len(p.CapsDrop) > 0:
		builder := firejail.NewCapsDropBuilder()
		builder.KeepList(p.CapsKeep...)
		builder.DropList(p.CapsDrop...)
		c.Caps().CapsDrop(builder.Build())
	}
}

func (p *Preset) applySeccomp(c *firejail.Command) {
	switch {
	case p.Seccomp:
		c.Seccomp(firejail.SeccompFilter())
	case len(p.SeccompSyscalls) > 0:
		c.Seccomp(firejail.SeccompSyscalls(p.SeccompSyscalls...))
	case len(p.SeccompDrop) > 0:
		c.Seccomp(firejail.SeccompDrop(p.SeccompDrop...))
	case len(p.SeccompKeep) > 0:
		c.Seccomp(firejail.SeccompKeep(p.SeccompKeep...))
	}
}

func (p *Preset) applyNetwork(c *firejail.Command) {
	switch p.Net {
	case "":
	case "none":
		c.Net(firejail.NetNone())
	default:
		c.Net(firejail.NetInterface(p.Net))
	}

	switch p.IP {
	case "":
	case "none":
		c.IP(firejail.IPNone())
	default:
		c.IP(firejail.IPAddress(p.IP))
	}

	switch p.Netfilter {
	case "":
	case "default":
		c.Netfilter(firejail.NetfilterDefault())
	default:
		c.Netfilter(firejail.NetfilterFile(p.Netfilter))
	}

	switch {
	case p.Join != "":
		c.Join(firejail.JoinSandbox(p.Join))
	case p.JoinNetwork != "":
		c.Join(firejail.JoinNetwork(p.JoinNetwork))
	case p.JoinFilesystem != "":
		c.Join(firejail.JoinFilesystem(p.JoinFilesystem))
	}
}

func (p *Preset) applyFilesystem(c *firejail.Command) {
	switch {
	case p.Overlay == OverlayModeRoot:
		c.Overlay(firejail.OverlayRoot())
	case p.Overlay == OverlayModeTmpfs:
		c.Overlay(firejail.OverlayTmpfs())
	case p.OverlayNamed != "":
		c.Overlay(firejail.OverlayNamed(p.OverlayNamed))
	}

	switch {
	case p.Private:
		c.Private(firejail.PrivateHome())
	case p.PrivateDir != "":
		c.Private(firejail.PrivateDirectory(p.PrivateDir))
	}

	switch {
	case len(p.PrivateBin) > 0:
		c.PrivateList(firejail.PrivateBin(p.PrivateBin...))
	case len(p.PrivateEtc) > 0:
		c.PrivateList(firejail.PrivateEtc(p.PrivateEtc...))
	case len(p.PrivateHome) > 0:
		c.PrivateList(firejail.PrivateHomeFiles(p.PrivateHome...))
	case len(p.PrivateOpt) > 0:
		c.PrivateList(firejail.PrivateOpt(p.PrivateOpt...))
	case len(p.PrivateSrv) > 0:
		c.PrivateList(firejail.PrivateSrv(p.PrivateSrv...))
	}
}

func (p *Preset) applySession(c *firejail.Command) {
	switch p.Shell {
	case "":
	case "none":
		c.Shell(firejail.ShellNone())
	default:
		c.Shell(firejail.ShellPath(p.Shell))
	}

	switch p.X11 {
	case X11ModeAuto:
		c.X11(firejail.X11Auto())
	case X11ModeNone:
		c.X11(firejail.X11None())
	case X11ModeXephyr:
		c.X11(firejail.X11Xephyr())
	case X11ModeXorg:
		c.X11(firejail.X11Xorg())
	case X11ModeXpra:
		c.X11(firejail.X11Xpra())
	case X11ModeXvfb:
		c.X11(firejail.X11Xvfb())
	}
}

func (p *Preset) applyScalars(c *firejail.Command) error {
	if p.Cgroup != "" {
		c.Cgroup(p.Cgroup)
	}
	if p.DefaultGW != "" {
		c.DefaultGW(p.DefaultGW)
	}
	if p.Hostname != "" {
		c.Hostname(p.Hostname)
	}
	if p.HostsFile != "" {
		c.HostsFile(p.HostsFile)
	}
	if p.MAC != "" {
		c.MAC(p.MAC)
	}
	if p.MTU != 0 {
		c.MTU(p.MTU)
	}
	if p.JailName != "" {
		c.Name(p.JailName)
	}
	if p.Netns != "" {
		c.Netns(p.Netns)
	}
	if p.Nice != nil {
		c.Nice(*p.Nice)
	}
	if p.ProfileFile != "" {
		c.ProfileFile(p.ProfileFile)
	}
	if p.Timeout != "" {
		d, err := time.ParseDuration(p.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", p.Timeout, err)
		}
		c.Timeout(d)
	}
	return nil
}

func (p *Preset) applyLists(c *firejail.Command) {
	if len(p.CPUs) > 0 {
		c.CPUs(p.CPUs...)
	}
	if len(p.Protocols) > 0 {
		c.Protocols(p.Protocols...)
	}
	for _, b := range p.Binds {
		c.Bind(b.Source, b.Target)
	}
	if len(p.DNS) > 0 {
		c.DNSServers(p.DNS...)
	}
	if len(p.Blacklist) > 0 {
		c.Blacklists(p.Blacklist...)
	}
	if len(p.NoBlacklist) > 0 {
		c.NoBlacklists(p.NoBlacklist...)
	}
	if len(p.Whitelist) > 0 {
		c.Whitelists(p.Whitelist...)
	}
	if len(p.NoExec) > 0 {
		c.NoExecs(p.NoExec...)
	}
	if len(p.ReadOnly) > 0 {
		c.ReadOnlyPaths(p.ReadOnly...)
	}
	if len(p.ReadWrite) > 0 {
		c.ReadWritePaths(p.ReadWrite...)
	}
	if len(p.Tmpfs) > 0 {
		c.TmpfsDirs(p.Tmpfs...)
	}
	if len(p.Ignore) > 0 {
		c.Ignores(p.Ignore...)
	}
}

func (p *Preset) applyEnvironment(c *firejail.Command) {
	if p.ClearEnv {
		c.ClearEnv()
	}
	for _, key := range p.UnsetEnv {
		c.UnsetEnv(key)
	}
	if len(p.Env) > 0 {
		c.SetEnvs(p.Env)
	}
}

// MergePresets merges child preset settings into parent. Single-value
// settings from the child override the parent's; list-valued settings
// replace the parent's list when the child sets them. Switches are the
// union of both, parent's first. Env merges per key with the child
// winning. Settings families whose members are mutually exclusive
// (seccomp, join, overlay, private) replace as a unit: a child that
// sets any member clears the rest of the parent's family.
//
// Boolean fields merge by OR; a child cannot clear a parent's flag.
func MergePresets(parent, child *Preset) *Preset {
	result := parent.Clone()
	result.Name = child.Name
	result.Inherit = ""

	if child.Description != "" {
		result.Description = child.Description
	}
	if child.Verbose {
		result.Verbose = true
	}

	if len(child.Switches) > 0 {
		seen := make(map[string]bool, len(result.Switches))
		for _, name := range result.Switches {
			seen[name] = true
		}
		for _, name := range child.Switches {
			if !seen[name] {
				result.Switches = append(result.Switches, name)
				seen[name] = true
			}
		}
	}

	if child.CapsDropAll || len(child.CapsKeep) > 0 || len(child.CapsDrop) > 0 {
		result.CapsDropAll = child.CapsDropAll
		result.CapsKeep = cloneStrings(child.CapsKeep)
		result.CapsDrop = cloneStrings(child.CapsDrop)
	}

	if child.Seccomp || len(child.SeccompSyscalls) > 0 || len(child.SeccompDrop) > 0 || len(child.SeccompKeep) > 0 {
		result.Seccomp = child.Seccomp
		result.SeccompSyscalls = cloneStrings(child.SeccompSyscalls)
		result.SeccompDrop = cloneStrings(child.SeccompDrop)
		result.SeccompKeep = cloneStrings(child.SeccompKeep)
	}

	if child.Net != "" {
		result.Net = child.Net
	}
	if child.IP != "" {
		result.IP = child.IP
	}
	if child.Netfilter != "" {
		result.Netfilter = child.Netfilter
	}

	if child.Join != "" || child.JoinNetwork != "" || child.JoinFilesystem != "" {
		result.Join = child.Join
		result.JoinNetwork = child.JoinNetwork
		result.JoinFilesystem = child.JoinFilesystem
	}

	if child.Overlay != "" || child.OverlayNamed != "" {
		result.Overlay = child.Overlay
		result.OverlayNamed = child.OverlayNamed
	}

	if child.Private || child.PrivateDir != "" {
		result.Private = child.Private
		result.PrivateDir = child.PrivateDir
	}

	if len(child.PrivateBin)+len(child.PrivateEtc)+len(child.PrivateHome)+len(child.PrivateOpt)+len(child.PrivateSrv) > 0 {
		result.PrivateBin = cloneStrings(child.PrivateBin)
		result.PrivateEtc = cloneStrings(child.PrivateEtc)
		result.PrivateHome = cloneStrings(child.PrivateHome)
		result.PrivateOpt = cloneStrings(child.PrivateOpt)
		result.PrivateSrv = cloneStrings(child.PrivateSrv)
	}

	if child.Shell != "" {
		result.Shell = child.Shell
	}
	if child.X11 != "" {
		result.X11 = child.X11
	}

	if child.Cgroup != "" {
		result.Cgroup = child.Cgroup
	}
	if child.DefaultGW != "" {
		result.DefaultGW = child.DefaultGW
	}
	if child.Hostname != "" {
		result.Hostname = child.Hostname
	}
	if child.HostsFile != "" {
		result.HostsFile = child.HostsFile
	}
	if child.MAC != "" {
		result.MAC = child.MAC
	}
	if child.MTU != 0 {
		result.MTU = child.MTU
	}
	if child.Netns != "" {
		result.Netns = child.Netns
	}
	if child.ProfileFile != "" {
		result.ProfileFile = child.ProfileFile
	}
	if child.JailName != "" {
		result.JailName = child.JailName
	}
	if child.Nice != nil {
		value := *child.Nice
		result.Nice = &value
	}
	if child.Timeout != "" {
		result.Timeout = child.Timeout
	}

	if len(child.CPUs) > 0 {
		result.CPUs = make([]int, len(child.CPUs))
		copy(result.CPUs, child.CPUs)
	}
	if len(child.Protocols) > 0 {
		result.Protocols = cloneStrings(child.Protocols)
	}
	if len(child.Binds) > 0 {
		result.Binds = make([]Bind, len(child.Binds))
		copy(result.Binds, child.Binds)
	}
	if len(child.DNS) > 0 {
		result.DNS = cloneStrings(child.DNS)
	}
	if len(child.Blacklist) > 0 {
		result.Blacklist = cloneStrings(child.Blacklist)
	}
	if len(child.NoBlacklist) > 0 {
		result.NoBlacklist = cloneStrings(child.NoBlacklist)
	}
	if len(child.Whitelist) > 0 {
		result.Whitelist = cloneStrings(child.Whitelist)
	}
	if len(child.NoExec) > 0 {
		result.NoExec = cloneStrings(child.NoExec)
	}
	if len(child.ReadOnly) > 0 {
		result.ReadOnly = cloneStrings(child.ReadOnly)
	}
	if len(child.ReadWrite) > 0 {
		result.ReadWrite = cloneStrings(child.ReadWrite)
	}
	if len(child.Tmpfs) > 0 {
		result.Tmpfs = cloneStrings(child.Tmpfs)
	}
	if len(child.Ignore) > 0 {
		result.Ignore = cloneStrings(child.Ignore)
	}

	if child.ClearEnv {
		result.ClearEnv = true
	}
	if len(child.Env) > 0 {
		if result.Env == nil {
			result.Env = make(map[string]string)
		}
		for k, v := range child.Env {
			result.Env[k] = v
		}
	}
	if len(child.UnsetEnv) > 0 {
		seen := make(map[string]bool, len(result.UnsetEnv))
		for _, key := range result.UnsetEnv {
			seen[key] = true
		}
		for _, key := range child.UnsetEnv {
			if !seen[key] {
				result.UnsetEnv = append(result.UnsetEnv, key)
				seen[key] = true
			}
		}
	}

	return result
}
