// Package feature models the build-time image feature flags that a
// variant advertises as package capabilities. Each flag is a named
// boolean build option and always renders to exactly one of two
// mutually exclusive capability strings, e.g. "image-feature(fips)"
// or "image-feature(no-fips)".
package feature

import (
	"fmt"
)

// Flag is a named boolean image feature build option.
type Flag string

const (
	GrubSetPrivateVar      Flag = "grub-set-private-var"
	UEFISecureBoot         Flag = "uefi-secure-boot"
	SystemdNetworkd        Flag = "systemd-networkd"
	UnifiedCgroupHierarchy Flag = "unified-cgroup-hierarchy"
	XFSDataPartition       Flag = "xfs-data-partition"
	FIPS                   Flag = "fips"
)

// Flags lists all known feature flags in the order their capabilities
// appear in the rendered descriptor. Downstream tooling matches on the
// exact strings so the order and spelling here are part of the
// descriptor format.
var Flags = []Flag{
	GrubSetPrivateVar,
	UEFISecureBoot,
	SystemdNetworkd,
	UnifiedCgroupHierarchy,
	XFSDataPartition,
	FIPS,
}

func (f Flag) String() string {
	return string(f)
}

// Capability returns the capability string that declares the given
// state of the flag.
func (f Flag) Capability(enabled bool) string {
	if enabled {
		return fmt.Sprintf("image-feature(%s)", f)
	}
	return fmt.Sprintf("image-feature(no-%s)", f)
}

// FromString returns the flag with the given name.
func FromString(name string) (Flag, error) {
	for _, f := range Flags {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown image feature %q", name)
}

// Set holds the state of feature flags in declaration order. A nil or
// empty Set is valid and renders nothing; use Complete() to require
// that every known flag has been given a state.
type Set struct {
	order []Flag
	state map[Flag]bool
}

// NewSet creates an empty feature flag set.
func NewSet() *Set {
	return &Set{
		state: make(map[Flag]bool),
	}
}

// Add records the state of a flag. Adding a flag twice is an error,
// a conflicting redeclaration would make the capability set ambiguous.
func (s *Set) Add(f Flag, enabled bool) error {
	if _, err := FromString(string(f)); err != nil {
		return err
	}
	if _, ok := s.state[f]; ok {
		return fmt.Errorf("image feature %q declared twice", f)
	}
	s.order = append(s.order, f)
	s.state[f] = enabled
	return nil
}

// Enabled reports the state of a flag and whether it was declared.
func (s *Set) Enabled(f Flag) (enabled, declared bool) {
	enabled, declared = s.state[f]
	return enabled, declared
}

// Complete returns an error unless every known flag has a declared
// state. The build options come from an external build system and a
// missing value must never default silently, the descriptor would then
// mis-declare the image capabilities.
func (s *Set) Complete() error {
	for _, f := range Flags {
		if _, ok := s.state[f]; !ok {
			return fmt.Errorf("missing build option for image feature %q", f)
		}
	}
	return nil
}

// Capabilities renders one capability string per declared flag,
// preserving declaration order. Rendering is pure: identical input
// yields identical output.
func (s *Set) Capabilities() []string {
	caps := make([]string, 0, len(s.order))
	for _, f := range s.order {
		caps = append(caps, f.Capability(s.state[f]))
	}
	return caps
}

// Canonical builds a complete set with all known flags in canonical
// order from the given state map. Every known flag must be present and
// no unknown flags are accepted.
func Canonical(state map[Flag]bool) (*Set, error) {
	for f := range state {
		if _, err := FromString(string(f)); err != nil {
			return nil, err
		}
	}
	s := NewSet()
	for _, f := range Flags {
		enabled, ok := state[f]
		if !ok {
			return nil, fmt.Errorf("missing build option for image feature %q", f)
		}
		if err := s.Add(f, enabled); err != nil {
			return nil, err
		}
	}
	return s, nil
}
