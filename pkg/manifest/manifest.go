// Package manifest reads the TOML build manifests that declare how a
// package or variant is built: the image feature defaults, which
// architectures a variant supports, how a package reacts to variant
// changes, and an optional package name override.
//
// The metadata lives under [package.metadata] so the same file can be
// shared with other build tooling that ignores unknown sections; inside
// our own sections unknown keys are errors.
package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/osbuild/buildsys/internal/common"
	"github.com/osbuild/buildsys/pkg/arch"
	"github.com/osbuild/buildsys/pkg/feature"
)

// SensitivityType names the variant identity part a package is
// sensitive to. A sensitive package is rebuilt whenever that part of
// the variant changes.
type SensitivityType string

const (
	SensitivityAny      SensitivityType = "any"
	SensitivityPlatform SensitivityType = "platform"
	SensitivityRuntime  SensitivityType = "runtime"
	SensitivityFamily   SensitivityType = "family"
	SensitivityFlavor   SensitivityType = "flavor"
)

type buildPackage struct {
	PackageName      string   `toml:"package-name"`
	VariantSensitive any      `toml:"variant-sensitive"`
	SourceGroups     []string `toml:"source-groups"`
}

type featureConditions struct {
	VersionLessThan       map[string]map[string]bool `toml:"version-less-than"`
	VersionGreaterOrEqual map[string]map[string]bool `toml:"version-greater-or-equal"`
}

type buildVariant struct {
	IncludedPackages []string           `toml:"included-packages"`
	SupportedArches  []string           `toml:"supported-arches"`
	ImageFeatures    map[string]bool    `toml:"image-features"`
	Condition        *featureConditions `toml:"condition"`
}

type metadata struct {
	BuildPackage *buildPackage `toml:"build-package"`
	BuildVariant *buildVariant `toml:"build-variant"`
}

type pkg struct {
	Name     string   `toml:"name"`
	Version  string   `toml:"version"`
	Metadata metadata `toml:"metadata"`
}

type manifestTOML struct {
	Package pkg `toml:"package"`
}

// Info gives access to the parsed build manifest.
type Info struct {
	path     string
	manifest manifestTOML
}

// New parses the build manifest at the given path. Keys inside our
// metadata sections that we do not know are errors, a typoed feature
// table would otherwise silently change what the image declares.
func New(path string) (*Info, error) {
	var m manifestTOML
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("cannot parse manifest %q: %w", path, err)
	}
	for _, key := range meta.Undecoded() {
		name := key.String()
		if strings.HasPrefix(name, "package.metadata.build-package.") ||
			strings.HasPrefix(name, "package.metadata.build-variant.") {
			return nil, fmt.Errorf("unknown key %q in manifest %q", name, path)
		}
	}
	info := &Info{path: path, manifest: m}
	if err := info.validate(); err != nil {
		return nil, err
	}
	return info, nil
}

func (i *Info) validate() error {
	if bv := i.manifest.Package.Metadata.BuildVariant; bv != nil {
		for name := range bv.ImageFeatures {
			if _, err := feature.FromString(name); err != nil {
				return fmt.Errorf("invalid manifest %q: %w", i.path, err)
			}
		}
		if cond := bv.Condition; cond != nil {
			for _, features := range cond.VersionLessThan {
				for name := range features {
					if _, err := feature.FromString(name); err != nil {
						return fmt.Errorf("invalid manifest %q: %w", i.path, err)
					}
				}
			}
			for _, features := range cond.VersionGreaterOrEqual {
				for name := range features {
					if _, err := feature.FromString(name); err != nil {
						return fmt.Errorf("invalid manifest %q: %w", i.path, err)
					}
				}
			}
		}
		for _, name := range bv.SupportedArches {
			if _, err := arch.FromString(name); err != nil {
				return fmt.Errorf("invalid manifest %q: %w", i.path, err)
			}
		}
	}
	if bp := i.manifest.Package.Metadata.BuildPackage; bp != nil {
		if _, err := bp.sensitivity(); err != nil {
			return fmt.Errorf("invalid manifest %q: %w", i.path, err)
		}
	}
	return nil
}

// PackageName returns the name the built package should carry. A
// manifest can override the name, e.g. to use characters the build
// system does not allow in project names.
func (i *Info) PackageName() string {
	if bp := i.manifest.Package.Metadata.BuildPackage; bp != nil && bp.PackageName != "" {
		return bp.PackageName
	}
	return i.manifest.Package.Name
}

// SourceGroups lists the shared source directories the package builds
// from.
func (i *Info) SourceGroups() []string {
	if bp := i.manifest.Package.Metadata.BuildPackage; bp != nil {
		return bp.SourceGroups
	}
	return nil
}

func (bp *buildPackage) sensitivity() (SensitivityType, error) {
	switch v := bp.VariantSensitive.(type) {
	case nil:
		return "", nil
	case bool:
		if v {
			return SensitivityAny, nil
		}
		return "", nil
	case string:
		switch s := SensitivityType(v); s {
		case SensitivityPlatform, SensitivityRuntime, SensitivityFamily, SensitivityFlavor:
			return s, nil
		default:
			return "", fmt.Errorf("unknown variant sensitivity %q", v)
		}
	default:
		return "", fmt.Errorf("variant-sensitive must be a boolean or a string, got %T", v)
	}
}

// VariantSensitivity reports which part of the variant identity the
// package is sensitive to. The empty string means not sensitive.
func (i *Info) VariantSensitivity() (SensitivityType, error) {
	bp := i.manifest.Package.Metadata.BuildPackage
	if bp == nil {
		return "", nil
	}
	return bp.sensitivity()
}

// IncludedPackages lists the packages a variant image includes. An
// empty list means there is nothing to build for this variant.
func (i *Info) IncludedPackages() []string {
	if bv := i.manifest.Package.Metadata.BuildVariant; bv != nil {
		return bv.IncludedPackages
	}
	return nil
}

// SupportedArches returns the architectures the variant supports, or
// nil when the manifest does not restrict them.
func (i *Info) SupportedArches() ([]arch.Arch, error) {
	bv := i.manifest.Package.Metadata.BuildVariant
	if bv == nil || bv.SupportedArches == nil {
		return nil, nil
	}
	arches := make([]arch.Arch, 0, len(bv.SupportedArches))
	for _, name := range bv.SupportedArches {
		a, err := arch.FromString(name)
		if err != nil {
			return nil, err
		}
		arches = append(arches, a)
	}
	return arches, nil
}

// CheckArch fails when the manifest restricts the supported
// architectures and the given one is not among them.
func (i *Info) CheckArch(target arch.Arch) error {
	supported, err := i.SupportedArches()
	if err != nil {
		return err
	}
	if supported == nil {
		return nil
	}
	var names []string
	for _, a := range supported {
		if a == target {
			return nil
		}
		names = append(names, a.String())
	}
	return fmt.Errorf("unsupported architecture %s, this variant supports %s", target, strings.Join(names, ", "))
}

// ImageFeatures resolves the variant's feature flag states for the
// given image version. Version conditions override the base states;
// conditions are applied in sorted version order so the result is
// deterministic when several match.
func (i *Info) ImageFeatures(imageVersion string) (map[feature.Flag]bool, error) {
	bv := i.manifest.Package.Metadata.BuildVariant
	if bv == nil {
		return nil, fmt.Errorf("manifest %q has no build-variant metadata", i.path)
	}

	states := make(map[feature.Flag]bool, len(bv.ImageFeatures))
	for name, enabled := range bv.ImageFeatures {
		f, err := feature.FromString(name)
		if err != nil {
			return nil, err
		}
		states[f] = enabled
	}

	if cond := bv.Condition; cond != nil {
		apply := func(conditions map[string]map[string]bool, matches func(string) (bool, error)) error {
			versions := make([]string, 0, len(conditions))
			for ver := range conditions {
				versions = append(versions, ver)
			}
			sort.Strings(versions)
			for _, ver := range versions {
				ok, err := matches(ver)
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
				for name, enabled := range conditions[ver] {
					f, err := feature.FromString(name)
					if err != nil {
						return err
					}
					states[f] = enabled
				}
			}
			return nil
		}

		err := apply(cond.VersionLessThan, func(ver string) (bool, error) {
			return common.VersionLessThan(imageVersion, ver)
		})
		if err != nil {
			return nil, err
		}
		err = apply(cond.VersionGreaterOrEqual, func(ver string) (bool, error) {
			return common.VersionGreaterThanOrEqual(imageVersion, ver)
		})
		if err != nil {
			return nil, err
		}
	}

	return states, nil
}
