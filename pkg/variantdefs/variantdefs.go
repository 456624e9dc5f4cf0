// Package variantdefs contains the built-in variant definitions: the
// identity, supported architectures and default image feature states
// of every variant this build system knows how to describe.
package variantdefs

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/osbuild/buildsys/pkg/arch"
	"github.com/osbuild/buildsys/pkg/feature"
	"github.com/osbuild/buildsys/pkg/variant"
)

//go:embed defs/*.yaml
var data embed.FS

// DataFS is the filesystem the definitions are loaded from, it is
// replaceable for testing.
var DataFS fs.FS = data

type VariantDef struct {
	Variant         string          `yaml:"variant"`
	SupportedArches []string        `yaml:"supported_arches"`
	ImageFeatures   map[string]bool `yaml:"image_features"`
}

func defPath(name string) string {
	return "defs/" + name + ".yaml"
}

// List returns the names of all defined variants, sorted.
func List() ([]string, error) {
	entries, err := fs.ReadDir(DataFS, "defs")
	if err != nil {
		return nil, fmt.Errorf("cannot list variant definitions: %w", err)
	}
	var names []string
	for _, entry := range entries {
		name, ok := strings.CutSuffix(entry.Name(), ".yaml")
		if !ok {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Load reads the definition of the given variant. Definitions are
// decoded strictly, an unknown key in a definition file is an error.
func Load(name string) (*VariantDef, error) {
	fp, err := DataFS.Open(defPath(name))
	if err != nil {
		available, listErr := List()
		if listErr != nil {
			return nil, listErr
		}
		return nil, fmt.Errorf("unknown variant %q, available variants: %s", name, strings.Join(available, ", "))
	}
	defer fp.Close()
	logrus.Debugf("loading variant definition %s", defPath(name))

	decoder := yaml.NewDecoder(fp)
	decoder.KnownFields(true)

	var def VariantDef
	if err := decoder.Decode(&def); err != nil {
		return nil, fmt.Errorf("cannot decode variant definition %q: %w", name, err)
	}
	if def.Variant != name {
		return nil, fmt.Errorf("variant definition %q declares mismatching name %q", name, def.Variant)
	}

	if _, err := def.Identity(); err != nil {
		return nil, err
	}
	if _, err := def.Features(); err != nil {
		return nil, fmt.Errorf("invalid variant definition %q: %w", name, err)
	}
	if _, err := def.Arches(); err != nil {
		return nil, fmt.Errorf("invalid variant definition %q: %w", name, err)
	}

	return &def, nil
}

// Identity derives the variant identity from the definition name.
func (d *VariantDef) Identity() (variant.Identity, error) {
	return variant.Parse(d.Variant)
}

// Features returns the complete default feature flag set of the
// variant. Definitions must state every flag explicitly.
func (d *VariantDef) Features() (*feature.Set, error) {
	states := make(map[feature.Flag]bool, len(d.ImageFeatures))
	for name, enabled := range d.ImageFeatures {
		states[feature.Flag(name)] = enabled
	}
	return feature.Canonical(states)
}

// Arches returns the architectures the variant supports.
func (d *VariantDef) Arches() ([]arch.Arch, error) {
	arches := make([]arch.Arch, 0, len(d.SupportedArches))
	for _, name := range d.SupportedArches {
		a, err := arch.FromString(name)
		if err != nil {
			return nil, err
		}
		arches = append(arches, a)
	}
	return arches, nil
}
