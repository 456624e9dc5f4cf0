// Package featurefilter filters the feature flag states of the known
// variants, for listing what a given variant declares or which
// variants enable a given feature.
package featurefilter

import (
	"fmt"

	"github.com/osbuild/buildsys/pkg/feature"
	"github.com/osbuild/buildsys/pkg/variant"
	"github.com/osbuild/buildsys/pkg/variantdefs"
)

// Registry lists variant definitions, usually backed by the built-in
// variantdefs data.
type Registry interface {
	List() ([]string, error)
	Load(name string) (*variantdefs.VariantDef, error)
}

type defsRegistry struct{}

func (defsRegistry) List() ([]string, error) {
	return variantdefs.List()
}

func (defsRegistry) Load(name string) (*variantdefs.VariantDef, error) {
	return variantdefs.Load(name)
}

// DefsRegistry returns the registry backed by the built-in variant
// definitions.
func DefsRegistry() Registry {
	return defsRegistry{}
}

// Result contains a result from a featurefilter.Filter run
type Result struct {
	Variant variant.Identity
	Flag    feature.Flag
	Enabled bool
}

// FeatureFilter is a flexible way to filter the feature flags of the
// known variants.
type FeatureFilter struct {
	registry Registry
}

// New creates a new FeatureFilter for the given variant registry.
func New(registry Registry) (*FeatureFilter, error) {
	if registry == nil {
		return nil, fmt.Errorf("cannot create FeatureFilter without a valid registry")
	}
	return &FeatureFilter{registry: registry}, nil
}

// Filter filters the feature flags of all known variants based on the
// given filter terms, see newFilter for the term syntax. Results come
// in variant list order, flags in canonical declaration order.
func (ff *FeatureFilter) Filter(searchTerms ...string) ([]Result, error) {
	var res []Result

	names, err := ff.registry.List()
	if err != nil {
		return nil, err
	}
	filter, err := newFilter(searchTerms...)
	if err != nil {
		return nil, err
	}

	for _, name := range names {
		def, err := ff.registry.Load(name)
		if err != nil {
			return nil, err
		}
		id, err := def.Identity()
		if err != nil {
			return nil, err
		}
		features, err := def.Features()
		if err != nil {
			return nil, err
		}
		for _, flag := range feature.Flags {
			enabled, declared := features.Enabled(flag)
			if !declared {
				continue
			}
			if filter.Matches(id, flag) {
				res = append(res, Result{Variant: id, Flag: flag, Enabled: enabled})
			}
		}
	}

	return res, nil
}
