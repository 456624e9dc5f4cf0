// Package buildenv reads the build options that the surrounding build
// system supplies through the environment. All values are required:
// the descriptor advertises image capabilities to downstream package
// tooling, so a missing option aborts generation instead of defaulting
// silently.
package buildenv

import (
	"fmt"
	"os"
	"strconv"

	"github.com/osbuild/buildsys/pkg/feature"
	"github.com/osbuild/buildsys/pkg/specfile"
	"github.com/osbuild/buildsys/pkg/variant"
)

const (
	envName         = "BUILDSYS_NAME"
	envVersionImage = "BUILDSYS_VERSION_IMAGE"
	envVersionBuild = "BUILDSYS_VERSION_BUILD"
	envSummary      = "BUILDSYS_SUMMARY"
	envLicense      = "BUILDSYS_LICENSE"
	envURL          = "BUILDSYS_URL"

	envVariant         = "BUILDSYS_VARIANT"
	envVariantPlatform = "BUILDSYS_VARIANT_PLATFORM"
	envVariantRuntime  = "BUILDSYS_VARIANT_RUNTIME"
	envVariantFamily   = "BUILDSYS_VARIANT_FAMILY"
	envVariantFlavor   = "BUILDSYS_VARIANT_FLAVOR"

	featureVarPrefix = "BUILDSYS_VARIANT_IMAGE_FEATURE_"
)

func requiredVar(key string) (string, error) {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return "", fmt.Errorf("missing build option %q in the environment", key)
	}
	return val, nil
}

// FeatureVar returns the environment variable that carries the state
// of the given feature flag. The suffix is the flag name verbatim, the
// build system exports it unmodified.
func FeatureVar(f feature.Flag) string {
	return featureVarPrefix + string(f)
}

// Features reads the state of every known feature flag from the
// environment. Each flag must be set to a value strconv.ParseBool
// accepts.
func Features() (*feature.Set, error) {
	s := feature.NewSet()
	for _, f := range feature.Flags {
		val, err := requiredVar(FeatureVar(f))
		if err != nil {
			return nil, err
		}
		enabled, err := strconv.ParseBool(val)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q for build option %q", val, FeatureVar(f))
		}
		if err := s.Add(f, enabled); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Identity reads the variant identity. The identity parts are derived
// from BUILDSYS_VARIANT and each part can be overridden individually,
// matching what the build system exports per variant. The flavor
// override may be set to the empty string.
func Identity() (variant.Identity, error) {
	name, err := requiredVar(envVariant)
	if err != nil {
		return variant.Identity{}, err
	}
	id, err := variant.Parse(name)
	if err != nil {
		return variant.Identity{}, err
	}

	if val, ok := os.LookupEnv(envVariantPlatform); ok {
		id.Platform = val
	}
	if val, ok := os.LookupEnv(envVariantRuntime); ok {
		id.Runtime = val
	}
	if val, ok := os.LookupEnv(envVariantFamily); ok {
		id.Family = val
	}
	if val, ok := os.LookupEnv(envVariantFlavor); ok {
		id.Flavor = val
	}

	if err := id.Validate(); err != nil {
		return variant.Identity{}, err
	}
	return id, nil
}

// Metadata reads the descriptor header fields.
func Metadata() (specfile.Metadata, error) {
	var md specfile.Metadata
	for _, field := range []struct {
		key  string
		dest *string
	}{
		{envName, &md.Name},
		{envVersionImage, &md.Version},
		{envVersionBuild, &md.Release},
		{envSummary, &md.Summary},
		{envLicense, &md.License},
		{envURL, &md.URL},
	} {
		val, err := requiredVar(field.key)
		if err != nil {
			return specfile.Metadata{}, err
		}
		*field.dest = val
	}
	return md, nil
}

// Descriptor assembles a complete descriptor from the environment.
func Descriptor() (*specfile.Descriptor, error) {
	md, err := Metadata()
	if err != nil {
		return nil, err
	}
	id, err := Identity()
	if err != nil {
		return nil, err
	}
	features, err := Features()
	if err != nil {
		return nil, err
	}
	return &specfile.Descriptor{
		Metadata: md,
		Identity: id,
		Features: features,
	}, nil
}
