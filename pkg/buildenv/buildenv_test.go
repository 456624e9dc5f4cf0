package buildenv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osbuild/buildsys/pkg/buildenv"
	"github.com/osbuild/buildsys/pkg/feature"
)

func setFullEnv(t *testing.T) {
	t.Helper()

	t.Setenv("BUILDSYS_NAME", "release")
	t.Setenv("BUILDSYS_VERSION_IMAGE", "1.19.0")
	t.Setenv("BUILDSYS_VERSION_BUILD", "1")
	t.Setenv("BUILDSYS_SUMMARY", "Image feature and variant capabilities")
	t.Setenv("BUILDSYS_LICENSE", "Apache-2.0 OR MIT")
	t.Setenv("BUILDSYS_URL", "https://example.com/os")
	t.Setenv("BUILDSYS_VARIANT", "aws-k8s-1.29")

	for flag, state := range map[string]string{
		"grub-set-private-var":     "true",
		"uefi-secure-boot":         "false",
		"systemd-networkd":         "true",
		"unified-cgroup-hierarchy": "false",
		"xfs-data-partition":       "false",
		"fips":                     "true",
	} {
		t.Setenv("BUILDSYS_VARIANT_IMAGE_FEATURE_"+flag, state)
	}
}

func TestFeatureVar(t *testing.T) {
	assert.Equal(t, "BUILDSYS_VARIANT_IMAGE_FEATURE_uefi-secure-boot", buildenv.FeatureVar(feature.UEFISecureBoot))
}

func TestDescriptorFromEnv(t *testing.T) {
	setFullEnv(t)

	desc, err := buildenv.Descriptor()
	require.NoError(t, err)

	output, err := desc.Render()
	require.NoError(t, err)
	assert.Contains(t, output, "Name: release\n")
	assert.Contains(t, output, "Provides: variant(aws-k8s-1.29)\n")
	assert.Contains(t, output, "Provides: image-feature(no-uefi-secure-boot)\n")
	assert.Contains(t, output, "Provides: image-feature(fips)\n")
}

func TestFeaturesMissing(t *testing.T) {
	setFullEnv(t)
	t.Setenv("BUILDSYS_VARIANT_IMAGE_FEATURE_fips", "")

	_, err := buildenv.Features()
	assert.EqualError(t, err, `missing build option "BUILDSYS_VARIANT_IMAGE_FEATURE_fips" in the environment`)
}

func TestFeaturesInvalidBool(t *testing.T) {
	setFullEnv(t)
	t.Setenv("BUILDSYS_VARIANT_IMAGE_FEATURE_fips", "enabled")

	_, err := buildenv.Features()
	assert.EqualError(t, err, `invalid value "enabled" for build option "BUILDSYS_VARIANT_IMAGE_FEATURE_fips"`)
}

func TestIdentityOverrides(t *testing.T) {
	setFullEnv(t)
	t.Setenv("BUILDSYS_VARIANT_FLAVOR", "nvidia")

	id, err := buildenv.Identity()
	require.NoError(t, err)
	assert.Equal(t, "nvidia", id.Flavor)
	// derived parts stay intact
	assert.Equal(t, "aws", id.Platform)
	assert.Equal(t, "aws-k8s", id.Family)
}

func TestIdentityInconsistentOverride(t *testing.T) {
	setFullEnv(t)
	t.Setenv("BUILDSYS_VARIANT_FAMILY", "metal-dev")

	_, err := buildenv.Identity()
	assert.EqualError(t, err, `variant family "metal-dev" does not match platform "aws" and runtime "k8s"`)
}

func TestMetadataMissing(t *testing.T) {
	setFullEnv(t)
	t.Setenv("BUILDSYS_LICENSE", "")

	_, err := buildenv.Metadata()
	assert.EqualError(t, err, `missing build option "BUILDSYS_LICENSE" in the environment`)
}
