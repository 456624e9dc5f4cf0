package specfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osbuild/buildsys/pkg/feature"
	"github.com/osbuild/buildsys/pkg/specfile"
	"github.com/osbuild/buildsys/pkg/variant"
)

func testMetadata() specfile.Metadata {
	return specfile.Metadata{
		Name:    "release",
		Version: "1.19.0",
		Release: "1",
		Summary: "Image feature and variant capabilities",
		License: "Apache-2.0 OR MIT",
		URL:     "https://example.com/os",
	}
}

func testDescriptor(t *testing.T) *specfile.Descriptor {
	t.Helper()

	id, err := variant.Parse("aws-k8s-1.29")
	require.NoError(t, err)

	features, err := feature.Canonical(map[feature.Flag]bool{
		feature.GrubSetPrivateVar:      true,
		feature.UEFISecureBoot:         false,
		feature.SystemdNetworkd:        true,
		feature.UnifiedCgroupHierarchy: false,
		feature.XFSDataPartition:       false,
		feature.FIPS:                   true,
	})
	require.NoError(t, err)

	return &specfile.Descriptor{
		Metadata: testMetadata(),
		Identity: id,
		Features: features,
	}
}

func TestDescriptorRender(t *testing.T) {
	desc := testDescriptor(t)

	expected := `Name: release
Version: 1.19.0
Release: 1
Summary: Image feature and variant capabilities
License: Apache-2.0 OR MIT
URL: https://example.com/os
Provides: variant(aws-k8s-1.29)
Provides: variant-platform(aws)
Provides: variant-runtime(k8s)
Provides: variant-family(aws-k8s)
Provides: variant-flavor(1.29)
Provides: image-feature(grub-set-private-var)
Provides: image-feature(no-uefi-secure-boot)
Provides: image-feature(systemd-networkd)
Provides: image-feature(no-unified-cgroup-hierarchy)
Provides: image-feature(no-xfs-data-partition)
Provides: image-feature(fips)
`
	output, err := desc.Render()
	require.NoError(t, err)
	if diff := cmp.Diff(expected, output); diff != "" {
		t.Errorf("unexpected descriptor output (-want +got):\n%s", diff)
	}

	// rendering is idempotent
	again, err := desc.Render()
	require.NoError(t, err)
	assert.Equal(t, output, again)
}

func TestDescriptorValidateMetadata(t *testing.T) {
	desc := testDescriptor(t)
	desc.Metadata.License = ""

	_, err := desc.Render()
	assert.EqualError(t, err, "descriptor metadata field License not set")
}

func TestDescriptorValidateFeatures(t *testing.T) {
	desc := testDescriptor(t)

	desc.Features = nil
	_, err := desc.Render()
	assert.EqualError(t, err, "descriptor has no feature flag set")

	incomplete := feature.NewSet()
	require.NoError(t, incomplete.Add(feature.FIPS, true))
	desc.Features = incomplete
	_, err = desc.Render()
	assert.EqualError(t, err, `missing build option for image feature "grub-set-private-var"`)
}

func TestSources(t *testing.T) {
	content := `Name: kernel
Version: 6.1
Source0: config-aws
Source1: https://example.com/kernel-6.1.tar.xz
Source100: clarify.toml
Patch0001: 0001-lustrefsx.patch
Patch2: second.patch
%description
Not a source: line.
`
	specPath := filepath.Join(t.TempDir(), "kernel.spec")
	require.NoError(t, os.WriteFile(specPath, []byte(content), 0o644))

	files, err := specfile.Sources(specPath)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"config-aws",
		"clarify.toml",
		"0001-lustrefsx.patch",
		"second.patch",
	}, files)
}

func TestSourcesMissingFile(t *testing.T) {
	_, err := specfile.Sources(filepath.Join(t.TempDir(), "missing.spec"))
	assert.ErrorContains(t, err, "cannot read spec file")
}
