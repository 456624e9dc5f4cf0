package osrelease_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osbuild/buildsys/pkg/osrelease"
)

func makeTree(t *testing.T, rel, content string) string {
	t.Helper()
	root := t.TempDir()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return root
}

const awsOSRelease = `ID=bottlerocket
PRETTY_NAME="Bottlerocket OS 1.19.0 (aws-k8s-1.29)"
VERSION_ID=1.19.0
VARIANT_ID=aws-k8s-1.29
`

func TestReadFromTreeEtc(t *testing.T) {
	root := makeTree(t, "etc/os-release", awsOSRelease)

	osrel, err := osrelease.ReadFromTree(root)
	require.NoError(t, err)
	assert.Equal(t, "bottlerocket", osrel.ID)
	assert.Equal(t, "1.19.0", osrel.VersionID)
	assert.Equal(t, "aws-k8s-1.29", osrel.VariantID)
	// quotes are stripped
	assert.Equal(t, "Bottlerocket OS 1.19.0 (aws-k8s-1.29)", osrel.PrettyName)
}

func TestReadFromTreeUsrLibFallback(t *testing.T) {
	root := makeTree(t, "usr/lib/os-release", awsOSRelease)

	osrel, err := osrelease.ReadFromTree(root)
	require.NoError(t, err)
	assert.Equal(t, "aws-k8s-1.29", osrel.VariantID)
}

func TestReadFromTreeMissing(t *testing.T) {
	_, err := osrelease.ReadFromTree(t.TempDir())
	assert.ErrorContains(t, err, "no os-release file in image tree")
}

func TestReadFromTreeNoID(t *testing.T) {
	root := makeTree(t, "etc/os-release", "VERSION_ID=1.0.0\n")

	_, err := osrelease.ReadFromTree(root)
	assert.ErrorContains(t, err, "has no ID field")
}
