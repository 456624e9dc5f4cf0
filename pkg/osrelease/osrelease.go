// Package osrelease reads the os-release file of a built image tree.
// The check command uses it to make sure a descriptor matches the
// image it is shipped with.
package osrelease

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// OSRelease holds the fields we care about from an os-release file.
type OSRelease struct {
	ID         string
	VersionID  string
	VariantID  string
	PrettyName string
}

// ReadFromTree loads the os-release file of the image tree rooted at
// the given path, trying etc/os-release first and falling back to
// usr/lib/os-release like os-release(5) describes.
func ReadFromTree(root string) (*OSRelease, error) {
	var lastErr error
	for _, rel := range []string{"etc/os-release", "usr/lib/os-release"} {
		path := filepath.Join(root, rel)
		if _, err := os.Stat(path); err != nil {
			lastErr = err
			continue
		}
		return readFile(path)
	}
	return nil, fmt.Errorf("no os-release file in image tree %q: %w", root, lastErr)
}

func readFile(path string) (*OSRelease, error) {
	// os-release is shell-style key=value with optional quoting,
	// which is a plain sectionless INI file
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("cannot parse os-release file %q: %w", path, err)
	}

	section := cfg.Section("")
	osrelease := &OSRelease{
		ID:         section.Key("ID").String(),
		VersionID:  section.Key("VERSION_ID").String(),
		VariantID:  section.Key("VARIANT_ID").String(),
		PrettyName: section.Key("PRETTY_NAME").String(),
	}
	if osrelease.ID == "" {
		return nil, fmt.Errorf("os-release file %q has no ID field", path)
	}
	return osrelease, nil
}
