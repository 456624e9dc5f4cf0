// Package specfile renders the package descriptor that advertises a
// variant's identity and image features as capabilities. The external
// packaging tool consumes the descriptor and matches the declared
// capabilities against package requirements, so the output format is
// stable line-oriented text.
package specfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/osbuild/buildsys/pkg/feature"
	"github.com/osbuild/buildsys/pkg/variant"
)

// Metadata holds the static descriptor header fields. All fields are
// required.
type Metadata struct {
	Name    string
	Version string
	Release string
	Summary string
	License string
	URL     string
}

func (m Metadata) Validate() error {
	for _, field := range []struct {
		name  string
		value string
	}{
		{"Name", m.Name},
		{"Version", m.Version},
		{"Release", m.Release},
		{"Summary", m.Summary},
		{"License", m.License},
		{"URL", m.URL},
	} {
		if field.value == "" {
			return fmt.Errorf("descriptor metadata field %s not set", field.name)
		}
	}
	return nil
}

// Descriptor is a fully evaluated package descriptor. Unlike the
// template the build system starts from, a Descriptor has no
// conditionals left: every feature flag has exactly one state.
type Descriptor struct {
	Metadata Metadata
	Identity variant.Identity
	Features *feature.Set
}

// Validate fails fast on anything that would produce an ambiguous or
// partially specified capability set.
func (d *Descriptor) Validate() error {
	if err := d.Metadata.Validate(); err != nil {
		return err
	}
	if err := d.Identity.Validate(); err != nil {
		return err
	}
	if d.Features == nil {
		return fmt.Errorf("descriptor has no feature flag set")
	}
	return d.Features.Complete()
}

// WriteTo renders the descriptor. The header comes first, then the
// variant identity capabilities, then one image-feature capability per
// flag in declaration order.
func (d *Descriptor) WriteTo(w io.Writer) (int64, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\n", d.Metadata.Name)
	fmt.Fprintf(&sb, "Version: %s\n", d.Metadata.Version)
	fmt.Fprintf(&sb, "Release: %s\n", d.Metadata.Release)
	fmt.Fprintf(&sb, "Summary: %s\n", d.Metadata.Summary)
	fmt.Fprintf(&sb, "License: %s\n", d.Metadata.License)
	fmt.Fprintf(&sb, "URL: %s\n", d.Metadata.URL)
	for _, c := range d.Identity.Capabilities() {
		fmt.Fprintf(&sb, "Provides: %s\n", c)
	}
	for _, c := range d.Features.Capabilities() {
		fmt.Fprintf(&sb, "Provides: %s\n", c)
	}

	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// Render returns the descriptor as a string.
func (d *Descriptor) Render() (string, error) {
	var sb strings.Builder
	if _, err := d.WriteTo(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

var sourceRe = regexp.MustCompile(`^(Source|Patch)[0-9]*:\s*(\S+)`)

// Sources lists the Source and Patch file references of a spec file so
// the build system can track them for changes. URLs are skipped, only
// local files need watching.
func Sources(path string) ([]string, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read spec file: %w", err)
	}
	defer fp.Close()

	var files []string
	scanner := bufio.NewScanner(fp)
	for scanner.Scan() {
		m := sourceRe.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		ref := m[2]
		if strings.Contains(ref, "://") {
			continue
		}
		files = append(files, ref)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read spec file %q: %w", path, err)
	}

	return files, nil
}
