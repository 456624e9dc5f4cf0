// Package variant models the identity of an OS image variant. A
// variant name has the form "<platform>-<runtime>[-<flavor>]", e.g.
// "aws-k8s-1.29" or "metal-dev". The identity parts are advertised as
// separate capabilities so downstream package tooling can require a
// platform or runtime without naming a full variant.
package variant

import (
	"fmt"
	"strings"
)

type Identity struct {
	Name     string
	Platform string
	Runtime  string
	Family   string
	Flavor   string
}

type ParseError struct {
	ToParse string
	Msg     string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("error when parsing variant name (%s): %v", e.ToParse, e.Msg)
}

// Parse derives the identity parts from a full variant name. The
// family is always "<platform>-<runtime>"; anything after the runtime
// is the flavor and may be empty.
func Parse(name string) (Identity, error) {
	parts := strings.Split(name, "-")

	if len(parts) < 2 {
		return Identity{}, ParseError{ToParse: name, Msg: fmt.Sprintf("too few components (%d)", len(parts))}
	}
	for _, part := range parts {
		if part == "" {
			return Identity{}, ParseError{ToParse: name, Msg: "empty component"}
		}
	}

	return Identity{
		Name:     name,
		Platform: parts[0],
		Runtime:  parts[1],
		Family:   parts[0] + "-" + parts[1],
		Flavor:   strings.Join(parts[2:], "-"),
	}, nil
}

// Validate checks that all identity parts are present and consistent
// with the variant name. The values come from an external build system
// and are rendered into the descriptor verbatim, so an inconsistency
// here means the descriptor would lie about the image.
func (id Identity) Validate() error {
	if id.Name == "" {
		return fmt.Errorf("variant name not set")
	}
	if id.Platform == "" {
		return fmt.Errorf("variant platform not set")
	}
	if id.Runtime == "" {
		return fmt.Errorf("variant runtime not set")
	}
	if id.Family == "" {
		return fmt.Errorf("variant family not set")
	}
	if id.Family != id.Platform+"-"+id.Runtime {
		return fmt.Errorf("variant family %q does not match platform %q and runtime %q", id.Family, id.Platform, id.Runtime)
	}
	if !strings.HasPrefix(id.Name, id.Family) {
		return fmt.Errorf("variant name %q does not match family %q", id.Name, id.Family)
	}
	return nil
}

// Capabilities renders the identity capability strings in the order
// downstream tooling expects them. The flavor line is always emitted,
// an empty flavor renders as "variant-flavor()" so that matching on
// "no flavor" stays possible.
func (id Identity) Capabilities() []string {
	return []string{
		fmt.Sprintf("variant(%s)", id.Name),
		fmt.Sprintf("variant-platform(%s)", id.Platform),
		fmt.Sprintf("variant-runtime(%s)", id.Runtime),
		fmt.Sprintf("variant-family(%s)", id.Family),
		fmt.Sprintf("variant-flavor(%s)", id.Flavor),
	}
}
