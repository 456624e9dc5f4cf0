package featurefilter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/osbuild/buildsys/pkg/feature"
	"github.com/osbuild/buildsys/pkg/variant"
)

func splitPrefixSearchTerm(s string) (string, string) {
	l := strings.SplitN(s, ":", 2)
	if len(l) == 1 {
		return "", l[0]
	}
	return l[0], l[1]
}

// newFilter creates a feature filter based on the given filter terms.
// Glob like patterns (?, *) are supported, see fnmatch(3).
//
// Without a prefix in the filter term a simple name filtering is
// performed. With a prefix the specified property is filtered, e.g.
// "platform:aws". Adding filtering will narrow down the filtering
// (terms are combined via AND).
//
// The following prefixes are supported:
// "variant:" - the variant name, e.g. aws-k8s-1.29, or metal-*
// "platform:" - the variant platform, e.g. aws
// "runtime:" - the variant runtime, e.g. k8s
// "flavor:" - the variant flavor, e.g. nvidia
// "feature:" - the feature flag name, e.g. fips, or *cgroup*
func newFilter(sl ...string) (*filter, error) {
	filter := &filter{
		terms: make([]term, len(sl)),
	}
	for i, s := range sl {
		prefix, searchTerm := splitPrefixSearchTerm(s)
		if !slices.Contains(supportedFilters, prefix) {
			return nil, fmt.Errorf("unsupported filter prefix: %q", prefix)
		}
		gl, err := glob.Compile(searchTerm)
		if err != nil {
			return nil, err
		}
		filter.terms[i].prefix = prefix
		filter.terms[i].pattern = gl
	}
	return filter, nil
}

var supportedFilters = []string{
	"", "variant", "platform", "runtime", "flavor", "feature",
}

type term struct {
	prefix  string
	pattern glob.Glob
}

// filter provides a way to filter a list of variant feature flags for
// the given filter terms.
type filter struct {
	terms []term
}

// Matches returns true if the given (variant,flag) pair matches the
// filter expressions
func (fl filter) Matches(id variant.Identity, flag feature.Flag) bool {
	m := true
	for _, term := range fl.terms {
		switch term.prefix {
		case "":
			// no prefix, do a "fuzzy" search accross the common
			// things users may want
			m1 := term.pattern.Match(id.Name)
			m2 := term.pattern.Match(string(flag))
			m = m && (m1 || m2)
		case "variant":
			m = m && term.pattern.Match(id.Name)
		case "platform":
			m = m && term.pattern.Match(id.Platform)
		case "runtime":
			m = m && term.pattern.Match(id.Runtime)
		case "flavor":
			m = m && term.pattern.Match(id.Flavor)
		case "feature":
			m = m && term.pattern.Match(string(flag))
		}
	}
	return m
}
