package featurefilter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	// we cannot use "maps" yet, as it needs go1.23
	"golang.org/x/exp/maps"

	"github.com/osbuild/buildsys/pkg/buildenv"
)

// OutputFormat contains the valid output formats for formatting results
type OutputFormat string

const (
	OutputFormatDefault OutputFormat = ""
	OutputFormatText    OutputFormat = "text"
	OutputFormatJSON    OutputFormat = "json"
	OutputFormatShell   OutputFormat = "shell"
)

// ResultsFormatter will format the given result list to the given
// io.Writer
type ResultsFormatter interface {
	Output(io.Writer, []Result) error
}

var supportedFormatters = map[string]ResultsFormatter{
	string(OutputFormatDefault): &textResultsFormatter{},
	string(OutputFormatText):    &textResultsFormatter{},
	string(OutputFormatJSON):    &jsonResultsFormatter{},
	string(OutputFormatShell):   &shellResultsFormatter{},
}

// SupportedOutputFormats returns a list of supported output formats
func SupportedOutputFormats() []string {
	keys := maps.Keys(supportedFormatters)
	sort.Strings(keys)
	return keys
}

// NewResultsFormatter will create a formatter based on the given format.
func NewResultsFormatter(format OutputFormat) (ResultsFormatter, error) {
	rs, ok := supportedFormatters[string(format)]
	if !ok {
		return nil, fmt.Errorf("unsupported formatter %q", format)
	}
	return rs, nil
}

type textResultsFormatter struct{}

func (*textResultsFormatter) Output(w io.Writer, all []Result) error {
	var errs []error

	for _, res := range all {
		// copy/paste friendly, the variant and capability strings can
		// go straight into a filter term or a package requirement
		if _, err := fmt.Fprintf(w, "%s %s\n", res.Variant.Name, res.Flag.Capability(res.Enabled)); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

type shellResultsFormatter struct{}

// The shell output emits the environment assignments the build system
// exports, most useful when the results are filtered to one variant.
func (*shellResultsFormatter) Output(w io.Writer, all []Result) error {
	var errs []error

	for _, res := range all {
		if _, err := fmt.Fprintf(w, "%s=%t\n", buildenv.FeatureVar(res.Flag), res.Enabled); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

type jsonResultsFormatter struct{}

type variantResultJSON struct {
	Name     string `json:"name"`
	Platform string `json:"platform"`
	Runtime  string `json:"runtime"`
	Family   string `json:"family"`
	Flavor   string `json:"flavor"`
}

type featureResultJSON struct {
	Name       string `json:"name"`
	Enabled    bool   `json:"enabled"`
	Capability string `json:"capability"`
}

type filteredResultJSON struct {
	Variant variantResultJSON `json:"variant"`
	Feature featureResultJSON `json:"feature"`
}

func (*jsonResultsFormatter) Output(w io.Writer, all []Result) error {
	var out []filteredResultJSON

	for _, res := range all {
		out = append(out, filteredResultJSON{
			Variant: variantResultJSON{
				Name:     res.Variant.Name,
				Platform: res.Variant.Platform,
				Runtime:  res.Variant.Runtime,
				Family:   res.Variant.Family,
				Flavor:   res.Variant.Flavor,
			},
			Feature: featureResultJSON{
				Name:       string(res.Flag),
				Enabled:    res.Enabled,
				Capability: res.Flag.Capability(res.Enabled),
			},
		})
	}

	enc := json.NewEncoder(w)
	return enc.Encode(out)
}
