package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/osbuild/buildsys/pkg/buildenv"
	"github.com/osbuild/buildsys/pkg/feature"
	"github.com/osbuild/buildsys/pkg/manifest"
	"github.com/osbuild/buildsys/pkg/specfile"
	"github.com/osbuild/buildsys/pkg/variantdefs"
)

// assembleDescriptor builds the descriptor from the configured
// sources. The metadata always comes from the environment; the
// identity and feature flags come from the environment by default, a
// built-in variant definition with --variant, or a build manifest with
// --manifest.
func assembleDescriptor(variantName, manifestPath string) (*specfile.Descriptor, error) {
	if variantName != "" && manifestPath != "" {
		return nil, fmt.Errorf("cannot use --variant and --manifest together")
	}

	md, err := buildenv.Metadata()
	if err != nil {
		return nil, err
	}

	desc := &specfile.Descriptor{Metadata: md}

	switch {
	case variantName != "":
		def, err := variantdefs.Load(variantName)
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
		desc.Identity = id
		desc.Features = features
	case manifestPath != "":
		info, err := manifest.New(manifestPath)
		if err != nil {
			return nil, err
		}
		id, err := buildenv.Identity()
		if err != nil {
			return nil, err
		}
		states, err := info.ImageFeatures(md.Version)
		if err != nil {
			return nil, err
		}
		features, err := feature.Canonical(states)
		if err != nil {
			return nil, err
		}
		desc.Identity = id
		desc.Features = features
	default:
		id, err := buildenv.Identity()
		if err != nil {
			return nil, err
		}
		features, err := buildenv.Features()
		if err != nil {
			return nil, err
		}
		desc.Identity = id
		desc.Features = features
	}

	return desc, nil
}

func cmdRender(cmd *cobra.Command, args []string) error {
	variantName, err := cmd.Flags().GetString("variant")
	if err != nil {
		return err
	}
	manifestPath, err := cmd.Flags().GetString("manifest")
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	desc, err := assembleDescriptor(variantName, manifestPath)
	if err != nil {
		return err
	}

	var w io.Writer = osStdout
	if output != "" {
		fp, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("cannot write descriptor: %w", err)
		}
		defer fp.Close()
		w = fp
	}

	if _, err := desc.WriteTo(w); err != nil {
		return err
	}
	logrus.Debugf("rendered descriptor for variant %s", desc.Identity.Name)
	return nil
}

func cmdValidate(cmd *cobra.Command, args []string) error {
	variantName, err := cmd.Flags().GetString("variant")
	if err != nil {
		return err
	}
	manifestPath, err := cmd.Flags().GetString("manifest")
	if err != nil {
		return err
	}

	desc, err := assembleDescriptor(variantName, manifestPath)
	if err != nil {
		return err
	}
	return desc.Validate()
}
