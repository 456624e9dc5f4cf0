package main

import (
	"io"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var osStdout io.Writer = os.Stdout

func run() error {
	logrus.SetLevel(logrus.WarnLevel)

	rootCmd := &cobra.Command{
		Use:   "buildsys",
		Short: "Generate and check image variant package descriptors",
		Long: `Generate and check image variant package descriptors

Buildsys is meant to be called by the surrounding build system. It
evaluates the build options for a variant into a package descriptor
that advertises the variant identity and image features as
capabilities, which downstream package tooling matches against package
requirements.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	renderCmd := &cobra.Command{
		Use:          "render",
		Short:        "Render the package descriptor for the configured variant",
		RunE:         cmdRender,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
	}
	renderCmd.Flags().String("variant", "", "Take identity and feature defaults from the named built-in variant instead of the environment")
	renderCmd.Flags().String("manifest", "", "Resolve the feature flags from the given build manifest")
	renderCmd.Flags().String("output", "", "Write the descriptor to a file instead of stdout")
	rootCmd.AddCommand(renderCmd)

	validateCmd := &cobra.Command{
		Use:          "validate",
		Short:        "Check the build options without rendering a descriptor",
		RunE:         cmdValidate,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
	}
	validateCmd.Flags().String("variant", "", "Take identity and feature defaults from the named built-in variant instead of the environment")
	validateCmd.Flags().String("manifest", "", "Resolve the feature flags from the given build manifest")
	rootCmd.AddCommand(validateCmd)

	listFeaturesCmd := &cobra.Command{
		Use:          "list-features",
		Short:        "List variant feature flags, use --filter to limit further",
		RunE:         cmdListFeatures,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
	}
	listFeaturesCmd.Flags().StringArray("filter", nil, "Filter feature flags by a specific criteria")
	listFeaturesCmd.Flags().String("format", "", "Output in a specific format (text,json,shell)")
	rootCmd.AddCommand(listFeaturesCmd)

	sourcesCmd := &cobra.Command{
		Use:          "sources <spec-file>",
		Short:        "List the local source and patch files of a spec file",
		RunE:         cmdSources,
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
	}
	rootCmd.AddCommand(sourcesCmd)

	mergeDefaultsCmd := &cobra.Command{
		Use:          "merge-defaults <defaults-dir>",
		Short:        "Merge a variant's defaults.d fragments into one TOML document",
		RunE:         cmdMergeDefaults,
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
	}
	mergeDefaultsCmd.Flags().String("output", "", "Write the merged defaults to a file instead of stdout")
	rootCmd.AddCommand(mergeDefaultsCmd)

	checkCmd := &cobra.Command{
		Use:          "check <image-tree>",
		Short:        "Check that the configured variant matches a built image tree",
		RunE:         cmdCheck,
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
	}
	rootCmd.AddCommand(checkCmd)

	return rootCmd.Execute()
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("error: %s", err)
	}
}
