package main

import (
	"github.com/spf13/cobra"

	"github.com/osbuild/buildsys/pkg/featurefilter"
)

func cmdListFeatures(cmd *cobra.Command, args []string) error {
	filterTerms, err := cmd.Flags().GetStringArray("filter")
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}

	ff, err := featurefilter.New(featurefilter.DefsRegistry())
	if err != nil {
		return err
	}
	res, err := ff.Filter(filterTerms...)
	if err != nil {
		return err
	}

	fmter, err := featurefilter.NewResultsFormatter(featurefilter.OutputFormat(format))
	if err != nil {
		return err
	}
	return fmter.Output(osStdout, res)
}
