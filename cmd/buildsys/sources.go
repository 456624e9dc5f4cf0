package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osbuild/buildsys/pkg/specfile"
)

func cmdSources(cmd *cobra.Command, args []string) error {
	files, err := specfile.Sources(args[0])
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintln(osStdout, f)
	}
	return nil
}
