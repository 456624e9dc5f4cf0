package main

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/osbuild/buildsys/pkg/defaults"
)

func cmdMergeDefaults(cmd *cobra.Command, args []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	if output != "" {
		return defaults.MergeFile(args[0], output)
	}

	merged, err := defaults.Merge(args[0])
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(merged); err != nil {
		return fmt.Errorf("cannot serialize merged defaults: %w", err)
	}
	_, err = buf.WriteTo(osStdout)
	return err
}
