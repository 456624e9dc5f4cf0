package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/osbuild/buildsys/pkg/buildenv"
	"github.com/osbuild/buildsys/pkg/osrelease"
)

// cmdCheck compares the configured build options against the
// os-release of a built image tree. A descriptor generated for the
// wrong variant or version must never be shipped with the image.
func cmdCheck(cmd *cobra.Command, args []string) error {
	id, err := buildenv.Identity()
	if err != nil {
		return err
	}
	md, err := buildenv.Metadata()
	if err != nil {
		return err
	}

	osrel, err := osrelease.ReadFromTree(args[0])
	if err != nil {
		return err
	}
	logrus.Debugf("image tree %s has os-release ID %s", args[0], osrel.ID)

	if osrel.VariantID != id.Name {
		return fmt.Errorf("image tree declares variant %q but the build options declare %q", osrel.VariantID, id.Name)
	}
	if osrel.VersionID != md.Version {
		return fmt.Errorf("image tree declares version %q but the build options declare %q", osrel.VersionID, md.Version)
	}

	fmt.Fprintf(osStdout, "image tree %s matches variant %s version %s\n", args[0], id.Name, md.Version)
	return nil
}
