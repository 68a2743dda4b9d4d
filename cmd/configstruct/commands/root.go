// Package commands implements the configstruct command line.
package commands

import (
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/teranos/configstruct/errors"
	"github.com/teranos/configstruct/logger"
	"github.com/teranos/configstruct/manifest"
)

// filesystem is swapped for a MemMapFs in tests.
var filesystem afero.Fs = afero.NewOsFs()

// RootCmd is the configstruct command.
var RootCmd = &cobra.Command{
	Use:   "configstruct",
	Short: "Generate Rust types and constants from configuration files",
	Long: `configstruct turns JSON, TOML, YAML, RON and HCL documents into Rust source:
a struct per record with the document's values embedded as a const, optional
load functions, and enums listing a document's keys or a directory's files.

Generate a single file directly, or describe every job in configstruct.toml
and run them together.

Examples:
  configstruct struct config.toml -o src/config.rs   # One struct module
  configstruct enum config.toml --name Section       # Enum of top-level keys to stdout
  configstruct files-enum assets -o src/assets.rs    # Enum of file names
  configstruct run                                   # Every job in configstruct.toml
  configstruct check --diff                          # Fail if generated files are stale
  configstruct watch                                 # Regenerate on change`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	RootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON")
	RootCmd.PersistentFlags().StringP("manifest", "m", "", "Path to the manifest (default: configstruct.toml in this or a parent directory)")

	RootCmd.AddCommand(StructCmd)
	RootCmd.AddCommand(EnumCmd)
	RootCmd.AddCommand(FilesEnumCmd)
	RootCmd.AddCommand(RunCmd)
	RootCmd.AddCommand(CheckCmd)
	RootCmd.AddCommand(WatchCmd)
	RootCmd.AddCommand(ManifestCmd)
	RootCmd.AddCommand(VersionCmd)
}

// manifestPath returns --manifest, or the nearest configstruct.toml.
func manifestPath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("manifest"); path != "" {
		return path, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "failed to determine working directory")
	}
	if path := manifest.Find(filesystem, wd); path != "" {
		return path, nil
	}
	return "", errors.WithHint(
		errors.Wrapf(errors.ErrNotFound, "no %s in %s or any parent directory", manifest.DefaultFileName, wd),
		"pass --manifest or create one at the crate root")
}

func loadManifest(cmd *cobra.Command) (*manifest.Manifest, error) {
	path, err := manifestPath(cmd)
	if err != nil {
		return nil, err
	}
	return manifest.Load(filesystem, path)
}
