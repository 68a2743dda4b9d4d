package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/configstruct/errors"
	"github.com/teranos/configstruct/manifest"
)

// ManifestCmd groups the manifest inspection commands.
var ManifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Inspect the project manifest",
	Long: `Inspect configstruct.toml, the list of generation jobs of a project.

The manifest is looked up in the working directory and its parents unless
--manifest is given. CONFIGSTRUCT_* environment variables override
manifest-level settings, e.g. CONFIGSTRUCT_PARALLELISM=1.

Examples:
  configstruct manifest show                 # Show the manifest as TOML
  configstruct manifest show --format yaml   # ... or YAML / JSON
  configstruct manifest validate             # Validate names and paths`,
}

var manifestShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the manifest",
	Args:  cobra.NoArgs,
	RunE:  runManifestShow,
}

var manifestValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the manifest",
	Args:  cobra.NoArgs,
	RunE:  runManifestValidate,
}

var showFormat string

func init() {
	manifestShowCmd.Flags().StringVar(&showFormat, "format", "toml", "Output format: toml, json, yaml")

	ManifestCmd.AddCommand(manifestShowCmd)
	ManifestCmd.AddCommand(manifestValidateCmd)
}

func runManifestShow(cmd *cobra.Command, args []string) error {
	m, err := loadManifest(cmd)
	if err != nil {
		return err
	}

	data, err := marshalManifest(m, showFormat)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), data)
	return nil
}

func marshalManifest(m *manifest.Manifest, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return "", errors.Wrap(err, "failed to marshal manifest to JSON")
		}
		return string(data) + "\n", nil

	case "yaml":
		data, err := yaml.Marshal(m)
		if err != nil {
			return "", errors.Wrap(err, "failed to marshal manifest to YAML")
		}
		return fmt.Sprintf("# %s\n%s", m.Path, data), nil

	case "toml":
		data, err := toml.Marshal(m)
		if err != nil {
			return "", errors.Wrap(err, "failed to marshal manifest to TOML")
		}
		return fmt.Sprintf("# %s\n%s", m.Path, data), nil

	default:
		return "", errors.Newf("unsupported format: %s (supported: toml, json, yaml)", format)
	}
}

func runManifestValidate(cmd *cobra.Command, args []string) error {
	m, err := loadManifest(cmd)
	if err != nil {
		return errors.Wrap(err, "manifest validation failed")
	}

	jobs, err := m.Jobs()
	if err != nil {
		return err
	}
	pterm.Success.Printfln("%s is valid (%d jobs)", m.Path, len(jobs))
	return nil
}
