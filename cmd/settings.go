package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/meetslot/internal/orgsettings"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage the organization scheduling policy",
		Long: `The organization settings file defines work hours, the lunch window,
the slot grid interval and the penalties and bonuses used to score slots.
It is read from MEETSLOT_ORG_SETTINGS (default: org_settings.json) or --org-settings.`,
	}

	cmd.AddCommand(newSettingsInitCmd())
	cmd.AddCommand(newSettingsShowCmd())
	return cmd
}

func newSettingsInitCmd() *cobra.Command {
	var (
		output string
		format string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the built-in policy to a settings file",
		Example: `  meetslot settings init
  meetslot settings init --output org_settings.yaml
  meetslot settings init --output - --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = appConfig.OrgSettingsPath
			}
			return writeDefaultSettings(cmd.OutOrStdout(), output, format, force)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write, or - for stdout (default: MEETSLOT_ORG_SETTINGS)")
	cmd.Flags().StringVar(&format, "format", "", "yaml or json (default: from the file extension)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func newSettingsShowCmd() *cobra.Command {
	var (
		path   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective organization settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadOrgSettings(path, appConfig.OrgSettingsPath, cmd.Flags().Changed("org-settings"))
			if err != nil {
				return err
			}
			return orgsettings.Write(cmd.OutOrStdout(), settings, format)
		},
	}

	cmd.Flags().StringVar(&path, "org-settings", "", "Organization settings file (default: MEETSLOT_ORG_SETTINGS or org_settings.json)")
	cmd.Flags().StringVar(&format, "format", "yaml", "yaml or json")
	return cmd
}

func writeDefaultSettings(stdout io.Writer, output, format string, force bool) error {
	if output == "-" {
		if format == "" {
			format = "yaml"
		}
		return orgsettings.Write(stdout, orgsettings.Default(), format)
	}

	if format == "" {
		format = orgsettings.FormatFromPath(output)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(output, flags, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%s already exists (use --force to overwrite)", output)
		}
		return fmt.Errorf("failed to create settings file: %w", err)
	}

	if err := orgsettings.Write(f, orgsettings.Default(), format); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	fmt.Fprintf(stdout, "Organization settings written to: %s\n", output)
	return nil
}

// loadOrgSettings reads the organization settings. An empty path defaults
// to configured, the MEETSLOT_ORG_SETTINGS of the caller's configuration. A
// missing file falls back to the built-in policy unless the path was given
// explicitly.
func loadOrgSettings(path, configured string, explicit bool) (*orgsettings.Settings, error) {
	if path == "" {
		path = configured
	}

	settings, err := orgsettings.Load(path)
	switch {
	case err == nil:
		logger.Debug("loaded org settings", "path", path)
		return settings, nil
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		logger.Debug("org settings file not found, using built-in policy", "path", path)
		return orgsettings.Default(), nil
	default:
		return nil, err
	}
}
