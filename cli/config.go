// ABOUTME: Config CLI commands
// ABOUTME: Shows the effective configuration and saves the backend URL
package cli

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/harperreed/rolodex/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change local configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "# %s\n%s\n", config.Path(), data)
			return nil
		},
	}

	setURL := &cobra.Command{
		Use:   "set-url <url>",
		Short: "Save the backend URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := url.Parse(args[0])
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("%q is not an absolute URL", args[0])
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cfg.BaseURL = args[0]
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Backend set to %s\n", cfg.BaseURL)
			return nil
		},
	}

	cmd.AddCommand(show, setURL)
	return cmd
}
