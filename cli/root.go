// ABOUTME: Root cobra command and global flags
// ABOUTME: Loads config once and hands every subcommand the same App
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/harperreed/rolodex/config"
	"github.com/harperreed/rolodex/logging"
)

// Version is set at build time.
var Version = "dev"

type rootOptions struct {
	apiURL   string
	logLevel string
	noColor  bool
}

// NewRootCmd builds the command tree. When app is nil it is created from
// config before the first subcommand runs.
func NewRootCmd(app *App) *cobra.Command {
	var opts rootOptions
	owned := false

	root := &cobra.Command{
		Use:           "rolodex",
		Short:         "Contacts, interactions, reminders, and notes from your CRM backend",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app != nil {
				if opts.noColor {
					app.Color = false
				}
				return nil
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if opts.apiURL != "" {
				cfg.BaseURL = opts.apiURL
			}
			if opts.logLevel != "" {
				cfg.LogLevel = opts.logLevel
			}
			if opts.noColor {
				cfg.NoColor = true
			}

			logger := logging.New(cfg.LogLevel, cmd.ErrOrStderr())
			if cfg.LogFormat == "json" {
				logger = logging.NewJSON(cfg.LogLevel, cmd.ErrOrStderr())
			}
			built, err := NewApp(cfg, logger)
			if err != nil {
				return err
			}
			app = built
			owned = true
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if owned {
				return app.Close()
			}
			return nil
		},
	}
	root.CompletionOptions.HiddenDefaultCmd = true

	root.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "Backend URL (overrides ROLODEX_API_URL and config)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable styled output")

	get := func() *App { return app }
	root.AddCommand(
		newContactsCmd(get),
		newTimelineCmd(get),
		newRemindersCmd(get),
		newNotesCmd(get),
		newTagsCmd(get),
		newSearchCmd(get),
		newConfigCmd(),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := NewRootCmd(nil).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// commandContext bounds one command's requests.
func commandContext(cmd *cobra.Command, app *App) (context.Context, context.CancelFunc) {
	limit := app.Config.Timeout.Std() * 3
	if limit <= 0 {
		limit = 30 * time.Second
	}
	return context.WithTimeout(cmd.Context(), limit)
}
