// ABOUTME: Tag CLI commands
// ABOUTME: Lists tags as colored badges with how many contacts carry each
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harperreed/rolodex/models"
)

func newTagsCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tags",
		Aliases: []string{"tag"},
		Short:   "List and manage tags",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx, cancel := commandContext(cmd, a)
			defer cancel()

			tags, err := a.Exec.Tags(ctx)
			if err != nil {
				return fmt.Errorf("failed to list tags: %w", err)
			}
			p := newPrinter(cmd.OutOrStdout(), a)
			if len(tags) == 0 {
				_, _ = fmt.Fprintln(p.w, "No tags yet.")
				return nil
			}
			w := p.table()
			_, _ = fmt.Fprintln(w, "TAG\tCONTACTS\tID")
			for _, t := range tags {
				_, _ = fmt.Fprintf(w, "%s\t%d\t%s\n", p.tags(models.TagList{t}), t.ContactCount, t.ID)
			}
			return w.Flush()
		},
	}

	var color string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx, cancel := commandContext(cmd, a)
			defer cancel()

			t, err := a.Mut.CreateTag(ctx, models.TagInput{Name: args[0], Color: color})
			if err != nil {
				return fmt.Errorf("failed to create tag: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Tag created: %s (ID: %s)\n", t.Name, t.ID)
			return nil
		},
	}
	add.Flags().StringVar(&color, "color", "", "Hex color like #3b82f6")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a tag and detach it from every contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx, cancel := commandContext(cmd, a)
			defer cancel()

			if err := a.Mut.DeleteTag(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete tag: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Tag deleted: %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, add, del)
	return cmd
}
