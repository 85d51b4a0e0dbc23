// ABOUTME: Note CLI commands
// ABOUTME: Notes belong to a contact; pinned notes list first
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harperreed/rolodex/models"
)

func newNotesCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"note"},
		Short:   "List and manage notes on a contact",
	}

	list := &cobra.Command{
		Use:   "list <contact-id>",
		Short: "List a contact's notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx, cancel := commandContext(cmd, a)
			defer cancel()

			notes, err := a.Exec.Notes(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to list notes: %w", err)
			}
			p := newPrinter(cmd.OutOrStdout(), a)
			if len(notes) == 0 {
				_, _ = fmt.Fprintln(p.w, "No notes yet.")
				return nil
			}
			now := a.Now()
			for _, n := range notes {
				pin := " "
				if n.Pinned {
					pin = "*"
				}
				_, _ = fmt.Fprintf(p.w, "%s %s  %s\n", pin, n.Content, p.style(dimStyle, relative(n.CreatedAt, now)+"  "+n.ID))
			}
			return nil
		},
	}

	var pinned bool
	add := &cobra.Command{
		Use:   "add <contact-id> <text...>",
		Short: "Add a note to a contact",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx, cancel := commandContext(cmd, a)
			defer cancel()

			n, err := a.Mut.CreateNote(ctx, models.NoteInput{
				ContactID: args[0],
				Content:   strings.Join(args[1:], " "),
				Pinned:    pinned,
			})
			if err != nil {
				return fmt.Errorf("failed to add note: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Note added (ID: %s)\n", n.ID)
			return nil
		},
	}
	add.Flags().BoolVar(&pinned, "pin", false, "Pin the note")

	var unpin bool
	pin := &cobra.Command{
		Use:   "pin <note-id>",
		Short: "Pin a note to the top of its contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx, cancel := commandContext(cmd, a)
			defer cancel()

			n, err := a.Mut.SetNotePinned(ctx, args[0], !unpin)
			if err != nil {
				return fmt.Errorf("failed to pin note: %w", err)
			}
			if n.Pinned {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✓ Note pinned")
			} else {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✓ Note unpinned")
			}
			return nil
		},
	}
	pin.Flags().BoolVar(&unpin, "unpin", false, "Unpin instead")

	del := &cobra.Command{
		Use:   "delete <note-id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx, cancel := commandContext(cmd, a)
			defer cancel()

			if err := a.Mut.DeleteNote(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete note: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Note deleted: %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, add, pin, del)
	return cmd
}
