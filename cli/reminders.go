// ABOUTME: Reminder CLI commands
// ABOUTME: Open reminders are listed first, soonest due at the top
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harperreed/rolodex/models"
	"github.com/harperreed/rolodex/query"
	"github.com/harperreed/rolodex/views"
)

func newRemindersCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reminders",
		Aliases: []string{"reminder", "r"},
		Short:   "List and manage reminders",
	}
	cmd.AddCommand(
		newRemindersListCmd(app),
		newReminderAddCmd(app),
		newReminderCompleteCmd(app),
		newReminderDeleteCmd(app),
	)
	return cmd
}

func newRemindersListCmd(app func() *App) *cobra.Command {
	var f struct {
		viewFlags
		contact string
		status  string
	}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			changed := cmd.Flags().Changed

			s := f.base(query.EntityReminders)
			if changed("contact") {
				s = s.WithContact(f.contact)
			}
			if changed("status") {
				switch st := query.Status(f.status); st {
				case query.StatusPending, query.StatusCompleted:
					s = s.WithStatus(st)
				case "all":
					s = s.WithStatus(query.StatusAll)
				default:
					return fmt.Errorf("--status must be pending, completed, or all")
				}
			}
			s, err := f.apply(cmd, s, a.Config.PageSize)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext(cmd, a)
			defer cancel()
			res, err := a.Exec.Reminders(ctx, s)
			if err != nil {
				return fmt.Errorf("failed to list reminders: %w", err)
			}

			p := newPrinter(cmd.OutOrStdout(), a)
			if res.Search != nil {
				printSearch(p, s, res)
				return nil
			}
			if len(res.Page.Items) == 0 {
				_, _ = fmt.Fprintln(p.w, "No reminders found.")
			}
			now := a.Now()
			for _, r := range views.SortRemindersBy(res.Page.Items, s.Sort.Order == query.Desc) {
				_, _ = fmt.Fprintf(p.w, "%s  %s\n", p.reminderLine(r, now), p.style(dimStyle, r.ID))
			}
			p.footer(s, res.Page.Pagination, len(res.Page.Items))
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&f.contact, "contact", "", "Only reminders for this contact ID")
	cmd.Flags().StringVar(&f.status, "status", "", "pending, completed, or all")
	return cmd
}

func (p printer) reminderLine(r models.Reminder, now time.Time) string {
	box := "[ ]"
	if r.Completed {
		box = "[x]"
	}
	line := fmt.Sprintf("%s %s (due %s)", box, r.Title, relative(r.DueDate, now))
	if r.Contact != nil {
		line += " for " + r.Contact.Name
	}
	if views.IsOverdue(r, now) {
		line += " " + p.style(overdueStyle, "OVERDUE")
	}
	return line
}

func newReminderAddCmd(app func() *App) *cobra.Command {
	var (
		in  models.ReminderInput
		due string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a reminder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if due != "" {
				t, err := parseWhen("due", due)
				if err != nil {
					return err
				}
				in.DueDate = t
			}

			ctx, cancel := commandContext(cmd, a)
			defer cancel()
			r, err := a.Mut.CreateReminder(ctx, in)
			if err != nil {
				return fmt.Errorf("failed to create reminder: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Reminder created: %s (ID: %s)\n", r.Title, r.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.ContactID, "contact", "", "Contact ID (required)")
	cmd.Flags().StringVar(&in.Title, "title", "", "What to do (required)")
	cmd.Flags().StringVar(&in.Description, "description", "", "Details")
	cmd.Flags().StringVar(&due, "due", "", "Due date (2006-01-02 or RFC 3339, required)")
	return cmd
}

func newReminderCompleteCmd(app func() *App) *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a reminder done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx, cancel := commandContext(cmd, a)
			defer cancel()

			r, err := a.Mut.SetReminderCompleted(ctx, args[0], !undo)
			if err != nil {
				return fmt.Errorf("failed to update reminder: %w", err)
			}
			state := "done"
			if !r.Completed {
				state = "open"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Reminder %s: %s\n", state, r.Title)
			return nil
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the reminder open again")
	return cmd
}

func newReminderDeleteCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx, cancel := commandContext(cmd, a)
			defer cancel()

			if err := a.Mut.DeleteReminder(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete reminder: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Reminder deleted: %s\n", args[0])
			return nil
		},
	}
}
