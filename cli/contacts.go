// ABOUTME: Contact CLI commands
// ABOUTME: List with filters and shareable locations, show details, and edit contacts and their tags
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harperreed/rolodex/models"
	"github.com/harperreed/rolodex/query"
	"github.com/harperreed/rolodex/views"
)

func newContactsCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "contacts",
		Aliases: []string{"contact", "c"},
		Short:   "List and manage contacts",
	}
	cmd.AddCommand(
		newContactsListCmd(app),
		newContactShowCmd(app),
		newContactAddCmd(app),
		newContactUpdateCmd(app),
		newContactDeleteCmd(app),
		newContactTagCmd(app, true),
		newContactTagCmd(app, false),
	)
	return cmd
}

type contactFilterFlags struct {
	viewFlags
	tags          []string
	company       string
	createdAfter  string
	createdBefore string
	hasReminders  bool
	overdue       bool
}

func (f *contactFilterFlags) state(cmd *cobra.Command, pageSize int) (query.State, error) {
	s := f.base(query.EntityContacts)
	changed := cmd.Flags().Changed

	if changed("tag") {
		s = s.WithTags(f.tags...)
	}
	if changed("company") {
		s = s.WithCompany(f.company)
	}
	if changed("created-after") || changed("created-before") {
		after, before := s.Filters.CreatedAfter, s.Filters.CreatedBefore
		var err error
		if changed("created-after") {
			if after, err = parseDay("created-after", f.createdAfter); err != nil {
				return s, err
			}
		}
		if changed("created-before") {
			if before, err = parseDay("created-before", f.createdBefore); err != nil {
				return s, err
			}
		}
		s = s.WithCreatedRange(after, before)
	}
	if changed("has-reminders") {
		s = s.WithHasReminders(f.hasReminders)
	}
	if changed("overdue") {
		s = s.WithHasOverdueReminders(f.overdue)
	}
	return f.apply(cmd, s, pageSize)
}

func newContactsListCmd(app func() *App) *cobra.Command {
	var f contactFilterFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			s, err := f.state(cmd, a.Config.PageSize)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext(cmd, a)
			defer cancel()
			res, err := a.Exec.Contacts(ctx, s)
			if err != nil {
				return fmt.Errorf("failed to list contacts: %w", err)
			}

			p := newPrinter(cmd.OutOrStdout(), a)
			if res.Search != nil {
				printSearch(p, s, res)
				return nil
			}
			if len(res.Page.Items) == 0 {
				_, _ = fmt.Fprintln(p.w, "No contacts found.")
			} else {
				w := p.table()
				_, _ = fmt.Fprintln(w, "NAME\tEMAIL\tCOMPANY\tTAGS\tREMINDERS\tID")
				for _, c := range res.Page.Items {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", c.Name, c.Email, c.Company, p.tags(c.Tags), c.ReminderCount, c.ID)
				}
				_ = w.Flush()
			}
			p.footer(s, res.Page.Pagination, len(res.Page.Items))
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringSliceVar(&f.tags, "tag", nil, "Only contacts with any of these tag IDs (repeatable)")
	cmd.Flags().StringVar(&f.company, "company", "", "Only contacts at this company (exact)")
	cmd.Flags().StringVar(&f.createdAfter, "created-after", "", "Created on or after this date (2006-01-02)")
	cmd.Flags().StringVar(&f.createdBefore, "created-before", "", "Created on or before this date (2006-01-02)")
	cmd.Flags().BoolVar(&f.hasReminders, "has-reminders", false, "Only contacts with open reminders")
	cmd.Flags().BoolVar(&f.overdue, "overdue", false, "Only contacts with overdue reminders")
	return cmd
}

func newContactShowCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a contact with reminders, recent interactions, and notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx, cancel := commandContext(cmd, a)
			defer cancel()

			c, err := a.Exec.Contact(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get contact: %w", err)
			}
			reminders, err := a.Exec.Reminders(ctx, query.New(query.EntityReminders).WithContact(c.ID))
			if err != nil {
				return fmt.Errorf("failed to get reminders: %w", err)
			}
			interactions, err := a.Exec.Interactions(ctx, query.New(query.EntityInteractions).WithContact(c.ID).WithPage(1, 5))
			if err != nil {
				return fmt.Errorf("failed to get interactions: %w", err)
			}
			notes, err := a.Exec.Notes(ctx, c.ID)
			if err != nil {
				return fmt.Errorf("failed to get notes: %w", err)
			}

			now := a.Now()
			p := newPrinter(cmd.OutOrStdout(), a)
			p.heading(c.Name)
			p.field("Email", c.Email)
			p.field("Phone", c.Phone)
			p.field("Company", c.Company)
			p.field("Title", c.JobTitle)
			p.field("Location", c.Location)
			p.field("Tags", p.tags(c.Tags))
			if c.LastInteractionAt != nil {
				p.field("Last contact", relative(*c.LastInteractionAt, now))
			}
			p.field("Notes", c.Notes)
			p.field("ID", c.ID)

			if items := reminders.Page.Items; len(items) > 0 {
				_, _ = fmt.Fprintln(p.w)
				p.heading("Reminders")
				for _, r := range views.SortReminders(items) {
					_, _ = fmt.Fprintf(p.w, "  %s\n", p.reminderLine(r, now))
				}
			}
			if items := interactions.Page.Items; len(items) > 0 {
				_, _ = fmt.Fprintln(p.w)
				p.heading("Recent interactions")
				for _, i := range items {
					_, _ = fmt.Fprintf(p.w, "  %s  %s\n", p.style(dimStyle, i.Date.Format("Jan 2, 2006")), interactionLine(i))
				}
			}
			if len(notes) > 0 {
				_, _ = fmt.Fprintln(p.w)
				p.heading("Notes")
				for _, n := range notes {
					pin := " "
					if n.Pinned {
						pin = "*"
					}
					_, _ = fmt.Fprintf(p.w, "  %s %s\n", pin, n.Content)
				}
			}
			return nil
		},
	}
}

type contactInputFlags struct {
	in models.ContactInput
}

func (f *contactInputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.in.Name, "name", "", "Contact name")
	cmd.Flags().StringVar(&f.in.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&f.in.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&f.in.Company, "company", "", "Company name")
	cmd.Flags().StringVar(&f.in.JobTitle, "title", "", "Job title")
	cmd.Flags().StringVar(&f.in.Location, "location", "", "Where they are based")
	cmd.Flags().StringVar(&f.in.Notes, "notes", "", "Notes about the contact")
}

// overlay copies the flags the user set onto in.
func (f *contactInputFlags) overlay(cmd *cobra.Command, in models.ContactInput) models.ContactInput {
	for _, field := range []struct {
		flag string
		dst  *string
		val  string
	}{
		{"name", &in.Name, f.in.Name},
		{"email", &in.Email, f.in.Email},
		{"phone", &in.Phone, f.in.Phone},
		{"company", &in.Company, f.in.Company},
		{"title", &in.JobTitle, f.in.JobTitle},
		{"location", &in.Location, f.in.Location},
		{"notes", &in.Notes, f.in.Notes},
	} {
		if cmd.Flags().Changed(field.flag) {
			*field.dst = field.val
		}
	}
	return in
}

func newContactAddCmd(app func() *App) *cobra.Command {
	var f contactInputFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx, cancel := commandContext(cmd, a)
			defer cancel()

			c, err := a.Mut.CreateContact(ctx, f.in)
			if err != nil {
				return fmt.Errorf("failed to create contact: %w", err)
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "✓ Contact created: %s (ID: %s)\n", c.Name, c.ID)
			if c.Email != "" {
				_, _ = fmt.Fprintf(out, "  Email: %s\n", c.Email)
			}
			if c.Company != "" {
				_, _ = fmt.Fprintf(out, "  Company: %s\n", c.Company)
			}
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newContactUpdateCmd(app func() *App) *cobra.Command {
	var f contactInputFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a contact's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx, cancel := commandContext(cmd, a)
			defer cancel()

			current, err := a.Client.GetContact(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get contact: %w", err)
			}
			in := f.overlay(cmd, models.ContactInput{
				Name:     current.Name,
				Email:    current.Email,
				Phone:    current.Phone,
				Company:  current.Company,
				JobTitle: current.JobTitle,
				Location: current.Location,
				Notes:    current.Notes,
			})

			c, err := a.Mut.UpdateContact(ctx, current.ID, in)
			if err != nil {
				return fmt.Errorf("failed to update contact: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Contact updated: %s\n", c.Name)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newContactDeleteCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contact and everything attached to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx, cancel := commandContext(cmd, a)
			defer cancel()

			if err := a.Mut.DeleteContact(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete contact: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Contact deleted: %s\n", args[0])
			return nil
		},
	}
}

// newContactTagCmd builds "tag" when add is true, else "untag".
func newContactTagCmd(app func() *App, add bool) *cobra.Command {
	use, short := "tag <contact-id> <tag-id>", "Attach a tag to a contact"
	if !add {
		use, short = "untag <contact-id> <tag-id>", "Remove a tag from a contact"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx, cancel := commandContext(cmd, a)
			defer cancel()

			var tags models.TagList
			var err error
			if add {
				tags, err = a.Mut.AddContactTag(ctx, args[0], args[1])
			} else {
				tags, err = a.Mut.RemoveContactTag(ctx, args[0], args[1])
			}
			if err != nil {
				return fmt.Errorf("failed to update tags: %w", err)
			}

			p := newPrinter(cmd.OutOrStdout(), a)
			if len(tags) == 0 {
				_, _ = fmt.Fprintln(p.w, "✓ Contact has no tags")
				return nil
			}
			_, _ = fmt.Fprintf(p.w, "✓ Tags: %s\n", p.tags(tags))
			return nil
		},
	}
}
