// ABOUTME: Interaction timeline CLI commands
// ABOUTME: Lists interactions grouped under Today, Yesterday, weekday, and date headings
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harperreed/rolodex/models"
	"github.com/harperreed/rolodex/query"
	"github.com/harperreed/rolodex/views"
)

func newTimelineCmd(app func() *App) *cobra.Command {
	var f struct {
		viewFlags
		contact string
		kind    string
		from    string
		to      string
	}

	cmd := &cobra.Command{
		Use:     "timeline",
		Aliases: []string{"interactions"},
		Short:   "Show the interaction timeline",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			changed := cmd.Flags().Changed

			s := f.base(query.EntityInteractions)
			if changed("contact") {
				s = s.WithContact(f.contact)
			}
			if changed("type") {
				if f.kind != "" && !models.IsInteractionType(f.kind) {
					return fmt.Errorf("--type must be one of %s", strings.Join(models.InteractionTypes, ", "))
				}
				s = s.WithType(f.kind)
			}
			if changed("from") || changed("to") {
				from, to := s.Filters.DateFrom, s.Filters.DateTo
				var err error
				if changed("from") {
					if from, err = parseDay("from", f.from); err != nil {
						return err
					}
				}
				if changed("to") {
					if to, err = parseDay("to", f.to); err != nil {
						return err
					}
				}
				s = s.WithDateRange(from, to)
			}
			s, err := f.apply(cmd, s, a.Config.PageSize)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext(cmd, a)
			defer cancel()
			res, err := a.Exec.Interactions(ctx, s)
			if err != nil {
				return fmt.Errorf("failed to list interactions: %w", err)
			}

			p := newPrinter(cmd.OutOrStdout(), a)
			if res.Search != nil {
				printSearch(p, s, res)
				return nil
			}
			if len(res.Page.Items) == 0 {
				_, _ = fmt.Fprintln(p.w, "No interactions found.")
			}
			for i, g := range views.GroupInteractions(res.Page.Items, a.Now()) {
				if i > 0 {
					_, _ = fmt.Fprintln(p.w)
				}
				p.heading(g.Label)
				for _, in := range g.Items {
					who := ""
					if in.Contact != nil {
						who = " with " + in.Contact.Name
					}
					_, _ = fmt.Fprintf(p.w, "  %s%s\n", interactionLine(in), who)
				}
			}
			p.footer(s, res.Page.Pagination, len(res.Page.Items))
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&f.contact, "contact", "", "Only interactions with this contact ID")
	cmd.Flags().StringVar(&f.kind, "type", "", "Only this type: "+strings.Join(models.InteractionTypes, ", "))
	cmd.Flags().StringVar(&f.from, "from", "", "On or after this date (2006-01-02)")
	cmd.Flags().StringVar(&f.to, "to", "", "On or before this date (2006-01-02)")

	cmd.AddCommand(newInteractionAddCmd(app), newInteractionDeleteCmd(app))
	return cmd
}

func interactionLine(i models.Interaction) string {
	line := fmt.Sprintf("[%s]", i.Type)
	if i.Duration != nil {
		line += " " + views.FormatDuration(*i.Duration)
	}
	if i.Summary != "" {
		line += " " + i.Summary
	}
	return line
}

func newInteractionAddCmd(app func() *App) *cobra.Command {
	var (
		in       models.InteractionInput
		date     string
		duration int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log an interaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			in.Date = a.Now()
			if date != "" {
				t, err := parseWhen("date", date)
				if err != nil {
					return err
				}
				in.Date = t
			}
			if cmd.Flags().Changed("duration") {
				in.Duration = &duration
			}

			ctx, cancel := commandContext(cmd, a)
			defer cancel()
			created, err := a.Mut.CreateInteraction(ctx, in)
			if err != nil {
				return fmt.Errorf("failed to log interaction: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged %s (ID: %s)\n", interactionLine(*created), created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.ContactID, "contact", "", "Contact ID (required)")
	cmd.Flags().StringVar(&in.Type, "type", models.InteractionOther, "Type: "+strings.Join(models.InteractionTypes, ", "))
	cmd.Flags().StringVar(&date, "date", "", "When it happened (default now)")
	cmd.Flags().IntVar(&duration, "duration", 0, "Length in minutes")
	cmd.Flags().StringVar(&in.Summary, "summary", "", "One-line summary")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "Longer notes")
	return cmd
}

func newInteractionDeleteCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an interaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx, cancel := commandContext(cmd, a)
			defer cancel()

			if err := a.Mut.DeleteInteraction(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete interaction: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Interaction deleted: %s\n", args[0])
			return nil
		},
	}
}
