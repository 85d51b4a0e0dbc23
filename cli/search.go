// ABOUTME: Free-text search across contacts, interactions, reminders, and notes
// ABOUTME: Interactive mode debounces input lines and shows only the latest query's results
package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/harperreed/rolodex/live"
	"github.com/harperreed/rolodex/models"
	"github.com/harperreed/rolodex/query"
)

func newSearchCmd(app func() *App) *cobra.Command {
	var interactive bool
	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Search everything",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if interactive {
				return interactiveSearch(cmd, a)
			}

			text := strings.TrimSpace(strings.Join(args, " "))
			if utf8.RuneCountInString(text) < query.MinSearchLength {
				return fmt.Errorf("search needs at least %d characters", query.MinSearchLength)
			}

			ctx, cancel := commandContext(cmd, a)
			defer cancel()
			resp, err := a.Exec.Search(ctx, text, a.Config.SearchLimit)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			newPrinter(cmd.OutOrStdout(), a).searchResults(resp, false)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Read queries line by line from stdin")
	return cmd
}

// interactiveSearch treats each input line as the new contents of a search box.
func interactiveSearch(cmd *cobra.Command, a *App) error {
	p := newPrinter(cmd.OutOrStdout(), a)
	limit := a.Config.SearchLimit

	var mu sync.Mutex
	shown := ""
	show := func(text string, resp *models.SearchResponse, err error) {
		mu.Lock()
		defer mu.Unlock()
		shown = text
		_, _ = fmt.Fprintf(p.w, "\n> %s\n", text)
		switch {
		case err != nil:
			_, _ = fmt.Fprintf(p.w, "search failed: %v\n", err)
		case utf8.RuneCountInString(strings.TrimSpace(text)) < query.MinSearchLength:
			_, _ = fmt.Fprintln(p.w, p.style(dimStyle, "keep typing..."))
		default:
			p.searchResults(resp, false)
		}
	}
	search := func(ctx context.Context, text string) (*models.SearchResponse, error) {
		return a.Exec.Search(ctx, text, limit)
	}

	box := live.NewSearchBox(a.Config.DebounceDelay.Std(), search, show)
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Type a query per line; Ctrl-D to finish.")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		box.Set(scanner.Text())
	}
	box.Close()
	box.Wait()

	// the last line may still have been waiting out the debounce
	final := box.Text()
	mu.Lock()
	pending := final != shown
	mu.Unlock()
	if pending && strings.TrimSpace(final) != "" {
		resp, err := search(cmd.Context(), final)
		show(final, resp, err)
	}
	return scanner.Err()
}
