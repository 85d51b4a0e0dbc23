// ABOUTME: Terminal output helpers shared by the CLI commands
// ABOUTME: Tables via tabwriter, tag badges via lipgloss, relative times via humanize
package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/harperreed/rolodex/api"
	"github.com/harperreed/rolodex/models"
	"github.com/harperreed/rolodex/query"
	"github.com/harperreed/rolodex/views"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	labelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	overdueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(w io.Writer, app *App) printer {
	return printer{w: w, color: app.Color}
}

func (p printer) style(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

func (p printer) heading(text string) {
	_, _ = fmt.Fprintln(p.w, p.style(headingStyle, strings.ToUpper(text)))
}

func (p printer) field(label, value string) {
	if value == "" {
		return
	}
	_, _ = fmt.Fprintf(p.w, "  %s %s\n", p.style(labelStyle, label+":"), value)
}

func (p printer) tags(tags models.TagList) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		if p.color {
			parts = append(parts, views.TagBadge(t))
		} else {
			parts = append(parts, t.Name)
		}
	}
	return strings.Join(parts, " ")
}

func (p printer) table() *tabwriter.Writer {
	return tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
}

// footer prints pagination and the location string that reproduces the view.
func (p printer) footer(s query.State, meta *models.Pagination, count int) {
	switch {
	case meta != nil:
		_, _ = fmt.Fprintf(p.w, "\nPage %d of %d (%s total)\n", meta.Page, max(meta.TotalPages, 1), humanize.Comma(int64(meta.Total)))
	default:
		_, _ = fmt.Fprintf(p.w, "\n%s\n", plural(count, "result"))
	}
	if loc := query.Location(s); loc != "" {
		_, _ = fmt.Fprintf(p.w, "Location: %s\n", loc)
	}
}

func (p printer) searchResults(resp *models.SearchResponse, filtersIgnored bool) {
	if filtersIgnored {
		_, _ = fmt.Fprintln(p.w, p.style(dimStyle, "Filters are ignored while searching."))
	}
	if len(resp.Results) == 0 {
		_, _ = fmt.Fprintf(p.w, "No results for %q\n", resp.Query)
		return
	}
	w := p.table()
	_, _ = fmt.Fprintln(w, "TYPE\tTITLE\tCONTACT\tPREVIEW\tID")
	for _, r := range resp.Results {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.EntityType, r.Title, r.ContactName, truncate(r.Preview, 40), r.ID)
	}
	_ = w.Flush()
}

func relative(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%s %ss", humanize.Comma(int64(n)), noun)
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// printSearch renders a collection result produced in search mode.
func printSearch[T any](p printer, s query.State, res *api.Result[T]) {
	p.searchResults(res.Search, res.FiltersIgnored)
	p.footer(s, nil, len(res.Search.Results))
}
