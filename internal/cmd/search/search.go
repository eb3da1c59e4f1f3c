// Package search provides the search command for finding posts.
package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdsite/api"
	"github.com/open-cli-collective/mdsite/internal/cmd/cmdutil"
	"github.com/open-cli-collective/mdsite/internal/site"
	"github.com/open-cli-collective/mdsite/internal/view"
)

type searchOptions struct {
	query  string // Positional arg: free-text search
	title  string // Title contains
	tag    string // Tag filter
	drafts bool
	limit  int
}

// NewCmdSearch creates the search command.
func NewCmdSearch() *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search posts",
		Long: `Search posts in the content directory.

Every word of the query must appear in the title, the tags or the
Markdown body; matching ignores case. Filters narrow the result.`,
		Example: `  # Full-text search
  mdsite search "road trip"

  # Posts tagged video
  mdsite search --tag video

  # Search by title, including drafts
  mdsite search --title "Release Notes" --drafts

  # Output as JSON for scripting
  mdsite search "comic" -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.query = args[0]
			}
			return runSearch(opts, cmdutil.FromCommand(cmd))
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", "", "Filter by title (contains)")
	cmd.Flags().StringVarP(&opts.tag, "tag", "t", "", "Filter by tag")
	cmd.Flags().BoolVar(&opts.drafts, "drafts", false, "Include drafts")
	cmd.Flags().IntVarP(&opts.limit, "limit", "l", 25, "Maximum number of results")

	return cmd
}

func runSearch(opts *searchOptions, global *cmdutil.Options) error {
	// Validate that we have something to search for
	if strings.TrimSpace(opts.query) == "" && opts.title == "" && opts.tag == "" {
		return fmt.Errorf("search requires a query or at least one filter (--title, --tag)")
	}

	// Validate limit
	if opts.limit < 0 {
		return fmt.Errorf("invalid limit: %d (must be >= 0)", opts.limit)
	}

	cfg, err := global.RequireConfig()
	if err != nil {
		return err
	}
	renderer, err := global.Renderer(cfg)
	if err != nil {
		return err
	}

	// Handle limit 0 - return empty
	if opts.limit == 0 {
		if renderer.IsJSON() {
			return renderer.RenderJSON([]interface{}{})
		}
		renderer.RenderText("No results.")
		return nil
	}

	posts, err := site.LoadPosts(cfg.ContentPath())
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	var matches []*site.Post
	candidates := posts
	if strings.TrimSpace(opts.query) != "" {
		candidates = site.Search(posts, opts.query)
	}
	for _, p := range candidates {
		if p.Draft && !opts.drafts {
			continue
		}
		if opts.title != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(opts.title)) {
			continue
		}
		if opts.tag != "" && !hasTag(p.Tags, opts.tag) {
			continue
		}
		matches = append(matches, p)
	}

	total := len(matches)
	if total > opts.limit {
		matches = matches[:opts.limit]
	}

	if renderer.IsJSON() {
		results := make([]api.PostSummary, 0, len(matches))
		for _, p := range matches {
			results = append(results, site.Summary(p, 0))
		}
		return renderer.RenderJSON(results)
	}

	if len(matches) == 0 {
		renderer.RenderText("No results found.")
		return nil
	}

	// Render results
	headers := []string{"SLUG", "TITLE", "DATE", "TAGS"}
	var rows [][]string
	for _, p := range matches {
		date := "-"
		if !p.Date.IsZero() {
			date = p.Date.Format(time.DateOnly)
		}
		rows = append(rows, []string{
			p.Slug,
			view.Truncate(p.Title, 50),
			date,
			view.Join(p.Tags),
		})
	}
	renderer.RenderTable(headers, rows)

	if total > len(matches) {
		global.DiagnosticsRenderer().RenderText(
			fmt.Sprintf("\n(showing %d of %d results, use --limit to see more)", len(matches), total))
	}

	return nil
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
