package post

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdsite/api"
	"github.com/open-cli-collective/mdsite/internal/cmd/cmdutil"
	"github.com/open-cli-collective/mdsite/internal/site"
	"github.com/open-cli-collective/mdsite/internal/view"
)

const remoteTimeout = 30 * time.Second

type listOptions struct {
	tag    string
	drafts bool
	limit  int
	remote bool
}

// NewCmdList creates the post list command.
func NewCmdList() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List posts",
		Long: `List posts in the content directory, newest first.

With --remote, list the posts index of the deployed site instead.`,
		Example: `  # List posts
  mdsite post list

  # Only posts tagged travel, including drafts
  mdsite post list --tag travel --drafts

  # What the deployed site has
  mdsite post list --remote -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.Context(), opts, cmdutil.FromCommand(cmd))
		},
	}

	cmd.Flags().StringVarP(&opts.tag, "tag", "t", "", "Only list posts with this tag")
	cmd.Flags().BoolVar(&opts.drafts, "drafts", false, "Include drafts")
	cmd.Flags().IntVarP(&opts.limit, "limit", "l", 0, "Maximum number of posts to list (0 for all)")
	cmd.Flags().BoolVar(&opts.remote, "remote", false, "List the posts index of the deployed site")

	return cmd
}

func runList(ctx context.Context, opts *listOptions, global *cmdutil.Options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := global.RequireConfig()
	if err != nil {
		return err
	}
	renderer, err := global.Renderer(cfg)
	if err != nil {
		return err
	}

	var summaries []api.PostSummary
	if opts.remote {
		if cfg.BaseURL == "" {
			return fmt.Errorf("--remote requires base_url in the config")
		}
		ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
		defer cancel()
		summaries, err = api.NewClient(cfg.BaseURL).ListPosts(ctx)
		if err != nil {
			return fmt.Errorf("failed to list remote posts: %w", err)
		}
	} else {
		posts, err := site.LoadPosts(cfg.ContentPath())
		if err != nil {
			return fmt.Errorf("failed to load posts: %w", err)
		}
		for _, p := range posts {
			summaries = append(summaries, site.Summary(p, 0))
		}
	}

	summaries = filter(summaries, opts)

	if renderer.IsJSON() {
		if summaries == nil {
			summaries = []api.PostSummary{}
		}
		return renderer.RenderJSON(summaries)
	}

	if len(summaries) == 0 {
		renderer.RenderText("No posts found.")
		return nil
	}

	headers := []string{"SLUG", "TITLE", "DATE", "TAGS", "DRAFT"}
	var rows [][]string
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Slug,
			view.Truncate(s.Title, 50),
			formatDate(s.Date.Time),
			view.Join(s.Tags),
			yesNo(s.Draft),
		})
	}
	renderer.RenderTable(headers, rows)

	return nil
}

func filter(summaries []api.PostSummary, opts *listOptions) []api.PostSummary {
	var out []api.PostSummary
	for _, s := range summaries {
		if s.Draft && !opts.drafts {
			continue
		}
		if opts.tag != "" && !hasTag(s.Tags, opts.tag) {
			continue
		}
		out = append(out, s)
		if opts.limit > 0 && len(out) == opts.limit {
			break
		}
	}
	return out
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.DateOnly)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
