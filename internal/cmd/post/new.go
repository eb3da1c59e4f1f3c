package post

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdsite/internal/cmd/cmdutil"
	"github.com/open-cli-collective/mdsite/internal/site"
)

type newOptions struct {
	tags  []string
	date  string
	force bool
	now   func() time.Time
}

// NewCmdNew creates the post new command.
func NewCmdNew() *cobra.Command {
	opts := &newOptions{now: time.Now}

	cmd := &cobra.Command{
		Use:   "new <title>",
		Short: "Create a draft post",
		Long: `Create a Markdown file for a new post in the content directory.

The file name is the slug of the title. The post starts as a draft;
remove "draft: true" from its front matter to publish it.`,
		Example: `  # Create a post
  mdsite post new "Trip report"

  # With tags and a date
  mdsite post new "Trip report" --tags travel,video --date 2024-05-01`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(args[0], opts, cmdutil.FromCommand(cmd))
		},
	}

	cmd.Flags().StringSliceVar(&opts.tags, "tags", nil, "Comma-separated tags")
	cmd.Flags().StringVar(&opts.date, "date", "", "Post date as YYYY-MM-DD (default: now)")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing file")

	return cmd
}

func runNew(title string, opts *newOptions, global *cmdutil.Options) error {
	cfg, err := global.RequireConfig()
	if err != nil {
		return err
	}
	renderer, err := global.Renderer(cfg)
	if err != nil {
		return err
	}

	date := opts.now().Truncate(time.Second)
	if opts.date != "" {
		date, err = time.Parse(time.DateOnly, opts.date)
		if err != nil {
			return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", opts.date)
		}
	}

	source, slug, err := site.NewPostSource(title, date, opts.tags)
	if err != nil {
		return err
	}

	path := filepath.Join(cfg.ContentPath(), slug+".md")
	if _, err := os.Stat(path); err == nil && !opts.force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create content directory: %w", err)
	}
	if err := os.WriteFile(path, source, 0644); err != nil {
		return fmt.Errorf("failed to write post: %w", err)
	}

	if renderer.IsJSON() {
		return renderer.RenderJSON(map[string]string{"slug": slug, "path": path})
	}
	renderer.Success(fmt.Sprintf("Created %s", path))
	return nil
}
