package comiccmd

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdsite/internal/cmd/cmdutil"
	"github.com/open-cli-collective/mdsite/internal/comic"
	"github.com/open-cli-collective/mdsite/internal/config"
	"github.com/open-cli-collective/mdsite/internal/site"
)

type listOptions struct {
	unused bool
}

// NewCmdList creates the comic list command.
func NewCmdList() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List gallery manifests",
		Long:    `List the manifest.json files under the comics directory.`,
		Example: `  # List galleries
  mdsite comic list

  # Galleries no post links to
  mdsite comic list --unused`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(opts, cmdutil.FromCommand(cmd))
		},
	}

	cmd.Flags().BoolVar(&opts.unused, "unused", false, "Show only galleries not referenced by any post")

	return cmd
}

func runList(opts *listOptions, global *cmdutil.Options) error {
	cfg, err := global.LoadConfig()
	if err != nil {
		return err
	}
	renderer, err := global.Renderer(cfg)
	if err != nil {
		return err
	}

	var entries []comic.Entry
	if _, err := os.Stat(cfg.ComicsPath()); err == nil {
		entries, err = comic.List(cfg.ComicsPath())
		if err != nil {
			return err
		}
	}

	if opts.unused {
		entries, err = unused(cfg, entries)
		if err != nil {
			return err
		}
	}

	if renderer.IsJSON() {
		if entries == nil {
			entries = []comic.Entry{}
		}
		return renderer.RenderJSON(entries)
	}

	if len(entries) == 0 {
		if opts.unused {
			renderer.RenderText("No unused galleries.")
		} else {
			renderer.RenderText("No gallery manifests found.")
		}
		return nil
	}

	headers := []string{"ID", "NAME", "AUTHOR", "IMAGES", "PATH"}
	var rows [][]string
	for _, e := range entries {
		if e.Manifest == nil {
			rows = append(rows, []string{"-", "(invalid: " + e.Error + ")", "-", "-", e.Path})
			continue
		}
		author := e.Manifest.Author
		if author == "" {
			author = "-"
		}
		rows = append(rows, []string{
			e.Manifest.ID,
			e.Manifest.Name,
			author,
			strconv.Itoa(len(e.Manifest.Images)),
			e.Path,
		})
	}
	renderer.RenderTable(headers, rows)

	return nil
}

// unused keeps the entries whose gallery folder URL appears in no post.
func unused(cfg *config.Config, entries []comic.Entry) ([]comic.Entry, error) {
	posts, err := site.LoadPosts(cfg.ContentPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}

	var bodies strings.Builder
	for _, p := range posts {
		bodies.Write(p.Body)
		bodies.WriteByte('\n')
	}
	all := bodies.String()

	var out []comic.Entry
	for _, e := range entries {
		rel, err := filepath.Rel(cfg.PublicPath(), filepath.Dir(e.Path))
		if err != nil {
			out = append(out, e)
			continue
		}
		if !referenced(all, path.Join("/", filepath.ToSlash(rel))) {
			out = append(out, e)
		}
	}
	return out, nil
}

// referenced reports whether folder occurs in text as a whole path, that is
// not followed by more path-name characters.
func referenced(text, folder string) bool {
	for i := 0; ; {
		j := strings.Index(text[i:], folder)
		if j < 0 {
			return false
		}
		end := i + j + len(folder)
		if end == len(text) || strings.IndexByte("/\"'} \t\n)", text[end]) >= 0 {
			return true
		}
		i = end
	}
}
