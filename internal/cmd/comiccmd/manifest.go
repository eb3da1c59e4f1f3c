package comiccmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdsite/internal/cmd/cmdutil"
	"github.com/open-cli-collective/mdsite/internal/comic"
)

type manifestOptions struct {
	force  bool
	dryRun bool
}

// NewCmdManifest creates the comic manifest command.
func NewCmdManifest() *cobra.Command {
	opts := &manifestOptions{}

	cmd := &cobra.Command{
		Use:   "manifest [dir]",
		Short: "Generate gallery manifests",
		Long: `Write a manifest.json into every folder of images under the comics
directory (or dir). Images are ordered by the number in their file
name. A cover.* image becomes the cover, otherwise the first image.

Names and authors edited by hand are kept unless --force is set.`,
		Example: `  # Generate all manifests
  mdsite comic manifest

  # Preview one gallery
  mdsite comic manifest public/comics/trip --dry-run`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) > 0 {
				dir = args[0]
			}
			return runManifest(dir, opts, cmdutil.FromCommand(cmd))
		},
	}

	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite names and authors in existing manifests")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show what would be written")

	return cmd
}

func runManifest(dir string, opts *manifestOptions, global *cmdutil.Options) error {
	cfg, err := global.LoadConfig()
	if err != nil {
		return err
	}
	renderer, err := global.Renderer(cfg)
	if err != nil {
		return err
	}
	logger := global.Logger(cfg)
	defer func() { _ = logger.Sync() }()

	root := cfg.ComicsPath()
	if dir != "" {
		root = dir
	}

	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return fmt.Errorf("comics directory %s not found", root)
	}

	results, err := comic.Generate(comic.Options{
		Root:      root,
		PublicDir: cfg.PublicPath(),
		Force:     opts.force,
		DryRun:    opts.dryRun,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	if renderer.IsJSON() {
		if results == nil {
			results = []comic.Result{}
		}
		return renderer.RenderJSON(results)
	}

	if len(results) == 0 {
		renderer.RenderText(fmt.Sprintf("No image folders found under %s.", root))
		return nil
	}

	headers := []string{"ID", "NAME", "IMAGES", "COVER", "STATUS"}
	var rows [][]string
	for _, r := range results {
		rows = append(rows, []string{
			r.Manifest.ID,
			r.Manifest.Name,
			strconv.Itoa(len(r.Manifest.Images)),
			r.Manifest.Cover,
			string(r.Status),
		})
	}
	renderer.RenderTable(headers, rows)

	if opts.dryRun {
		renderer.RenderText("\n(dry run, nothing written)")
	}
	return nil
}
