// Package build provides the build command.
package build

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/open-cli-collective/mdsite/internal/cmd/cmdutil"
	"github.com/open-cli-collective/mdsite/internal/site"
	"github.com/open-cli-collective/mdsite/internal/view"
)

type buildOptions struct {
	drafts bool
	dryRun bool
	strict bool
}

// NewCmdBuild creates the build command.
func NewCmdBuild() *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render every post into the output directory",
		Long: `Render every post under the content directory to HTML and write
the posts index.

Directives that fail validation are left in the output and reported.
Use --strict to fail the build when any are found.`,
		Example: `  # Build the site
  mdsite build

  # Include drafts, without writing anything
  mdsite build --drafts --dry-run

  # Fail on any untransformed directive
  mdsite build --strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd.Context(), opts, cmdutil.FromCommand(cmd))
		},
	}

	cmd.Flags().BoolVar(&opts.drafts, "drafts", false, "Include posts marked draft")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Render without writing files")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Exit with an error when any directive is left untransformed")

	return cmd
}

func runBuild(ctx context.Context, opts *buildOptions, global *cmdutil.Options) error {
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

	logger := global.Logger(cfg)
	defer func() { _ = logger.Sync() }()

	mdOpts, err := cmdutil.MarkdownOptions(cfg, logger)
	if err != nil {
		return err
	}

	builder := &site.Builder{
		Markdown:   mdOpts,
		ContentDir: cfg.ContentPath(),
		OutputDir:  cfg.OutputPath(),
		SiteTitle:  cfg.Title,
		BaseURL:    cfg.BaseURL,
		Logger:     logger,
	}

	report, err := builder.Build(ctx, site.BuildOptions{Drafts: opts.drafts, DryRun: opts.dryRun})
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	logger.Debug("build finished",
		zap.Int("posts", len(report.Posts)),
		zap.Int("warnings", report.WarningCount()),
		zap.Duration("duration", report.Duration),
	)

	if renderer.IsJSON() {
		if err := renderer.RenderJSON(report); err != nil {
			return err
		}
	} else {
		renderReport(global, renderer, report, opts.dryRun)
	}

	if opts.strict && report.WarningCount() > 0 {
		return fmt.Errorf("%d directive(s) left untransformed", report.WarningCount())
	}
	return nil
}

func renderReport(global *cmdutil.Options, renderer *view.Renderer, report *site.Report, dryRun bool) {
	if len(report.Posts) == 0 {
		renderer.RenderText("No posts found.")
		return
	}

	headers := []string{"SLUG", "OUTPUT", "WARNINGS"}
	var rows [][]string
	for _, p := range report.Posts {
		rows = append(rows, []string{p.Slug, filepath.Base(p.Output), strconv.Itoa(len(p.Warnings))})
	}
	renderer.RenderTable(headers, rows)

	diagnostics := global.DiagnosticsRenderer()
	for _, p := range report.Posts {
		diagnostics.RenderDiagnostics(p.Source, p.Warnings)
	}

	verb := "Built"
	if dryRun {
		verb = "Rendered (dry run)"
	}
	summary := fmt.Sprintf("%s %d post(s) in %s", verb, len(report.Posts), report.Duration.Round(time.Millisecond))
	if report.Skipped > 0 {
		summary += fmt.Sprintf(", skipped %d draft(s)", report.Skipped)
	}
	if n := report.WarningCount(); n > 0 {
		renderer.Warning(fmt.Sprintf("%s with %d warning(s)", summary, n))
		return
	}
	renderer.Success(summary)
}
