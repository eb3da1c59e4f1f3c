// Package render provides the render command.
package render

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdsite/internal/cmd/cmdutil"
	"github.com/open-cli-collective/mdsite/internal/site"
	"github.com/open-cli-collective/mdsite/pkg/md"
)

// stdinName stands in for the file name of a post read from stdin.
const stdinName = "stdin.md"

type renderOptions struct {
	format string
	page   bool
	strict bool
	stdin  io.Reader
}

// NewCmdRender creates the render command.
func NewCmdRender() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <file|->",
		Short: "Render a single Markdown file",
		Long: `Render one Markdown file, or stdin when the argument is "-", and
print the HTML or the intermediate document tree.

Front matter is stripped. Untransformed directives are reported on
stderr.`,
		Example: `  # Render to HTML
  mdsite render content/hello.md

  # Print the document tree
  mdsite render content/hello.md --format tree

  # Render a complete page
  mdsite render content/hello.md --page > hello.html

  # From stdin
  echo '::video{src=/v.mp4}' | mdsite render -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.stdin = cmd.InOrStdin()
			return runRender(args[0], opts, cmdutil.FromCommand(cmd))
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "html", "What to print: html or tree")
	cmd.Flags().BoolVar(&opts.page, "page", false, "Wrap the HTML in the site page template")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Exit with an error when any directive is left untransformed")

	return cmd
}

func runRender(input string, opts *renderOptions, global *cmdutil.Options) error {
	if opts.format != "html" && opts.format != "tree" {
		return fmt.Errorf("invalid format %q: must be html or tree", opts.format)
	}
	if opts.page && opts.format == "tree" {
		return fmt.Errorf("--page cannot be combined with --format tree")
	}

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

	mdOpts, err := cmdutil.MarkdownOptions(cfg, logger)
	if err != nil {
		return err
	}

	post, err := readPost(input, opts.stdin)
	if err != nil {
		return err
	}

	var diags []md.Diagnostic
	switch {
	case opts.format == "tree":
		var data []byte
		data, diags, err = md.NewConverter(mdOpts).ToTreeJSON(post.Body)
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", post.Path, err)
		}
		fmt.Fprintln(renderer.Writer(), string(data))

	case opts.page:
		builder := &site.Builder{Markdown: mdOpts, SiteTitle: cfg.Title, BaseURL: cfg.BaseURL, Logger: logger}
		var page []byte
		page, diags, err = builder.Render(post)
		if err != nil {
			return err
		}
		_, _ = renderer.Writer().Write(page)

	default:
		res, err := md.NewConverter(mdOpts).Convert(post.Body)
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", post.Path, err)
		}
		diags = res.Warnings
		if renderer.IsJSON() {
			if err := renderer.RenderJSON(res); err != nil {
				return err
			}
		} else {
			_, _ = io.WriteString(renderer.Writer(), res.HTML)
		}
	}

	if !renderer.IsJSON() {
		global.DiagnosticsRenderer().RenderDiagnostics(post.Path, diags)
	}
	if opts.strict && len(diags) > 0 {
		return fmt.Errorf("%d directive(s) left untransformed", len(diags))
	}
	return nil
}

func readPost(input string, stdin io.Reader) (*site.Post, error) {
	if input != "-" {
		return site.LoadPost(input)
	}
	if stdin == nil {
		stdin = os.Stdin
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return site.ParsePost(stdinName, data)
}
