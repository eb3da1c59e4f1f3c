// Package importcmd provides the import command.
package importcmd

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/open-cli-collective/mdsite/api"
	"github.com/open-cli-collective/mdsite/internal/cmd/cmdutil"
	"github.com/open-cli-collective/mdsite/pkg/md"
)

const fetchTimeout = 30 * time.Second

type importOptions struct {
	write          string
	skipDirectives bool
	force          bool
	stdin          io.Reader
}

// NewCmdImport creates the import command.
func NewCmdImport() *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import <file|url|->",
		Short: "Convert HTML back into directive Markdown",
		Long: `Convert rendered HTML into Markdown. Videos, comics, alerts and
centered images produced by mdsite are turned back into their
directives unless --skip-directives is set.

The input may be a file, an http(s) URL or "-" for stdin.`,
		Example: `  # Print Markdown for a rendered post
  mdsite import dist/hello.html

  # Fetch a page and save it as a post
  mdsite import https://blog.example.com/hello.html -w content/hello.md

  # Plain Markdown only
  mdsite import page.html --skip-directives`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.stdin = cmd.InOrStdin()
			return runImport(cmd.Context(), args[0], opts, cmdutil.FromCommand(cmd))
		},
	}

	cmd.Flags().StringVarP(&opts.write, "write", "w", "", "Write the Markdown to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.skipDirectives, "skip-directives", false, "Do not recover directives from their HTML")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite the --write file if it exists")

	return cmd
}

func runImport(ctx context.Context, input string, opts *importOptions, global *cmdutil.Options) error {
	if ctx == nil {
		ctx = context.Background()
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

	html, err := readInput(ctx, input, opts.stdin)
	if err != nil {
		return err
	}

	markdown, err := md.FromHTMLWithOptions(string(html), md.ConvertOptions{SkipDirectives: opts.skipDirectives})
	if err != nil {
		return fmt.Errorf("failed to convert %s: %w", input, err)
	}
	logger.Debug("imported html",
		zap.String("source", input),
		zap.Int("bytes", len(html)),
		zap.Bool("directives", !opts.skipDirectives),
	)

	if opts.write == "" {
		if renderer.IsJSON() {
			return renderer.RenderJSON(map[string]string{"source": input, "markdown": markdown})
		}
		renderer.RenderText(markdown)
		return nil
	}

	if _, err := os.Stat(opts.write); err == nil && !opts.force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", opts.write)
	}
	if err := os.MkdirAll(filepath.Dir(opts.write), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(opts.write, []byte(markdown+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.write, err)
	}

	if renderer.IsJSON() {
		return renderer.RenderJSON(map[string]string{"source": input, "path": opts.write})
	}
	renderer.Success(fmt.Sprintf("Imported %s to %s", input, opts.write))
	return nil
}

func readInput(ctx context.Context, input string, stdin io.Reader) ([]byte, error) {
	if input == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	if isURL(input) {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		data, err := api.NewClient("").Get(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", input, err)
		}
		return data, nil
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", input, err)
	}
	return data, nil
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (strings.EqualFold(u.Scheme, "http") || strings.EqualFold(u.Scheme, "https")) && u.Host != ""
}
