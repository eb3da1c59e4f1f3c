package post

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdsite/api"
	"github.com/open-cli-collective/mdsite/internal/cmd/cmdutil"
	"github.com/open-cli-collective/mdsite/internal/site"
	"github.com/open-cli-collective/mdsite/pkg/md"
)

type viewOptions struct {
	html bool
	web  bool
}

// NewCmdView creates the post view command.
func NewCmdView() *cobra.Command {
	opts := &viewOptions{}

	cmd := &cobra.Command{
		Use:   "view <slug>",
		Short: "View a post",
		Long:  `View a post's metadata and Markdown source, or its rendered HTML.`,
		Example: `  # View a post
  mdsite post view hello-world

  # View rendered HTML
  mdsite post view hello-world --html

  # Open the deployed post in a browser
  mdsite post view hello-world --web`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(args[0], opts, cmdutil.FromCommand(cmd))
		},
	}

	cmd.Flags().BoolVar(&opts.html, "html", false, "Show rendered HTML instead of the Markdown source")
	cmd.Flags().BoolVarP(&opts.web, "web", "w", false, "Open the deployed post in a browser")

	return cmd
}

func runView(key string, opts *viewOptions, global *cmdutil.Options) error {
	cfg, err := global.RequireConfig()
	if err != nil {
		return err
	}
	renderer, err := global.Renderer(cfg)
	if err != nil {
		return err
	}

	posts, err := site.LoadPosts(cfg.ContentPath())
	if err != nil {
		return fmt.Errorf("failed to load posts: %w", err)
	}
	post, ok := site.FindPost(posts, key)
	if !ok {
		return fmt.Errorf("post %q not found", key)
	}

	summary := site.Summary(post, 0)

	// Open in browser if requested
	if opts.web {
		if cfg.BaseURL == "" {
			return fmt.Errorf("--web requires base_url in the config")
		}
		return openBrowser(cfg.BaseURL + summary.URL)
	}

	body := string(post.Body)
	var diags []md.Diagnostic
	if opts.html {
		logger := global.Logger(cfg)
		defer func() { _ = logger.Sync() }()

		mdOpts, err := cmdutil.MarkdownOptions(cfg, logger)
		if err != nil {
			return err
		}
		res, err := md.NewConverter(mdOpts).Convert(post.Body)
		if err != nil {
			return fmt.Errorf("failed to render post: %w", err)
		}
		body, diags = res.HTML, res.Warnings
	}

	if renderer.IsJSON() {
		return renderer.RenderJSON(struct {
			Post     api.PostSummary `json:"post"`
			Source   string          `json:"source"`
			Body     string          `json:"body"`
			Warnings []md.Diagnostic `json:"warnings,omitempty"`
		}{summary, post.Path, body, diags})
	}

	// Show post info
	renderer.RenderKeyValue("Title", post.Title)
	renderer.RenderKeyValue("Slug", post.Slug)
	renderer.RenderKeyValue("Date", formatDate(post.Date))
	if len(post.Tags) > 0 {
		renderer.RenderKeyValue("Tags", strings.Join(post.Tags, ", "))
	}
	if post.Draft {
		renderer.RenderKeyValue("Draft", "yes")
	}
	renderer.RenderKeyValue("Source", post.Path)
	renderer.RenderText("")

	// Show content
	if strings.TrimSpace(body) == "" {
		renderer.RenderText("(No content)")
	} else {
		renderer.RenderText(strings.TrimRight(body, "\n"))
	}

	global.DiagnosticsRenderer().RenderDiagnostics(post.Path, diags)
	return nil
}

func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform")
	}

	return cmd.Start()
}
