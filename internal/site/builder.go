package site

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/open-cli-collective/mdsite/api"
	"github.com/open-cli-collective/mdsite/pkg/md"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Post.Title}} | {{.SiteTitle}}</title>
{{- if .Post.Summary}}
<meta name="description" content="{{.Post.Summary}}">
{{- end}}
{{- if .Canonical}}
<link rel="canonical" href="{{.Canonical}}">
{{- end}}
</head>
<body>
<article class="post">
<header>
<h1>{{.Post.Title}}</h1>
{{- if not .Post.Date.IsZero}}
<time datetime="{{.Post.Date.Format "2006-01-02"}}">{{.Post.Date.Format "January 2, 2006"}}</time>
{{- end}}
</header>
{{.Content}}
</article>
</body>
</html>
`

var page = template.Must(template.New("page").Parse(pageTemplate))

// Builder renders posts into an output directory.
type Builder struct {
	// Markdown configures the converter; its Logger is replaced by a
	// per-post child of Logger.
	Markdown   md.Options
	ContentDir string
	OutputDir  string
	SiteTitle  string
	BaseURL    string
	Logger     *zap.Logger
}

// BuildOptions controls a single build.
type BuildOptions struct {
	// Drafts includes posts marked draft.
	Drafts bool
	// DryRun renders every post without writing files.
	DryRun bool
}

// PostReport is the outcome of building one post.
type PostReport struct {
	Slug     string          `json:"slug"`
	Source   string          `json:"source"`
	Output   string          `json:"output"`
	Warnings []md.Diagnostic `json:"warnings,omitempty"`
}

// Report summarizes a build.
type Report struct {
	Posts    []PostReport  `json:"posts"`
	Skipped  int           `json:"skipped"`
	Index    string        `json:"index,omitempty"`
	Duration time.Duration `json:"duration"`
}

// WarningCount returns the number of diagnostics across all posts.
func (r *Report) WarningCount() int {
	n := 0
	for _, p := range r.Posts {
		n += len(p.Warnings)
	}
	return n
}

func (b *Builder) logger() *zap.Logger {
	if b.Logger == nil {
		return zap.NewNop()
	}
	return b.Logger
}

// Render converts a single post to a complete HTML page.
func (b *Builder) Render(post *Post) ([]byte, []md.Diagnostic, error) {
	opts := b.Markdown
	opts.Logger = b.logger().With(zap.String("post", post.Slug))
	res, err := md.NewConverter(opts).Convert(post.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("render %s: %w", post.Path, err)
	}

	canonical := ""
	if b.BaseURL != "" {
		canonical = b.BaseURL + "/" + post.Slug + ".html"
	}

	var buf bytes.Buffer
	err = page.Execute(&buf, struct {
		Post      *Post
		SiteTitle string
		Canonical string
		Content   template.HTML
	}{
		Post:      post,
		SiteTitle: b.SiteTitle,
		Canonical: canonical,
		// Converter output is trusted: raw HTML in posts is only passed
		// through when the site enables it.
		Content: template.HTML(res.HTML),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("render %s: %w", post.Path, err)
	}
	return buf.Bytes(), res.Warnings, nil
}

// Build renders every post under ContentDir and writes <slug>.html files
// plus the posts index. Posts with diagnostics are still written.
func (b *Builder) Build(ctx context.Context, opts BuildOptions) (*Report, error) {
	start := time.Now()
	log := b.logger()

	posts, err := LoadPosts(b.ContentDir)
	if err != nil {
		return nil, err
	}

	if !opts.DryRun {
		if err := os.MkdirAll(b.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	report := &Report{}
	index := make([]api.PostSummary, 0, len(posts))

	for _, post := range posts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if post.Draft && !opts.Drafts {
			report.Skipped++
			log.Debug("skipping draft", zap.String("post", post.Slug))
			continue
		}

		html, warnings, err := b.Render(post)
		if err != nil {
			return nil, err
		}

		out := filepath.Join(b.OutputDir, post.Slug+".html")
		if !opts.DryRun {
			if err := os.WriteFile(out, html, 0644); err != nil {
				return nil, fmt.Errorf("write %s: %w", out, err)
			}
		}
		log.Info("built post",
			zap.String("post", post.Slug),
			zap.String("output", out),
			zap.Int("warnings", len(warnings)),
		)

		report.Posts = append(report.Posts, PostReport{
			Slug:     post.Slug,
			Source:   post.Path,
			Output:   out,
			Warnings: warnings,
		})
		index = append(index, Summary(post, len(warnings)))
	}

	if !opts.DryRun {
		data, err := json.MarshalIndent(index, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal posts index: %w", err)
		}
		report.Index = filepath.Join(b.OutputDir, api.PostsIndexFile)
		if err := os.WriteFile(report.Index, append(data, '\n'), 0644); err != nil {
			return nil, fmt.Errorf("write posts index: %w", err)
		}
	}

	report.Duration = time.Since(start)
	return report, nil
}

// Summary returns the posts index entry for post.
func Summary(post *Post, warnings int) api.PostSummary {
	return api.PostSummary{
		Slug:     post.Slug,
		Title:    post.Title,
		Date:     api.Time{Time: post.Date},
		Summary:  post.Summary,
		Tags:     post.Tags,
		URL:      "/" + post.Slug + ".html",
		Draft:    post.Draft,
		Warnings: warnings,
	}
}
