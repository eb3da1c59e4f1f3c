// Package site loads blog posts and builds them into a static site.
package site

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/goliatone/go-slug"
)

// ErrDuplicateSlug is returned when two posts resolve to the same slug.
var ErrDuplicateSlug = errors.New("duplicate post slug")

// Post is a Markdown source file with its front matter.
type Post struct {
	Title   string
	Slug    string
	Date    time.Time
	Summary string
	Tags    []string
	Draft   bool

	// Path is the source file; Body is the Markdown after the front matter.
	Path string
	Body []byte
}

type frontMatter struct {
	Title   string    `yaml:"title"`
	Slug    string    `yaml:"slug"`
	Date    time.Time `yaml:"date"`
	Summary string    `yaml:"summary"`
	Tags    []string  `yaml:"tags"`
	Draft   bool      `yaml:"draft"`
}

var postExtensions = map[string]bool{".md": true, ".markdown": true}

// IsPostFile reports whether name has a Markdown extension.
func IsPostFile(name string) bool {
	return postExtensions[strings.ToLower(filepath.Ext(name))]
}

// ParsePost parses front matter and body from source. The slug defaults to
// the file stem and the title to the slug.
func ParsePost(path string, source []byte) (*Post, error) {
	var meta frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("parse front matter of %s: %w", path, err)
	}

	raw := meta.Slug
	if strings.TrimSpace(raw) == "" {
		raw = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	s, err := slug.Normalize(raw)
	if err != nil || s == "" {
		return nil, fmt.Errorf("invalid slug %q in %s", raw, path)
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = s
	}

	return &Post{
		Title:   title,
		Slug:    s,
		Date:    meta.Date,
		Summary: strings.TrimSpace(meta.Summary),
		Tags:    append([]string(nil), meta.Tags...),
		Draft:   meta.Draft,
		Path:    path,
		Body:    body,
	}, nil
}

// LoadPost reads and parses a single post file.
func LoadPost(path string) (*Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read post: %w", err)
	}
	return ParsePost(path, data)
}

// LoadPosts reads every Markdown file under dir, newest first.
func LoadPosts(dir string) ([]*Post, error) {
	var posts []*Post
	seen := make(map[string]string)

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsPostFile(d.Name()) {
			return nil
		}

		post, err := LoadPost(path)
		if err != nil {
			return err
		}
		if other, ok := seen[post.Slug]; ok {
			return fmt.Errorf("%w: %q used by %s and %s", ErrDuplicateSlug, post.Slug, other, path)
		}
		seen[post.Slug] = path
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load posts from %s: %w", dir, err)
	}

	SortPosts(posts)
	return posts, nil
}

// SortPosts orders posts newest first, then by slug.
func SortPosts(posts []*Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Date.After(posts[j].Date)
		}
		return posts[i].Slug < posts[j].Slug
	})
}

// FindPost returns the post with the given slug or source file name.
func FindPost(posts []*Post, key string) (*Post, bool) {
	for _, p := range posts {
		if p.Slug == key || filepath.Base(p.Path) == key {
			return p, true
		}
	}
	return nil, false
}

// NewPostSource returns the Markdown source of an empty post.
func NewPostSource(title string, date time.Time, tags []string) ([]byte, string, error) {
	s, err := slug.Normalize(title)
	if err != nil || s == "" {
		return nil, "", fmt.Errorf("cannot derive a slug from %q", title)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	fmt.Fprintf(&buf, "title: %q\n", title)
	fmt.Fprintf(&buf, "date: %s\n", date.Format(time.RFC3339))
	if len(tags) > 0 {
		quoted := make([]string, len(tags))
		for i, t := range tags {
			quoted[i] = fmt.Sprintf("%q", t)
		}
		fmt.Fprintf(&buf, "tags: [%s]\n", strings.Join(quoted, ", "))
	}
	buf.WriteString("draft: true\n")
	buf.WriteString("---\n\n")
	return buf.Bytes(), s, nil
}
