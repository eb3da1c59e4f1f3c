// comic.go lowers ::comic directives into reader cards.
package md

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.uber.org/zap"
)

const comicIcon = `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" aria-hidden="true"><path d="M2 4h8a2 2 0 0 1 2 2v14a2 2 0 0 0-2-2H2z"/><path d="M22 4h-8a2 2 0 0 0-2 2v14a2 2 0 0 1 2-2h8z"/></svg>`

// ComicAttrs is the validated attribute set of a ::comic directive.
type ComicAttrs struct {
	ID     string
	Name   string
	Src    string
	Author string
	Cover  string // explicit cover attribute, before manifest resolution
}

// ParseComicAttrs validates the raw attributes of a ::comic directive.
// id, name and src are required; src and an explicit cover must be
// root-relative or http(s) URLs.
func ParseComicAttrs(attrs Attributes) (ComicAttrs, error) {
	c := ComicAttrs{
		ID:     SanitizeAttr(attrs, "id"),
		Name:   SanitizeAttr(attrs, "name"),
		Author: SanitizeAttr(attrs, "author"),
		Src:    strings.TrimSpace(attrs.Get("src")),
		Cover:  strings.TrimSpace(attrs.Get("cover")),
	}
	switch {
	case c.ID == "":
		return ComicAttrs{}, fmt.Errorf("%w: id", ErrMissingAttribute)
	case c.Name == "":
		return ComicAttrs{}, fmt.Errorf("%w: name", ErrMissingAttribute)
	case c.Src == "":
		return ComicAttrs{}, fmt.Errorf("%w: src", ErrMissingAttribute)
	}
	if !IsValidURL(c.Src) {
		return ComicAttrs{}, fmt.Errorf("%w: src %q", ErrInvalidURL, c.Src)
	}
	if c.Cover != "" && !IsValidURL(c.Cover) {
		return ComicAttrs{}, fmt.Errorf("%w: cover %q", ErrInvalidURL, c.Cover)
	}
	return c, nil
}

// LowerComic builds the card subtree for a validated comic. cover is the
// resolved cover image and may be empty.
func LowerComic(c ComicAttrs, cover string) *Element {
	container := NewElement("div", "comic-card-container")
	container.SetProperty("data-comic-id", c.ID)
	container.SetProperty("data-comic-name", c.Name)
	container.SetProperty("data-comic-src", c.Src)
	if c.Author != "" {
		container.SetProperty("data-comic-author", c.Author)
	}
	if cover != "" {
		container.SetProperty("data-comic-cover", cover)
	}

	card := NewElement("div", "comic-card")
	container.AppendChild(container, card)

	icon := NewElement("span", "comic-card-icon")
	icon.AppendChild(icon, NewRaw(comicIcon))
	card.AppendChild(card, icon)

	if cover != "" {
		preview := NewElement("img", "comic-card-preview")
		preview.SetProperty("src", cover)
		preview.SetProperty("alt", c.Name)
		preview.SetProperty("loading", "lazy")
		preview.SetProperty("decoding", "async")
		card.AppendChild(card, preview)
	}

	info := NewElement("div", "comic-card-info")
	info.AppendChild(info, NewElement("div", "comic-card-name").AppendText(c.Name))
	if c.Author != "" {
		info.AppendChild(info, NewElement("div", "comic-card-author").AppendText(c.Author))
	}
	card.AppendChild(card, info)

	button := NewElement("button", "comic-card-read")
	button.SetProperty("type", "button")
	button.AppendText("Read")
	card.AppendChild(card, button)

	return container
}

type comicTransformer struct {
	manifests ManifestReader
	logger    *zap.Logger
}

// Transform implements parser.ASTTransformer.
func (t *comicTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	var matches []*Directive
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if d, _, ok := matchRole(n, RoleComic); ok {
			matches = append(matches, d)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	source := reader.Source()
	for _, d := range matches {
		c, err := ParseComicAttrs(d.Attrs)
		if err != nil {
			diagnosticsFrom(pc, t.logger).AddWarning(d, source, "comic", err)
			continue
		}
		res := resolveCover(c.Cover, c.Src, t.manifests)
		if res.Err != nil {
			diagnosticsFrom(pc, t.logger).AddFallback(d, source, "comic", fmt.Errorf("no cover for %q: %w", c.ID, res.Err))
		}
		parent := d.Parent()
		parent.ReplaceChild(parent, d, LowerComic(c, res.Cover))
	}
}
