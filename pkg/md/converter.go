// Package md converts blog Markdown with ::video, ::comic and :::alert
// directives into HTML.
package md

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"go.uber.org/zap"
)

// Pass priorities. Lower values run first.
const (
	priorityDirectiveParser = 150
	priorityVideo           = 100
	priorityComic           = 200
	priorityAlert           = 300
	priorityBlockquoteAlert = 400
	priorityImage           = 500
	priorityNodeRenderer    = 500
)

// Options configures a Converter.
type Options struct {
	// VideoBinding selects the ::video lowering target. Defaults to VideoNative.
	VideoBinding VideoBinding
	// Manifests resolves comic covers. Nil disables manifest lookups.
	Manifests ManifestReader
	// Logger receives directive diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
	// UnsafeHTML passes raw HTML in the source through to the output.
	UnsafeHTML bool
}

// Extension registers the directive parser, the lowering passes and the
// node renderers with a goldmark instance.
type Extension struct {
	Options Options
}

// Extend implements goldmark.Extender.
func (e *Extension) Extend(m goldmark.Markdown) {
	logger := e.Options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	binding := e.Options.VideoBinding
	if binding == "" {
		binding = VideoNative
	}

	m.Parser().AddOptions(
		parser.WithBlockParsers(
			util.Prioritized(NewDirectiveParser(), priorityDirectiveParser),
		),
		parser.WithASTTransformers(
			util.Prioritized(&videoTransformer{binding: binding, logger: logger}, priorityVideo),
			util.Prioritized(&comicTransformer{manifests: e.Options.Manifests, logger: logger}, priorityComic),
			util.Prioritized(&alertTransformer{}, priorityAlert),
			util.Prioritized(&blockquoteAlertTransformer{}, priorityBlockquoteAlert),
			util.Prioritized(&imageTransformer{}, priorityImage),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(NewNodeRenderer(), priorityNodeRenderer),
		),
	)
}

// Result is the outcome of converting one document.
type Result struct {
	HTML     string       `json:"html"`
	Warnings []Diagnostic `json:"warnings,omitempty"`
}

// Converter renders directive Markdown to HTML. A Converter keeps no
// per-document state and may be reused across documents.
type Converter struct {
	md goldmark.Markdown
}

// NewConverter returns a Converter configured with opts.
func NewConverter(opts Options) *Converter {
	var rendererOpts []renderer.Option
	if opts.UnsafeHTML {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}
	return &Converter{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				&Extension{Options: opts},
			),
			goldmark.WithRendererOptions(rendererOpts...),
		),
	}
}

// Parse parses and lowers markdown, returning the transformed AST and the
// diagnostics collected while lowering it.
func (c *Converter) Parse(markdown []byte) (ast.Node, []Diagnostic) {
	pc := parser.NewContext()
	doc := c.md.Parser().Parse(text.NewReader(markdown), parser.WithContext(pc))
	return doc, collectedDiagnostics(pc)
}

// Convert renders markdown to HTML. Directive failures never fail the
// conversion; they are reported in Result.Warnings.
func (c *Converter) Convert(markdown []byte) (*Result, error) {
	if len(markdown) == 0 {
		return &Result{}, nil
	}

	doc, warnings := c.Parse(markdown)
	var buf bytes.Buffer
	if err := c.md.Renderer().Render(&buf, markdown, doc); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return &Result{HTML: buf.String(), Warnings: warnings}, nil
}

var defaultConverter = NewConverter(Options{})

// ToHTML converts markdown to HTML with default options, discarding diagnostics.
func ToHTML(markdown []byte) (string, error) {
	res, err := defaultConverter.Convert(markdown)
	if err != nil {
		return "", err
	}
	return res.HTML, nil
}
