package md

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var alertMarker = regexp.MustCompile(`^\[!([A-Za-z]+)\][ \t]*`)

// markerLine returns the leading text nodes of p up to the end of its first
// line, and their concatenated content. The inline parser may split
// "[!TIP]" over several text nodes.
func markerLine(p ast.Node, source []byte) ([]*ast.Text, string) {
	var nodes []*ast.Text
	var sb strings.Builder
	for c := p.FirstChild(); c != nil; c = c.NextSibling() {
		t, ok := c.(*ast.Text)
		if !ok {
			break
		}
		nodes = append(nodes, t)
		sb.Write(t.Segment.Value(source))
		if t.SoftLineBreak() || t.HardLineBreak() {
			break
		}
	}
	return nodes, sb.String()
}

// stripMarker removes the first n bytes of the first line from p.
func stripMarker(p ast.Node, nodes []*ast.Text, n int) {
	for _, t := range nodes {
		if n <= 0 {
			return
		}
		if l := t.Segment.Len(); n >= l {
			n -= l
			p.RemoveChild(p, t)
			continue
		}
		t.Segment = t.Segment.WithStart(t.Segment.Start + n)
		return
	}
}

// matchBlockquoteAlert returns the alert key of a blockquote whose first
// line is a "[!TYPE]" marker.
func matchBlockquoteAlert(bq *ast.Blockquote, source []byte) (string, *ast.Paragraph, []*ast.Text, int, bool) {
	p, ok := bq.FirstChild().(*ast.Paragraph)
	if !ok {
		return "", nil, nil, 0, false
	}
	nodes, line := markerLine(p, source)
	m := alertMarker.FindStringSubmatch(line)
	if m == nil {
		return "", nil, nil, 0, false
	}
	key := strings.ToLower(m[1])
	if _, ok := AlertTypes[key]; !ok {
		return "", nil, nil, 0, false
	}
	return key, p, nodes, len(m[0]), true
}

type blockquoteAlertTransformer struct{}

// Transform implements parser.ASTTransformer.
func (t *blockquoteAlertTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	var quotes []*ast.Blockquote
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if bq, ok := n.(*ast.Blockquote); ok && entering {
			quotes = append(quotes, bq)
		}
		return ast.WalkContinue, nil
	})

	source := reader.Source()
	for _, bq := range quotes {
		key, p, nodes, n, ok := matchBlockquoteAlert(bq, source)
		if !ok {
			continue
		}
		stripMarker(p, nodes, n)
		if p.ChildCount() == 0 {
			bq.RemoveChild(bq, p)
		}

		addClass(bq, "admonition")
		addClass(bq, "bdm-"+key)
		bar := titleBar(AlertTypes[key], "")
		if first := bq.FirstChild(); first != nil {
			bq.InsertBefore(bq, first, bar)
		} else {
			bq.AppendChild(bq, bar)
		}
	}
}
