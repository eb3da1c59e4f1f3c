// render.go provides goldmark node renderers for the target vocabulary and
// for directives that no transform lowered.
package md

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

var voidTags = map[string]bool{
	"area": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "source": true, "track": true, "wbr": true,
}

type nodeRenderer struct{}

// NewNodeRenderer returns the renderer for Element, Raw and directive nodes.
func NewNodeRenderer() renderer.NodeRenderer {
	return &nodeRenderer{}
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindElement, r.renderElement)
	reg.Register(KindRaw, r.renderRaw)
	reg.Register(KindDirectiveLabel, r.renderLabel)
	reg.Register(KindLeafDirective, r.renderDirective)
	reg.Register(KindContainerDirective, r.renderDirective)
}

// inlineContext reports whether n is rendered inside running text, where no
// trailing newline may follow it.
func inlineContext(n ast.Node) bool {
	switch p := n.Parent().(type) {
	case nil:
		return false
	case *Element, *ast.Paragraph, *ast.TextBlock, *ast.Heading, *DirectiveLabel:
		return true
	default:
		return p.Type() == ast.TypeInline
	}
}

func renderProperties(w util.BufWriter, n ast.Node) {
	for _, attr := range n.Attributes() {
		var value []byte
		switch v := attr.Value.(type) {
		case []byte:
			value = v
		case string:
			value = []byte(v)
		case bool:
			if v {
				_ = w.WriteByte(' ')
				_, _ = w.Write(attr.Name)
			}
			continue
		default:
			continue
		}
		_ = w.WriteByte(' ')
		_, _ = w.Write(attr.Name)
		_, _ = w.WriteString(`="`)
		_, _ = w.Write(util.EscapeHTML(value))
		_ = w.WriteByte('"')
	}
}

func (r *nodeRenderer) renderElement(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*Element)
	if entering {
		_ = w.WriteByte('<')
		_, _ = w.WriteString(n.Tag)
		renderProperties(w, n)
		_ = w.WriteByte('>')
		if voidTags[n.Tag] {
			if !inlineContext(n) {
				_ = w.WriteByte('\n')
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	}
	if voidTags[n.Tag] {
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("</")
	_, _ = w.WriteString(n.Tag)
	_ = w.WriteByte('>')
	if !inlineContext(n) {
		_ = w.WriteByte('\n')
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderRaw(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.Write(node.(*Raw).Value)
	}
	return ast.WalkSkipChildren, nil
}

// renderLabel renders a directive label as a paragraph inside a container
// and as bare inline content inside a leaf.
func (r *nodeRenderer) renderLabel(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	d, ok := node.Parent().(*Directive)
	if ok && d.Shape() == ShapeLeaf {
		return ast.WalkContinue, nil
	}
	if entering {
		_, _ = w.WriteString("<p>")
	} else {
		_, _ = w.WriteString("</p>\n")
	}
	return ast.WalkContinue, nil
}

// renderDirective renders a directive that no transform recognized: a
// container becomes a <div> around its body, a leaf a <div> around its
// label, and a leaf without a label renders nothing.
func (r *nodeRenderer) renderDirective(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*Directive)
	if n.Shape() == ShapeLeaf && n.Label() == nil {
		return ast.WalkSkipChildren, nil
	}
	if entering {
		_, _ = w.WriteString("<div>")
		if n.Shape() == ShapeContainer {
			_ = w.WriteByte('\n')
		}
	} else {
		_, _ = w.WriteString("</div>\n")
	}
	return ast.WalkContinue, nil
}
