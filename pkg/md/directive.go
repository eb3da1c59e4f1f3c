// directive.go defines the AST nodes produced by the directive block parser.
package md

import (
	"sort"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// Shape distinguishes self-closing directives from directives wrapping block content.
type Shape int

const (
	ShapeLeaf      Shape = iota // ::name[label]{attrs}
	ShapeContainer              // :::name[label]{attrs} ... :::
)

// String returns the mdast-style node type name for the shape.
func (s Shape) String() string {
	if s == ShapeContainer {
		return "containerDirective"
	}
	return "leafDirective"
}

// Attributes holds the raw attribute values of a directive. Bare attributes
// such as {autoplay} are stored with an empty value.
type Attributes map[string]string

// Lookup returns the raw value for key and whether the key was present.
func (a Attributes) Lookup(key string) (string, bool) {
	if a == nil {
		return "", false
	}
	v, ok := a[key]
	return v, ok
}

// Get returns the raw value for key, or "" when absent.
func (a Attributes) Get(key string) string {
	v, _ := a.Lookup(key)
	return v
}

// Keys returns the attribute names in sorted order.
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var (
	// KindLeafDirective is the NodeKind of ::name directives.
	KindLeafDirective = ast.NewNodeKind("LeafDirective")
	// KindContainerDirective is the NodeKind of :::name directives.
	KindContainerDirective = ast.NewNodeKind("ContainerDirective")
	// KindDirectiveLabel is the NodeKind of a directive's [label].
	KindDirectiveLabel = ast.NewNodeKind("DirectiveLabel")
)

// Directive is a parsed leaf or container directive. Its attributes are the
// untrusted values written by the author; transforms validate them before use.
type Directive struct {
	ast.BaseBlock
	Name  string
	Attrs Attributes

	shape  Shape
	fence  int
	offset int
	closed bool
}

// NewDirective returns a new directive node.
func NewDirective(shape Shape, name string, attrs Attributes) *Directive {
	if attrs == nil {
		attrs = Attributes{}
	}
	return &Directive{
		Name:  name,
		Attrs: attrs,
		shape: shape,
	}
}

// Shape reports whether the directive is a leaf or a container.
func (n *Directive) Shape() Shape {
	return n.shape
}

// Offset returns the byte offset of the directive's opening line in the source.
func (n *Directive) Offset() int {
	return n.offset
}

// Label returns the directive's label node, if any.
func (n *Directive) Label() *DirectiveLabel {
	if label, ok := n.FirstChild().(*DirectiveLabel); ok {
		return label
	}
	return nil
}

// Kind implements ast.Node.Kind.
func (n *Directive) Kind() ast.NodeKind {
	if n.shape == ShapeContainer {
		return KindContainerDirective
	}
	return KindLeafDirective
}

// Dump implements ast.Node.Dump.
func (n *Directive) Dump(source []byte, level int) {
	m := map[string]string{
		"Name": n.Name,
	}
	for _, k := range n.Attrs.Keys() {
		m["Attr."+k] = strconv.Quote(n.Attrs[k])
	}
	ast.DumpHelper(n, source, level, m, nil)
}

// DirectiveLabel holds the inline content of a directive's [label]. It is
// always the first child of its directive.
type DirectiveLabel struct {
	ast.BaseBlock
}

// NewDirectiveLabel returns a new, empty label node.
func NewDirectiveLabel() *DirectiveLabel {
	return &DirectiveLabel{}
}

// Kind implements ast.Node.Kind.
func (n *DirectiveLabel) Kind() ast.NodeKind {
	return KindDirectiveLabel
}

// Dump implements ast.Node.Dump.
func (n *DirectiveLabel) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// plainText concatenates the text content of n's descendants.
func plainText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
