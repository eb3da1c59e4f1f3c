// element.go defines the target-vocabulary nodes that transforms emit.
package md

import (
	"strings"

	"github.com/yuin/goldmark/ast"
)

var (
	// KindElement is the NodeKind of a generic target element.
	KindElement = ast.NewNodeKind("Element")
	// KindRaw is the NodeKind of trusted, pre-built markup.
	KindRaw = ast.NewNodeKind("Raw")
)

// Element is an element in the target markup vocabulary: a tag name, an
// ordered property list, and children. Property values are []byte (rendered
// as name="value") or bool (rendered as a bare boolean attribute when true).
type Element struct {
	ast.BaseBlock
	Tag string
}

// NewElement returns a new element with the given tag and class.
func NewElement(tag string, classes ...string) *Element {
	el := &Element{Tag: tag}
	if len(classes) > 0 {
		el.SetProperty("class", strings.Join(classes, " "))
	}
	return el
}

// SetProperty sets a string property.
func (n *Element) SetProperty(name, value string) *Element {
	n.SetAttributeString(name, []byte(value))
	return n
}

// SetFlag sets a boolean property. A false flag is not rendered.
func (n *Element) SetFlag(name string, on bool) *Element {
	n.SetAttributeString(name, on)
	return n
}

// Property returns a string property value.
func (n *Element) Property(name string) (string, bool) {
	v, ok := n.AttributeString(name)
	if !ok {
		return "", false
	}
	switch val := v.(type) {
	case []byte:
		return string(val), true
	case string:
		return val, true
	case bool:
		if val {
			return "", true
		}
	}
	return "", false
}

// AppendText appends a text child.
func (n *Element) AppendText(s string) *Element {
	n.AppendChild(n, ast.NewString([]byte(s)))
	return n
}

// Kind implements ast.Node.Kind.
func (n *Element) Kind() ast.NodeKind {
	return KindElement
}

// Dump implements ast.Node.Dump.
func (n *Element) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Tag": n.Tag}, nil)
}

// Raw is markup emitted verbatim. It only ever carries fixed markup from
// static tables, never author input.
type Raw struct {
	ast.BaseInline
	Value []byte
}

// NewRaw returns a new raw markup node.
func NewRaw(markup string) *Raw {
	return &Raw{Value: []byte(markup)}
}

// Kind implements ast.Node.Kind.
func (n *Raw) Kind() ast.NodeKind {
	return KindRaw
}

// Dump implements ast.Node.Dump.
func (n *Raw) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Value": string(n.Value)}, nil)
}

// hasClass reports whether n carries the given class.
func hasClass(n ast.Node, class string) bool {
	v, ok := n.AttributeString("class")
	if !ok {
		return false
	}
	var s string
	switch val := v.(type) {
	case []byte:
		s = string(val)
	case string:
		s = val
	default:
		return false
	}
	for _, c := range strings.Fields(s) {
		if c == class {
			return true
		}
	}
	return false
}

// addClass appends class to n's class attribute.
func addClass(n ast.Node, class string) {
	if hasClass(n, class) {
		return
	}
	existing := ""
	if v, ok := n.AttributeString("class"); ok {
		switch val := v.(type) {
		case []byte:
			existing = string(val)
		case string:
			existing = val
		}
	}
	if existing != "" {
		class = existing + " " + class
	}
	n.SetAttributeString("class", []byte(class))
}
