package md

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

// Tree node types.
const (
	TreeRoot               = "root"
	TreeElement            = "element"
	TreeText               = "text"
	TreeRaw                = "raw"
	TreeLeafDirective      = "leafDirective"
	TreeContainerDirective = "containerDirective"
)

// TreeNode is a node of the lowered document in the target markup
// vocabulary. Directives that no transform lowered keep their name and raw
// attributes.
type TreeNode struct {
	Type       string                 `json:"type"`
	TagName    string                 `json:"tagName,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Name       string                 `json:"name,omitempty"`
	Attributes map[string]string      `json:"attributes,omitempty"`
	Value      string                 `json:"value,omitempty"`
	Children   []*TreeNode            `json:"children,omitempty"`
}

// ClassName returns the node's class property.
func (n *TreeNode) ClassName() string {
	if n == nil || n.Properties == nil {
		return ""
	}
	s, _ := n.Properties["className"].(string)
	return s
}

// HasClass reports whether the node's class list contains class.
func (n *TreeNode) HasClass(class string) bool {
	for _, c := range strings.Fields(n.ClassName()) {
		if c == class {
			return true
		}
	}
	return false
}

// Text returns the concatenated text of the node's descendants.
func (n *TreeNode) Text() string {
	if n == nil {
		return ""
	}
	if n.Type == TreeText {
		return n.Value
	}
	var sb strings.Builder
	for _, c := range n.Children {
		sb.WriteString(c.Text())
	}
	return sb.String()
}

// FindAll returns the nodes in n's subtree, in document order, for which
// match returns true.
func (n *TreeNode) FindAll(match func(*TreeNode) bool) []*TreeNode {
	var out []*TreeNode
	var walk func(*TreeNode)
	walk = func(t *TreeNode) {
		if match(t) {
			out = append(out, t)
		}
		for _, c := range t.Children {
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}
	return out
}

// Find returns the first node in n's subtree for which match returns true.
func (n *TreeNode) Find(match func(*TreeNode) bool) *TreeNode {
	if found := n.FindAll(match); len(found) > 0 {
		return found[0]
	}
	return nil
}

// IsTag returns a matcher for elements with the given tag name.
func IsTag(tag string) func(*TreeNode) bool {
	return func(t *TreeNode) bool {
		return t.Type == TreeElement && t.TagName == tag
	}
}

// ToTree parses and lowers markdown and returns the resulting tree.
func (c *Converter) ToTree(markdown []byte) (*TreeNode, []Diagnostic, error) {
	root := &TreeNode{Type: TreeRoot}
	if len(markdown) == 0 {
		return root, nil, nil
	}
	doc, warnings := c.Parse(markdown)
	tc := &treeConverter{source: markdown}
	root.Children = tc.convertChildren(doc)
	return root, warnings, nil
}

// ToTreeJSON returns the lowered tree of markdown as indented JSON.
func (c *Converter) ToTreeJSON(markdown []byte) ([]byte, []Diagnostic, error) {
	tree, warnings, err := c.ToTree(markdown)
	if err != nil {
		return nil, warnings, err
	}
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return nil, warnings, err
	}
	return data, warnings, nil
}

// treeConverter holds state during AST conversion.
type treeConverter struct {
	source []byte
}

func (c *treeConverter) convertChildren(n ast.Node) []*TreeNode {
	var nodes []*TreeNode
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		nodes = append(nodes, c.convertNode(child)...)
	}
	return nodes
}

func element(tag string, props map[string]interface{}, children []*TreeNode) *TreeNode {
	return &TreeNode{Type: TreeElement, TagName: tag, Properties: props, Children: children}
}

// properties converts goldmark node attributes to tree properties. The
// class attribute is exported as className.
func properties(n ast.Node, props map[string]interface{}) map[string]interface{} {
	for _, attr := range n.Attributes() {
		if props == nil {
			props = map[string]interface{}{}
		}
		name := string(attr.Name)
		if name == "class" {
			name = "className"
		}
		switch v := attr.Value.(type) {
		case []byte:
			props[name] = string(v)
		case string:
			props[name] = v
		case bool:
			props[name] = v
		}
	}
	return props
}

func (c *treeConverter) lines(n ast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		sb.Write(line.Value(c.source))
	}
	return sb.String()
}

// convertNode converts one AST node. Text nodes ending in a hard line break
// yield a trailing <br>.
func (c *treeConverter) convertNode(n ast.Node) []*TreeNode {
	one := func(t *TreeNode) []*TreeNode { return []*TreeNode{t} }

	switch node := n.(type) {
	case *Element:
		return one(element(node.Tag, properties(node, nil), c.convertChildren(node)))
	case *Raw:
		return one(&TreeNode{Type: TreeRaw, Value: string(node.Value)})
	case *Directive:
		t := &TreeNode{
			Type:     node.Shape().String(),
			Name:     node.Name,
			Children: c.convertChildren(node),
		}
		if len(node.Attrs) > 0 {
			t.Attributes = map[string]string(node.Attrs)
		}
		return one(t)
	case *DirectiveLabel:
		return one(element("p", map[string]interface{}{"directiveLabel": true}, c.convertChildren(node)))

	case *ast.Paragraph, *ast.TextBlock:
		return one(element("p", nil, c.convertChildren(node)))
	case *ast.Heading:
		return one(element("h"+strconv.Itoa(node.Level), properties(node, nil), c.convertChildren(node)))
	case *ast.Blockquote:
		return one(element("blockquote", properties(node, nil), c.convertChildren(node)))
	case *ast.List:
		if node.IsOrdered() {
			var props map[string]interface{}
			if node.Start != 1 {
				props = map[string]interface{}{"start": node.Start}
			}
			return one(element("ol", props, c.convertChildren(node)))
		}
		return one(element("ul", nil, c.convertChildren(node)))
	case *ast.ListItem:
		return one(element("li", nil, c.convertChildren(node)))
	case *ast.ThematicBreak:
		return one(element("hr", nil, nil))
	case *ast.FencedCodeBlock:
		var props map[string]interface{}
		if lang := string(node.Language(c.source)); lang != "" {
			props = map[string]interface{}{"className": "language-" + lang}
		}
		code := element("code", props, []*TreeNode{{Type: TreeText, Value: c.lines(node)}})
		return one(element("pre", nil, []*TreeNode{code}))
	case *ast.CodeBlock:
		code := element("code", nil, []*TreeNode{{Type: TreeText, Value: c.lines(node)}})
		return one(element("pre", nil, []*TreeNode{code}))
	case *ast.HTMLBlock:
		value := c.lines(node)
		if node.HasClosure() {
			value += string(node.ClosureLine.Value(c.source))
		}
		return one(&TreeNode{Type: TreeRaw, Value: value})

	case *extast.Table:
		return one(element("table", nil, c.convertChildren(node)))
	case *extast.TableHeader:
		row := element("tr", nil, c.convertChildren(node))
		for _, cell := range row.Children {
			cell.TagName = "th"
		}
		return one(element("thead", nil, []*TreeNode{row}))
	case *extast.TableRow:
		return one(element("tr", nil, c.convertChildren(node)))
	case *extast.TableCell:
		return one(element("td", nil, c.convertChildren(node)))

	case *ast.Text:
		value := string(node.Segment.Value(c.source))
		if node.SoftLineBreak() {
			value += "\n"
		}
		out := []*TreeNode{{Type: TreeText, Value: value}}
		if node.HardLineBreak() {
			out = append(out, element("br", nil, nil))
		}
		return out
	case *ast.String:
		return one(&TreeNode{Type: TreeText, Value: string(node.Value)})
	case *ast.Emphasis:
		tag := "em"
		if node.Level == 2 {
			tag = "strong"
		}
		return one(element(tag, nil, c.convertChildren(node)))
	case *extast.Strikethrough:
		return one(element("del", nil, c.convertChildren(node)))
	case *extast.TaskCheckBox:
		return one(element("input", map[string]interface{}{
			"type":     "checkbox",
			"checked":  node.IsChecked,
			"disabled": true,
		}, nil))
	case *ast.CodeSpan:
		var sb strings.Builder
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			if t, ok := child.(*ast.Text); ok {
				sb.Write(t.Segment.Value(c.source))
			}
		}
		return one(element("code", nil, []*TreeNode{{Type: TreeText, Value: sb.String()}}))
	case *ast.Link:
		props := map[string]interface{}{"href": string(node.Destination)}
		if len(node.Title) > 0 {
			props["title"] = string(node.Title)
		}
		return one(element("a", props, c.convertChildren(node)))
	case *ast.AutoLink:
		url := string(node.URL(c.source))
		href := url
		if node.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(url), "mailto:") {
			href = "mailto:" + url
		}
		return one(element("a", map[string]interface{}{"href": href}, []*TreeNode{{Type: TreeText, Value: url}}))
	case *ast.Image:
		props := map[string]interface{}{
			"src": string(node.Destination),
			"alt": plainText(node, c.source),
		}
		if len(node.Title) > 0 {
			props["title"] = string(node.Title)
		}
		return one(element("img", properties(node, props), nil))
	case *ast.RawHTML:
		var sb strings.Builder
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			sb.Write(seg.Value(c.source))
		}
		return one(&TreeNode{Type: TreeRaw, Value: sb.String()})

	default:
		// Unknown node kinds contribute their children.
		return c.convertChildren(n)
	}
}
