// parser_directive.go implements the goldmark block parser for directives.
package md

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

type directiveParser struct{}

var defaultDirectiveParser = &directiveParser{}

// NewDirectiveParser returns a BlockParser that parses ::leaf and
// :::container directives.
func NewDirectiveParser() parser.BlockParser {
	return defaultDirectiveParser
}

func (p *directiveParser) Trigger() []byte {
	return []byte{':'}
}

func (p *directiveParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || pos >= len(line) || line[pos] != ':' {
		return nil, parser.NoChildren
	}

	head, err := scanDirectiveHead(string(line), pos)
	if err != nil {
		return nil, parser.NoChildren
	}

	node := NewDirective(head.Shape(), head.Name, head.Attributes)
	node.fence = head.Fence
	node.offset = segment.Start - segment.Padding + pos

	if head.HasLabel {
		label := NewDirectiveLabel()
		start := segment.Start - segment.Padding + head.LabelStart
		stop := segment.Start - segment.Padding + head.LabelStop
		label.Lines().Append(text.NewSegment(start, stop))
		node.AppendChild(node, label)
	}

	// The opening line is fully consumed; container content starts on the next line.
	reader.AdvanceToEOL()

	if node.Shape() == ShapeContainer {
		return node, parser.HasChildren
	}
	return node, parser.NoChildren
}

func (p *directiveParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	d := node.(*Directive)
	if d.Shape() == ShapeLeaf {
		return parser.Close
	}

	line, _ := reader.PeekLine()
	w, pos := util.IndentWidth(line, reader.LineOffset())
	if w < 4 && isClosingFence(string(line), pos, d.fence) && !hasOpenInnerContainer(d, pc, string(line), pos) {
		reader.AdvanceToEOL()
		return parser.Close
	}
	return parser.Continue | parser.HasChildren
}

func (p *directiveParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	node.(*Directive).closed = true
}

func (p *directiveParser) CanInterruptParagraph() bool {
	return true
}

func (p *directiveParser) CanAcceptIndentedLine() bool {
	return false
}

// hasOpenInnerContainer reports whether a container nested inside d is still
// open and would accept the closing fence on this line. The innermost
// container claims the fence first.
func hasOpenInnerContainer(d *Directive, pc parser.Context, line string, pos int) bool {
	inside := false
	for _, b := range pc.OpenedBlocks() {
		if b.Node == ast.Node(d) {
			inside = true
			continue
		}
		if !inside {
			continue
		}
		inner, ok := b.Node.(*Directive)
		if ok && inner.Shape() == ShapeContainer && !inner.closed && isClosingFence(line, pos, inner.fence) {
			return true
		}
	}
	return false
}
