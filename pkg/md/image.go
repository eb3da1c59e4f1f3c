// image.go wraps content images in a figure and marks them for lazy loading.
package md

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

const (
	imageWrapperClass = "markdown-image-wrapper"
	imageClass        = "markdown-image"
	// NoWrapClass marks an image that must be left unwrapped. Markdown image
	// syntax carries no classes, so only code that builds or rewrites image
	// nodes ahead of the image pass can set it.
	NoWrapClass = "no-wrap"
)

var centerFragment = []byte("#center")

func setLazyLoading(img *ast.Image) {
	img.SetAttributeString("loading", []byte("lazy"))
	img.SetAttributeString("decoding", []byte("async"))
}

func isImageWrapper(n ast.Node) bool {
	if n == nil {
		return false
	}
	if el, ok := n.(*Element); ok && el.Tag == "figure" {
		return true
	}
	return hasClass(n, imageWrapperClass)
}

// onlyChild reports whether img is the sole non-blank inline of p.
func onlyChild(p ast.Node, img ast.Node, source []byte) bool {
	for c := p.FirstChild(); c != nil; c = c.NextSibling() {
		if c == img {
			continue
		}
		t, ok := c.(*ast.Text)
		if !ok || len(bytes.TrimSpace(t.Segment.Value(source))) != 0 {
			return false
		}
	}
	return true
}

// WrapImage wraps img in a figure.markdown-image-wrapper, moving a trailing
// #center fragment onto the wrapper as a layout class.
func WrapImage(img *ast.Image) *Element {
	figure := NewElement("figure", imageWrapperClass)
	if bytes.HasSuffix(img.Destination, centerFragment) {
		img.Destination = img.Destination[:len(img.Destination)-len(centerFragment)]
		addClass(figure, "centered")
	}
	addClass(img, imageClass)
	setLazyLoading(img)
	return figure
}

type imageTransformer struct{}

// Transform implements parser.ASTTransformer.
func (t *imageTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	var images []*ast.Image
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if img, ok := n.(*ast.Image); ok && entering {
			images = append(images, img)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	source := reader.Source()
	for _, img := range images {
		parent := img.Parent()
		if parent == nil || isImageWrapper(parent) || hasClass(img, NoWrapClass) || hasClass(img, imageClass) {
			continue
		}
		if _, ok := parent.(*ast.Link); ok {
			setLazyLoading(img)
			continue
		}

		figure := WrapImage(img)
		// A paragraph holding nothing but the image is replaced outright so
		// the figure is not nested in a <p>.
		if p, ok := parent.(*ast.Paragraph); ok && onlyChild(p, img, source) && p.Parent() != nil {
			grand := p.Parent()
			grand.ReplaceChild(grand, p, figure)
		} else {
			parent.ReplaceChild(parent, img, figure)
		}
		figure.AppendChild(figure, img)
	}
}
