package md

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ConvertOptions configures the HTML to markdown conversion.
type ConvertOptions struct {
	// SkipDirectives converts pipeline markup (admonitions, comic cards,
	// video figures) as ordinary HTML instead of recovering directive source.
	SkipDirectives bool
}

// Placeholders survive html-to-markdown unescaped: letters and digits only.
const (
	directivePlaceholderPrefix = "MDSITEDIRECTIVE"
	directivePlaceholderSuffix = "END"
)

var directivePlaceholderPattern = regexp.MustCompile(directivePlaceholderPrefix + `(\d+)` + directivePlaceholderSuffix)

// FromHTML converts rendered HTML back to markdown, recovering directive
// source for markup produced by this package.
func FromHTML(input string) (string, error) {
	return FromHTMLWithOptions(input, ConvertOptions{})
}

// FromHTMLWithOptions converts HTML to markdown with configurable options.
func FromHTMLWithOptions(input string, opts ConvertOptions) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", nil
	}

	nodes, err := html.ParseFragment(strings.NewReader(input), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}
	root := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	im := &importer{skipDirectives: opts.SkipDirectives}
	if err := im.rewrite(root); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("rendering html: %w", err)
		}
	}

	markdown, err := htmltomarkdown.ConvertString(buf.String())
	if err != nil {
		return "", err
	}
	markdown = directivePlaceholderPattern.ReplaceAllStringFunc(markdown, func(m string) string {
		id, err := strconv.Atoi(directivePlaceholderPattern.FindStringSubmatch(m)[1])
		if err != nil || id >= len(im.directives) {
			return m
		}
		return im.directives[id]
	})
	return strings.TrimSpace(markdown), nil
}

// importer replaces pipeline markup with placeholders and remembers the
// directive source each one stands for.
type importer struct {
	skipDirectives bool
	directives     []string
}

func (im *importer) placeholder(n *html.Node, source string) {
	id := len(im.directives)
	im.directives = append(im.directives, source)
	p := &html.Node{Type: html.ElementNode, Data: "p", DataAtom: atom.P}
	p.AppendChild(&html.Node{
		Type: html.TextNode,
		Data: directivePlaceholderPrefix + strconv.Itoa(id) + directivePlaceholderSuffix,
	})
	n.Parent.InsertBefore(p, n)
	n.Parent.RemoveChild(n)
}

func (im *importer) rewrite(n *html.Node) error {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type != html.ElementNode {
			c = next
			continue
		}
		handled, err := im.rewriteElement(c)
		if err != nil {
			return err
		}
		if !handled {
			if err := im.rewrite(c); err != nil {
				return err
			}
		}
		c = next
	}
	return nil
}

func (im *importer) rewriteElement(n *html.Node) (bool, error) {
	switch {
	case n.DataAtom == atom.Figure && htmlHasClass(n, imageWrapperClass):
		unwrapImage(n)
		return true, nil
	case im.skipDirectives:
		return false, nil
	case n.DataAtom == atom.Blockquote && htmlHasClass(n, "admonition"):
		key := alertKey(n)
		if key == "" {
			return false, nil
		}
		source, err := im.alertSource(n, key)
		if err != nil {
			return false, err
		}
		im.placeholder(n, source)
		return true, nil
	case n.DataAtom == atom.Div && htmlHasClass(n, "comic-card-container"):
		im.placeholder(n, comicSource(n))
		return true, nil
	case n.DataAtom == atom.Figure && htmlHasClass(n, "video-figure"):
		source, ok := videoSource(n)
		if !ok {
			return false, nil
		}
		im.placeholder(n, source)
		return true, nil
	}
	return false, nil
}

// unwrapImage replaces figure.markdown-image-wrapper with its plain image,
// restoring the #center modifier.
func unwrapImage(figure *html.Node) {
	img := htmlFind(figure, func(n *html.Node) bool { return n.DataAtom == atom.Img })
	if img == nil {
		figure.Parent.RemoveChild(figure)
		return
	}
	src := htmlAttr(img, "src")
	if htmlHasClass(figure, "centered") {
		src += string(centerFragment)
	}
	plain := &html.Node{Type: html.ElementNode, Data: "img", DataAtom: atom.Img, Attr: []html.Attribute{
		{Key: "src", Val: src},
		{Key: "alt", Val: htmlAttr(img, "alt")},
	}}
	if title := htmlAttr(img, "title"); title != "" {
		plain.Attr = append(plain.Attr, html.Attribute{Key: "title", Val: title})
	}
	p := &html.Node{Type: html.ElementNode, Data: "p", DataAtom: atom.P}
	p.AppendChild(plain)
	figure.Parent.InsertBefore(p, figure)
	figure.Parent.RemoveChild(figure)
}

func alertKey(n *html.Node) string {
	for _, c := range strings.Fields(htmlAttr(n, "class")) {
		key := strings.TrimPrefix(c, "bdm-")
		if key == c {
			continue
		}
		if _, ok := AlertTypes[key]; ok {
			return key
		}
	}
	return ""
}

var fenceRun = regexp.MustCompile(`(?m)^[ \t]*(:{3,})`)

// alertSource converts an admonition back to a container directive. The
// body is converted recursively; the fence is made longer than any fence
// inside the body.
func (im *importer) alertSource(n *html.Node, key string) (string, error) {
	title := ""
	var body bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && htmlHasClass(c, "bdm-title") {
			if custom := htmlFind(c, func(x *html.Node) bool { return htmlHasClass(x, "bdm-custom-title") }); custom != nil {
				title = strings.TrimSpace(htmlText(custom))
			}
			continue
		}
		if err := html.Render(&body, c); err != nil {
			return "", fmt.Errorf("rendering html: %w", err)
		}
	}

	inner, err := FromHTMLWithOptions(body.String(), ConvertOptions{SkipDirectives: im.skipDirectives})
	if err != nil {
		return "", err
	}

	fence := 3
	for _, m := range fenceRun.FindAllStringSubmatch(inner, -1) {
		if len(m[1]) >= fence {
			fence = len(m[1]) + 1
		}
	}
	colons := strings.Repeat(":", fence)

	var sb strings.Builder
	sb.WriteString(colons)
	sb.WriteString(key)
	if title != "" {
		sb.WriteString("[")
		sb.WriteString(escapeLabel(title))
		sb.WriteString("]")
	}
	sb.WriteString("\n")
	if inner != "" {
		sb.WriteString(inner)
		sb.WriteString("\n")
	}
	sb.WriteString(colons)
	return sb.String(), nil
}

func comicSource(n *html.Node) string {
	var attrs []attrPair
	for _, key := range []string{"id", "name", "src", "author", "cover"} {
		if v := htmlAttr(n, "data-comic-"+key); v != "" {
			attrs = append(attrs, attrPair{key: key, value: v})
		}
	}
	return "::comic" + formatAttrs(attrs)
}

// videoSource converts a video figure back to a leaf directive. Defaults
// are omitted; disabled controls and playsinline are written as "false".
func videoSource(n *html.Node) (string, bool) {
	var (
		attrs []attrPair
		flag  func(name string) bool
	)
	if v := htmlFind(n, func(x *html.Node) bool { return x.DataAtom == atom.Video }); v != nil {
		attrs = append(attrs, attrPair{key: "src", value: htmlAttr(v, "src")})
		if poster := htmlAttr(v, "poster"); poster != "" {
			attrs = append(attrs, attrPair{key: "poster", value: poster})
		}
		flag = func(name string) bool { return htmlHasAttr(v, name) }
	} else if p := htmlFind(n, func(x *html.Node) bool { return htmlHasClass(x, "video-player") }); p != nil {
		attrs = append(attrs, attrPair{key: "src", value: htmlAttr(p, "data-video-src")})
		if poster := htmlAttr(p, "data-video-poster"); poster != "" {
			attrs = append(attrs, attrPair{key: "poster", value: poster})
		}
		flag = func(name string) bool { return htmlAttr(p, "data-video-"+name) == "true" }
	} else {
		return "", false
	}
	if attrs[0].value == "" {
		return "", false
	}

	for _, name := range []string{"autoplay", "loop", "muted"} {
		if flag(name) {
			attrs = append(attrs, attrPair{key: name, bare: true})
		}
	}
	for _, name := range []string{"controls", "playsinline"} {
		if !flag(name) {
			attrs = append(attrs, attrPair{key: name, value: "false"})
		}
	}
	return "::video" + formatAttrs(attrs), true
}

type attrPair struct {
	key   string
	value string
	bare  bool
}

func formatAttrs(attrs []attrPair) string {
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		if a.bare {
			parts = append(parts, a.key)
			continue
		}
		v := strings.ReplaceAll(a.value, `"`, `\"`)
		parts = append(parts, a.key+`="`+v+`"`)
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func escapeLabel(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `[`, `\[`, `]`, `\]`, "\n", " ")
	return r.Replace(s)
}

func htmlAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func htmlHasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val != "false"
		}
	}
	return false
}

func htmlHasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(htmlAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func htmlFind(n *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && match(c) {
			return c
		}
		if found := htmlFind(c, match); found != nil {
			return found
		}
	}
	return nil
}

func htmlText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(htmlText(c))
	}
	return sb.String()
}
