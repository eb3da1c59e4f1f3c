package md

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findAlert(tree *TreeNode) *TreeNode {
	return tree.Find(func(n *TreeNode) bool { return n.HasClass("admonition") })
}

func titleOf(alert *TreeNode) *TreeNode {
	return alert.Find(func(n *TreeNode) bool { return n.HasClass("bdm-title") })
}

func TestAlertTypes(t *testing.T) {
	for _, key := range []string{"note", "tip", "important", "warning", "caution"} {
		alert, ok := AlertTypes[key]
		require.True(t, ok, key)
		assert.Equal(t, strings.ToUpper(key), alert.Label)
		assert.True(t, strings.HasPrefix(alert.Icon, "<svg"), key)
	}
	assert.Len(t, AlertTypes, 5)
}

func TestAlertDirective_CustomTitle(t *testing.T) {
	tree, warnings, err := NewConverter(Options{}).ToTree([]byte(":::warning[My Title]\nBody\n:::"))
	require.NoError(t, err)
	assert.Empty(t, warnings)

	alert := findAlert(tree)
	require.NotNil(t, alert)
	assert.Equal(t, "blockquote", alert.TagName)
	assert.Equal(t, "admonition bdm-warning", alert.ClassName())

	require.Len(t, alert.Children, 2)
	title := alert.Children[0]
	assert.Equal(t, "bdm-title", title.ClassName())
	require.Len(t, title.Children, 2)
	assert.Equal(t, TreeRaw, title.Children[0].Type)
	assert.Equal(t, "bdm-custom-title", title.Children[1].ClassName())
	assert.Equal(t, "My Title", title.Children[1].Text())

	body := alert.Children[1]
	assert.Equal(t, "p", body.TagName)
	assert.Equal(t, "Body", body.Text())
}

func TestAlertDirective_FixedLabel(t *testing.T) {
	tests := []struct {
		input string
		class string
		label string
	}{
		{":::note\nText\n:::", "admonition bdm-note", "NOTE"},
		{":::tip\nText\n:::", "admonition bdm-tip", "TIP"},
		{":::important\nText\n:::", "admonition bdm-important", "IMPORTANT"},
		{":::warning\nText\n:::", "admonition bdm-warning", "WARNING"},
		{":::caution\nText\n:::", "admonition bdm-caution", "CAUTION"},
		{":::NOTE\nText\n:::", "admonition bdm-note", "NOTE"},
		{":::Tip\nText\n:::", "admonition bdm-tip", "TIP"},
		{":::note[]\nText\n:::", "admonition bdm-note", "NOTE"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tree, _, err := NewConverter(Options{}).ToTree([]byte(tt.input))
			require.NoError(t, err)
			alert := findAlert(tree)
			require.NotNil(t, alert)
			assert.Equal(t, tt.class, alert.ClassName())
			title := titleOf(alert)
			require.NotNil(t, title)
			assert.Equal(t, tt.label, title.Text())
			assert.Nil(t, title.Find(func(n *TreeNode) bool { return n.HasClass("bdm-custom-title") }))
		})
	}
}

func TestAlertDirective_TitleIsPlainText(t *testing.T) {
	tree, _, err := NewConverter(Options{}).ToTree([]byte(":::tip[Use **bold** <em>care</em>]\nx\n:::"))
	require.NoError(t, err)
	alert := findAlert(tree)
	require.NotNil(t, alert)
	custom := alert.Find(func(n *TreeNode) bool { return n.HasClass("bdm-custom-title") })
	require.NotNil(t, custom)
	assert.Equal(t, "Use bold care", custom.Text())
}

func TestAlertDirective_BodyPreserved(t *testing.T) {
	src := ":::caution\nFirst.\n\n- one\n- two\n\n```go\nx := 1\n```\n:::"
	tree, _, err := NewConverter(Options{}).ToTree([]byte(src))
	require.NoError(t, err)
	alert := findAlert(tree)
	require.NotNil(t, alert)

	require.Len(t, alert.Children, 4)
	assert.Equal(t, "p", alert.Children[1].TagName)
	assert.Equal(t, "ul", alert.Children[2].TagName)
	assert.Equal(t, "pre", alert.Children[3].TagName)
}

func TestAlertDirective_Nested(t *testing.T) {
	src := "::::note\nOuter\n:::tip\nInner\n:::\n::::"
	tree, _, err := NewConverter(Options{}).ToTree([]byte(src))
	require.NoError(t, err)

	alerts := tree.FindAll(func(n *TreeNode) bool { return n.HasClass("admonition") })
	require.Len(t, alerts, 2)
	assert.Equal(t, "admonition bdm-note", alerts[0].ClassName())
	assert.Equal(t, "admonition bdm-tip", alerts[1].ClassName())
}

func TestAlertDirective_UnknownNamePassesThrough(t *testing.T) {
	tree, warnings, err := NewConverter(Options{}).ToTree([]byte(":::danger\nText\n:::"))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Nil(t, findAlert(tree))
	require.Len(t, tree.Children, 1)
	assert.Equal(t, TreeContainerDirective, tree.Children[0].Type)
}

func TestAlertDirective_LeafShapeNotMatched(t *testing.T) {
	tree, _, err := NewConverter(Options{}).ToTree([]byte("::note[Hi]"))
	require.NoError(t, err)
	assert.Nil(t, findAlert(tree))
	require.Len(t, tree.Children, 1)
	assert.Equal(t, TreeLeafDirective, tree.Children[0].Type)
}

func TestAlertDirective_HTML(t *testing.T) {
	html, err := ToHTML([]byte(":::warning[My Title]\nBody\n:::"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(html, `<blockquote class="admonition bdm-warning"><span class="bdm-title"><svg`))
	assert.Contains(t, html, `<div class="bdm-custom-title">My Title</div></span>`)
	assert.Contains(t, html, "<p>Body</p>\n</blockquote>\n")
}

func TestBlockquoteAlert(t *testing.T) {
	tree, _, err := NewConverter(Options{}).ToTree([]byte("> [!TIP]\n> Hello"))
	require.NoError(t, err)

	alert := findAlert(tree)
	require.NotNil(t, alert)
	assert.Equal(t, "blockquote", alert.TagName)
	assert.Equal(t, "admonition bdm-tip", alert.ClassName())

	require.Len(t, alert.Children, 2)
	assert.Equal(t, "TIP", alert.Children[0].Text())
	assert.Equal(t, "Hello", alert.Children[1].Text())
}

func TestBlockquoteAlert_Variants(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantClass string
		wantBody  string
	}{
		{"lowercase marker", "> [!note]\n> Body", "admonition bdm-note", "Body"},
		{"text on marker line", "> [!WARNING] Careful now", "admonition bdm-warning", "Careful now"},
		{"marker only", "> [!CAUTION]", "admonition bdm-caution", ""},
		{"marker then blank then paragraph", "> [!IMPORTANT]\n>\n> Later", "admonition bdm-important", "Later"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, _, err := NewConverter(Options{}).ToTree([]byte(tt.input))
			require.NoError(t, err)
			alert := findAlert(tree)
			require.NotNil(t, alert)
			assert.Equal(t, tt.wantClass, alert.ClassName())

			var body strings.Builder
			for _, c := range alert.Children[1:] {
				body.WriteString(c.Text())
			}
			assert.Equal(t, tt.wantBody, strings.TrimSpace(body.String()))
		})
	}
}

func TestBlockquoteAlert_NoMatch(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown type", "> [!BOGUS]\n> Hello"},
		{"missing bang", "> [TIP]\n> Hello"},
		{"marker not first", "> Hello [!TIP]"},
		{"plain quote", "> Just a quote"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, warnings, err := NewConverter(Options{}).ToTree([]byte(tt.input))
			require.NoError(t, err)
			assert.Empty(t, warnings)
			assert.Nil(t, findAlert(tree))

			quote := tree.Find(IsTag("blockquote"))
			require.NotNil(t, quote)
			assert.Empty(t, quote.ClassName())
		})
	}
}

func TestBlockquoteAlert_HTML(t *testing.T) {
	html, err := ToHTML([]byte("> [!TIP]\n> Hello"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(html, `<blockquote class="admonition bdm-tip">`))
	assert.Contains(t, html, `<span class="bdm-title"><svg`)
	assert.Contains(t, html, "</svg>TIP</span>\n<p>Hello</p>\n</blockquote>\n")

	plain, err := ToHTML([]byte("> [!BOGUS]\n> Hello"))
	require.NoError(t, err)
	assert.Equal(t, "<blockquote>\n<p>[!BOGUS]\nHello</p>\n</blockquote>\n", plain)
}
