// video.go lowers ::video directives into a figure wrapping a media element.
package md

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.uber.org/zap"
)

// VideoBinding selects the markup a ::video directive is lowered to.
type VideoBinding string

const (
	// VideoNative emits a <video> element with native playback attributes.
	VideoNative VideoBinding = "native"
	// VideoPlayer emits a placeholder <div> carrying data-video-* attributes
	// for a client-side player to pick up.
	VideoPlayer VideoBinding = "player"
)

// ParseVideoBinding converts a configuration value to a VideoBinding.
// An empty value selects VideoNative.
func ParseVideoBinding(s string) (VideoBinding, error) {
	switch VideoBinding(strings.ToLower(strings.TrimSpace(s))) {
	case "", VideoNative:
		return VideoNative, nil
	case VideoPlayer:
		return VideoPlayer, nil
	default:
		return "", fmt.Errorf("unknown video binding %q (expected native or player)", s)
	}
}

// VideoAttrs is the validated attribute set of a ::video directive.
type VideoAttrs struct {
	Src         string
	Poster      string
	Autoplay    bool
	Loop        bool
	Muted       bool
	Controls    bool
	PlaysInline bool
}

// ParseVideoAttrs validates the raw attributes of a ::video directive.
// src is required; src and poster must be root-relative or http(s) URLs.
func ParseVideoAttrs(attrs Attributes) (VideoAttrs, error) {
	v := VideoAttrs{
		Src:         strings.TrimSpace(attrs.Get("src")),
		Poster:      strings.TrimSpace(attrs.Get("poster")),
		Autoplay:    ParseBooleanAttr(attrs, "autoplay"),
		Loop:        ParseBooleanAttr(attrs, "loop"),
		Muted:       ParseBooleanAttr(attrs, "muted"),
		Controls:    defaultOnAttr(attrs, "controls"),
		PlaysInline: defaultOnAttr(attrs, "playsinline"),
	}
	if v.Src == "" {
		return VideoAttrs{}, fmt.Errorf("%w: src", ErrMissingAttribute)
	}
	if !IsValidURL(v.Src) {
		return VideoAttrs{}, fmt.Errorf("%w: src %q", ErrInvalidURL, v.Src)
	}
	if v.Poster != "" && !IsValidURL(v.Poster) {
		return VideoAttrs{}, fmt.Errorf("%w: poster %q", ErrInvalidURL, v.Poster)
	}
	return v, nil
}

// LowerVideo builds the replacement subtree for a validated video.
func LowerVideo(v VideoAttrs, binding VideoBinding) *Element {
	figure := NewElement("figure", "video-figure")

	if binding == VideoPlayer {
		player := NewElement("div", "video-player")
		player.SetProperty("data-video-src", v.Src)
		if v.Poster != "" {
			player.SetProperty("data-video-poster", v.Poster)
		}
		player.SetProperty("data-video-autoplay", strconv.FormatBool(v.Autoplay))
		player.SetProperty("data-video-loop", strconv.FormatBool(v.Loop))
		player.SetProperty("data-video-muted", strconv.FormatBool(v.Muted))
		player.SetProperty("data-video-controls", strconv.FormatBool(v.Controls))
		player.SetProperty("data-video-playsinline", strconv.FormatBool(v.PlaysInline))
		figure.AppendChild(figure, player)
		return figure
	}

	video := NewElement("video")
	video.SetProperty("src", v.Src)
	if v.Poster != "" {
		video.SetProperty("poster", v.Poster)
	}
	if v.Controls {
		video.SetFlag("controls", true)
	}
	if v.PlaysInline {
		video.SetFlag("playsinline", true)
	}
	if v.Autoplay {
		video.SetFlag("autoplay", true)
	}
	if v.Loop {
		video.SetFlag("loop", true)
	}
	if v.Muted {
		video.SetFlag("muted", true)
	}
	video.SetProperty("preload", "metadata")
	figure.AppendChild(figure, video)
	return figure
}

type videoTransformer struct {
	binding VideoBinding
	logger  *zap.Logger
}

// Transform implements parser.ASTTransformer.
func (t *videoTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	var matches []*Directive
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if d, _, ok := matchRole(n, RoleVideo); ok {
			matches = append(matches, d)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for _, d := range matches {
		v, err := ParseVideoAttrs(d.Attrs)
		if err != nil {
			diagnosticsFrom(pc, t.logger).AddWarning(d, reader.Source(), "video", err)
			continue
		}
		parent := d.Parent()
		parent.ReplaceChild(parent, d, LowerVideo(v, t.binding))
	}
}
