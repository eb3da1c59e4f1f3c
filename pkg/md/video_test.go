package md

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVideoBinding(t *testing.T) {
	tests := []struct {
		input   string
		want    VideoBinding
		wantErr bool
	}{
		{"", VideoNative, false},
		{"native", VideoNative, false},
		{" Player ", VideoPlayer, false},
		{"youtube", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseVideoBinding(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseVideoAttrs(t *testing.T) {
	tests := []struct {
		name    string
		attrs   Attributes
		want    VideoAttrs
		wantErr error
	}{
		{
			name:  "src only uses defaults",
			attrs: Attributes{"src": "/v.mp4"},
			want:  VideoAttrs{Src: "/v.mp4", Controls: true, PlaysInline: true},
		},
		{
			name:  "all flags",
			attrs: Attributes{"src": "https://cdn.example.com/v.mp4", "poster": "/p.jpg", "autoplay": "", "loop": "", "muted": ""},
			want: VideoAttrs{
				Src: "https://cdn.example.com/v.mp4", Poster: "/p.jpg",
				Autoplay: true, Loop: true, Muted: true, Controls: true, PlaysInline: true,
			},
		},
		{
			name:  "explicit false",
			attrs: Attributes{"src": "/v.mp4", "autoplay": "false", "controls": "false", "playsinline": "false"},
			want:  VideoAttrs{Src: "/v.mp4"},
		},
		{
			name:  "src trimmed",
			attrs: Attributes{"src": "  /v.mp4 "},
			want:  VideoAttrs{Src: "/v.mp4", Controls: true, PlaysInline: true},
		},
		{
			name:  "empty poster ignored",
			attrs: Attributes{"src": "/v.mp4", "poster": ""},
			want:  VideoAttrs{Src: "/v.mp4", Controls: true, PlaysInline: true},
		},
		{
			name:    "missing src",
			attrs:   Attributes{"poster": "/p.jpg"},
			wantErr: ErrMissingAttribute,
		},
		{
			name:    "blank src",
			attrs:   Attributes{"src": "   "},
			wantErr: ErrMissingAttribute,
		},
		{
			name:    "invalid src",
			attrs:   Attributes{"src": "javascript:alert(1)"},
			wantErr: ErrInvalidURL,
		},
		{
			name:    "invalid poster",
			attrs:   Attributes{"src": "/v.mp4", "poster": "ftp://x/p.jpg"},
			wantErr: ErrInvalidURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVideoAttrs(tt.attrs)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVideoTransform_Native(t *testing.T) {
	c := NewConverter(Options{VideoBinding: VideoNative})
	res, err := c.Convert([]byte(`::video{src="/media/clip.mp4" poster="/media/clip.jpg" autoplay muted}`))
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Equal(t,
		`<figure class="video-figure"><video src="/media/clip.mp4" poster="/media/clip.jpg" controls playsinline autoplay muted preload="metadata"></video></figure>`+"\n",
		res.HTML)
}

func TestVideoTransform_Player(t *testing.T) {
	c := NewConverter(Options{VideoBinding: VideoPlayer})
	res, err := c.Convert([]byte(`::video{src="/media/clip.mp4" loop controls="false"}`))
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Equal(t,
		`<figure class="video-figure"><div class="video-player" data-video-src="/media/clip.mp4" data-video-autoplay="false" data-video-loop="true" data-video-muted="false" data-video-controls="false" data-video-playsinline="true"></div></figure>`+"\n",
		res.HTML)
}

func TestVideoTransform_InvalidLeavesDirective(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing src", "::video{poster=/p.jpg}"},
		{"bad src", `::video{src="javascript:alert(1)"}`},
		{"bad poster", `::video{src="/v.mp4" poster="data:image/png;base64,AA"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, warnings, err := NewConverter(Options{}).ToTree([]byte(tt.input))
			require.NoError(t, err)
			require.Len(t, warnings, 1)
			assert.Equal(t, "video", warnings[0].Directive)
			assert.Equal(t, 1, warnings[0].Line)

			require.Len(t, tree.Children, 1)
			assert.Equal(t, TreeLeafDirective, tree.Children[0].Type)
			assert.Equal(t, "video", tree.Children[0].Name)
			assert.Nil(t, tree.Find(IsTag("video")))
		})
	}
}

func TestVideoTransform_NameIsCaseSensitive(t *testing.T) {
	tree, warnings, err := NewConverter(Options{}).ToTree([]byte("::Video{src=/v.mp4}"))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, tree.Children, 1)
	assert.Equal(t, TreeLeafDirective, tree.Children[0].Type)
}

func TestVideoTransform_ContainerShapeNotMatched(t *testing.T) {
	tree, _, err := NewConverter(Options{}).ToTree([]byte(":::video{src=/v.mp4}\nbody\n:::"))
	require.NoError(t, err)
	require.Len(t, tree.Children, 1)
	assert.Equal(t, TreeContainerDirective, tree.Children[0].Type)
}
