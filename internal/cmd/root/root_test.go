package root

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCmdRoot(t *testing.T) {
	cmd := NewCmdRoot()
	assert.Equal(t, "mdsite", cmd.Use)

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"init", "config", "build", "render", "import", "post", "search", "comic", "completion"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"config", "output", "no-color", "verbose"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestRoot_Version(t *testing.T) {
	cmd := NewCmdRoot()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "mdsite version")
}
