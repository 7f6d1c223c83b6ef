package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoString(t *testing.T) {
	info := Info{Version: "dev", CommitHash: "abcdef123456", BuildTime: "now"}
	assert.Equal(t, "ctm dev (commit abcdef123456, built now)", info.String())
	assert.Equal(t, "abcdef1", info.Short())

	info.Version = "1.4.0"
	assert.Equal(t, "ctm 1.4.0 (commit abcdef123456, built now)", info.String())
}

func TestInfoSemantic(t *testing.T) {
	_, ok := Info{Version: "dev"}.Semantic()
	assert.False(t, ok)

	v, ok := Info{Version: "v1.4.2"}.Semantic()
	require.True(t, ok)
	assert.Equal(t, uint64(4), v.Minor())
}

func TestGet(t *testing.T) {
	info := Get()
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}
