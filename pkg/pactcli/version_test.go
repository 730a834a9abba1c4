package pactcli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_PrintsVersion(t *testing.T) {
	Version = "1.2.3"
	out, err := runCmd(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
}
