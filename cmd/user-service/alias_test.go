package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAliasCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := newAliasCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"u1", "u2"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "u1\tBraveFox81\nu2\tWiseFalcon287\n", out.String())
}

func TestAliasCmdRequiresID(t *testing.T) {
	cmd := newAliasCmd()
	cmd.SetArgs([]string{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}
