package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenInputFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commands.txt")
	require.NoError(t, os.WriteFile(path, []byte("Create_parking_lot 2\n"), 0o600))

	in, closeInput, err := openInput(path, strings.NewReader(""), io.Discard)
	require.NoError(t, err)
	defer closeInput()

	data, err := io.ReadAll(in)
	require.NoError(t, err)
	assert.Equal(t, "Create_parking_lot 2\n", string(data))
}

func TestOpenInputPromptsForPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commands.txt")
	require.NoError(t, os.WriteFile(path, []byte("Leave 1\n"), 0o600))

	var out bytes.Buffer
	in, closeInput, err := openInput("", strings.NewReader(path+"\n"), &out)
	require.NoError(t, err)
	defer closeInput()

	assert.Equal(t, inputPrompt, out.String())
	data, err := io.ReadAll(in)
	require.NoError(t, err)
	assert.Equal(t, "Leave 1\n", string(data))
}

func TestOpenInputStdin(t *testing.T) {
	stdin := strings.NewReader("Status\n")

	in, closeInput, err := openInput("-", stdin, io.Discard)
	require.NoError(t, err)
	defer closeInput()

	assert.Same(t, stdin, in)
}

func TestOpenInputMissingFile(t *testing.T) {
	_, _, err := openInput(filepath.Join(t.TempDir(), "missing.txt"), strings.NewReader(""), io.Discard)
	assert.Error(t, err)
}
