package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "kenbun", cmd.Use)
	assert.Contains(t, cmd.Long, "storage.kind")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"url", "add"}, {"url", "get"}, {"url", "list"},
		{"blob", "add"}, {"blob", "get"},
		{"screenshot", "add"}, {"screenshot", "get"},
		{"har", "import"}, {"har", "get"},
	}

	for _, path := range commands {
		t.Run(path[0]+"_"+path[1], func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, path[1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)
}

func TestURLListFlags(t *testing.T) {
	cmd := NewRootCommand()
	listCmd, _, err := cmd.Find([]string{"url", "list"})
	require.NoError(t, err)

	limitFlag := listCmd.Flags().Lookup("limit")
	require.NotNil(t, limitFlag)
	assert.Equal(t, "n", limitFlag.Shorthand)
	assert.Equal(t, "20", limitFlag.DefValue)

	require.NotNil(t, listCmd.Flags().Lookup("cursor"))
}

func TestBlobFlags(t *testing.T) {
	cmd := NewRootCommand()

	addCmd, _, err := cmd.Find([]string{"blob", "add"})
	require.NoError(t, err)
	mimeFlag := addCmd.Flags().Lookup("mime-type")
	require.NotNil(t, mimeFlag)
	assert.Equal(t, "", mimeFlag.DefValue)

	getCmd, _, err := cmd.Find([]string{"blob", "get"})
	require.NoError(t, err)
	outFlag := getCmd.Flags().Lookup("output")
	require.NotNil(t, outFlag)
	assert.Equal(t, "o", outFlag.Shorthand)
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "xml", "url", "list"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
