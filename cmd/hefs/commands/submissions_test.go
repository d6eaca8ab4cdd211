package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubmissionsCommand(t *testing.T) {
	t.Parallel()

	cmd := NewSubmissionsCommand()
	assert.Equal(t, "submissions", cmd.Use)

	list := requireSubcommand(t, cmd, "list")
	assert.Equal(t, "list PROJECT_ID", list.Use)
	assert.NotNil(t, list.Args)
}

func TestSubmissionsList(t *testing.T) {
	server := newAPIServer(t)
	setConfig(t, server, map[string]interface{}{"output": "json", "no_hydrate": true})

	out, err := runCommand(t, newSubmissionsListCommand(), "1")
	require.NoError(t, err)

	var views []SubmissionView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 2)
	assert.Equal(t, SubmissionView{ID: "s1", Project: "1", Type: "text", Author: "amy", Content: "hello there"}, views[0])
	assert.Equal(t, "https://cdn/s2.png", views[1].Content)
}

func TestSubmissionsList_RequiresProject(t *testing.T) {
	setConfig(t, nil, nil)

	_, err := runCommand(t, newSubmissionsListCommand())
	require.Error(t, err)
}
