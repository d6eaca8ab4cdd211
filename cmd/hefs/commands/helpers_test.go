package commands

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

const (
	guildsBody = `[
		{"_id": "g1", "name": "Alpha", "description": "first", "invite": "abc", "debutDate": "2021-07-31T00:00:00Z"},
		{"_id": "g2", "name": "Beta", "description": "second", "invite": "def"}
	]`

	projectsBody = `[
		{"_id": 1, "status": "ongoing", "guild": "g1", "title": "One", "shortDescription": "first project", "description": "d",
		 "links": [{"name": "site", "link": "https://one"}]},
		{"_id": "p2", "status": "past", "guild": "g2", "title": "Two", "shortDescription": "s", "description": "d"}
	]`

	submissionsBody = `[
		{"_id": "s1", "project": 1, "author": "amy", "type": "text", "message": "hello there"},
		{"_id": "s2", "project": 1, "type": "image", "src": "https://cdn/s2.png"}
	]`
)

// newAPIServer serves fixed guild, project, submission and whitelist
// responses. The whitelist requires the session cookie.
func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	serve := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		}
	}

	mux.HandleFunc("GET /guilds/{$}", serve(guildsBody))
	mux.HandleFunc("GET /guilds/g3", serve(`{"_id": "g3", "name": "Gamma", "invite": "ggg"}`))
	mux.HandleFunc("GET /projects/{$}", serve(projectsBody))
	mux.HandleFunc("GET /submissions/1", serve(submissionsBody))
	mux.HandleFunc("GET /submissions/p2", serve(`[]`))
	mux.HandleFunc("GET /admin/setting", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("next-auth.session-token")
		if err != nil || cookie.Value != "secret" {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"_id": "whitelist", "value": ["alice", "bob"]}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

// setConfig points the global viper state at server and resets it when the
// test ends. Tests using it must not run in parallel.
func setConfig(t *testing.T, server *httptest.Server, values map[string]interface{}) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	if server != nil {
		viper.Set("base_url", server.URL)
	}

	for key, value := range values {
		viper.Set(key, value)
	}
}

// runCommand executes cmd with args and returns what it wrote to stdout.
func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	stdout, _, err := runCommandOutput(t, cmd, args...)

	return stdout, err
}

// runCommandOutput executes cmd with args and returns stdout and stderr.
func runCommandOutput(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	// cobra falls back to os.Args when args is nil
	if args == nil {
		args = []string{}
	}

	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())

	return stdout.String(), stderr.String(), err
}

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

func requireSubcommand(t *testing.T, cmd *cobra.Command, name string) *cobra.Command {
	t.Helper()

	sub := findSubcommand(cmd, name)
	require.NotNil(t, sub, "missing subcommand %q", name)

	return sub
}
