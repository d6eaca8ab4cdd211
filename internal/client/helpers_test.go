package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edqe14/hefs/pkg/hefs"
)

const (
	guildsFixture = `[
		{"_id": "g1", "name": "Alpha", "description": "first", "image": "a.png", "invite": "abc", "debutDate": "2021-07-31T00:00:00Z"},
		{"_id": "g2", "name": "Beta", "description": "second", "image": "b.png", "invite": "def", "color": "#ff0000"}
	]`

	projectsFixture = `[
		{"_id": 1, "status": "ongoing", "guild": "g1", "title": "One", "shortDescription": "s", "description": "d",
		 "media": [{"type": "image", "src": "https://cdn/1.png"}], "links": [{"name": "site", "link": "https://one"}]},
		{"_id": "p2", "status": "past", "guild": "g2", "title": "Two", "shortDescription": "s", "description": "d"},
		{"status": "past", "guild": "g2", "title": "missing id"}
	]`

	submissionsFixture = `[
		{"_id": "s1", "project": 1, "author": "amy", "type": "text", "message": "hi"},
		{"_id": "s2", "project": 1, "type": "image", "src": "https://cdn/s2.png"},
		{"project": 1, "type": "text", "message": "no id"}
	]`

	whitelistFixture = `{"_id": "whitelist", "value": ["alice", "bob"]}`
)

// apiStub is a scripted API server that records every request.
type apiStub struct {
	server *httptest.Server

	mutex   sync.Mutex
	routes  map[string]http.HandlerFunc
	calls   map[string]int
	bodies  map[string][]byte
	headers map[string]http.Header
}

func newAPIStub(t *testing.T) *apiStub {
	t.Helper()

	stub := &apiStub{
		routes:  make(map[string]http.HandlerFunc),
		calls:   make(map[string]int),
		bodies:  make(map[string][]byte),
		headers: make(map[string]http.Header),
	}

	stub.server = httptest.NewServer(http.HandlerFunc(stub.serveHTTP))
	t.Cleanup(stub.server.Close)

	return stub
}

// newHydratedStub serves the standard guild, project, submission and
// whitelist fixtures.
func newHydratedStub(t *testing.T) *apiStub {
	t.Helper()

	stub := newAPIStub(t)
	stub.respond(http.MethodGet, "/guilds/", http.StatusOK, guildsFixture)
	stub.respond(http.MethodGet, "/projects/", http.StatusOK, projectsFixture)
	stub.respond(http.MethodGet, "/submissions/1", http.StatusOK, submissionsFixture)
	stub.respond(http.MethodGet, "/submissions/p2", http.StatusOK, `[]`)
	stub.respond(http.MethodGet, "/admin/setting", http.StatusOK, whitelistFixture)

	return stub
}

func (s *apiStub) serveHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	body, _ := io.ReadAll(r.Body)

	s.mutex.Lock()
	s.calls[key]++
	s.bodies[key] = body
	s.headers[key] = r.Header.Clone()
	handler, ok := s.routes[key]
	s.mutex.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))

		return
	}

	handler(w, r)
}

func (s *apiStub) handle(method, path string, handler http.HandlerFunc) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.routes[method+" "+path] = handler
}

func (s *apiStub) respond(method, path string, status int, body string) {
	s.handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func (s *apiStub) callCount(method, path string) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.calls[method+" "+path]
}

func (s *apiStub) lastBody(method, path string) []byte {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.bodies[method+" "+path]
}

func (s *apiStub) lastHeader(method, path string) http.Header {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.headers[method+" "+path]
}

// newTestClient builds a client against stub and waits for it to be ready.
func newTestClient(t *testing.T, stub *apiStub, configure func(*hefs.Config)) *Client {
	t.Helper()

	config := &hefs.Config{BaseURL: stub.server.URL}
	if configure != nil {
		configure(config)
	}

	client, err := New(context.Background(), config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, client.AwaitReady(ctx))

	return client
}

func decodeJSON(t *testing.T, data []byte, target interface{}) {
	t.Helper()

	require.NoError(t, json.Unmarshal(data, target))
}

func disableHydration(config *hefs.Config) {
	config.DisableHydration = true
}
