package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/retail-admin-backend/pkg/config"
)

type cliEnv struct {
	dsn        string
	installers string
}

func setupEnv(t *testing.T) cliEnv {
	t.Helper()
	root := t.TempDir()
	e := cliEnv{
		dsn:        fmt.Sprintf("file:%s?_foreign_keys=1", filepath.Join(root, "admin.db")),
		installers: filepath.Join(root, "installers"),
	}
	t.Setenv(config.EnvAppEnv, "dev")
	t.Setenv(config.EnvDBDriver, "sqlite")
	t.Setenv(config.EnvDBDSN, e.dsn)
	t.Setenv(config.EnvInstallerDir, e.installers)
	t.Setenv(config.EnvRedisURL, "")
	t.Setenv(config.EnvLogLevel, "error")
	return e
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestUnknownCommand(t *testing.T) {
	setupEnv(t)
	code, _, stderr := runCLI(t, "frobnicate")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `unknown command "frobnicate"`)
	assert.Contains(t, stderr, "publish-installers")
}

func TestShowPathsAndInitDB(t *testing.T) {
	e := setupEnv(t)

	code, out, _ := runCLI(t, "show-paths")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Database: "+e.dsn)
	assert.Contains(t, out, "Installer directory: "+e.installers)

	code, out, stderr := runCLI(t, "init-db")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "Database initialised at "+e.dsn)
	info, err := os.Stat(e.installers)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateAdminAndListUsers(t *testing.T) {
	setupEnv(t)

	code, out, stderr := runCLI(t, "list-users")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "No users found.\n", out)

	code, _, stderr = runCLI(t, "create-admin", "root")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Password is required")

	code, out, stderr = runCLI(t, "create-admin", "root", "-password", "secret123", "-email", "root@example.com")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "Created administrator root (id=1)\n", out)

	code, _, stderr = runCLI(t, "create-admin", "root", "-password", "secret123")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "User already exists")

	code, _, stderr = runCLI(t, "create-admin", "-password", "secret123", "-superuser=false", "clerk")
	require.Equal(t, 0, code, stderr)

	code, out, stderr = runCLI(t, "list-users")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "Existing users\n"+
		"- #1 root | active=true | superuser=true\n"+
		"- #2 clerk | active=true | superuser=false\n", out)
}

func TestDownloadInstallers(t *testing.T) {
	setupEnv(t)

	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/downloads", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"filename": "a.zip", "url": srv.URL + "/downloads/a.zip", "size": 1},
			{"filename": "b.whl", "url": srv.URL + "/downloads/b.whl", "size": 1},
		})
	})
	mux.HandleFunc("/downloads/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "payload:"+filepath.Base(r.URL.Path))
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, "b.whl"), []byte("old"), 0o644))

	code, stdout, stderr := runCLI(t, "download-installers", srv.URL, "-o", out)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Fetching installer index from "+srv.URL+"/downloads...")
	assert.Contains(t, stdout, "Saved to "+filepath.Join(out, "a.zip"))
	assert.Contains(t, stdout, "already exists; skipping")

	data, err := os.ReadFile(filepath.Join(out, "b.whl"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	code, _, stderr = runCLI(t, "download-installers", srv.URL+"/downloads", "-o", out, "-n", "b.whl", "-overwrite")
	require.Equal(t, 0, code, stderr)
	data, err = os.ReadFile(filepath.Join(out, "b.whl"))
	require.NoError(t, err)
	assert.Equal(t, "payload:b.whl", string(data))

	code, _, stderr = runCLI(t, "download-installers", srv.URL, "-o", out, "-n", "missing.zip")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "missing.zip was not advertised")
}

type fakeGitHub struct {
	mu       sync.Mutex
	uploaded []string
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	release := map[string]any{"id": 7, "html_url": "https://github.test/acme/tools/releases/v1.0.0", "assets": []any{}}
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/repos/acme/tools/releases":
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(release)
	case r.Method == http.MethodPost && r.URL.Path == "/repos/acme/tools/releases/7/assets":
		f.mu.Lock()
		f.uploaded = append(f.uploaded, r.URL.Query().Get("name"))
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{}`)
	case r.Method == http.MethodGet && r.URL.Path == "/repos/acme/tools/releases/tags/v1.0.0":
		_ = json.NewEncoder(w).Encode(release)
	default:
		http.Error(w, "unexpected "+r.Method+" "+r.URL.Path, http.StatusTeapot)
	}
}

func TestPublishInstallers(t *testing.T) {
	e := setupEnv(t)
	gh := &fakeGitHub{}
	srv := httptest.NewServer(gh)
	t.Cleanup(srv.Close)
	t.Setenv("RETAIL_GITHUB_API_ROOT", srv.URL)
	t.Setenv("RETAIL_GITHUB_UPLOAD_ROOT", srv.URL)
	t.Setenv(config.EnvGitHubToken, "ghp_test")

	code, _, stderr := runCLI(t, "publish-installers", "acme/tools", "-tag", "v1.0.0")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "does not exist")

	require.NoError(t, os.MkdirAll(e.installers, 0o755))
	code, _, stderr = runCLI(t, "publish-installers", "acme/tools", "-tag", "v1.0.0")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "No archives found")

	for _, name := range []string{"b.whl", "a.zip", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(e.installers, name), []byte(name), 0o644))
	}
	code, out, stderr := runCLI(t, "publish-installers", "acme/tools", "-tag", "v1.0.0", "-notes", "first cut")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "Publishing 2 installer(s) from "+e.installers+" to acme/tools@v1.0.0...")
	assert.Contains(t, out, "Release available at https://github.test/acme/tools/releases/v1.0.0")
	assert.True(t, strings.HasSuffix(out, "- a.zip\n- b.whl\n"), out)
	assert.Equal(t, []string{"a.zip", "b.whl"}, gh.uploaded)

	code, _, _ = runCLI(t, "publish-installers", "acme/tools")
	assert.Equal(t, 1, code)
}
