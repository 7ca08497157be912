package controllers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/angelmondragon/retail-admin-backend/internal/downloads"
)

func newInstallerDir(t *testing.T) *downloads.Directory {
	t.Helper()
	root := t.TempDir()
	for name, body := range map[string]string{"b-setup.zip": "bbbb", "a-setup.whl": "aa"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(root, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	dir, err := downloads.NewDirectory(root)
	if err != nil {
		t.Fatalf("NewDirectory: %v", err)
	}
	return dir
}

func TestDownloadListBuildsURLs(t *testing.T) {
	rec := serve(http.MethodGet, "/downloads", "/downloads", "", DownloadList(newInstallerDir(t), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var entries []downloads.Entry
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 regular files, got %+v", entries)
	}
	if entries[0].Filename != "a-setup.whl" || entries[0].Size != 2 {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	if entries[0].URL != "http://example.com/downloads/a-setup.whl" {
		t.Fatalf("unexpected url %q", entries[0].URL)
	}
}

func TestDownloadFileServesContent(t *testing.T) {
	rec := serve(http.MethodGet, "/downloads/{filename}", "/downloads/b-setup.zip", "", DownloadFile(newInstallerDir(t), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if rec.Body.String() != "bbbb" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestDownloadFileRejectsMissingAndDirectories(t *testing.T) {
	dir := newInstallerDir(t)
	for _, target := range []string{"/downloads/missing.zip", "/downloads/nested", "/downloads/..%2Fsecret"} {
		rec := serve(http.MethodGet, "/downloads/{filename}", target, "", DownloadFile(dir, nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404 got %d", target, rec.Code)
		}
	}
}
