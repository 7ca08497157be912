package controllers

import (
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/retail-admin-backend/api/responses"
	"github.com/angelmondragon/retail-admin-backend/internal/downloads"
	pkgerrors "github.com/angelmondragon/retail-admin-backend/pkg/errors"
	"github.com/angelmondragon/retail-admin-backend/pkg/logger"
)

// DownloadList advertises the installer directory. The response is a bare
// array so that download clients can consume it directly.
func DownloadList(dir *downloads.Directory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if dir == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "installer directory unavailable"))
			return
		}

		entries, err := dir.List()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		base := requestBaseURL(r)
		for i := range entries {
			entries[i].URL = base + "/downloads/" + url.PathEscape(entries[i].Filename)
		}

		responses.WriteStatus(w, http.StatusOK, entries)
	}
}

// DownloadFile streams a single installer.
func DownloadFile(dir *downloads.Directory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if dir == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "installer directory unavailable"))
			return
		}

		path, err := dir.Resolve(chi.URLParam(r, "filename"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		f, err := os.Open(path)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "installer not found"))
			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stat installer"))
			return
		}

		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", `attachment; filename="`+info.Name()+`"`)
		http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	}
}

func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		scheme = proto
	}
	host := r.Host
	if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-Host")); fwd != "" {
		host = fwd
	}
	return scheme + "://" + host
}
