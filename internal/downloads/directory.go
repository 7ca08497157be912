// Package downloads exposes installer archives from a local directory and
// mirrors them from a running service.
package downloads

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	pkgerrors "github.com/angelmondragon/retail-admin-backend/pkg/errors"
)

// Entry describes one downloadable installer.
type Entry struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
}

// Directory serves regular files from a single root.
type Directory struct {
	root string
}

// NewDirectory binds a Directory to root.
func NewDirectory(root string) (*Directory, error) {
	if root == "" {
		return nil, fmt.Errorf("installer directory required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve installer directory: %w", err)
	}
	return &Directory{root: filepath.Clean(abs)}, nil
}

// Root returns the absolute installer directory.
func (d *Directory) Root() string {
	return d.root
}

// Ensure creates the directory when it is missing.
func (d *Directory) Ensure() error {
	return os.MkdirAll(d.root, 0o755)
}

// List returns the regular files under the root sorted by name. URL is left
// blank for the caller to fill in. A missing root yields an empty list.
func (d *Directory) List() ([]Entry, error) {
	items, err := os.ReadDir(d.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read installer directory")
	}
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		if !item.Type().IsRegular() {
			continue
		}
		info, err := item.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Filename: item.Name(), Size: info.Size()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Filename < entries[j].Filename })
	return entries, nil
}

// Resolve maps a requested name to a regular file inside the root. Only the
// base name is honoured, so path segments cannot escape the directory.
func (d *Directory) Resolve(name string) (string, error) {
	notFound := pkgerrors.New(pkgerrors.CodeNotFound, "installer not found")

	base := filepath.Base(filepath.Clean("/" + name))
	if base == "/" || base == "." || base == ".." {
		return "", notFound
	}
	path := filepath.Join(d.root, base)
	rel, err := filepath.Rel(d.root, path)
	if err != nil || rel != base {
		return "", notFound
	}
	info, err := os.Lstat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", notFound
	}
	return path, nil
}

// Archives returns the publishable archives (.zip, .gz, .whl) under dir, sorted.
func Archives(dir string) ([]string, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, item := range items {
		if !item.Type().IsRegular() {
			continue
		}
		switch filepath.Ext(item.Name()) {
		case ".zip", ".gz", ".whl":
			out = append(out, filepath.Join(dir, item.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}
