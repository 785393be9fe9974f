package fetch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
)

// Dir serves documents from a local directory. Missing files surface as
// a 404 StatusError so callers treat both sources alike.
type Dir struct {
	fsys fs.FS
}

func NewDir(root string) *Dir {
	return &Dir{fsys: os.DirFS(root)}
}

func (d *Dir) Fetch(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := strings.TrimLeft(path, "/")
	if !fs.ValidPath(name) {
		return "", &StatusError{Path: path, Status: http.StatusBadRequest}
	}
	data, err := fs.ReadFile(d.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &StatusError{Path: path, Status: http.StatusNotFound}
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
