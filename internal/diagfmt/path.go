package diagfmt

import (
	"path/filepath"

	"typelayout/internal/source"
)

func displayPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	p := fs.Get(id).Path
	if mode == PathModeBasename {
		return filepath.Base(p)
	}
	return p
}
