package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads a catalog document and builds the index. The engine depends
// only on the logical schema; the concrete serialization is picked by file
// extension, mirroring how the listing tools export it (-listxml, or a
// JSON conversion of the same document).
func Load(path string) (*Index, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xml":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		defer func() { _ = f.Close() }()
		return ParseXML(f, path)
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		return ParseJSON(data, path)
	default:
		return nil, &FormatError{Path: path, Err: fmt.Errorf("unsupported catalog format %q", ext)}
	}
}

// finish applies the shared post-parse steps: the zero-entry check and the
// deferred link validation.
func finish(ix *Index, path string) (*Index, error) {
	if ix.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	if err := ix.Finalize(); err != nil {
		return nil, err
	}
	return ix, nil
}
