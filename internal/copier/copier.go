// Package copier executes a copy plan against a pair of filesystems. It is
// the external collaborator side of the engine contract: the plan says
// what, the copier decides how. Filesystems are billy abstractions so the
// whole path is testable against in-memory stores.
package copier

import (
	"fmt"
	"io"
	"os"
	"path"

	billy "github.com/go-git/go-billy/v5"

	"github.com/agentic-research/romsort/api"
	"github.com/agentic-research/romsort/internal/catalog"
)

// Stats summarizes one plan execution.
type Stats struct {
	Copied  int
	Skipped []catalog.Warning
}

// Copier copies whole files from Src to Dst. It never inspects or rewrites
// content.
type Copier struct {
	Src billy.Filesystem
	Dst billy.Filesystem
}

func New(src, dst billy.Filesystem) *Copier {
	return &Copier{Src: src, Dst: dst}
}

// Execute runs the plan in order. A source file absent on disk is skipped
// and recorded as a warning: the archive may simply not carry a set the
// catalog knows about. Any other I/O failure aborts.
func (c *Copier) Execute(p api.CopyPlan) (*Stats, error) {
	stats := &Stats{}
	for _, op := range p {
		if _, err := c.Src.Stat(op.Source); err != nil {
			if os.IsNotExist(err) {
				stats.Skipped = append(stats.Skipped, catalog.Warning{
					Kind:    catalog.WarnMissingFile,
					Machine: op.Dest,
					Ref:     op.Source,
				})
				continue
			}
			return stats, fmt.Errorf("stat %s: %w", op.Source, err)
		}
		if err := c.copyOne(op); err != nil {
			return stats, err
		}
		stats.Copied++
	}
	return stats, nil
}

func (c *Copier) copyOne(op api.CopyOp) error {
	src, err := c.Src.Open(op.Source)
	if err != nil {
		return fmt.Errorf("open %s: %w", op.Source, err)
	}
	defer func() { _ = src.Close() }()

	if dir := path.Dir(op.Dest); dir != "." {
		if err := c.Dst.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	dst, err := c.Dst.Create(op.Dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", op.Dest, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("copy %s: %w", op.Source, err)
	}
	return dst.Close()
}
