package api

// CopyOp is one whole-file copy: a source path relative to the archive root
// and a destination path relative to the output root. The engine never
// touches the files itself; executing the op belongs to the copy
// collaborator.
type CopyOp struct {
	Source string `yaml:"source"`
	Dest   string `yaml:"dest"`
}

// CopyPlan is the ordered, destination-deduplicated list of copy operations
// for one run. Order is reproducible output, not an execution constraint:
// the collaborator may copy concurrently.
type CopyPlan []CopyOp

// Dests returns the destination paths in plan order. Handy for tests and
// for collaborators that only care about the resulting layout.
func (p CopyPlan) Dests() []string {
	out := make([]string, len(p))
	for i, op := range p {
		out[i] = op.Dest
	}
	return out
}
