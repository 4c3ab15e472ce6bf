package catalog

import "fmt"

// WarningKind classifies the non-fatal anomalies a run can accumulate.
type WarningKind string

const (
	// WarnMissingParent: a clone's parent reference resolves to nothing;
	// the clone is promoted to a family root of its own.
	WarnMissingParent WarningKind = "missing-parent"
	// WarnMissingDependency: a device/BIOS reference resolves to nothing;
	// the dependency is omitted from the closure. Real catalogs reference
	// hardware intentionally excluded upstream, so this is not fatal.
	WarnMissingDependency WarningKind = "missing-dependency"
	// WarnMissingFile: a planned source file was absent on disk at copy
	// time; the op was skipped.
	WarnMissingFile WarningKind = "missing-file"
)

// Warning is one accumulated, reportable anomaly. Selection proceeds
// without the referenced dependency; warnings are returned alongside the
// plan, never instead of it.
type Warning struct {
	Kind    WarningKind
	Machine string
	Ref     string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s -> %s", w.Kind, w.Machine, w.Ref)
}
