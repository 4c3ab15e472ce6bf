// Package catalog holds the typed in-memory representation of the machine
// metadata catalog: one MachineEntry per record plus an identifier-keyed
// Index for O(1) lookup. The catalog is built once per run and treated as
// read-only afterwards.
package catalog

import (
	"errors"
	"fmt"

	"github.com/agentic-research/romsort/api"
)

var (
	// ErrNotFound is returned by Index.Get for unknown identifiers.
	ErrNotFound = errors.New("machine not found")
	// ErrEmpty is returned when a catalog document yields zero entries.
	// A partial catalog is unusable: family and dependency resolution
	// require completeness.
	ErrEmpty = errors.New("catalog contains no machine entries")
)

// FormatError reports a malformed catalog document. Fatal: the run aborts
// before any plan is emitted.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed catalog %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// IntegrityError reports a catalog whose reference graph is ill-defined:
// a duplicate identifier, a self-parenting entry, or a parent/device cycle.
// Fatal for the same reason as FormatError.
type IntegrityError struct {
	ID     string
	Detail string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("catalog integrity: %s: %s", e.ID, e.Detail)
}

// Control is one declared input control: a type token (joystick, trackball,
// lightgun, …) and an optional direction layout ("ways": 4, 8, 2h, …).
type Control struct {
	Type string
	Ways string
}

// MachineEntry is one catalog record. All fields are immutable once parsed.
//
// Defaults for absent source attributes: CloneOf/ROMOf/SampleOf empty (no
// reference), Runnable true, the boolean classification flags false, Status
// working (a machine without a driver element is assumed good), Players and
// Buttons zero, Rotate zero.
type MachineEntry struct {
	ID          string
	Description string

	// CloneOf references the parent entry; empty for family roots.
	CloneOf string
	// ROMOf references the set this entry draws files from: the BIOS for
	// parents, usually the parent set for clones (whose BIOS chain is then
	// reachable only through the parent's own ROMOf).
	ROMOf string
	// SampleOf names the sample set shared with another entry.
	SampleOf string

	SourceFile   string
	IsBIOS       bool
	IsDevice     bool
	IsMechanical bool
	Runnable     bool

	// Category is the normalized classification tag (arcade, console,
	// computer, handheld, system), derived once at parse time.
	Category string
	// CategoryText is the raw category element text, kept for the mature
	// content check and the report.
	CategoryText string

	Status  api.DriverStatus
	Players int
	Buttons int

	Controls   []Control
	HasDisplay bool
	// Rotate is the display rotation in degrees; 90 and 270 mean vertical.
	Rotate int

	// DeviceRefs lists required device/BIOS entry identifiers.
	DeviceRefs []string
	// ROMs lists the ROM-region file names belonging to this entry.
	ROMs []string
	// Disks lists CHD names belonging to this entry.
	Disks []string
	// Samples lists the individual sample names declared inline.
	Samples []string
}

// SampleSet returns the name of the sample set this entry needs, or ""
// when it has none. An explicit sampleof reference wins; otherwise inline
// sample declarations mean the set is named after the entry itself.
func (m *MachineEntry) SampleSet() string {
	if m.SampleOf != "" {
		return m.SampleOf
	}
	if len(m.Samples) > 0 {
		return m.ID
	}
	return ""
}

// Index is the identifier-keyed catalog index. Insertion order is retained
// so ordinal positions are stable across a run; both are read-only after
// the parse completes.
type Index struct {
	byID    map[string]*MachineEntry
	ordinal map[string]uint32
	order   []*MachineEntry
}

func NewIndex() *Index {
	return &Index{
		byID:    make(map[string]*MachineEntry),
		ordinal: make(map[string]uint32),
	}
}

// Add inserts an entry. Duplicate identifiers violate the catalog-wide
// uniqueness invariant and are rejected.
func (ix *Index) Add(m *MachineEntry) error {
	if _, dup := ix.byID[m.ID]; dup {
		return &IntegrityError{ID: m.ID, Detail: "duplicate identifier"}
	}
	ix.byID[m.ID] = m
	ix.ordinal[m.ID] = uint32(len(ix.order))
	ix.order = append(ix.order, m)
	return nil
}

// Get returns the entry for id, or ErrNotFound.
func (ix *Index) Get(id string) (*MachineEntry, error) {
	m, ok := ix.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return m, nil
}

// Lookup is the comma-ok form of Get.
func (ix *Index) Lookup(id string) (*MachineEntry, bool) {
	m, ok := ix.byID[id]
	return m, ok
}

// Ordinal returns the dense insertion position of id, for bitmap-keyed
// bookkeeping over the catalog.
func (ix *Index) Ordinal(id string) (uint32, bool) {
	n, ok := ix.ordinal[id]
	return n, ok
}

// All returns the entries in insertion order. Callers must not mutate the
// slice or the entries.
func (ix *Index) All() []*MachineEntry { return ix.order }

func (ix *Index) Len() int { return len(ix.order) }

// Finalize runs the deferred link checks that need the complete index:
// the source format has no ordering guarantee, so parent references may
// point forward. Transitive cycle detection happens in family resolution;
// here we reject the degenerate direct case.
func (ix *Index) Finalize() error {
	for _, m := range ix.order {
		if m.CloneOf == m.ID {
			return &IntegrityError{ID: m.ID, Detail: "entry is a clone of itself"}
		}
	}
	return nil
}
