package catalog

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"

	"github.com/agentic-research/romsort/api"
)

// xmlMachine mirrors one <machine> (or legacy <game>) element. Unknown
// attributes and child elements fall through the decoder and are ignored.
type xmlMachine struct {
	Name         string       `xml:"name,attr"`
	SourceFile   string       `xml:"sourcefile,attr"`
	CloneOf      string       `xml:"cloneof,attr"`
	ROMOf        string       `xml:"romof,attr"`
	SampleOf     string       `xml:"sampleof,attr"`
	IsBIOS       string       `xml:"isbios,attr"`
	IsDevice     string       `xml:"isdevice,attr"`
	IsMechanical string       `xml:"ismechanical,attr"`
	Runnable     string       `xml:"runnable,attr"`
	Description  string       `xml:"description"`
	Category     string       `xml:"category"`
	Driver       *xmlDriver   `xml:"driver"`
	Input        *xmlInput    `xml:"input"`
	Controls     []xmlControl `xml:"control"`
	Displays     []xmlDisplay `xml:"display"`
	DeviceRefs   []xmlNameRef `xml:"device_ref"`
	ROMs         []xmlNameRef `xml:"rom"`
	Disks        []xmlNameRef `xml:"disk"`
	Samples      []xmlNameRef `xml:"sample"`
}

type xmlDriver struct {
	Status string `xml:"status,attr"`
}

type xmlInput struct {
	Players  string       `xml:"players,attr"`
	Buttons  string       `xml:"buttons,attr"`
	Controls []xmlControl `xml:"control"`
}

type xmlControl struct {
	Type  string `xml:"type,attr"`
	Ways  string `xml:"ways,attr"`
	Ways2 string `xml:"ways2,attr"`
	Ways3 string `xml:"ways3,attr"`
}

type xmlDisplay struct {
	Rotate string `xml:"rotate,attr"`
}

type xmlNameRef struct {
	Name string `xml:"name,attr"`
}

// ParseXML streams machine elements out of an XML catalog document.
// Only one element's subtree is decoded at a time, so the full document is
// never held in memory. Well-formedness failures abort with FormatError.
func ParseXML(r io.Reader, path string) (*Index, error) {
	dec := xml.NewDecoder(r)
	ix := NewIndex()

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &FormatError{Path: path, Err: err}
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "machine" && se.Name.Local != "game" {
			continue
		}

		var rec xmlMachine
		if err := dec.DecodeElement(&rec, &se); err != nil {
			return nil, &FormatError{Path: path, Err: err}
		}
		if err := ix.Add(rec.toEntry()); err != nil {
			return nil, err
		}
	}

	return finish(ix, path)
}

func (r *xmlMachine) toEntry() *MachineEntry {
	m := &MachineEntry{
		ID:           r.Name,
		Description:  r.Description,
		CloneOf:      r.CloneOf,
		ROMOf:        r.ROMOf,
		SampleOf:     r.SampleOf,
		SourceFile:   r.SourceFile,
		IsBIOS:       r.IsBIOS == "yes",
		IsDevice:     r.IsDevice == "yes",
		IsMechanical: r.IsMechanical == "yes",
		Runnable:     r.Runnable != "no",
		CategoryText: r.Category,
		Status:       parseStatus(r.Driver),
		DeviceRefs:   names(r.DeviceRefs),
		ROMs:         names(r.ROMs),
		Disks:        names(r.Disks),
		Samples:      names(r.Samples),
	}

	if r.Input != nil {
		m.Players = atoi(r.Input.Players)
		m.Buttons = atoi(r.Input.Buttons)
		for _, c := range r.Input.Controls {
			m.Controls = append(m.Controls, c.toControl())
		}
	}
	// Legacy documents declare controls directly on the machine element.
	for _, c := range r.Controls {
		m.Controls = append(m.Controls, c.toControl())
	}
	if len(r.Displays) > 0 {
		m.HasDisplay = true
		m.Rotate = atoi(r.Displays[0].Rotate)
	}

	m.Category = classify(m)
	return m
}

func (c xmlControl) toControl() Control {
	ways := c.Ways
	if ways == "" {
		ways = c.Ways2
	}
	if ways == "" {
		ways = c.Ways3
	}
	return Control{Type: c.Type, Ways: ways}
}

// parseStatus maps the driver status attribute onto the quality tiers.
// A machine without a driver element is assumed good, matching how the
// upstream listing omits drivers for trivially working hardware.
func parseStatus(d *xmlDriver) api.DriverStatus {
	if d == nil {
		return api.StatusWorking
	}
	switch d.Status {
	case "", "good", "perfect":
		return api.StatusWorking
	case "imperfect":
		return api.StatusPartial
	default:
		return api.StatusNonWorking
	}
}

func names(refs []xmlNameRef) []string {
	if len(refs) == 0 {
		return nil
	}
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if r.Name != "" {
			out = append(out, r.Name)
		}
	}
	return out
}

// atoi is the tolerant integer parse used for count attributes: anything
// unparseable defaults to zero rather than failing the document.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
