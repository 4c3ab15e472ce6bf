package catalog

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/romsort/api"
)

var machinesPath = jp.MustParseString("$.machines[*]")

// ParseJSON reads a JSON rendering of the catalog: either an object with a
// top-level "machines" array or a bare array of machine records. Field
// names follow the XML attribute names; unknown fields are ignored and
// missing optional ones take the documented defaults.
func ParseJSON(data []byte, path string) (*Index, error) {
	doc, err := oj.Parse(data)
	if err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}

	records := machinesPath.Get(doc)
	if len(records) == 0 {
		if arr, ok := doc.([]any); ok {
			records = arr
		}
	}

	ix := NewIndex()
	for i, rec := range records {
		obj, ok := rec.(map[string]any)
		if !ok {
			return nil, &FormatError{Path: path, Err: fmt.Errorf("machine record %d is not an object", i)}
		}
		if err := ix.Add(jsonEntry(obj)); err != nil {
			return nil, err
		}
	}

	return finish(ix, path)
}

func jsonEntry(obj map[string]any) *MachineEntry {
	m := &MachineEntry{
		ID:           jstr(obj, "name"),
		Description:  jstr(obj, "description"),
		CloneOf:      jstr(obj, "cloneof"),
		ROMOf:        jstr(obj, "romof"),
		SampleOf:     jstr(obj, "sampleof"),
		SourceFile:   jstr(obj, "sourcefile"),
		IsBIOS:       jbool(obj, "isbios", false),
		IsDevice:     jbool(obj, "isdevice", false),
		IsMechanical: jbool(obj, "ismechanical", false),
		Runnable:     jbool(obj, "runnable", true),
		CategoryText: jstr(obj, "category"),
		Status:       api.StatusWorking,
		DeviceRefs:   jstrs(obj, "device_refs"),
		ROMs:         jstrs(obj, "roms"),
		Disks:        jstrs(obj, "disks"),
		Samples:      jstrs(obj, "samples"),
	}

	if driver, ok := obj["driver"].(map[string]any); ok {
		switch jstr(driver, "status") {
		case "", "good", "perfect":
			m.Status = api.StatusWorking
		case "imperfect":
			m.Status = api.StatusPartial
		default:
			m.Status = api.StatusNonWorking
		}
	}
	if input, ok := obj["input"].(map[string]any); ok {
		m.Players = jint(input, "players")
		m.Buttons = jint(input, "buttons")
		if controls, ok := input["control"].([]any); ok {
			for _, c := range controls {
				if cm, ok := c.(map[string]any); ok {
					m.Controls = append(m.Controls, Control{
						Type: jstr(cm, "type"),
						Ways: jstr(cm, "ways"),
					})
				}
			}
		}
	}
	if display, ok := obj["display"].(map[string]any); ok {
		m.HasDisplay = true
		m.Rotate = jint(display, "rotate")
	}

	m.Category = classify(m)
	return m
}

func jstr(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func jbool(obj map[string]any, key string, def bool) bool {
	switch v := obj[key].(type) {
	case bool:
		return v
	case string:
		// XML-converted documents keep the yes/no spelling.
		return v == "yes"
	}
	return def
}

func jint(obj map[string]any, key string) int {
	switch v := obj[key].(type) {
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func jstrs(obj map[string]any, key string) []string {
	arr, ok := obj[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
