package renderer

import (
	"sort"

	dErrors "suratdesa/pkg/domain-errors"
)

// Preset is a canned template body administrators can start a letter type
// from instead of writing from scratch.
type Preset struct {
	Name string
	Body string
}

var presets = map[string]Preset{
	"domicile": {
		Name: "domicile",
		Body: "This letter certifies that (full_name), national ID (national_id), born in (birth_place) on (birth_date), is a resident of (address), unit (unit), sub-unit (sub_unit).\n\nThis certificate of domicile is issued for (purpose).",
	},
	"business": {
		Name: "business",
		Body: "This letter certifies that (full_name), national ID (national_id), residing at (address), operates the business (business_name) of type (business_type) within this village.\n\nIssued for (purpose).",
	},
	"poverty": {
		Name: "poverty",
		Body: "This letter certifies that (full_name), national ID (national_id), occupation (occupation), residing at (address), belongs to an economically disadvantaged household.\n\nIssued for (purpose).",
	},
}

// PresetNames returns the available preset names, for listing endpoints.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset returns the preset body for name. A non-empty current body is
// only overwritten when the caller confirms, otherwise the call conflicts.
func ApplyPreset(current, name string, confirmOverwrite bool) (string, error) {
	p, ok := presets[name]
	if !ok {
		return "", dErrors.New(dErrors.CodeNotFound, "unknown template preset: "+name)
	}
	if current != "" && !confirmOverwrite {
		return "", dErrors.New(dErrors.CodeConflict, "template body is not empty; confirm overwrite to apply preset")
	}
	return p.Body, nil
}
