package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "suratdesa/pkg/domain-errors"
)

func TestRenderSubstitutesAllThreeSyntaxes(t *testing.T) {
	values := map[string]string{
		"full_name": "Siti Aminah",
		"address":   "Jalan Melati 12",
		"purpose":   "bank account opening",
	}
	res := Render("Name: (full_name), address: {{address}}, for [purpose].", "", values, ModeFinal)

	assert.Equal(t, "Name: Siti Aminah, address: Jalan Melati 12, for bank account opening.", res.Text)
	assert.Empty(t, res.Unresolved)
}

func TestRenderInsertsValuesVerbatim(t *testing.T) {
	values := map[string]string{
		"full_name": "Budi [address] {{purpose}}",
		"address":   "Jalan Melati 12",
	}
	res := Render("(full_name) at [address]", "", values, ModeFinal)

	assert.Equal(t, "Budi [address] {{purpose}} at Jalan Melati 12", res.Text)
	assert.Empty(t, res.Unresolved, "placeholder-shaped text inside a value must stay literal")
}

func TestRenderPrependsOpeningStatement(t *testing.T) {
	res := Render("Body (full_name).", "The undersigned village head certifies:", map[string]string{"full_name": "Budi"}, ModeFinal)
	assert.Equal(t, "The undersigned village head certifies:\n\nBody Budi.", res.Text)
}

func TestRenderNormalizesPlaceholderNames(t *testing.T) {
	res := Render("(Full Name) lives at {{ address }}.", "", map[string]string{
		"full_name": "Budi Santoso",
		"address":   "RT 02",
	}, ModeFinal)
	assert.Equal(t, "Budi Santoso lives at RT 02.", res.Text)
}

func TestRenderReportsUnresolvedAsData(t *testing.T) {
	res := Render("(full_name) requests [purpose] from {{office}}.", "", map[string]string{"full_name": "Budi"}, ModeFinal)

	assert.Equal(t, "Budi requests [purpose] from {{office}}.", res.Text)
	assert.Equal(t, []string{"office", "purpose"}, res.Unresolved)
}

func TestRenderPreviewWrapsValuesAndFlagsUnresolved(t *testing.T) {
	res := Render("(full_name), [purpose]", "", map[string]string{"full_name": "Budi"}, ModePreview)

	assert.Equal(t, "«Budi», [unresolved: purpose]", res.Text)
	assert.Equal(t, []string{"purpose"}, res.Unresolved)
}

func TestRenderEmptyValueCountsAsUnresolved(t *testing.T) {
	res := Render("(full_name)", "", map[string]string{"full_name": ""}, ModeFinal)
	assert.Equal(t, []string{"full_name"}, res.Unresolved)
}

func TestRenderIsDeterministic(t *testing.T) {
	values := map[string]string{"a": "1", "b": "2"}
	first := Render("(a) {{b}} [c] (missing)", "open", values, ModePreview)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Render("(a) {{b}} [c] (missing)", "open", values, ModePreview))
	}
}

func TestRenderLeavesPlainTextAlone(t *testing.T) {
	res := Render("No placeholders here, just (a sentence with spaces) left as text.", "", map[string]string{}, ModeFinal)
	assert.Equal(t, []string{"a_sentence_with_spaces"}, res.Unresolved)
}

func TestApplyPresetOntoEmptyBody(t *testing.T) {
	body, err := ApplyPreset("", "domicile", false)
	require.NoError(t, err)
	assert.Contains(t, body, "(full_name)")
	assert.Contains(t, body, "(national_id)")
}

func TestApplyPresetRefusesUnconfirmedOverwrite(t *testing.T) {
	_, err := ApplyPreset("existing body", "domicile", false)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	body, err := ApplyPreset("existing body", "domicile", true)
	require.NoError(t, err)
	assert.NotEmpty(t, body)
}

func TestApplyPresetUnknownName(t *testing.T) {
	_, err := ApplyPreset("", "nope", true)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestPresetNamesSorted(t *testing.T) {
	assert.Equal(t, []string{"business", "domicile", "poverty"}, PresetNames())
}
