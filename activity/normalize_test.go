package activity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avesguide/academy_api/shared"
)

func TestNormalizeDragDrop_MapShape(t *testing.T) {
	raw := json.RawMessage(`{"pairs": {"Heron": "Wader", "Kestrel": "Raptor", "Swift": "Aerial"}}`)

	payload, ok := Normalize(shared.ActivityTypeDragDrop, raw).(DragDrop)
	require.True(t, ok)
	require.Len(t, payload.Pairs, 3)

	// Map keys sort, so synthetic ids are stable across loads.
	assert.Equal(t, Pair{ID: "item-0", Element: "Heron", Target: "Wader"}, payload.Pairs[0])
	assert.Equal(t, Pair{ID: "item-1", Element: "Kestrel", Target: "Raptor"}, payload.Pairs[1])
	assert.Equal(t, Pair{ID: "item-2", Element: "Swift", Target: "Aerial"}, payload.Pairs[2])
}

func TestNormalizeDragDrop_ListShape(t *testing.T) {
	raw := json.RawMessage(`{"pairs": [
		{"id": "a", "element": "Heron", "target": "Wader"},
		{"element": "Kestrel", "target": "Raptor"}
	]}`)

	payload := Normalize(shared.ActivityTypeDragDrop, raw).(DragDrop)
	require.Len(t, payload.Pairs, 2)
	assert.Equal(t, "a", payload.Pairs[0].ID)
	assert.Equal(t, "item-1", payload.Pairs[1].ID)
}

func TestNormalizeDragDrop_LegacyFieldNames(t *testing.T) {
	raw := json.RawMessage(`{"pairs": [
		{"id": "x", "term": "Heron", "match": "Wader"}
	]}`)

	payload := Normalize(shared.ActivityTypeDragDrop, raw).(DragDrop)
	require.Len(t, payload.Pairs, 1)
	assert.Equal(t, "Heron", payload.Pairs[0].Element)
	assert.Equal(t, "Wader", payload.Pairs[0].Target)
}

func TestNormalizeDragDrop_DuplicateIDsDisambiguated(t *testing.T) {
	raw := json.RawMessage(`{"pairs": [
		{"id": "dup", "element": "A", "target": "1"},
		{"id": "dup", "element": "B", "target": "2"},
		{"id": "dup", "element": "C", "target": "3"}
	]}`)

	payload := Normalize(shared.ActivityTypeDragDrop, raw).(DragDrop)
	ids := map[string]bool{}
	for _, pair := range payload.Pairs {
		assert.False(t, ids[pair.ID], "id %q repeated", pair.ID)
		ids[pair.ID] = true
	}
}

func TestNormalizeDragDrop_Malformed(t *testing.T) {
	for _, raw := range []string{``, `not json`, `{"pairs": 42}`, `{}`} {
		payload := Normalize(shared.ActivityTypeDragDrop, json.RawMessage(raw)).(DragDrop)
		assert.Empty(t, payload.Pairs, "raw %q", raw)
		// No pairs means never ready, never correct.
		assert.False(t, payload.Judge(Response{Placements: map[string]string{}}))
	}
}

func TestNormalizeMatching_DefaultsToEmpty(t *testing.T) {
	payload := Normalize(shared.ActivityTypeMatching, nil).(Matching)
	assert.Empty(t, payload.Pairs)
}

func TestNormalizeMatching_Pairs(t *testing.T) {
	raw := json.RawMessage(`{"pairs": [
		{"id": "p1", "term": "Murmuration", "match": "Starling flock"},
		{"term": "Brood", "match": "Young of one hatch"}
	]}`)

	payload := Normalize(shared.ActivityTypeMatching, raw).(Matching)
	require.Len(t, payload.Pairs, 2)
	assert.Equal(t, "p1", payload.Pairs[0].ID)
	assert.Equal(t, "item-1", payload.Pairs[1].ID)
}

func TestNormalizeQuizMultiple_NoCorrectOption(t *testing.T) {
	raw := json.RawMessage(`{"options": [
		{"id": "a", "text": "Yes"},
		{"id": "b", "text": "No"}
	]}`)

	payload := Normalize(shared.ActivityTypeQuizMultiple, raw).(QuizMultiple)
	assert.False(t, payload.HasCorrectOption())
	assert.False(t, payload.Judge(Response{OptionID: "a"}))
	assert.False(t, payload.Judge(Response{OptionID: "b"}))
}

func TestNormalizeQuizMultiple_LegacyCorrectField(t *testing.T) {
	raw := json.RawMessage(`{"options": [
		{"id": "a", "text": "Yes", "is_correct": true},
		{"id": "b", "text": "No", "is_correct": false}
	]}`)

	payload := Normalize(shared.ActivityTypeQuizMultiple, raw).(QuizMultiple)
	assert.True(t, payload.Judge(Response{OptionID: "a"}))
	assert.False(t, payload.Judge(Response{OptionID: "b"}))
}

func TestResolveTrueFalse_Precedence(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		answer     bool
		answerable bool
	}{
		{"bool true", `{"correct_answer": true}`, true, true},
		{"bool false", `{"correct_answer": false}`, false, true},
		{"string true", `{"correct_answer": "true"}`, true, true},
		{"string false", `{"correct_answer": "false"}`, false, true},
		{"correct_answer wins over is_true", `{"correct_answer": "false", "is_true": true}`, false, true},
		{"legacy fallback", `{"is_true": true}`, true, true},
		{"legacy fallback false", `{"is_true": false}`, false, true},
		{"present but unusable", `{"correct_answer": "yes"}`, false, false},
		{"nothing", `{}`, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := Normalize(shared.ActivityTypeQuizTrueFalse, json.RawMessage(tt.raw)).(TrueFalse)
			assert.Equal(t, tt.answerable, payload.Answerable)
			if tt.answerable {
				assert.Equal(t, tt.answer, payload.Answer)
			}
		})
	}
}

// Judging and display highlighting must agree: both read the same resolved
// value off the payload.
func TestTrueFalse_JudgeAndDisplayShareResolver(t *testing.T) {
	raw := json.RawMessage(`{"correct_answer": "false", "is_true": true}`)
	payload := Normalize(shared.ActivityTypeQuizTrueFalse, raw).(TrueFalse)

	displayed, ok := payload.CorrectAnswer()
	require.True(t, ok)
	assert.False(t, displayed)

	truthy := true
	falsy := false
	assert.False(t, payload.Judge(Response{Selection: &truthy}))
	assert.True(t, payload.Judge(Response{Selection: &falsy}))
}

func TestNormalize_UnknownType(t *testing.T) {
	payload := Normalize("essay", json.RawMessage(`{"anything": 1}`))
	assert.False(t, payload.Judge(Response{OptionID: "a"}))
}
