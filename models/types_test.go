// ABOUTME: Tests for CRM data models
// ABOUTME: Validates tag normalization, JSON decoding, and input validation
package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactTagsFromJoinRecords(t *testing.T) {
	payload := `{
		"id": "c1",
		"name": "Ada Lovelace",
		"tags": [{"contactId": "c1", "tagId": "t1", "tag": {"id": "t1", "name": "VIP", "color": "#fff"}}],
		"createdAt": "2026-01-02T03:04:05Z",
		"updatedAt": "2026-01-02T03:04:05Z"
	}`

	var c Contact
	require.NoError(t, json.Unmarshal([]byte(payload), &c))

	assert.Equal(t, TagList{{ID: "t1", Name: "VIP", Color: "#fff"}}, c.Tags)
}

func TestContactTagsAlreadyFlat(t *testing.T) {
	payload := `{"id": "c1", "name": "Ada", "tags": [{"id": "t1", "name": "VIP", "color": "#fff"}, {"id": "t2", "name": "Friend"}]}`

	var c Contact
	require.NoError(t, json.Unmarshal([]byte(payload), &c))

	assert.Equal(t, TagList{{ID: "t1", Name: "VIP", Color: "#fff"}, {ID: "t2", Name: "Friend"}}, c.Tags)
}

func TestTagNormalizationIsIdempotent(t *testing.T) {
	joined := `[{"contactId": "c1", "tagId": "t1", "tag": {"id": "t1", "name": "VIP", "color": "#fff"}}]`

	first, err := FlattenTags([]byte(joined))
	require.NoError(t, err)

	encoded, err := json.Marshal(TagList(first))
	require.NoError(t, err)

	second, err := FlattenTags(encoded)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFlattenTagsEmptyAndNull(t *testing.T) {
	tags, err := FlattenTags([]byte("null"))
	require.NoError(t, err)
	assert.Nil(t, tags)

	tags, err = FlattenTags([]byte("[]"))
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestFlattenTagsFallsBackToJoinTagID(t *testing.T) {
	tags, err := FlattenTags([]byte(`[{"contactId": "c1", "tagId": "t9", "tag": {"name": "Work"}}]`))
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "t9", tags[0].ID)
}

func TestFlattenTagsRejectsGarbage(t *testing.T) {
	_, err := FlattenTags([]byte(`{"id": "t1"}`))
	assert.Error(t, err)

	_, err = FlattenTags([]byte(`["t1"]`))
	assert.Error(t, err)
}

func TestTagListHelpers(t *testing.T) {
	tags := TagList{{ID: "a"}, {ID: "b"}}
	assert.Equal(t, []string{"a", "b"}, tags.IDs())
	assert.True(t, tags.Has("b"))
	assert.False(t, tags.Has("c"))
}

func TestIsInteractionType(t *testing.T) {
	if !IsInteractionType(InteractionMeeting) {
		t.Errorf("expected %q to be a known interaction type", InteractionMeeting)
	}
	if IsInteractionType("carrier-pigeon") {
		t.Error("unexpected interaction type accepted")
	}
}

func TestContactInputValidate(t *testing.T) {
	assert.NoError(t, ContactInput{Name: "Ada"}.Validate())

	err := ContactInput{Name: "   "}.Validate()
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)
	assert.Equal(t, CodeValidation, ve.Code())

	err = ContactInput{Name: "Ada", Email: "not-an-email"}.Validate()
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)
}

func TestInteractionInputValidate(t *testing.T) {
	now := time.Now()
	negative := -5

	assert.NoError(t, InteractionInput{ContactID: "c1", Type: InteractionCall, Date: now}.Validate())
	assert.Error(t, InteractionInput{Type: InteractionCall, Date: now}.Validate())
	assert.Error(t, InteractionInput{ContactID: "c1", Type: "fax", Date: now}.Validate())
	assert.Error(t, InteractionInput{ContactID: "c1", Type: InteractionCall}.Validate())
	assert.Error(t, InteractionInput{ContactID: "c1", Type: InteractionCall, Date: now, Duration: &negative}.Validate())
}

func TestReminderNoteTagInputValidate(t *testing.T) {
	due := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	assert.NoError(t, ReminderInput{ContactID: "c1", Title: "Call back", DueDate: due}.Validate())
	assert.Error(t, ReminderInput{ContactID: "c1", DueDate: due}.Validate())
	assert.Error(t, ReminderInput{ContactID: "c1", Title: "Call back"}.Validate())

	assert.NoError(t, NoteInput{ContactID: "c1", Content: "likes tea"}.Validate())
	assert.Error(t, NoteInput{ContactID: "c1"}.Validate())

	assert.NoError(t, TagInput{Name: "VIP", Color: "#fff"}.Validate())
	assert.NoError(t, TagInput{Name: "VIP", Color: "#3b82f6"}.Validate())
	assert.Error(t, TagInput{Name: "VIP", Color: "blue"}.Validate())
	assert.Error(t, TagInput{}.Validate())
}
