// ABOUTME: Tests for the fake backend's filtering, pagination, and shapes
// ABOUTME: Talks to it over HTTP the same way the client does
package crmtest

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/rolodex/models"
)

type rawEnvelope struct {
	Success    bool               `json:"success"`
	Data       json.RawMessage    `json:"data"`
	Pagination *models.Pagination `json:"pagination"`
	Error      *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func fetch(t *testing.T, method, url string, body string) (int, rawEnvelope) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env rawEnvelope
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp.StatusCode, env
}

func TestListContactsFiltersAndPaginates(t *testing.T) {
	s, ts := Start(t)
	vip := s.AddTag(models.Tag{Name: "vip"})
	s.AddContact(models.Contact{Name: "Ada", Company: "Acme", Tags: models.TagList{vip}})
	s.AddContact(models.Contact{Name: "Bob", Company: "Acme"})
	s.AddContact(models.Contact{Name: "Cy", Company: "Initech"})

	status, env := fetch(t, http.MethodGet, ts.URL+"/api/contacts?company=Acme&sortBy=name&sortOrder=desc", "")
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, env.Pagination)

	var contacts []struct {
		Name string           `json:"name"`
		Tags []models.TagLink `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &contacts))
	require.Len(t, contacts, 2)
	assert.Equal(t, "Bob", contacts[0].Name)
	assert.Equal(t, "Ada", contacts[1].Name)
	require.Len(t, contacts[1].Tags, 1)
	assert.Equal(t, "vip", contacts[1].Tags[0].Tag.Name)

	_, env = fetch(t, http.MethodGet, ts.URL+"/api/contacts?page=2&limit=2", "")
	require.NotNil(t, env.Pagination)
	assert.Equal(t, models.Pagination{Page: 2, Limit: 2, Total: 3, TotalPages: 2, HasMore: false}, *env.Pagination)
}

func TestContactReminderFilters(t *testing.T) {
	s, ts := Start(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	s.SetNow(func() time.Time { return now })

	ada := s.AddContact(models.Contact{Name: "Ada"})
	bob := s.AddContact(models.Contact{Name: "Bob"})
	s.AddContact(models.Contact{Name: "Cy"})
	s.AddReminder(models.Reminder{ContactID: ada.ID, Title: "call", DueDate: now.AddDate(0, 0, -1)})
	s.AddReminder(models.Reminder{ContactID: bob.ID, Title: "write", DueDate: now.AddDate(0, 0, 2)})

	names := func(query string) []string {
		_, env := fetch(t, http.MethodGet, ts.URL+"/api/contacts?"+query, "")
		var cs []models.Contact
		require.NoError(t, json.Unmarshal(env.Data, &cs))
		var out []string
		for _, c := range cs {
			out = append(out, c.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Ada", "Bob"}, names("hasReminders=true"))
	assert.Equal(t, []string{"Ada"}, names("hasOverdueReminders=true"))
}

func TestCreateValidatesAndReportsNotFound(t *testing.T) {
	_, ts := Start(t)

	status, env := fetch(t, http.MethodPost, ts.URL+"/api/contacts", `{"name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	status, env = fetch(t, http.MethodGet, ts.URL+"/api/contacts/missing", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestDeleteContactCascades(t *testing.T) {
	s, ts := Start(t)
	ada := s.AddContact(models.Contact{Name: "Ada"})
	s.AddInteraction(models.Interaction{ContactID: ada.ID, Type: "call", Date: time.Now()})
	s.AddReminder(models.Reminder{ContactID: ada.ID, Title: "x", DueDate: time.Now()})
	s.AddNote(models.Note{ContactID: ada.ID, Content: "hi"})

	status, _ := fetch(t, http.MethodDelete, ts.URL+"/api/contacts/"+ada.ID, "")
	assert.Equal(t, http.StatusNoContent, status)

	contacts, interactions, reminders, notes, _ := s.Counts()
	assert.Zero(t, contacts+interactions+reminders+notes)
}

func TestNotesListPinnedFirst(t *testing.T) {
	s, ts := Start(t)
	ada := s.AddContact(models.Contact{Name: "Ada"})
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.AddNote(models.Note{ContactID: ada.ID, Content: "old", CreatedAt: base})
	s.AddNote(models.Note{ContactID: ada.ID, Content: "new", CreatedAt: base.Add(time.Hour)})
	s.AddNote(models.Note{ContactID: ada.ID, Content: "pinned", Pinned: true, CreatedAt: base.Add(-time.Hour)})

	_, env := fetch(t, http.MethodGet, ts.URL+"/api/notes?contactId="+ada.ID, "")
	var notes []models.Note
	require.NoError(t, json.Unmarshal(env.Data, &notes))
	require.Len(t, notes, 3)
	assert.Equal(t, []string{"pinned", "new", "old"}, []string{notes[0].Content, notes[1].Content, notes[2].Content})
}

func TestSearchRanksNameMatchesFirst(t *testing.T) {
	s, ts := Start(t)
	ada := s.AddContact(models.Contact{Name: "Ada", Email: "ada@example.com"})
	s.AddContact(models.Contact{Name: "Bob", Company: "Adacorp"})
	s.AddNote(models.Note{ContactID: ada.ID, Content: "met ada at the conf"})

	_, env := fetch(t, http.MethodGet, ts.URL+"/api/search?q=ada&limit=10", "")
	var resp models.SearchResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))

	require.Equal(t, 3, resp.TotalResults)
	assert.Equal(t, "Ada", resp.Results[0].Title)
	assert.Equal(t, models.SearchEntityContact, resp.Results[1].EntityType)
	assert.Equal(t, models.SearchEntityNote, resp.Results[2].EntityType)
	assert.Equal(t, "Ada", resp.Results[2].ContactName)
}

func TestFaultInjectionIsOneShot(t *testing.T) {
	s, ts := Start(t)
	s.FailNext(http.MethodGet, "/api/tags", http.StatusInternalServerError, "BOOM", "exploded")

	status, env := fetch(t, http.MethodGet, ts.URL+"/api/tags", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "BOOM", env.Error.Code)

	status, _ = fetch(t, http.MethodGet, ts.URL+"/api/tags", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, s.RequestsTo(http.MethodGet, "/api/tags"), 2)
}
