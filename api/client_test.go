// ABOUTME: Tests for the REST client against the in-memory fake backend
// ABOUTME: Covers the envelope contract, error taxonomy, and tag normalization
package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/rolodex/crmtest"
	"github.com/harperreed/rolodex/models"
)

func newTestClient(t *testing.T) (*crmtest.Server, *Client) {
	t.Helper()
	s, ts := crmtest.Start(t)
	return s, NewClient(ts.URL+"/", WithTimeout(2*time.Second))
}

func TestListContactsNormalizesJoinRecordTags(t *testing.T) {
	s, c := newTestClient(t)
	vip := s.AddTag(models.Tag{ID: "t1", Name: "vip", Color: "#ff0000"})
	s.AddContact(models.Contact{Name: "Ada", Tags: models.TagList{vip}})

	page, err := c.ListContacts(context.Background(), url.Values{"sortBy": {"name"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.False(t, page.Paginated())
	assert.Equal(t, models.TagList{{ID: "t1", Name: "vip", Color: "#ff0000"}}, page.Items[0].Tags)
}

func TestGetContactReturnsFlatTags(t *testing.T) {
	s, c := newTestClient(t)
	vip := s.AddTag(models.Tag{ID: "t1", Name: "vip"})
	ada := s.AddContact(models.Contact{Name: "Ada", Tags: models.TagList{vip}})

	got, err := c.GetContact(context.Background(), ada.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, []string{"t1"}, got.Tags.IDs())
}

func TestAddContactTagNormalizesResponse(t *testing.T) {
	s, c := newTestClient(t)
	s.AddTag(models.Tag{ID: "t1", Name: "vip"})
	ada := s.AddContact(models.Contact{Name: "Ada"})

	tags, err := c.AddContactTag(context.Background(), ada.ID, "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, tags.IDs())

	tags, err = c.RemoveContactTag(context.Background(), ada.ID, "t1")
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestPaginatedListCarriesMetadata(t *testing.T) {
	s, c := newTestClient(t)
	for _, name := range []string{"Ada", "Bob", "Cy"} {
		s.AddContact(models.Contact{Name: name})
	}

	page, err := c.ListContacts(context.Background(), url.Values{"page": {"1"}, "limit": {"2"}})
	require.NoError(t, err)
	require.True(t, page.Paginated())
	assert.Len(t, page.Items, 2)
	assert.True(t, page.HasMore())
	assert.Equal(t, 3, page.Pagination.Total)
}

func TestServerFailureEnvelope(t *testing.T) {
	s, c := newTestClient(t)
	s.FailNext(http.MethodGet, "/api/tags", http.StatusConflict, "TAG_LOCKED", "tag is locked")

	_, err := c.ListTags(context.Background())
	require.Error(t, err)

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "TAG_LOCKED", apiErr.Code)
	assert.Equal(t, "tag is locked", apiErr.Message)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.True(t, IsServerError(err))
	assert.False(t, IsNetworkError(err))
}

func TestNotFound(t *testing.T) {
	_, c := newTestClient(t)

	_, err := c.GetContact(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestServerValidationError(t *testing.T) {
	s, c := newTestClient(t)
	s.AddTag(models.Tag{Name: "vip"})

	_, err := c.CreateTag(context.Background(), models.TagInput{Name: "VIP"})
	require.Error(t, err)
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, models.CodeValidation, apiErr.Code)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestDroppedConnectionIsNetworkError(t *testing.T) {
	s, c := newTestClient(t)
	s.DropNext(http.MethodGet, "/api/tags")

	_, err := c.ListTags(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
	assert.False(t, IsServerError(err))
}

func TestTimeoutIsNetworkError(t *testing.T) {
	s, ts := crmtest.Start(t)
	s.SetDelay(500 * time.Millisecond)
	c := NewClient(ts.URL, WithTimeout(50*time.Millisecond))

	_, err := c.ListTags(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
}

func TestNonEnvelopeResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>proxy error</html>"))
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL).ListTags(context.Background())
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidResponse, apiErr.Code)
}

func TestFailedStatusWithoutEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL).ListTags(context.Background())
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeServer, apiErr.Code)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestValidationBlocksRequest(t *testing.T) {
	s, c := newTestClient(t)

	_, err := c.CreateContact(context.Background(), models.ContactInput{Email: "ada@example.com"})
	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))

	_, err = c.CreateTag(context.Background(), models.TagInput{Name: "vip", Color: "red"})
	assert.True(t, models.IsValidationError(err))

	assert.Empty(t, s.Requests())
}

func TestRequestIDHeaderIsSent(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(RequestIDHeader)
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL).ListTags(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 26)
}

func TestWritesRoundTrip(t *testing.T) {
	s, c := newTestClient(t)
	ctx := context.Background()

	ada, err := c.CreateContact(ctx, models.ContactInput{Name: "Ada", Company: "Acme"})
	require.NoError(t, err)

	rem, err := c.CreateReminder(ctx, models.ReminderInput{ContactID: ada.ID, Title: "follow up", DueDate: time.Now()})
	require.NoError(t, err)
	assert.False(t, rem.Completed)

	rem, err = c.SetReminderCompleted(ctx, rem.ID, true)
	require.NoError(t, err)
	assert.True(t, rem.Completed)
	assert.NotNil(t, rem.CompletedAt)

	note, err := c.CreateNote(ctx, models.NoteInput{ContactID: ada.ID, Content: "likes tea"})
	require.NoError(t, err)
	note, err = c.SetNotePinned(ctx, note.ID, true)
	require.NoError(t, err)
	assert.True(t, note.Pinned)

	dur := 30
	in, err := c.CreateInteraction(ctx, models.InteractionInput{ContactID: ada.ID, Type: "call", Date: time.Now(), Duration: &dur})
	require.NoError(t, err)
	require.NotNil(t, in.Contact)
	assert.Equal(t, "Ada", in.Contact.Name)

	require.NoError(t, c.DeleteContact(ctx, ada.ID))
	contacts, interactions, reminders, notes, _ := s.Counts()
	assert.Zero(t, contacts+interactions+reminders+notes)
}

func TestSearchEmptyResults(t *testing.T) {
	_, c := newTestClient(t)

	resp, err := c.Search(context.Background(), "zz", 10)
	require.NoError(t, err)
	assert.NotNil(t, resp.Results)
	assert.Zero(t, resp.TotalResults)
}
