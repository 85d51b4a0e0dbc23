// ABOUTME: Tests for the mutation layer's invalidation and failure behavior
// ABOUTME: Runs the executor, a badger cache, and the fake backend together
package mutations

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/rolodex/api"
	"github.com/harperreed/rolodex/cache"
	"github.com/harperreed/rolodex/crmtest"
	"github.com/harperreed/rolodex/logging"
	"github.com/harperreed/rolodex/models"
	"github.com/harperreed/rolodex/query"
)

type fixture struct {
	server *crmtest.Server
	exec   *api.Executor
	store  *cache.BadgerStore
	mut    *Mutator
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	s, ts := crmtest.Start(t)
	store, err := cache.OpenMemory(time.Minute, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	client := api.NewClient(ts.URL)
	return fixture{
		server: s,
		exec:   api.NewExecutor(client, store, nil),
		store:  store,
		mut:    New(client, store, nil),
	}
}

func (f fixture) cached(t *testing.T, key string) bool {
	t.Helper()
	_, ok := f.store.Get(key)
	return ok
}

// warm reads a contacts list, a reminders list, and the tag list into the cache.
func (f fixture) warm(t *testing.T) (contacts, reminders string) {
	t.Helper()
	ctx := context.Background()
	cs := query.New(query.EntityContacts)
	rs := query.New(query.EntityReminders)

	_, err := f.exec.Contacts(ctx, cs)
	require.NoError(t, err)
	_, err = f.exec.Reminders(ctx, rs)
	require.NoError(t, err)
	_, err = f.exec.Tags(ctx)
	require.NoError(t, err)

	contacts, reminders = query.CacheKey(cs), query.CacheKey(rs)
	require.True(t, f.cached(t, contacts))
	require.True(t, f.cached(t, reminders))
	return contacts, reminders
}

func TestCreateContactInvalidatesContactViewsOnly(t *testing.T) {
	f := newFixture(t)
	contacts, reminders := f.warm(t)

	_, err := f.mut.CreateContact(context.Background(), models.ContactInput{Name: "Ada"})
	require.NoError(t, err)

	assert.False(t, f.cached(t, contacts))
	assert.True(t, f.cached(t, reminders))
	assert.True(t, f.cached(t, cache.PrefixTagsList))

	res, err := f.exec.Contacts(context.Background(), query.New(query.EntityContacts))
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Len(t, res.Page.Items, 1)
}

func TestRenameContactInvalidatesEmbeddedNames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ada := f.server.AddContact(models.Contact{Name: "Ada"})
	f.server.AddInteraction(models.Interaction{ContactID: ada.ID, Type: "call", Date: time.Now(), Summary: "hello"})
	f.server.AddReminder(models.Reminder{ContactID: ada.ID, Title: "call back", DueDate: time.Now()})

	is := query.New(query.EntityInteractions)
	_, err := f.exec.Interactions(ctx, is)
	require.NoError(t, err)
	_, reminders := f.warm(t)
	interactions := query.CacheKey(is)
	require.True(t, f.cached(t, interactions))

	_, err = f.mut.UpdateContact(ctx, ada.ID, models.ContactInput{Name: "Grace"})
	require.NoError(t, err)

	assert.False(t, f.cached(t, interactions))
	assert.False(t, f.cached(t, reminders))
	assert.True(t, f.cached(t, cache.PrefixTagsList))

	res, err := f.exec.Interactions(ctx, is)
	require.NoError(t, err)
	require.Len(t, res.Page.Items, 1)
	require.NotNil(t, res.Page.Items[0].Contact)
	assert.Equal(t, "Grace", res.Page.Items[0].Contact.Name)

	rs, err := f.exec.Reminders(ctx, query.New(query.EntityReminders))
	require.NoError(t, err)
	require.Len(t, rs.Page.Items, 1)
	require.NotNil(t, rs.Page.Items[0].Contact)
	assert.Equal(t, "Grace", rs.Page.Items[0].Contact.Name)
}

func TestContactTagChangeInvalidatesTagCounts(t *testing.T) {
	f := newFixture(t)
	f.server.AddTag(models.Tag{ID: "t1", Name: "vip"})
	ada := f.server.AddContact(models.Contact{Name: "Ada"})
	contacts, reminders := f.warm(t)
	_, err := f.exec.Contact(context.Background(), ada.ID)
	require.NoError(t, err)

	tags, err := f.mut.AddContactTag(context.Background(), ada.ID, "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, tags.IDs())

	assert.False(t, f.cached(t, contacts))
	assert.False(t, f.cached(t, cache.PrefixTagsList))
	assert.False(t, f.cached(t, cache.DetailKey(cache.PrefixContactDetail, ada.ID)))
	assert.True(t, f.cached(t, reminders))

	refreshed, err := f.exec.Tags(context.Background())
	require.NoError(t, err)
	require.Len(t, refreshed, 1)
	assert.Equal(t, 1, refreshed[0].ContactCount)
}

func TestReminderToggleInvalidatesRemindersAndContacts(t *testing.T) {
	f := newFixture(t)
	ada := f.server.AddContact(models.Contact{Name: "Ada"})
	rem := f.server.AddReminder(models.Reminder{ContactID: ada.ID, Title: "call", DueDate: time.Now()})
	contacts, reminders := f.warm(t)

	got, err := f.mut.SetReminderCompleted(context.Background(), rem.ID, true)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	assert.False(t, f.cached(t, contacts))
	assert.False(t, f.cached(t, reminders))
	assert.True(t, f.cached(t, cache.PrefixTagsList))
}

func TestDeleteContactInvalidatesEverything(t *testing.T) {
	f := newFixture(t)
	ada := f.server.AddContact(models.Contact{Name: "Ada"})
	f.warm(t)
	_, err := f.exec.Notes(context.Background(), ada.ID)
	require.NoError(t, err)

	require.NoError(t, f.mut.DeleteContact(context.Background(), ada.ID))

	keys, err := f.store.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestFailedWriteLeavesCacheUntouched(t *testing.T) {
	f := newFixture(t)
	contacts, _ := f.warm(t)
	f.server.FailNext(http.MethodPost, "/api/contacts", http.StatusInternalServerError, "DB_DOWN", "database unavailable")

	_, err := f.mut.CreateContact(context.Background(), models.ContactInput{Name: "Ada"})
	require.Error(t, err)
	apiErr, ok := api.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "DB_DOWN", apiErr.Code)

	assert.True(t, f.cached(t, contacts))
	assert.Zero(t, f.mut.Pending())
}

func TestValidationFailureSendsNothing(t *testing.T) {
	f := newFixture(t)
	_, reminders := f.warm(t)
	f.server.ResetRequests()

	_, err := f.mut.CreateReminder(context.Background(), models.ReminderInput{ContactID: "c1"})
	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))
	assert.Empty(t, f.server.Requests())
	assert.True(t, f.cached(t, reminders))
}

func TestPendingCountsInFlightWrites(t *testing.T) {
	f := newFixture(t)
	f.server.SetDelay(200 * time.Millisecond)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = f.mut.CreateTag(context.Background(), models.TagInput{Name: "vip"})
	}()

	assert.Eventually(t, func() bool { return f.mut.Pending() == 1 }, time.Second, 5*time.Millisecond)
	wg.Wait()
	assert.Zero(t, f.mut.Pending())
}

type brokenStore struct {
	cache.Store
}

func (brokenStore) Invalidate(string) error {
	return errors.New("disk on fire")
}

func TestInvalidationFailureIsLoggedNotReturned(t *testing.T) {
	s, ts := crmtest.Start(t)
	var buf bytes.Buffer
	m := New(api.NewClient(ts.URL), brokenStore{}, logging.New("warn", &buf))

	_, err := m.CreateTag(context.Background(), models.TagInput{Name: "vip"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "cache invalidation failed")

	_, _, _, _, tags := s.Counts()
	assert.Equal(t, 1, tags)
}
