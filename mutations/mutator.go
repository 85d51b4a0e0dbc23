// ABOUTME: Request-then-invalidate wrappers around every backend write
// ABOUTME: Cached reads are dropped by entity-type prefix only after the server confirms
package mutations

import (
	"context"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/harperreed/rolodex/api"
	"github.com/harperreed/rolodex/cache"
	"github.com/harperreed/rolodex/logging"
	"github.com/harperreed/rolodex/models"
)

// Prefixes invalidated after each kind of write. Tag counts and reminder counts
// are derived server-side, so writes elsewhere reach into those lists too.
var (
	contactWrite = []string{cache.PrefixContactsList, cache.PrefixContactDetail, cache.PrefixSearch}

	// Interactions and reminders embed the contact's name.
	contactUpdate = []string{
		cache.PrefixContactsList,
		cache.PrefixContactDetail,
		cache.PrefixSearch,
		cache.PrefixInteractionsList,
		cache.PrefixRemindersList,
	}

	contactDelete = []string{
		cache.PrefixContactsList,
		cache.PrefixContactDetail,
		cache.PrefixSearch,
		cache.PrefixInteractionsList,
		cache.PrefixRemindersList,
		cache.PrefixNotesList,
		cache.PrefixTagsList,
	}

	contactTagWrite = []string{cache.PrefixContactDetail, cache.PrefixContactsList, cache.PrefixTagsList}

	interactionWrite = []string{cache.PrefixInteractionsList, cache.PrefixContactDetail, cache.PrefixSearch}

	reminderWrite = []string{cache.PrefixRemindersList, cache.PrefixContactDetail, cache.PrefixContactsList, cache.PrefixSearch}

	noteWrite = []string{cache.PrefixNotesList, cache.PrefixContactDetail, cache.PrefixSearch}

	tagWrite = []string{cache.PrefixTagsList, cache.PrefixContactsList, cache.PrefixContactDetail}
)

// Mutator issues writes and invalidates the cache on success. It never edits
// cached data locally and never retries.
type Mutator struct {
	client  *api.Client
	cache   cache.Store
	log     *log.Logger
	pending atomic.Int64
}

func New(client *api.Client, store cache.Store, logger *log.Logger) *Mutator {
	return &Mutator{
		client: client,
		cache:  store,
		log:    logging.OrDiscard(logger),
	}
}

// Pending reports how many writes are in flight.
func (m *Mutator) Pending() int {
	return int(m.pending.Load())
}

func run[T any](m *Mutator, op string, prefixes []string, write func() (T, error)) (T, error) {
	m.pending.Add(1)
	defer m.pending.Add(-1)

	out, err := write()
	if err != nil {
		m.log.Debug("write failed", "op", op, "err", err)
		return out, err
	}
	m.invalidate(op, prefixes)
	return out, nil
}

func runErr(m *Mutator, op string, prefixes []string, write func() error) error {
	_, err := run(m, op, prefixes, func() (struct{}, error) {
		return struct{}{}, write()
	})
	return err
}

// invalidate drops the prefixes. Failures are logged, not returned; stale
// entries still expire after the cache TTL.
func (m *Mutator) invalidate(op string, prefixes []string) {
	if m.cache == nil {
		return
	}
	for _, p := range prefixes {
		if err := m.cache.Invalidate(p); err != nil {
			m.log.Warn("cache invalidation failed", "op", op, "prefix", p, "err", err)
		}
	}
}

// Contacts

func (m *Mutator) CreateContact(ctx context.Context, in models.ContactInput) (*models.Contact, error) {
	return run(m, "create contact", contactWrite, func() (*models.Contact, error) {
		return m.client.CreateContact(ctx, in)
	})
}

func (m *Mutator) UpdateContact(ctx context.Context, id string, in models.ContactInput) (*models.Contact, error) {
	return run(m, "update contact", contactUpdate, func() (*models.Contact, error) {
		return m.client.UpdateContact(ctx, id, in)
	})
}

// DeleteContact also drops every list the contact's children appeared in.
func (m *Mutator) DeleteContact(ctx context.Context, id string) error {
	return runErr(m, "delete contact", contactDelete, func() error {
		return m.client.DeleteContact(ctx, id)
	})
}

func (m *Mutator) AddContactTag(ctx context.Context, contactID, tagID string) (models.TagList, error) {
	return run(m, "add contact tag", contactTagWrite, func() (models.TagList, error) {
		return m.client.AddContactTag(ctx, contactID, tagID)
	})
}

func (m *Mutator) RemoveContactTag(ctx context.Context, contactID, tagID string) (models.TagList, error) {
	return run(m, "remove contact tag", contactTagWrite, func() (models.TagList, error) {
		return m.client.RemoveContactTag(ctx, contactID, tagID)
	})
}

// Interactions

func (m *Mutator) CreateInteraction(ctx context.Context, in models.InteractionInput) (*models.Interaction, error) {
	return run(m, "create interaction", interactionWrite, func() (*models.Interaction, error) {
		return m.client.CreateInteraction(ctx, in)
	})
}

func (m *Mutator) UpdateInteraction(ctx context.Context, id string, in models.InteractionInput) (*models.Interaction, error) {
	return run(m, "update interaction", interactionWrite, func() (*models.Interaction, error) {
		return m.client.UpdateInteraction(ctx, id, in)
	})
}

func (m *Mutator) DeleteInteraction(ctx context.Context, id string) error {
	return runErr(m, "delete interaction", interactionWrite, func() error {
		return m.client.DeleteInteraction(ctx, id)
	})
}

// Reminders

func (m *Mutator) CreateReminder(ctx context.Context, in models.ReminderInput) (*models.Reminder, error) {
	return run(m, "create reminder", reminderWrite, func() (*models.Reminder, error) {
		return m.client.CreateReminder(ctx, in)
	})
}

func (m *Mutator) UpdateReminder(ctx context.Context, id string, in models.ReminderInput) (*models.Reminder, error) {
	return run(m, "update reminder", reminderWrite, func() (*models.Reminder, error) {
		return m.client.UpdateReminder(ctx, id, in)
	})
}

// SetReminderCompleted toggles completion.
func (m *Mutator) SetReminderCompleted(ctx context.Context, id string, completed bool) (*models.Reminder, error) {
	return run(m, "complete reminder", reminderWrite, func() (*models.Reminder, error) {
		return m.client.SetReminderCompleted(ctx, id, completed)
	})
}

func (m *Mutator) DeleteReminder(ctx context.Context, id string) error {
	return runErr(m, "delete reminder", reminderWrite, func() error {
		return m.client.DeleteReminder(ctx, id)
	})
}

// Notes

func (m *Mutator) CreateNote(ctx context.Context, in models.NoteInput) (*models.Note, error) {
	return run(m, "create note", noteWrite, func() (*models.Note, error) {
		return m.client.CreateNote(ctx, in)
	})
}

func (m *Mutator) UpdateNote(ctx context.Context, id string, in models.NoteInput) (*models.Note, error) {
	return run(m, "update note", noteWrite, func() (*models.Note, error) {
		return m.client.UpdateNote(ctx, id, in)
	})
}

// SetNotePinned toggles the pin.
func (m *Mutator) SetNotePinned(ctx context.Context, id string, pinned bool) (*models.Note, error) {
	return run(m, "pin note", noteWrite, func() (*models.Note, error) {
		return m.client.SetNotePinned(ctx, id, pinned)
	})
}

func (m *Mutator) DeleteNote(ctx context.Context, id string) error {
	return runErr(m, "delete note", noteWrite, func() error {
		return m.client.DeleteNote(ctx, id)
	})
}

// Tags

func (m *Mutator) CreateTag(ctx context.Context, in models.TagInput) (*models.Tag, error) {
	return run(m, "create tag", tagWrite, func() (*models.Tag, error) {
		return m.client.CreateTag(ctx, in)
	})
}

func (m *Mutator) UpdateTag(ctx context.Context, id string, in models.TagInput) (*models.Tag, error) {
	return run(m, "update tag", tagWrite, func() (*models.Tag, error) {
		return m.client.UpdateTag(ctx, id, in)
	})
}

func (m *Mutator) DeleteTag(ctx context.Context, id string) error {
	return runErr(m, "delete tag", tagWrite, func() error {
		return m.client.DeleteTag(ctx, id)
	})
}
