// ABOUTME: Query cache service shared by the executor and the mutation layer
// ABOUTME: Keys are grouped by entity-type prefix so writes can invalidate whole views
package cache

import "strings"

// Store caches successful read results. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the cached bytes for key, or false when missing or stale.
	Get(key string) ([]byte, bool)
	// Set stores value under key.
	Set(key string, value []byte) error
	// Invalidate drops every key starting with prefix.
	Invalidate(prefix string) error
	Close() error
}

// Cache key prefixes. List keys are produced by query.CacheKey; detail keys by DetailKey.
const (
	PrefixContactsList     = "contacts-list"
	PrefixContactDetail    = "contact-detail"
	PrefixInteractionsList = "interactions-list"
	PrefixRemindersList    = "reminders-list"
	PrefixNotesList        = "notes-list"
	PrefixTagsList         = "tags-list"
	PrefixSearch           = "search"
)

// DetailKey builds the key for a single-entity read, e.g. "contact-detail/c1".
func DetailKey(prefix, id string) string {
	return prefix + "/" + id
}

// ListKey builds the key for an unfiltered or lightly filtered list, e.g.
// "notes-list?contactId=c1".
func ListKey(prefix, rawQuery string) string {
	if rawQuery == "" {
		return prefix
	}
	return prefix + "?" + rawQuery
}

// HasPrefix reports whether key falls under prefix. A prefix matches only at a
// separator boundary so "contact-detail" never matches "contact-details/…".
func HasPrefix(key, prefix string) bool {
	if !strings.HasPrefix(key, prefix) {
		return false
	}
	if len(key) == len(prefix) {
		return true
	}
	switch key[len(prefix)] {
	case '/', '?':
		return true
	}
	return false
}
