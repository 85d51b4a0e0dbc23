// ABOUTME: Tests for the location-string codec
// ABOUTME: Covers round trips over reachable states, defaults, and bad input correction
package query

import (
	"math/rand"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCompanyOnly(t *testing.T) {
	s := New(EntityContacts).WithCompany("Acme")

	assert.Equal(t, url.Values{"company": {"Acme"}}, Encode(s))
}

func TestEncodeDefaultStateIsEmpty(t *testing.T) {
	for _, e := range []Entity{EntityContacts, EntityInteractions, EntityReminders} {
		assert.Empty(t, Encode(New(e)), "default %s state should encode to nothing", e)
		assert.Equal(t, "", Location(New(e)))
	}
}

func TestEncodeOmitsDefaultSortParts(t *testing.T) {
	s := New(EntityContacts).WithSort(SortName, Desc)
	assert.Equal(t, url.Values{"sortOrder": {"desc"}}, Encode(s))

	s = New(EntityContacts).WithSort(SortEmail, Asc)
	assert.Equal(t, url.Values{"sortBy": {"email"}}, Encode(s))

	s = New(EntityReminders).WithSort(SortDueDate, Asc)
	assert.Empty(t, Encode(s))

	s = New(EntityInteractions).WithSort(SortDate, Asc)
	assert.Equal(t, url.Values{"sortOrder": {"asc"}}, Encode(s))
}

func TestDecodeSplitsTagsAndDropsEmptySegments(t *testing.T) {
	s := Decode(EntityContacts, url.Values{"tags": {"a,b,,c"}})

	assert.Equal(t, []string{"a", "b", "c"}, s.Filters.Tags)
}

func TestDecodeDropsDuplicateTags(t *testing.T) {
	s := Decode(EntityContacts, url.Values{"tags": {"a, b,a,"}})

	assert.Equal(t, []string{"a", "b"}, s.Filters.Tags)
}

func TestDecodeCorrectsInvalidEnumerations(t *testing.T) {
	s := Decode(EntityContacts, url.Values{
		"sortBy":    {"favoriteColor"},
		"sortOrder": {"sideways"},
		"type":      {"telepathy"},
		"status":    {"maybe"},
	})

	assert.Equal(t, DefaultSort(EntityContacts), s.Sort)
	assert.Empty(t, s.Filters.Type)
	assert.Equal(t, StatusAll, s.Filters.Status)

	// dueDate is a reminder field, not a contact one
	s = Decode(EntityContacts, url.Values{"sortBy": {"dueDate"}})
	assert.Equal(t, SortName, s.Sort.Field)
}

func TestDecodeAcceptsUppercaseOrder(t *testing.T) {
	s := Decode(EntityContacts, url.Values{"sortOrder": {"DESC"}})
	assert.Equal(t, Desc, s.Sort.Order)
}

func TestDecodeDropsMalformedNumbersAndDates(t *testing.T) {
	s := Decode(EntityContacts, url.Values{
		"page":         {"-3"},
		"pageSize":     {"lots"},
		"createdAfter": {"last tuesday"},
	})

	assert.Zero(t, s.Page)
	assert.Zero(t, s.PageSize)
	assert.True(t, s.Filters.CreatedAfter.IsZero())
}

func TestDecodeAcceptsTimestampDates(t *testing.T) {
	s := Decode(EntityContacts, url.Values{"createdAfter": {"2026-02-03T15:04:05Z"}})

	assert.Equal(t, time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC), s.Filters.CreatedAfter)
}

func TestDecodeReminderFlagsAreExclusive(t *testing.T) {
	s := Decode(EntityContacts, url.Values{
		"hasReminders":        {"true"},
		"hasOverdueReminders": {"true"},
	})

	assert.False(t, s.Filters.HasReminders)
	assert.True(t, s.Filters.HasOverdueReminders)
}

func TestDecodeIgnoresFalseFlags(t *testing.T) {
	s := Decode(EntityContacts, url.Values{"hasReminders": {"false"}})
	assert.False(t, s.Filters.HasReminders)
}

func TestParseLocationForms(t *testing.T) {
	want := New(EntityContacts).WithCompany("Acme").WithSort(SortEmail, Desc)

	for _, loc := range []string{
		"company=Acme&sortBy=email&sortOrder=desc",
		"?company=Acme&sortBy=email&sortOrder=desc",
		"https://crm.example.com/contacts?company=Acme&sortBy=email&sortOrder=desc",
	} {
		got := ParseLocation(EntityContacts, loc)
		assert.True(t, want.Equal(got), "location %q decoded to %+v", loc, got)
	}

	assert.True(t, New(EntityContacts).Equal(ParseLocation(EntityContacts, "%zz")))
}

func TestLocationRoundTrip(t *testing.T) {
	s := New(EntityContacts).
		WithTags("t1", "t2").
		WithCompany("Acme & Sons").
		WithSort(SortCreatedAt, Desc)

	loc := Location(s)
	require.NotEmpty(t, loc)
	assert.True(t, s.Equal(ParseLocation(EntityContacts, loc)))
}

func TestEncodeNeverWritesEmptyValues(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		s := randomReachableState(rng)
		for key, values := range Encode(s) {
			require.Len(t, values, 1, "key %s", key)
			assert.NotEmpty(t, values[0], "key %s encoded empty for %+v", key, s)
		}
	}
}

func TestRoundTripOverReachableStates(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		s := randomReachableState(rng)
		got := Decode(s.Entity, Encode(s))
		if !s.Equal(got) {
			t.Fatalf("round trip mismatch\n in: %+v\nout: %+v\nurl: %s", s, got, Location(s))
		}
	}
}

// randomReachableState applies a random sequence of UI actions to a default state.
func randomReachableState(rng *rand.Rand) State {
	entities := []Entity{EntityContacts, EntityInteractions, EntityReminders}
	e := entities[rng.Intn(len(entities))]
	s := New(e)

	tags := []string{"t1", "t2", "t3", "vip"}
	companies := []string{"", "Acme", "Initech", "Globex, Inc."}
	searches := []string{"", " ", "a", "ab", "ada lovelace"}
	types := []string{"", "call", "meeting", "email"}
	statuses := []Status{StatusAll, StatusPending, StatusCompleted}
	day := func() time.Time {
		if rng.Intn(3) == 0 {
			return time.Time{}
		}
		return time.Date(2025+rng.Intn(2), time.Month(1+rng.Intn(12)), 1+rng.Intn(28), 0, 0, 0, 0, time.UTC)
	}

	for step := rng.Intn(8); step >= 0; step-- {
		switch rng.Intn(11) {
		case 0:
			s = s.ToggleTag(tags[rng.Intn(len(tags))])
		case 1:
			s = s.WithCompany(companies[rng.Intn(len(companies))])
		case 2:
			s = s.WithCreatedRange(day(), day())
		case 3:
			s = s.WithHasReminders(rng.Intn(2) == 0)
		case 4:
			s = s.WithHasOverdueReminders(rng.Intn(2) == 0)
		case 5:
			fields := SortFields(e)
			order := Asc
			if rng.Intn(2) == 0 {
				order = Desc
			}
			s = s.WithSort(fields[rng.Intn(len(fields))], order)
		case 6:
			s = s.WithSearch(searches[rng.Intn(len(searches))])
		case 7:
			s = s.WithPage(rng.Intn(4), []int{0, 10, 25}[rng.Intn(3)])
		case 8:
			s = s.WithType(types[rng.Intn(len(types))])
		case 9:
			s = s.WithStatus(statuses[rng.Intn(len(statuses))])
		case 10:
			s = s.WithDateRange(day(), day()).WithContact([]string{"", "c1"}[rng.Intn(2)])
		}
	}
	return s
}
