// ABOUTME: Query executor turning a query state into exactly one backend request
// ABOUTME: Chooses search or structured mode, normalizes the result, and consults the cache
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/harperreed/rolodex/cache"
	"github.com/harperreed/rolodex/logging"
	"github.com/harperreed/rolodex/models"
	"github.com/harperreed/rolodex/query"
)

// Mode records which kind of request produced a result.
type Mode string

const (
	ModeStructured Mode = "structured"
	ModeSearch     Mode = "search"
)

// Result is what a collection view renders. In structured mode Page holds the
// entities; in search mode Search holds the hits for the view's entity type.
type Result[T any] struct {
	Mode   Mode                   `json:"mode"`
	Page   Page[T]                `json:"page"`
	Search *models.SearchResponse `json:"search,omitempty"`

	// FiltersIgnored is set when search mode skipped structured filters that
	// were present in the state.
	FiltersIgnored bool `json:"filtersIgnored,omitempty"`

	// Cached is set when the result came from the cache.
	Cached bool `json:"-"`
}

// Executor runs reads. The cache is optional; failures are never cached.
type Executor struct {
	client *Client
	cache  cache.Store
	log    *log.Logger
}

func NewExecutor(client *Client, store cache.Store, logger *log.Logger) *Executor {
	return &Executor{
		client: client,
		cache:  store,
		log:    logging.OrDiscard(logger),
	}
}

// Contacts runs a contacts view.
func (e *Executor) Contacts(ctx context.Context, s query.State) (*Result[models.Contact], error) {
	if err := expectEntity(s, query.EntityContacts); err != nil {
		return nil, err
	}
	return execute(ctx, e, s, models.SearchEntityContact, e.client.ListContacts)
}

// Interactions runs an interaction timeline view.
func (e *Executor) Interactions(ctx context.Context, s query.State) (*Result[models.Interaction], error) {
	if err := expectEntity(s, query.EntityInteractions); err != nil {
		return nil, err
	}
	return execute(ctx, e, s, models.SearchEntityInteraction, e.client.ListInteractions)
}

// Reminders runs a reminders view.
func (e *Executor) Reminders(ctx context.Context, s query.State) (*Result[models.Reminder], error) {
	if err := expectEntity(s, query.EntityReminders); err != nil {
		return nil, err
	}
	return execute(ctx, e, s, models.SearchEntityReminder, e.client.ListReminders)
}

// Contact reads one contact, cached under its detail key.
func (e *Executor) Contact(ctx context.Context, id string) (*models.Contact, error) {
	return cached(e, cache.DetailKey(cache.PrefixContactDetail, id), func() (*models.Contact, error) {
		return e.client.GetContact(ctx, id)
	})
}

// Tags reads every tag with its contact count.
func (e *Executor) Tags(ctx context.Context) ([]models.Tag, error) {
	return cached(e, cache.PrefixTagsList, func() ([]models.Tag, error) {
		return e.client.ListTags(ctx)
	})
}

// Notes reads a contact's notes.
func (e *Executor) Notes(ctx context.Context, contactID string) ([]models.Note, error) {
	key := cache.ListKey(cache.PrefixNotesList, "contactId="+contactID)
	return cached(e, key, func() ([]models.Note, error) {
		return e.client.ListNotes(ctx, contactID)
	})
}

// Search runs a search across every entity type. Text below the minimum
// length yields an empty response without a request.
func (e *Executor) Search(ctx context.Context, text string, limit int) (*models.SearchResponse, error) {
	s := query.New(query.EntityContacts).WithSearch(text)
	if !s.SearchActive() {
		return &models.SearchResponse{Query: strings.TrimSpace(text), Results: []models.SearchResult{}}, nil
	}
	if limit <= 0 {
		limit = query.DefaultSearchLimit
	}
	params := url.Values{}
	params.Set(query.KeySearch, s.SearchTerm())
	params.Set(query.ParamLimit, strconv.Itoa(limit))

	key := query.SearchKeyPrefix + "/all?" + params.Encode()
	return cached(e, key, func() (*models.SearchResponse, error) {
		return searchWith(ctx, e.client, params)
	})
}

func expectEntity(s query.State, want query.Entity) error {
	if s.Entity != want {
		return fmt.Errorf("query state is for %q, not %q", s.Entity, want)
	}
	return nil
}

func execute[T any](ctx context.Context, e *Executor, s query.State, searchType string, list func(context.Context, url.Values) (Page[T], error)) (*Result[T], error) {
	return cached(e, query.CacheKey(s), func() (*Result[T], error) {
		if params, ok := query.SearchParams(s); ok {
			resp, err := searchWith(ctx, e.client, params)
			if err != nil {
				return nil, err
			}
			return &Result[T]{
				Mode:           ModeSearch,
				Page:           listPage[T](nil, nil),
				Search:         onlyEntity(resp, searchType),
				FiltersIgnored: !s.Filters.IsZero(),
			}, nil
		}

		page, err := list(ctx, query.Params(s))
		if err != nil {
			return nil, err
		}
		// A bare list is the contract for unpaginated requests even if the
		// server volunteers metadata.
		if !s.Paginated() {
			page.Pagination = nil
		}
		return &Result[T]{Mode: ModeStructured, Page: page}, nil
	})
}

// onlyEntity keeps the search hits for one entity type.
func onlyEntity(resp *models.SearchResponse, entityType string) *models.SearchResponse {
	out := &models.SearchResponse{Query: resp.Query, Results: []models.SearchResult{}}
	for _, r := range resp.Results {
		if r.EntityType == entityType {
			out.Results = append(out.Results, r)
		}
	}
	out.TotalResults = len(out.Results)
	return out
}

type cacheMarker interface {
	markCached()
}

func (r *Result[T]) markCached() {
	r.Cached = true
}

// cached serves key from the cache, or runs fetch and stores its result.
// Errors are returned as-is and never stored.
func cached[T any](e *Executor, key string, fetch func() (T, error)) (T, error) {
	if e.cache != nil {
		if raw, ok := e.cache.Get(key); ok {
			var hit T
			if err := json.Unmarshal(raw, &hit); err == nil {
				if m, ok := any(hit).(cacheMarker); ok {
					m.markCached()
				}
				e.log.Debug("cache hit", "key", key)
				return hit, nil
			}
			e.log.Warn("dropping unreadable cache entry", "key", key)
		}
	}

	out, err := fetch()
	if err != nil {
		return out, err
	}

	if e.cache != nil {
		raw, err := json.Marshal(out)
		if err == nil {
			err = e.cache.Set(key, raw)
		}
		if err != nil {
			e.log.Warn("failed to cache result", "key", key, "err", err)
		}
	}
	return out, nil
}
