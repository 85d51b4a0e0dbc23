// ABOUTME: In-memory fake of the CRM REST backend for tests and local demos
// ABOUTME: Serves the envelope contract over chi with request recording and fault injection
package crmtest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/harperreed/rolodex/models"
)

// Request is one request the fake received.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

type fault struct {
	status  int
	code    string
	message string
	drop    bool
}

// Server holds CRM data in memory and serves it under /api. Contacts come back
// with join-record tags from list endpoints and flat tags from detail endpoints,
// matching the real backend's mixed shapes.
type Server struct {
	mu sync.Mutex

	contacts     []models.Contact
	contactTags  map[string][]string
	tags         []models.Tag
	interactions []models.Interaction
	reminders    []models.Reminder
	notes        []models.Note

	requests []Request
	faults   map[string]fault
	delay    time.Duration
	now      func() time.Time

	router chi.Router
}

func New() *Server {
	s := &Server{
		contactTags: make(map[string][]string),
		faults:      make(map[string]fault),
		now:         time.Now,
	}
	s.router = s.routes()
	return s
}

// Start serves s on a local httptest server closed when the test ends.
func Start(t testing.TB) (*Server, *httptest.Server) {
	t.Helper()
	s := New()
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return s, ts
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)

	r.Route("/api", func(r chi.Router) {
		r.Get("/contacts", s.listContacts)
		r.Post("/contacts", s.createContact)
		r.Get("/contacts/{id}", s.getContact)
		r.Put("/contacts/{id}", s.updateContact)
		r.Delete("/contacts/{id}", s.deleteContact)
		r.Post("/contacts/{id}/tags", s.addContactTag)
		r.Delete("/contacts/{id}/tags/{tagID}", s.removeContactTag)

		r.Get("/interactions", s.listInteractions)
		r.Post("/interactions", s.createInteraction)
		r.Put("/interactions/{id}", s.updateInteraction)
		r.Delete("/interactions/{id}", s.deleteInteraction)

		r.Get("/reminders", s.listReminders)
		r.Post("/reminders", s.createReminder)
		r.Put("/reminders/{id}", s.updateReminder)
		r.Delete("/reminders/{id}", s.deleteReminder)
		r.Patch("/reminders/{id}/complete", s.completeReminder)

		r.Get("/notes", s.listNotes)
		r.Post("/notes", s.createNote)
		r.Put("/notes/{id}", s.updateNote)
		r.Delete("/notes/{id}", s.deleteNote)
		r.Patch("/notes/{id}/pin", s.pinNote)

		r.Get("/tags", s.listTags)
		r.Post("/tags", s.createTag)
		r.Put("/tags/{id}", s.updateTag)
		r.Delete("/tags/{id}", s.deleteTag)

		r.Get("/search", s.search)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		fail(w, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// record logs the request and applies any injected fault or delay.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			_ = r.Body.Close()
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Body:   body,
		})
		key := r.Method + " " + r.URL.Path
		f, faulted := s.faults[key]
		if faulted {
			delete(s.faults, key)
		}
		delay := s.delay
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}

		if faulted {
			if f.drop {
				dropConnection(w)
				return
			}
			fail(w, f.status, f.code, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func dropConnection(w http.ResponseWriter) {
	hj, ok := w.(http.Hijacker)
	if !ok {
		panic("crmtest: response writer cannot hijack")
	}
	conn, _, err := hj.Hijack()
	if err != nil {
		return
	}
	_ = conn.Close()
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestsTo returns the requests matching method and path.
func (s *Server) RequestsTo(method, path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// ResetRequests clears the request log.
func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// FailNext makes the next request to method+path answer with a failure envelope.
func (s *Server) FailNext(method, path string, status int, code, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[method+" "+path] = fault{status: status, code: code, message: message}
}

// DropNext makes the next request to method+path close the connection with no response.
func (s *Server) DropNext(method, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[method+" "+path] = fault{drop: true}
}

// SetDelay delays every response.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// SetNow fixes the clock used for timestamps and overdue checks.
func (s *Server) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func newID() string {
	return uuid.NewString()
}

func ok(w http.ResponseWriter, status int, data any) {
	sendJSON(w, status, map[string]any{"success": true, "data": data})
}

func okPage(w http.ResponseWriter, data any, meta *models.Pagination) {
	payload := map[string]any{"success": true, "data": data}
	if meta != nil {
		payload["pagination"] = meta
	}
	sendJSON(w, http.StatusOK, payload)
}

func fail(w http.ResponseWriter, status int, code, message string) {
	sendJSON(w, status, map[string]any{
		"success": false,
		"error":   map[string]any{"code": code, "message": message},
	})
}

func sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
