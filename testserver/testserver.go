// Package testserver provides an in-memory contacts collection resource
// for exercising the client against real HTTP.
package testserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/Daskott/agenda/models"
	"github.com/Daskott/agenda/validation"
	"github.com/gorilla/mux"
)

const COLLECTION_PATH = "/api/v1/contacts"

type ErrorPayload struct {
	Detail interface{} `json:"detail,omitempty"`
}

// Failure is a canned response returned instead of handling a request
type Failure struct {
	Status int
	Body   string
}

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	contacts map[int]models.Contact
	nextID   int
	failures map[string]Failure
	requests []string
}

// New starts a collection resource seeded with contacts. Seeded IDs are kept.
func New(contacts ...models.Contact) *Server {
	s := &Server{
		contacts: make(map[int]models.Contact),
		nextID:   1,
		failures: make(map[string]Failure),
	}

	for _, contact := range contacts {
		s.contacts[contact.ID] = contact
		if contact.ID >= s.nextID {
			s.nextID = contact.ID + 1
		}
	}

	s.Server = httptest.NewServer(s.router())
	return s
}

// URL of the contacts collection
func (s *Server) CollectionURL() string {
	return s.Server.URL + COLLECTION_PATH
}

// FailNext makes the next request with the given method respond with failure
func (s *Server) FailNext(method string, failure Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = failure
}

// Requests returns "METHOD path" for every request received so far
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.requests...)
}

// Contacts returns the stored contacts ordered by id
func (s *Server) Contacts() []models.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedContacts()
}

// ---------------------------------------------------------------------------------//
// Routes
// --------------------------------------------------------------------------------//

func (s *Server) router() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.recordingMiddleware, s.failureMiddleware)

	contactPath := COLLECTION_PATH + "/{id:[0-9]+}"

	router.HandleFunc(COLLECTION_PATH, s.listContacts).Methods(http.MethodGet)
	router.HandleFunc(COLLECTION_PATH, s.createContact).Methods(http.MethodPost)
	router.HandleFunc(contactPath, s.findContact).Methods(http.MethodGet)
	router.HandleFunc(contactPath, s.updateContact).Methods(http.MethodPut)
	router.HandleFunc(contactPath, s.deleteContact).Methods(http.MethodDelete)

	return router
}

func (s *Server) recordingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		s.mu.Unlock()

		w.Header().Add("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) failureMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		failure, ok := s.failures[r.Method]
		delete(s.failures, r.Method)
		s.mu.Unlock()

		if ok {
			w.WriteHeader(failure.Status)
			w.Write([]byte(failure.Body))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) listContacts(rw http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeResponse(rw, s.sortedContacts(), http.StatusOK)
}

func (s *Server) findContact(rw http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contact, ok := s.contacts[contactID(r)]
	if !ok {
		writeResponse(rw, ErrorPayload{Detail: "Contact not found"}, http.StatusNotFound)
		return
	}

	writeResponse(rw, contact, http.StatusOK)
}

func (s *Server) createContact(rw http.ResponseWriter, r *http.Request) {
	draft, ok := decodeDraft(rw, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(draft.Correo, 0) {
		writeResponse(rw, ErrorPayload{Detail: "duplicate email"}, http.StatusConflict)
		return
	}

	contact := contactFromDraft(s.nextID, draft)
	s.contacts[contact.ID] = contact
	s.nextID++

	writeResponse(rw, contact, http.StatusCreated)
}

func (s *Server) updateContact(rw http.ResponseWriter, r *http.Request) {
	draft, ok := decodeDraft(rw, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := contactID(r)
	if _, ok := s.contacts[id]; !ok {
		writeResponse(rw, ErrorPayload{Detail: "Contact not found"}, http.StatusNotFound)
		return
	}

	if s.emailTaken(draft.Correo, id) {
		writeResponse(rw, ErrorPayload{Detail: "duplicate email"}, http.StatusConflict)
		return
	}

	contact := contactFromDraft(id, draft)
	s.contacts[id] = contact

	writeResponse(rw, contact, http.StatusOK)
}

func (s *Server) deleteContact(rw http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := contactID(r)
	contact, ok := s.contacts[id]
	if !ok {
		writeResponse(rw, ErrorPayload{Detail: "Contact not found"}, http.StatusNotFound)
		return
	}

	delete(s.contacts, id)
	writeResponse(rw, contact, http.StatusOK)
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func decodeDraft(rw http.ResponseWriter, r *http.Request) (models.Draft, bool) {
	draft := models.Draft{}
	err := json.NewDecoder(r.Body).Decode(&draft)
	if err != nil {
		writeResponse(rw, ErrorPayload{Detail: err.Error()}, http.StatusBadRequest)
		return draft, false
	}

	fieldErrors := validation.Validate(draft)
	if !fieldErrors.Valid() {
		details := []map[string]string{}
		for _, field := range models.Fields {
			if msg, ok := fieldErrors[field]; ok {
				details = append(details, map[string]string{"loc": field, "msg": msg})
			}
		}
		writeResponse(rw, ErrorPayload{Detail: details}, http.StatusUnprocessableEntity)
		return draft, false
	}

	return draft, true
}

func (s *Server) emailTaken(correo string, exceptID int) bool {
	for id, contact := range s.contacts {
		if id != exceptID && strings.EqualFold(contact.Correo, correo) {
			return true
		}
	}
	return false
}

func (s *Server) sortedContacts() []models.Contact {
	contacts := make([]models.Contact, 0, len(s.contacts))
	for _, contact := range s.contacts {
		contacts = append(contacts, contact)
	}

	sort.Slice(contacts, func(i, j int) bool { return contacts[i].ID < contacts[j].ID })
	return contacts
}

func contactFromDraft(id int, draft models.Draft) models.Contact {
	return models.Contact{
		ID:       id,
		Nombre:   draft.Nombre,
		Correo:   draft.Correo,
		Telefono: draft.Telefono,
		Etiqueta: draft.Etiqueta,
		Notas:    draft.Notas,
	}
}

func contactID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

func writeResponse(rw http.ResponseWriter, payload interface{}, statusCode int) {
	rw.WriteHeader(statusCode)
	json.NewEncoder(rw).Encode(payload)
}
