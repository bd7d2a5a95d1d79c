// Package notestest runs an in-process stand-in for the remote notes
// service. It speaks the same envelope contract, issues the same fixed
// messages and enforces the same validation rules, so the driver and the
// orchestrator can be tested without the network.
package notestest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lucaspdo/notes-harness/internal/notesapi"
)

// Additional fixed messages the live service returns on rejected input.
const (
	MsgDuplicateEmail    = "An account already exists with the same email address"
	MsgBadCredentials    = "Incorrect email address or password"
	MsgWrongPassword     = "The current password is incorrect"
	MsgMissingUserFields = "User data is required"
)

var categories = []string{"Home", "Personal", "Work"}

type account struct {
	id       string
	name     string
	email    string
	password string
	phone    string
	company  string
	notes    []*note
}

type note struct {
	id          string
	title       string
	description string
	category    string
	completed   bool
	createdAt   string
	updatedAt   string
	seq         int64
}

// Server is one fake service instance. Zero value is not usable; construct
// with New.
type Server struct {
	httpSrv *httptest.Server

	mu      sync.Mutex
	byEmail map[string]*account
	byToken map[string]*account
	seq     int64
}

// New starts a fake service. The caller owns Close.
func New() *Server {
	s := &Server{
		byEmail: make(map[string]*account),
		byToken: make(map[string]*account),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/register", s.register)
	mux.HandleFunc("POST /users/login", s.login)
	mux.HandleFunc("GET /users/profile", s.authed(s.profile))
	mux.HandleFunc("PATCH /users/profile", s.authed(s.updateProfile))
	mux.HandleFunc("POST /users/change-password", s.authed(s.changePassword))
	mux.HandleFunc("DELETE /users/logout", s.authed(s.logout))
	mux.HandleFunc("DELETE /users/delete-account", s.authed(s.deleteAccount))
	mux.HandleFunc("POST /notes", s.authed(s.createNote))
	mux.HandleFunc("GET /notes", s.authed(s.listNotes))
	mux.HandleFunc("GET /notes/{id}", s.authed(s.getNote))
	mux.HandleFunc("PUT /notes/{id}", s.authed(s.updateNote))
	mux.HandleFunc("PATCH /notes/{id}", s.authed(s.patchNote))
	mux.HandleFunc("DELETE /notes/{id}", s.authed(s.deleteNote))

	s.httpSrv = httptest.NewServer(mux)
	return s
}

// URL is the base URL clients should target.
func (s *Server) URL() string {
	return s.httpSrv.URL
}

// Close shuts the fake service down.
func (s *Server) Close() {
	s.httpSrv.Close()
}

// AccountCount reports how many accounts currently exist. Tests use it to
// check cleanup really deleted the remote state.
func (s *Server) AccountCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byEmail)
}

// handler funcs below hold s.mu for their whole body; the suite is
// sequential and bodies never block.

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ParseForm()
	name := r.PostFormValue("name")
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	if name == "" || email == "" || password == "" {
		writeEnvelope(w, http.StatusBadRequest, false, MsgMissingUserFields, nil)
		return
	}
	if _, exists := s.byEmail[email]; exists {
		writeEnvelope(w, http.StatusConflict, false, MsgDuplicateEmail, nil)
		return
	}

	acct := &account{
		id:       uuid.NewString(),
		name:     name,
		email:    email,
		password: password,
	}
	s.byEmail[email] = acct
	writeEnvelope(w, http.StatusCreated, true, notesapi.MsgUserCreated, map[string]any{
		"id":    acct.id,
		"name":  acct.name,
		"email": acct.email,
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ParseForm()
	acct, ok := s.byEmail[r.PostFormValue("email")]
	if !ok || acct.password != r.PostFormValue("password") {
		writeEnvelope(w, http.StatusUnauthorized, false, MsgBadCredentials, nil)
		return
	}

	token := uuid.NewString()
	s.byToken[token] = acct
	writeEnvelope(w, http.StatusOK, true, notesapi.MsgLoginSuccess, map[string]any{
		"id":    acct.id,
		"name":  acct.name,
		"email": acct.email,
		"token": token,
	})
}

// authed resolves the x-auth-token header and rejects unknown tokens with
// the service's fixed 401 message.
func (s *Server) authed(next func(http.ResponseWriter, *http.Request, *account, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		token := r.Header.Get("x-auth-token")
		acct, ok := s.byToken[token]
		if !ok {
			writeEnvelope(w, http.StatusUnauthorized, false, notesapi.MsgInvalidToken, nil)
			return
		}
		next(w, r, acct, token)
	}
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request, acct *account, _ string) {
	writeEnvelope(w, http.StatusOK, true, notesapi.MsgProfileSuccess, profilePayload(acct))
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request, acct *account, _ string) {
	r.ParseForm()
	if name := r.PostFormValue("name"); name != "" {
		acct.name = name
	}
	acct.phone = r.PostFormValue("phone")
	acct.company = r.PostFormValue("company")
	writeEnvelope(w, http.StatusOK, true, notesapi.MsgProfileUpdated, profilePayload(acct))
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request, acct *account, _ string) {
	r.ParseForm()
	if r.PostFormValue("currentPassword") != acct.password {
		writeEnvelope(w, http.StatusBadRequest, false, MsgWrongPassword, nil)
		return
	}
	acct.password = r.PostFormValue("newPassword")
	writeEnvelope(w, http.StatusOK, true, notesapi.MsgPasswordUpdated, nil)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request, _ *account, token string) {
	delete(s.byToken, token)
	writeEnvelope(w, http.StatusOK, true, notesapi.MsgLogoutSuccess, nil)
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request, acct *account, _ string) {
	delete(s.byEmail, acct.email)
	for t, a := range s.byToken {
		if a == acct {
			delete(s.byToken, t)
		}
	}
	writeEnvelope(w, http.StatusOK, true, notesapi.MsgAccountDeleted, nil)
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request, acct *account, _ string) {
	r.ParseForm()
	category := r.PostFormValue("category")
	if !slices.Contains(categories, category) {
		writeEnvelope(w, http.StatusBadRequest, false, notesapi.MsgBadCategory, nil)
		return
	}

	now := timestamp()
	s.seq++
	n := &note{
		id:          uuid.NewString(),
		title:       r.PostFormValue("title"),
		description: r.PostFormValue("description"),
		category:    category,
		createdAt:   now,
		updatedAt:   now,
		seq:         s.seq,
	}
	acct.notes = append(acct.notes, n)
	writeEnvelope(w, http.StatusOK, true, notesapi.MsgNoteCreated, notePayload(n, acct))
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request, acct *account, _ string) {
	sorted := make([]*note, len(acct.notes))
	copy(sorted, acct.notes)
	// seq breaks ties when two updates land in the same millisecond.
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].updatedAt != sorted[j].updatedAt {
			return sorted[i].updatedAt > sorted[j].updatedAt
		}
		return sorted[i].seq > sorted[j].seq
	})

	payload := make([]map[string]any, len(sorted))
	for i, n := range sorted {
		payload[i] = notePayload(n, acct)
	}
	writeEnvelope(w, http.StatusOK, true, notesapi.MsgNotesRetrieved, payload)
}

func (s *Server) getNote(w http.ResponseWriter, r *http.Request, acct *account, _ string) {
	id, ok := noteID(w, r)
	if !ok {
		return
	}
	n := findNote(acct, id)
	if n == nil {
		writeEnvelope(w, http.StatusNotFound, false, notesapi.MsgNoteNotFound, nil)
		return
	}
	writeEnvelope(w, http.StatusOK, true, notesapi.MsgNoteRetrieved, notePayload(n, acct))
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request, acct *account, _ string) {
	id, ok := noteID(w, r)
	if !ok {
		return
	}
	r.ParseForm()
	n := findNote(acct, id)
	if n == nil {
		writeEnvelope(w, http.StatusNotFound, false, notesapi.MsgNoteNotFound, nil)
		return
	}
	category := r.PostFormValue("category")
	if !slices.Contains(categories, category) {
		writeEnvelope(w, http.StatusBadRequest, false, notesapi.MsgBadCategory, nil)
		return
	}
	completed, ok := parseCompleted(r.PostFormValue("completed"))
	if !ok {
		writeEnvelope(w, http.StatusBadRequest, false, notesapi.MsgBadCompleted, nil)
		return
	}

	n.title = r.PostFormValue("title")
	n.description = r.PostFormValue("description")
	n.category = category
	n.completed = completed
	s.seq++
	n.seq = s.seq
	n.updatedAt = timestamp()
	writeEnvelope(w, http.StatusOK, true, notesapi.MsgNoteUpdated, notePayload(n, acct))
}

func (s *Server) patchNote(w http.ResponseWriter, r *http.Request, acct *account, _ string) {
	id, ok := noteID(w, r)
	if !ok {
		return
	}
	r.ParseForm()
	n := findNote(acct, id)
	if n == nil {
		writeEnvelope(w, http.StatusNotFound, false, notesapi.MsgNoteNotFound, nil)
		return
	}
	completed, ok := parseCompleted(r.PostFormValue("completed"))
	if !ok {
		writeEnvelope(w, http.StatusBadRequest, false, notesapi.MsgBadCompleted, nil)
		return
	}

	n.completed = completed
	s.seq++
	n.seq = s.seq
	n.updatedAt = timestamp()
	writeEnvelope(w, http.StatusOK, true, notesapi.MsgNoteUpdated, notePayload(n, acct))
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request, acct *account, _ string) {
	id, ok := noteID(w, r)
	if !ok {
		return
	}
	for i, n := range acct.notes {
		if n.id == id {
			acct.notes = append(acct.notes[:i], acct.notes[i+1:]...)
			writeEnvelope(w, http.StatusOK, true, notesapi.MsgNoteDeleted, nil)
			return
		}
	}
	writeEnvelope(w, http.StatusNotFound, false, notesapi.MsgNoteNotFound, nil)
}

// noteID validates the {id} path segment the way the live service does:
// a malformed id is a 400, not a 404.
func noteID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if uuid.Validate(id) != nil {
		writeEnvelope(w, http.StatusBadRequest, false, notesapi.MsgBadNoteID, nil)
		return "", false
	}
	return id, true
}

func findNote(acct *account, id string) *note {
	for _, n := range acct.notes {
		if n.id == id {
			return n
		}
	}
	return nil
}

func parseCompleted(value string) (bool, bool) {
	switch value {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

func profilePayload(acct *account) map[string]any {
	return map[string]any{
		"id":      acct.id,
		"name":    acct.name,
		"email":   acct.email,
		"phone":   acct.phone,
		"company": acct.company,
	}
}

func notePayload(n *note, acct *account) map[string]any {
	return map[string]any{
		"id":          n.id,
		"title":       n.title,
		"description": n.description,
		"category":    n.category,
		"completed":   n.completed,
		"created_at":  n.createdAt,
		"updated_at":  n.updatedAt,
		"user_id":     acct.id,
	}
}

// timestamp matches the service's millisecond UTC format.
func timestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, message string, data any) {
	body := map[string]any{
		"success": success,
		"status":  status,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
