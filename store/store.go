// Package store owns the in-memory contact list and the create/edit form
// lifecycle. The list only ever mirrors the last successful read of the
// collection: writes are always followed by a full re-fetch.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/Daskott/agenda/api"
	"github.com/Daskott/agenda/logger"
	"github.com/Daskott/agenda/models"
	"github.com/Daskott/agenda/validation"
	"go.uber.org/zap"
)

const DEFAULT_NOTICE_TTL = 5 * time.Second

// ConfirmFunc asks the user to confirm deleting contact 'id'.
// Returning false aborts the delete with no side effects.
type ConfirmFunc func(ctx context.Context, id int) bool

// Snapshot is a copy of the store state handed to the presentation layer
type Snapshot struct {
	Contacts []models.Contact
	Session  Session
	Loading  bool
	Error    string
	Success  string
}

type Option func(*Store)

func WithNoticeTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.noticeTTL = ttl
		}
	}
}

func WithLogger(logg *zap.SugaredLogger) Option {
	return func(s *Store) {
		if logg != nil {
			s.logg = logg
		}
	}
}

// WithOnChange registers fn to be called with a fresh snapshot after every state change
func WithOnChange(fn func(Snapshot)) Option {
	return func(s *Store) {
		s.onChange = fn
	}
}

type Store struct {
	collection api.CollectionAPI
	logg       *zap.SugaredLogger
	noticeTTL  time.Duration
	onChange   func(Snapshot)

	mu       sync.Mutex
	contacts []models.Contact
	session  Session
	loading  bool
	errorMsg string
	success  string

	expiry    *time.Timer
	noticeGen uint64
}

func New(collection api.CollectionAPI, opts ...Option) *Store {
	s := &Store{
		collection: collection,
		logg:       logger.NewNopLogger(),
		noticeTTL:  DEFAULT_NOTICE_TTL,
		contacts:   []models.Contact{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// ---------------------------------------------------------------------------------//
// Session transitions
// --------------------------------------------------------------------------------//

// OpenCreate opens the create form. Only allowed from Idle.
func (s *Store) OpenCreate() error {
	s.mu.Lock()
	if s.session.Mode != Idle {
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	s.transitionLocked(Creating, 0)
	s.mu.Unlock()

	s.notify()
	return nil
}

// OpenEdit opens the edit form for contact. An open create form is cancelled
// first; opening edit while already editing is not allowed.
func (s *Store) OpenEdit(contact models.Contact) error {
	s.mu.Lock()
	if s.session.Mode == Editing {
		s.mu.Unlock()
		return ErrInvalidTransition
	}

	if s.session.Mode == Creating {
		s.transitionLocked(Idle, 0)
	}
	s.transitionLocked(Editing, contact.ID)
	s.mu.Unlock()

	s.notify()
	return nil
}

// Cancel closes whichever form is open
func (s *Store) Cancel() {
	s.mu.Lock()
	if s.session.Mode == Idle {
		s.mu.Unlock()
		return
	}
	s.transitionLocked(Idle, 0)
	s.mu.Unlock()

	s.notify()
}

// ---------------------------------------------------------------------------------//
// CRUD
// --------------------------------------------------------------------------------//

// List re-fetches the whole collection. On failure the previous list is kept
// and the error is recorded as the session error message only.
func (s *Store) List(ctx context.Context) {
	s.beginAction()

	contacts, err := s.collection.List(ctx)

	s.mu.Lock()
	s.loading = false
	s.applyListLocked(contacts, err)
	s.mu.Unlock()

	s.notify()
}

// Fetch reads a single contact without touching the list
func (s *Store) Fetch(ctx context.Context, id int) (*models.Contact, error) {
	contact, err := s.collection.Get(ctx, id)
	if err != nil {
		s.logg.Warnw("fetching contact failed", "id", id, "error", err)
		return nil, err
	}
	return contact, nil
}

// Create sends a validated draft to the collection. The error is returned so
// the caller can keep the draft open; the draft is never cleared on failure.
func (s *Store) Create(ctx context.Context, draft models.Draft) error {
	return s.write(ctx, draft, writeOp{
		name:     "create",
		fallback: MSG_CREATE_FAILED,
		success:  MSG_CREATED,
		call: func() error {
			_, err := s.collection.Create(ctx, draft)
			return err
		},
		closes: func(session Session) bool { return session.Mode == Creating },
	})
}

// Update is Create for an existing contact 'id'
func (s *Store) Update(ctx context.Context, id int, draft models.Draft) error {
	return s.write(ctx, draft, writeOp{
		name:     "update",
		fallback: MSG_UPDATE_FAILED,
		success:  MSG_UPDATED,
		call: func() error {
			_, err := s.collection.Update(ctx, id, draft)
			return err
		},
		closes: func(session Session) bool { return session.Mode == Editing && session.ContactID == id },
	})
}

// Delete removes contact 'id' once confirm agrees. Failures are recorded as the
// session error message only.
func (s *Store) Delete(ctx context.Context, id int, confirm ConfirmFunc) {
	if confirm == nil || ctx.Err() != nil || !confirm(ctx, id) || ctx.Err() != nil {
		return
	}

	s.beginAction()

	err := s.collection.Delete(ctx, id)
	if err != nil {
		s.logg.Warnw("deleting contact failed", "id", id, "error", err)

		s.mu.Lock()
		s.loading = false
		s.setNoticeLocked(MSG_DELETE_FAILED, "")
		s.mu.Unlock()

		s.notify()
		return
	}

	contacts, listErr := s.collection.List(ctx)

	s.mu.Lock()
	s.loading = false
	s.applyListLocked(contacts, listErr)
	s.setNoticeLocked(s.errorMsg, MSG_DELETED)
	s.mu.Unlock()

	s.notify()
}

// ClearNotices drops both notices without waiting for them to expire
func (s *Store) ClearNotices() {
	s.mu.Lock()
	if s.errorMsg == "" && s.success == "" {
		s.mu.Unlock()
		return
	}
	s.clearNoticeLocked()
	s.mu.Unlock()

	s.notify()
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

type writeOp struct {
	name     string
	fallback string
	success  string
	call     func() error
	closes   func(session Session) bool
}

func (s *Store) write(ctx context.Context, draft models.Draft, op writeOp) error {
	fieldErrors := validation.Validate(draft)
	if !fieldErrors.Valid() {
		s.ClearNotices()
		return &ValidationError{Errors: fieldErrors}
	}

	issuedUnder := s.beginAction()

	err := op.call()
	if err != nil {
		s.logg.Warnw(op.name+" contact failed", "error", err)

		s.mu.Lock()
		s.loading = false
		if s.isCurrentLocked(issuedUnder) {
			s.setNoticeLocked(writeFailureMessage(err, op.fallback), "")
		}
		s.mu.Unlock()

		s.notify()
		return err
	}

	contacts, listErr := s.collection.List(ctx)

	s.mu.Lock()
	s.loading = false
	s.applyListLocked(contacts, listErr)
	if s.isCurrentLocked(issuedUnder) {
		if op.closes(s.session) {
			s.transitionLocked(Idle, 0)
		}
		s.setNoticeLocked(s.errorMsg, op.success)
	} else {
		s.logg.Debugw("discarding stale "+op.name+" result", "issuedUnder", issuedUnder.String(), "session", s.session.String())
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// beginAction clears pending notices, raises the loading flag & returns the
// session the action is issued under
func (s *Store) beginAction() Session {
	s.mu.Lock()
	s.clearNoticeLocked()
	s.loading = true
	session := s.session
	s.mu.Unlock()

	s.notify()
	return session
}

func (s *Store) applyListLocked(contacts []models.Contact, err error) {
	if err != nil {
		s.logg.Warnw("loading contacts failed", "error", err)
		s.setNoticeLocked(MSG_LOAD_FAILED, s.success)
		return
	}

	if contacts == nil {
		contacts = []models.Contact{}
	}
	s.contacts = contacts
	if s.errorMsg != "" {
		s.setNoticeLocked("", s.success)
	}
}

func (s *Store) isCurrentLocked(session Session) bool {
	return s.session.epoch == session.epoch
}

func (s *Store) transitionLocked(mode Mode, contactID int) {
	s.session = Session{Mode: mode, ContactID: contactID, epoch: s.session.epoch + 1}
}

// setNoticeLocked replaces both notices & schedules their expiry. Any pending
// expiry is cancelled so it cannot clear the newer notices early.
func (s *Store) setNoticeLocked(errorMsg, success string) {
	s.stopExpiryLocked()
	s.errorMsg = errorMsg
	s.success = success

	if errorMsg == "" && success == "" {
		return
	}

	gen := s.noticeGen
	s.expiry = time.AfterFunc(s.noticeTTL, func() {
		s.mu.Lock()
		if s.noticeGen != gen {
			s.mu.Unlock()
			return
		}
		s.errorMsg = ""
		s.success = ""
		s.expiry = nil
		s.mu.Unlock()

		s.notify()
	})
}

func (s *Store) clearNoticeLocked() {
	s.stopExpiryLocked()
	s.errorMsg = ""
	s.success = ""
}

func (s *Store) stopExpiryLocked() {
	s.noticeGen++
	if s.expiry != nil {
		s.expiry.Stop()
		s.expiry = nil
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Contacts: append([]models.Contact{}, s.contacts...),
		Session:  s.session,
		Loading:  s.loading,
		Error:    s.errorMsg,
		Success:  s.success,
	}
}

func (s *Store) notify() {
	if s.onChange == nil {
		return
	}
	s.onChange(s.Snapshot())
}
