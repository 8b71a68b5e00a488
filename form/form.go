// Package form holds a contact draft while it is being created or edited and
// submits it through the store.
package form

import (
	"context"

	"github.com/Daskott/agenda/models"
	"github.com/Daskott/agenda/store"
	"github.com/Daskott/agenda/validation"
)

type Form struct {
	Draft      models.Draft
	Errors     models.FieldErrors
	Submitting bool

	store     *store.Store
	session   store.Session
	contactID int
	editing   bool
}

// NewCreateForm opens the store's create form with an empty draft
func NewCreateForm(s *store.Store) (*Form, error) {
	err := s.OpenCreate()
	if err != nil {
		return nil, err
	}

	return &Form{store: s, session: s.Snapshot().Session, Errors: models.FieldErrors{}}, nil
}

// NewEditForm opens the store's edit form with a draft seeded from contact
func NewEditForm(s *store.Store, contact models.Contact) (*Form, error) {
	err := s.OpenEdit(contact)
	if err != nil {
		return nil, err
	}

	return &Form{
		Draft:     contact.Draft(),
		Errors:    models.FieldErrors{},
		store:     s,
		session:   s.Snapshot().Session,
		contactID: contact.ID,
		editing:   true,
	}, nil
}

func (f *Form) IsEditing() bool {
	return f.editing
}

// Change sets a field & clears that field's error. Other fields' errors are left as is.
func (f *Form) Change(field, value string) error {
	err := f.Draft.Set(field, value)
	if err != nil {
		return err
	}

	delete(f.Errors, field)
	return nil
}

// Check re-validates a single field, updating its error
func (f *Form) Check(field string) string {
	value, err := f.Draft.Get(field)
	if err != nil {
		return ""
	}

	msg := validation.ValidateField(field, value)
	if msg == "" {
		delete(f.Errors, field)
	} else {
		f.Errors[field] = msg
	}

	return msg
}

// IsOpen reports whether the store session is still the one this form was opened in
func (f *Form) IsOpen() bool {
	return f.store.Snapshot().Session == f.session
}

// Submit validates the draft & sends it. On any failure the draft is kept so it
// can be corrected. A created draft is reset on success.
// A form that was cancelled, replaced or already submitted sends nothing.
func (f *Form) Submit(ctx context.Context) error {
	if !f.IsOpen() {
		return store.ErrInvalidTransition
	}

	f.Errors = validation.Validate(f.Draft)
	if !f.Errors.Valid() {
		f.store.ClearNotices()
		return &store.ValidationError{Errors: f.Errors}
	}

	f.Submitting = true
	defer func() { f.Submitting = false }()

	if f.editing {
		return f.store.Update(ctx, f.contactID, f.Draft)
	}

	err := f.store.Create(ctx, f.Draft)
	if err != nil {
		return err
	}

	f.Draft = models.Draft{}
	return nil
}

// Cancel closes the form without sending anything. A form that is no
// longer open leaves the store's current form alone.
func (f *Form) Cancel() {
	if !f.IsOpen() {
		return
	}
	f.store.Cancel()
}
