package store

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Daskott/agenda/api"
	"github.com/Daskott/agenda/models"
	"github.com/Daskott/agenda/testserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ana = models.Draft{
		Nombre:   "Ana López",
		Correo:   "ana@x.com",
		Telefono: "+52 123 456 7890",
		Etiqueta: models.TAG_FAMILIA,
		Notas:    "",
	}

	luis = models.Contact{ID: 1, Nombre: "Luis", Correo: "luis@x.com", Telefono: "1234567", Etiqueta: models.TAG_TRABAJO}
	sara = models.Contact{ID: 2, Nombre: "Sara", Correo: "sara@x.com", Telefono: "7654321"}

	confirmYes = func(ctx context.Context, id int) bool { return true }
	confirmNo  = func(ctx context.Context, id int) bool { return false }
)

func countID(contacts []models.Contact, id int) int {
	count := 0
	for _, contact := range contacts {
		if contact.ID == id {
			count++
		}
	}
	return count
}

func TestCreateScenario(t *testing.T) {
	server := testserver.New(luis)
	defer server.Close()

	s := New(api.NewClient(server.CollectionURL(), 0))
	ctx := context.Background()

	require.Nil(t, s.OpenCreate())
	assert.Equal(t, Creating, s.Snapshot().Session.Mode)

	err := s.Create(ctx, ana)
	require.Nil(t, err)

	snapshot := s.Snapshot()
	assert.Equal(t, Idle, snapshot.Session.Mode)
	assert.Equal(t, MSG_CREATED, snapshot.Success)
	assert.Equal(t, "", snapshot.Error)
	assert.False(t, snapshot.Loading)
	require.Len(t, snapshot.Contacts, 2)
	assert.Equal(t, 1, countID(snapshot.Contacts, 2))
	assert.Equal(t, ana, snapshot.Contacts[1].Draft())

	// The list is re-fetched after the write, never patched locally
	assert.Equal(t, []string{"POST /api/v1/contacts", "GET /api/v1/contacts"}, server.Requests())
}

func TestCreateRejectsInvalidDraftWithoutRequest(t *testing.T) {
	server := testserver.New()
	defer server.Close()

	s := New(api.NewClient(server.CollectionURL(), 0))
	require.Nil(t, s.OpenCreate())

	draft := ana
	draft.Correo = "not-an-email"
	err := s.Create(context.Background(), draft)

	validationErr := &ValidationError{}
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Errors, models.FIELD_CORREO)
	assert.Equal(t, "invalid fields: correo", validationErr.Error())

	assert.Empty(t, server.Requests())
	assert.Equal(t, Creating, s.Snapshot().Session.Mode)
}

func TestUpdateRejectedByResource(t *testing.T) {
	server := testserver.New(luis, sara)
	defer server.Close()

	s := New(api.NewClient(server.CollectionURL(), 0))
	ctx := context.Background()

	s.List(ctx)
	before := s.Snapshot().Contacts
	require.Len(t, before, 2)

	require.Nil(t, s.OpenEdit(luis))

	draft := luis.Draft()
	draft.Correo = sara.Correo
	err := s.Update(ctx, luis.ID, draft)
	assert.NotNil(t, err)

	snapshot := s.Snapshot()
	assert.Equal(t, "duplicate email", snapshot.Error)
	assert.Equal(t, "", snapshot.Success)
	assert.Equal(t, Editing, snapshot.Session.Mode)
	assert.Equal(t, luis.ID, snapshot.Session.ContactID)
	assert.Equal(t, before, snapshot.Contacts)
}

func TestUpdateClosesEditForm(t *testing.T) {
	server := testserver.New(luis)
	defer server.Close()

	s := New(api.NewClient(server.CollectionURL(), 0))
	ctx := context.Background()

	require.Nil(t, s.OpenEdit(luis))

	draft := luis.Draft()
	draft.Notas = "jefe"
	require.Nil(t, s.Update(ctx, luis.ID, draft))

	snapshot := s.Snapshot()
	assert.True(t, snapshot.Session.IsIdle())
	assert.Equal(t, MSG_UPDATED, snapshot.Success)
	require.Len(t, snapshot.Contacts, 1)
	assert.Equal(t, "jefe", snapshot.Contacts[0].Notas)
}

func TestWriteFailureMessages(t *testing.T) {
	cases := []struct {
		description     string
		err             error
		create          bool
		expectedMessage string
	}{
		{"create with detail", &api.ResponseError{StatusCode: 409, Detail: "duplicate email"}, true, "duplicate email"},
		{"create without detail", &api.ResponseError{StatusCode: 500}, true, MSG_CREATE_FAILED},
		{"create transport failure", errors.New("connection refused"), true, MSG_CREATE_FAILED},
		{"update with detail", &api.ResponseError{StatusCode: 422, Detail: "email is required"}, false, "email is required"},
		{"update transport failure", errors.New("connection refused"), false, MSG_UPDATE_FAILED},
	}

	for _, tc := range cases {
		stub := &api.CollectionAPIStub{Contacts: []models.Contact{luis}, CreateError: tc.err, UpdateError: tc.err}
		s := New(stub)

		var err error
		if tc.create {
			require.Nil(t, s.OpenCreate())
			err = s.Create(context.Background(), ana)
		} else {
			require.Nil(t, s.OpenEdit(luis))
			err = s.Update(context.Background(), luis.ID, ana)
		}

		assert.Equal(t, tc.err, err, tc.description)
		assert.Equal(t, tc.expectedMessage, s.Snapshot().Error, tc.description)
		assert.False(t, s.Snapshot().Session.IsIdle(), tc.description)
		assert.NotContains(t, stub.Calls, "list", tc.description)
	}
}

func TestListKeepsStaleContactsOnFailure(t *testing.T) {
	stub := &api.CollectionAPIStub{Contacts: []models.Contact{luis, sara}}
	s := New(stub)
	ctx := context.Background()

	s.List(ctx)
	assert.Len(t, s.Snapshot().Contacts, 2)

	stub.ListError = &api.ResponseError{StatusCode: 500, Detail: "ignored for reads"}
	s.List(ctx)

	snapshot := s.Snapshot()
	assert.Equal(t, MSG_LOAD_FAILED, snapshot.Error)
	assert.Equal(t, []models.Contact{luis, sara}, snapshot.Contacts)
	assert.False(t, snapshot.Loading)

	stub.ListError = nil
	s.List(ctx)
	assert.Equal(t, "", s.Snapshot().Error)
}

func TestDelete(t *testing.T) {
	server := testserver.New(luis, sara)
	defer server.Close()

	s := New(api.NewClient(server.CollectionURL(), 0))
	ctx := context.Background()
	s.List(ctx)

	t.Run("declined confirmation is a no-op", func(t *testing.T) {
		requests := len(server.Requests())

		s.Delete(ctx, luis.ID, confirmNo)
		s.Delete(ctx, luis.ID, nil)

		assert.Len(t, server.Requests(), requests)
		snapshot := s.Snapshot()
		assert.Equal(t, "", snapshot.Error)
		assert.Equal(t, "", snapshot.Success)
		assert.Len(t, snapshot.Contacts, 2)
	})

	t.Run("cancelled context aborts before confirmation", func(t *testing.T) {
		cancelledCtx, cancel := context.WithCancel(ctx)
		cancel()

		asked := false
		s.Delete(cancelledCtx, luis.ID, func(ctx context.Context, id int) bool {
			asked = true
			return true
		})

		assert.False(t, asked)
		assert.Len(t, s.Snapshot().Contacts, 2)
	})

	t.Run("confirmed delete re-fetches the list", func(t *testing.T) {
		s.Delete(ctx, luis.ID, confirmYes)

		snapshot := s.Snapshot()
		assert.Equal(t, MSG_DELETED, snapshot.Success)
		assert.Equal(t, 0, countID(snapshot.Contacts, luis.ID))
		assert.Equal(t, []models.Contact{sara}, snapshot.Contacts)
	})

	t.Run("failed delete only sets an error", func(t *testing.T) {
		server.FailNext(http.MethodDelete, testserver.Failure{Status: 500, Body: `{"detail":"nope"}`})
		s.Delete(ctx, sara.ID, confirmYes)

		snapshot := s.Snapshot()
		assert.Equal(t, MSG_DELETE_FAILED, snapshot.Error)
		assert.Equal(t, []models.Contact{sara}, snapshot.Contacts)
	})
}

func TestSessionTransitions(t *testing.T) {
	s := New(&api.CollectionAPIStub{})

	require.Nil(t, s.OpenCreate())
	assert.Equal(t, ErrInvalidTransition, s.OpenCreate())

	// Opening edit cancels the open create form
	require.Nil(t, s.OpenEdit(luis))
	assert.Equal(t, "editing(1)", s.Snapshot().Session.String())

	assert.Equal(t, ErrInvalidTransition, s.OpenCreate())
	assert.Equal(t, ErrInvalidTransition, s.OpenEdit(sara))
	assert.Equal(t, luis.ID, s.Snapshot().Session.ContactID)

	s.Cancel()
	assert.Equal(t, "idle", s.Snapshot().Session.String())

	s.Cancel()
	assert.True(t, s.Snapshot().Session.IsIdle())

	require.Nil(t, s.OpenCreate())
	s.Cancel()
	require.Nil(t, s.OpenEdit(sara))
}

func TestNoticesExpire(t *testing.T) {
	stub := &api.CollectionAPIStub{ListError: errors.New("offline")}
	s := New(stub, WithNoticeTTL(20*time.Millisecond))

	s.List(context.Background())
	assert.Equal(t, MSG_LOAD_FAILED, s.Snapshot().Error)

	assert.Eventually(t, func() bool {
		return s.Snapshot().Error == ""
	}, time.Second, 5*time.Millisecond)
}

func TestNewActionCancelsPendingExpiry(t *testing.T) {
	ttl := 200 * time.Millisecond
	stub := &api.CollectionAPIStub{ListError: errors.New("offline")}
	s := New(stub, WithNoticeTTL(ttl))
	ctx := context.Background()

	s.List(ctx)
	time.Sleep(ttl * 3 / 4)

	stub.ListError = nil
	stub.DeleteError = errors.New("offline")
	s.Delete(ctx, luis.ID, confirmYes)
	require.Equal(t, MSG_DELETE_FAILED, s.Snapshot().Error)

	// The first notice's expiry would have fired by now
	time.Sleep(ttl / 2)
	assert.Equal(t, MSG_DELETE_FAILED, s.Snapshot().Error)

	assert.Eventually(t, func() bool {
		return s.Snapshot().Error == ""
	}, time.Second, 10*time.Millisecond)
}

func TestNewActionClearsNotices(t *testing.T) {
	stub := &api.CollectionAPIStub{ListError: errors.New("offline")}
	s := New(stub)

	s.List(context.Background())
	assert.Equal(t, MSG_LOAD_FAILED, s.Snapshot().Error)

	seen := []Snapshot{}
	s.onChange = func(snapshot Snapshot) { seen = append(seen, snapshot) }

	stub.ListError = nil
	s.List(context.Background())

	require.NotEmpty(t, seen)
	assert.Equal(t, "", seen[0].Error)
	assert.True(t, seen[0].Loading)
	assert.False(t, seen[len(seen)-1].Loading)
}

func TestRejectedDraftClearsNotices(t *testing.T) {
	stub := &api.CollectionAPIStub{ListError: errors.New("offline")}
	s := New(stub)

	s.List(context.Background())
	require.Equal(t, MSG_LOAD_FAILED, s.Snapshot().Error)
	require.Nil(t, s.OpenCreate())

	draft := ana
	draft.Nombre = ""
	err := s.Create(context.Background(), draft)

	validationErr := &ValidationError{}
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "", s.Snapshot().Error)
	assert.Equal(t, []string{"list"}, stub.Calls)
}

// blockingAPI holds Create calls until released
type blockingAPI struct {
	*api.CollectionAPIStub
	started chan struct{}
	release chan struct{}
}

func (b *blockingAPI) Create(ctx context.Context, draft models.Draft) (*models.Contact, error) {
	close(b.started)
	<-b.release
	return b.CollectionAPIStub.Create(ctx, draft)
}

func TestLateResultDoesNotTouchNewerSession(t *testing.T) {
	blocking := &blockingAPI{
		CollectionAPIStub: &api.CollectionAPIStub{Contacts: []models.Contact{luis}},
		started:           make(chan struct{}),
		release:           make(chan struct{}),
	}
	s := New(blocking)

	require.Nil(t, s.OpenCreate())

	done := make(chan error)
	go func() {
		done <- s.Create(context.Background(), ana)
	}()

	<-blocking.started
	assert.True(t, s.Snapshot().Loading)

	// User moves on to editing another contact while the create is in flight
	require.Nil(t, s.OpenEdit(luis))

	close(blocking.release)
	require.Nil(t, <-done)

	snapshot := s.Snapshot()
	assert.False(t, snapshot.Loading)
	assert.Equal(t, Editing, snapshot.Session.Mode)
	assert.Equal(t, luis.ID, snapshot.Session.ContactID)
	assert.Equal(t, "", snapshot.Success)
	assert.Equal(t, []models.Contact{luis}, snapshot.Contacts)
}

func TestFetch(t *testing.T) {
	s := New(&api.CollectionAPIStub{Contacts: []models.Contact{luis}})

	contact, err := s.Fetch(context.Background(), luis.ID)
	require.Nil(t, err)
	assert.Equal(t, luis, *contact)

	_, err = s.Fetch(context.Background(), 42)
	assert.NotNil(t, err)
	assert.Empty(t, s.Snapshot().Contacts)
}
