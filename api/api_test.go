package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Daskott/agenda/models"
	"github.com/Daskott/agenda/testserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ana = models.Draft{
	Nombre:   "Ana López",
	Correo:   "ana@x.com",
	Telefono: "+52 123 456 7890",
	Etiqueta: models.TAG_FAMILIA,
}

func TestCRUDRoundTrip(t *testing.T) {
	server := testserver.New()
	defer server.Close()

	client := NewClient(server.CollectionURL(), 0)
	ctx := context.Background()

	created, err := client.Create(ctx, ana)
	require.Nil(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, ana, created.Draft())

	contacts, err := client.List(ctx)
	require.Nil(t, err)
	assert.Equal(t, []models.Contact{*created}, contacts)

	found, err := client.Get(ctx, created.ID)
	require.Nil(t, err)
	assert.Equal(t, created, found)

	edit := created.Draft()
	edit.Notas = "prima"
	updated, err := client.Update(ctx, created.ID, edit)
	require.Nil(t, err)
	assert.Equal(t, "prima", updated.Notas)
	assert.Equal(t, created.ID, updated.ID)

	err = client.Delete(ctx, created.ID)
	require.Nil(t, err)

	contacts, err = client.List(ctx)
	require.Nil(t, err)
	assert.Empty(t, contacts)

	assert.Equal(t, []string{
		"POST /api/v1/contacts",
		"GET /api/v1/contacts",
		"GET /api/v1/contacts/1",
		"PUT /api/v1/contacts/1",
		"DELETE /api/v1/contacts/1",
		"GET /api/v1/contacts",
	}, server.Requests())
}

func TestResponseErrors(t *testing.T) {
	server := testserver.New(models.Contact{ID: 7, Nombre: "Ana", Correo: "ana@x.com", Telefono: "1234567"})
	defer server.Close()

	client := NewClient(server.CollectionURL()+"/", 0)
	ctx := context.Background()

	cases := []struct {
		description    string
		method         string
		failure        *testserver.Failure
		call           func() error
		expectedStatus int
		expectedDetail string
	}{
		{
			description:    "Should use string detail",
			method:         http.MethodPut,
			call:           func() error { _, err := client.Update(ctx, 7, ana); return err },
			failure:        &testserver.Failure{Status: http.StatusConflict, Body: `{"detail":"duplicate email"}`},
			expectedStatus: http.StatusConflict,
			expectedDetail: "duplicate email",
		},
		{
			description:    "Should join list detail messages",
			call:           func() error { _, err := client.Create(ctx, models.Draft{Nombre: "Ana"}); return err },
			expectedStatus: http.StatusUnprocessableEntity,
			expectedDetail: "email is required; phone is required",
		},
		{
			description:    "Should leave detail empty when body is not json",
			method:         http.MethodGet,
			call:           func() error { _, err := client.List(ctx); return err },
			failure:        &testserver.Failure{Status: http.StatusInternalServerError, Body: "boom"},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			description:    "Should leave detail empty when body has no detail",
			method:         http.MethodDelete,
			call:           func() error { return client.Delete(ctx, 7) },
			failure:        &testserver.Failure{Status: http.StatusInternalServerError, Body: `{"message":"Error Interno del Servidor"}`},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			description:    "Should report missing contact",
			call:           func() error { _, err := client.Get(ctx, 99); return err },
			expectedStatus: http.StatusNotFound,
			expectedDetail: "Contact not found",
		},
	}

	for _, tc := range cases {
		if tc.failure != nil {
			server.FailNext(tc.method, *tc.failure)
		}

		err := tc.call()

		respErr := &ResponseError{}
		require.True(t, errors.As(err, &respErr), tc.description)
		assert.Equal(t, tc.expectedStatus, respErr.StatusCode, tc.description)
		assert.Equal(t, tc.expectedDetail, respErr.Detail, tc.description)
	}
}

func TestTransportError(t *testing.T) {
	server := testserver.New()
	url := server.CollectionURL()
	server.Close()

	_, err := NewClient(url, 0).List(context.Background())
	assert.NotNil(t, err)

	respErr := &ResponseError{}
	assert.False(t, errors.As(err, &respErr))
}

func TestResponseErrorMessage(t *testing.T) {
	assert.Equal(t, "duplicate email", (&ResponseError{StatusCode: 409, Detail: "duplicate email"}).Error())
	assert.Equal(t, "unexpected response status 500", (&ResponseError{StatusCode: 500}).Error())
}
