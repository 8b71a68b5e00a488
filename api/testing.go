package api

import (
	"context"

	"github.com/Daskott/agenda/models"
)

// CollectionAPIStub returns canned values for every call & records what it was asked to do
type CollectionAPIStub struct {
	Contacts  []models.Contact
	ListError error

	CreatedContact *models.Contact
	CreateError    error
	UpdateError    error
	DeleteError    error

	Calls []string
}

func (stub *CollectionAPIStub) List(ctx context.Context) ([]models.Contact, error) {
	stub.Calls = append(stub.Calls, "list")
	if stub.ListError != nil {
		return nil, stub.ListError
	}
	return append([]models.Contact{}, stub.Contacts...), nil
}

func (stub *CollectionAPIStub) Get(ctx context.Context, id int) (*models.Contact, error) {
	stub.Calls = append(stub.Calls, "get")
	contact, ok := models.FindContact(stub.Contacts, id)
	if !ok {
		return nil, &ResponseError{StatusCode: 404, Detail: "Contact not found"}
	}
	return &contact, nil
}

func (stub *CollectionAPIStub) Create(ctx context.Context, draft models.Draft) (*models.Contact, error) {
	stub.Calls = append(stub.Calls, "create")
	return stub.CreatedContact, stub.CreateError
}

func (stub *CollectionAPIStub) Update(ctx context.Context, id int, draft models.Draft) (*models.Contact, error) {
	stub.Calls = append(stub.Calls, "update")
	return nil, stub.UpdateError
}

func (stub *CollectionAPIStub) Delete(ctx context.Context, id int) error {
	stub.Calls = append(stub.Calls, "delete")
	return stub.DeleteError
}
