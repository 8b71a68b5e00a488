package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Daskott/agenda/api"
	"github.com/Daskott/agenda/models"
)

const (
	MSG_LOAD_FAILED   = "could not load contacts"
	MSG_CREATE_FAILED = "could not create contact"
	MSG_UPDATE_FAILED = "could not update contact"
	MSG_DELETE_FAILED = "could not delete contact"

	MSG_CREATED = "contact created successfully"
	MSG_UPDATED = "contact updated successfully"
	MSG_DELETED = "contact deleted successfully"
)

var ErrInvalidTransition = errors.New("form transition not allowed")

// ValidationError is returned when a draft is submitted without passing validation.
// No request is made for such drafts.
type ValidationError struct {
	Errors models.FieldErrors
}

func (e *ValidationError) Error() string {
	fields := []string{}
	for _, field := range models.Fields {
		if _, ok := e.Errors[field]; ok {
			fields = append(fields, field)
		}
	}
	return fmt.Sprintf("invalid fields: %s", strings.Join(fields, ", "))
}

// writeFailureMessage prefers the resource's structured rejection reason over the fallback
func writeFailureMessage(err error, fallback string) string {
	respErr := &api.ResponseError{}
	if errors.As(err, &respErr) && respErr.Detail != "" {
		return respErr.Detail
	}
	return fallback
}
