package models

import "fmt"

const (
	FIELD_NOMBRE   = "nombre"
	FIELD_CORREO   = "correo"
	FIELD_TELEFONO = "telefono"
	FIELD_ETIQUETA = "etiqueta"
	FIELD_NOTAS    = "notas"
)

// Fields lists the editable fields of a draft in display order
var Fields = []string{FIELD_NOMBRE, FIELD_CORREO, FIELD_TELEFONO, FIELD_ETIQUETA, FIELD_NOTAS}

// Draft is the not-yet-persisted representation of a contact being created or edited.
// It is also the request body for create & update calls.
type Draft struct {
	Nombre   string `json:"nombre" validate:"not_blank,max=80,name_chars"`
	Correo   string `json:"correo" validate:"not_blank,max=120,email_shape"`
	Telefono string `json:"telefono" validate:"not_blank,phone_digits,phone_chars"`
	Etiqueta string `json:"etiqueta" validate:"omitempty,contact_tag"`
	Notas    string `json:"notas" validate:"max=500,no_markup"`
}

// FieldErrors maps a draft field name to its error message.
// A draft is valid iff its FieldErrors is empty.
type FieldErrors map[string]string

func (fe FieldErrors) Valid() bool {
	return len(fe) == 0
}

// Get returns the value of the named field
func (draft *Draft) Get(field string) (string, error) {
	switch field {
	case FIELD_NOMBRE:
		return draft.Nombre, nil
	case FIELD_CORREO:
		return draft.Correo, nil
	case FIELD_TELEFONO:
		return draft.Telefono, nil
	case FIELD_ETIQUETA:
		return draft.Etiqueta, nil
	case FIELD_NOTAS:
		return draft.Notas, nil
	}
	return "", fmt.Errorf("unknown field %q", field)
}

// Set updates the named field
func (draft *Draft) Set(field, value string) error {
	switch field {
	case FIELD_NOMBRE:
		draft.Nombre = value
	case FIELD_CORREO:
		draft.Correo = value
	case FIELD_TELEFONO:
		draft.Telefono = value
	case FIELD_ETIQUETA:
		draft.Etiqueta = value
	case FIELD_NOTAS:
		draft.Notas = value
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}
