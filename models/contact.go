package models

// Contact is a record as returned by the remote collection resource.
// ID is assigned by the resource and never edited by the client.
type Contact struct {
	ID       int    `json:"id"`
	Nombre   string `json:"nombre"`
	Correo   string `json:"correo"`
	Telefono string `json:"telefono"`
	Etiqueta string `json:"etiqueta"`
	Notas    string `json:"notas"`
}

// Draft returns an edit draft seeded from the contact
func (contact Contact) Draft() Draft {
	return Draft{
		Nombre:   contact.Nombre,
		Correo:   contact.Correo,
		Telefono: contact.Telefono,
		Etiqueta: contact.Etiqueta,
		Notas:    contact.Notas,
	}
}

// FindContact returns the contact with the given id from contacts, if any.
func FindContact(contacts []Contact, id int) (Contact, bool) {
	for _, contact := range contacts {
		if contact.ID == id {
			return contact, true
		}
	}
	return Contact{}, false
}
