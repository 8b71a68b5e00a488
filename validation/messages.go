package validation

import (
	"fmt"

	"github.com/Daskott/agenda/models"
)

var (
	MsgNombreRequired = "name is required"
	MsgNombreLength   = fmt.Sprintf("name cannot exceed %d characters", MAX_NOMBRE_LENGTH)
	MsgNombreChars    = "name can only contain letters, spaces and accents"

	MsgCorreoRequired = "email is required"
	MsgCorreoLength   = fmt.Sprintf("email cannot exceed %d characters", MAX_CORREO_LENGTH)
	MsgCorreoFormat   = "email format is invalid"

	MsgTelefonoRequired = "phone is required"
	MsgTelefonoLength   = fmt.Sprintf("phone must have between %d and %d digits", MIN_PHONE_DIGITS, MAX_PHONE_DIGITS)
	MsgTelefonoChars    = `phone can only contain digits and an optional leading "+"`

	MsgEtiquetaInvalid = "tag must be one of: familia, trabajo, amigos or otro"

	MsgNotasLength = fmt.Sprintf("notes cannot exceed %d characters", MAX_NOTAS_LENGTH)
	MsgNotasMarkup = "markup is not allowed in notes"
)

// messages maps field -> failing validate tag -> message
var messages = map[string]map[string]string{
	models.FIELD_NOMBRE: {
		"not_blank":  MsgNombreRequired,
		"max":        MsgNombreLength,
		"name_chars": MsgNombreChars,
	},
	models.FIELD_CORREO: {
		"not_blank":   MsgCorreoRequired,
		"max":         MsgCorreoLength,
		"email_shape": MsgCorreoFormat,
	},
	models.FIELD_TELEFONO: {
		"not_blank":    MsgTelefonoRequired,
		"phone_digits": MsgTelefonoLength,
		"phone_chars":  MsgTelefonoChars,
	},
	models.FIELD_ETIQUETA: {
		"contact_tag": MsgEtiquetaInvalid,
	},
	models.FIELD_NOTAS: {
		"max":       MsgNotasLength,
		"no_markup": MsgNotasMarkup,
	},
}

func message(field, tag string) string {
	if msg, ok := messages[field][tag]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", field)
}
