package validation

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Claves de mensaje (en inglés; también son el texto por defecto).
const (
	msgRequired       = "This field is required"
	msgNonNegative    = "Quantity cannot be negative"
	msgMultipleOf     = "Quantity must be a multiple of %v"
	msgMaxAvailable   = "Quantity cannot exceed %v"
	msgVialExactMatch = "Open vial quantity must be exactly %v"
	msgNotEqual       = "Total must equal %v"
	msgInvalid        = "Invalid value"
)

// Idiomas soportados; el primero es el de respaldo del matcher.
var supported = []language.Tag{language.Indonesian, language.English, language.Spanish}

var matcher = language.NewMatcher(supported)

func init() {
	translations := map[language.Tag]map[string]string{
		language.Indonesian: {
			msgRequired:       "Kolom ini wajib diisi",
			msgNonNegative:    "Jumlah tidak boleh negatif",
			msgMultipleOf:     "Jumlah harus kelipatan %v",
			msgMaxAvailable:   "Jumlah tidak boleh melebihi %v",
			msgVialExactMatch: "Jumlah vial terbuka harus tepat %v",
			msgNotEqual:       "Total harus sama dengan %v",
			msgInvalid:        "Nilai tidak valid",
		},
		language.Spanish: {
			msgRequired:       "Este campo es obligatorio",
			msgNonNegative:    "La cantidad no puede ser negativa",
			msgMultipleOf:     "La cantidad debe ser múltiplo de %v",
			msgMaxAvailable:   "La cantidad no puede superar %v",
			msgVialExactMatch: "La cantidad de viales abiertos debe ser exactamente %v",
			msgNotEqual:       "El total debe ser igual a %v",
			msgInvalid:        "Valor inválido",
		},
	}
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := message.SetString(tag, key, msg); err != nil {
				panic(fmt.Sprintf("validation: registrar mensaje %q: %v", key, err))
			}
		}
	}
}

// MatchLanguage elige el idioma a partir de un header Accept-Language.
// Sin header (o sin coincidencia) usa fallback.
func MatchLanguage(acceptLanguage string, fallback language.Tag) language.Tag {
	if acceptLanguage == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return supported[idx]
}

// Message traduce un error de campo al idioma indicado.
func Message(fe FieldError, tag language.Tag) string {
	p := message.NewPrinter(tag)
	switch fe.Code {
	case CodeRequired:
		return p.Sprintf(msgRequired)
	case CodeNonNegative:
		return p.Sprintf(msgNonNegative)
	case CodeMultipleOf:
		return p.Sprintf(msgMultipleOf, fe.Params["unit"])
	case CodeMaxAvailable:
		return p.Sprintf(msgMaxAvailable, fe.Params["max"])
	case CodeVialExactMatch:
		return p.Sprintf(msgVialExactMatch, fe.Params["max"])
	case CodeNotEqual:
		return p.Sprintf(msgNotEqual, fe.Params["expected"])
	default:
		return p.Sprintf(msgInvalid)
	}
}

// Localized error de campo con el mensaje ya traducido.
type Localized struct {
	Field   string
	Code    string
	Message string
}

// Localize traduce una lista de errores conservando el orden.
func Localize(issues []FieldError, tag language.Tag) []Localized {
	out := make([]Localized, 0, len(issues))
	for _, fe := range issues {
		out = append(out, Localized{Field: fe.Field, Code: fe.Code, Message: Message(fe, tag)})
	}
	return out
}
