// Error codes reference.
//
// This file maps technical errors to user-friendly messages with support
// codes. Users can quote the code when reporting a problem.
//
// Scan errors (SCAN001-SCAN099):
//
//	SCAN001 - Path not found: the folder to analyze does not exist
//	SCAN002 - Not a directory: the path points at a file
//	SCAN003 - Scan not found: unknown or expired scan ID
//	SCAN004 - System busy: too many scans in progress
//	SCAN005 - Cancelled: the scan was cancelled
//	SCAN006 - Timeout: the scan exceeded its time budget
//
// Report errors (RPT001-RPT099):
//
//	RPT001 - No report: the scan found no shapefile fields
//
// Everything else falls through to SYS001.
package core

import "strings"

// UserMessage is a sanitized, user-facing rendering of an error.
type UserMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

// errorMapping matches a substring of the technical error text.
type errorMapping struct {
	pattern string
	msg     UserMessage
}

var errorMappings = []errorMapping{
	{"path does not exist", UserMessage{
		Code:    "SCAN001",
		Message: "La carpeta indicada no existe",
		Action:  "Verifica que la ruta exista en el equipo donde corre el servidor",
	}},
	{"path is not a directory", UserMessage{
		Code:    "SCAN002",
		Message: "La ruta indicada no es una carpeta",
		Action:  "Ingresa la ruta de una carpeta, no de un archivo",
	}},
	{"scan not found", UserMessage{
		Code:    "SCAN003",
		Message: "El análisis no existe o ya expiró",
		Action:  "Inicia un nuevo análisis",
	}},
	{"too many concurrent scans", UserMessage{
		Code:    "SCAN004",
		Message: "Hay demasiados análisis en curso",
		Action:  "Espera un momento e intenta de nuevo",
	}},
	{"context canceled", UserMessage{
		Code:    "SCAN005",
		Message: "El análisis fue cancelado",
		Action:  "Inicia un nuevo análisis cuando estés listo",
	}},
	{"context deadline exceeded", UserMessage{
		Code:    "SCAN006",
		Message: "El análisis tardó demasiado",
		Action:  "Intenta con una carpeta más pequeña",
	}},
	{"report unavailable", UserMessage{
		Code:    "RPT001",
		Message: "No se encontraron archivos .shp en la ruta indicada",
		Action:  "Verifica la carpeta y vuelve a ejecutar el análisis",
	}},
}

// MapError converts a technical error into a user-facing message.
// Unrecognized errors get a generic message with code SYS001.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{Code: "SYS000", Message: "OK"}
	}

	text := strings.ToLower(err.Error())
	for _, m := range errorMappings {
		if strings.Contains(text, m.pattern) {
			return m.msg
		}
	}

	return UserMessage{
		Code:    "SYS001",
		Message: "Ocurrió un error inesperado",
		Action:  "Intenta de nuevo; si persiste, reporta el código SYS001",
	}
}
