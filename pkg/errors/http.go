package errors

import "net/http"

// codeToStatus maps error codes to HTTP status codes.
var codeToStatus = map[string]int{
	ErrInternal:        http.StatusInternalServerError,
	ErrNotFound:        http.StatusNotFound,
	ErrInvalidArgument: http.StatusBadRequest,
	ErrUnauthenticated: http.StatusUnauthorized,
	ErrUnauthorized:    http.StatusForbidden,
	ErrConflict:        http.StatusConflict,
}

// ToHTTPStatus converts an error code to an HTTP status code.
// Unknown codes map to 500.
func ToHTTPStatus(code string) int {
	if status, ok := codeToStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// StatusOf returns the HTTP status an error should produce.
func StatusOf(err error) int {
	return ToHTTPStatus(CodeOf(err))
}
