package apperr

import "net/http"

// StatusOf maps err's kind to an HTTP status code.
func StatusOf(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindPermission:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindPartialFailure:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}
