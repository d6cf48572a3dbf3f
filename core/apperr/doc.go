// Package apperr defines the error taxonomy shared by services and handlers.
//
// Every domain failure is an *Error carrying a Kind (what sort of failure) and a
// Code (which failure). Sentinel values are declared by the packages that own them,
// e.g. groups.ErrAlreadyMember, and compared with errors.Is, which matches on Code.
// Callers that only care about the category use KindOf:
//
//	switch apperr.KindOf(err) {
//	case apperr.KindConflict:
//	    // show "already joined"
//	case apperr.KindNotFound:
//	    // show "no such group"
//	}
package apperr
