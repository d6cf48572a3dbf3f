package groups

import "studyhub/core/apperr"

var (
	ErrCodeNotFound     = apperr.New(apperr.KindNotFound, "code_not_found", "no group uses this share code")
	ErrGroupNotFound    = apperr.New(apperr.KindNotFound, "group_not_found", "group not found")
	ErrAlreadyMember    = apperr.New(apperr.KindConflict, "already_member", "user is already a member of this group")
	ErrSelfJoin         = apperr.New(apperr.KindConflict, "self_join", "owner cannot join their own group")
	ErrNotAMember       = apperr.New(apperr.KindConflict, "not_a_member", "user is not a member of this group")
	ErrOwnerCannotLeave = apperr.New(apperr.KindConflict, "owner_cannot_leave", "owner cannot leave their own group")
	ErrPermissionDenied = apperr.New(apperr.KindPermission, "permission_denied", "only the group owner may do this")
	ErrInvalidName      = apperr.New(apperr.KindValidation, "invalid_name", "group name must not be empty")
	ErrInvalidInput     = apperr.New(apperr.KindValidation, "invalid_input", "invalid input")
)
