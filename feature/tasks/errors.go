package tasks

import "studyhub/core/apperr"

var (
	ErrTaskNotFound     = apperr.New(apperr.KindNotFound, "task_not_found", "task not found")
	ErrGroupNotFound    = apperr.New(apperr.KindNotFound, "group_not_found", "group not found")
	ErrPermissionDenied = apperr.New(apperr.KindPermission, "permission_denied", "only the task owner may do this")
	ErrInvalidTask      = apperr.New(apperr.KindValidation, "invalid_task", "invalid task")
	ErrAlreadyCompleted = apperr.New(apperr.KindConflict, "already_completed", "task is already completed")
	ErrNotCompleted     = apperr.New(apperr.KindConflict, "not_completed", "task is not completed")
)
