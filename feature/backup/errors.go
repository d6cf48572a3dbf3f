package backup

import "studyhub/core/apperr"

var (
	ErrImportInProgress = apperr.New(apperr.KindConflict, "import_in_progress", "another import is in progress")
	ErrBackupNotFound   = apperr.New(apperr.KindNotFound, "backup_not_found", "backup not found")
	ErrInvalidName      = apperr.New(apperr.KindValidation, "invalid_backup_name", "invalid backup name")
)
