package audit

import "errors"

var (
	ErrEventValidation = errors.New("audit.event_validation")
	ErrStorageFailed   = errors.New("audit.storage_failed")
)
