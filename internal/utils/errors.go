package utils

import "errors"

// Common console errors. The message doubles as the API error code.
var (
	ErrLoginRequired   = errors.New("LOGIN_REQUIRED")
	ErrUnknownPage     = errors.New("UNKNOWN_PAGE")
	ErrViewNotMounted  = errors.New("VIEW_NOT_MOUNTED")
	ErrSubmitInFlight  = errors.New("SUBMIT_IN_FLIGHT")
	ErrNoDeleteTarget  = errors.New("NO_DELETE_TARGET")
	ErrModalClosed     = errors.New("MODAL_CLOSED")
	ErrRecordNotFound  = errors.New("RECORD_NOT_FOUND")
	ErrUnknownSortKey  = errors.New("UNKNOWN_SORT_KEY")
	ErrUnsupportedMode = errors.New("UNSUPPORTED_MODE")
	ErrStaleResult     = errors.New("STALE_RESULT")
	ErrUnknownMetric   = errors.New("UNKNOWN_METRIC")
)
