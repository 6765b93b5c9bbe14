package audit

import "errors"

// ErrNothingToExport is returned when a CSV export is requested and the
// trail has no entries.
var ErrNothingToExport = errors.New("audit: nothing to export")
