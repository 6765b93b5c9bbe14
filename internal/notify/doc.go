// Package notify holds the session-scoped notification queue feeding the
// dashboard's badge and dropdown.
//
// Every successful mutation produces exactly one notification whose
// timestamp equals its audit entry's timestamp. The queue is a fixed
// 50-slot ring rather than an ever-growing list sliced at render time.
package notify
