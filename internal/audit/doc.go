// Package audit maintains the panel's append-only activity trail.
//
// The trail is derived from mutations: device toggles, device and
// schedule creation, and standalone notifications each append exactly
// one entry. Entries are most-recent-first, attributed to the fixed
// "Owner" user, persisted through the key/value store before observers
// are told to refresh, and never rotated.
//
// The trail can be materialised as CSV for download; exporting an empty
// trail is refused so the user never receives an empty file.
package audit
