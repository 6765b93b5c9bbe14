// Package device maintains the panel's device registry.
//
// The registry is the authoritative in-memory view of every device,
// loaded from the key/value store on startup and seeded with defaults
// on a first run. Mutations (toggles, lock changes, creation) persist
// the whole collection, record one audit entry and one notification
// sharing a timestamp, then publish a refresh event.
package device
