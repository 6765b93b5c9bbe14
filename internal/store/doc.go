// Package store provides key/value persistence for the panel's five
// collections: devices, logs, schedules, user profile, and theme.
//
// Each collection is one namespaced, versioned key mapping to an opaque
// JSON blob. The contract is load-or-fallback and whole-value
// replace-on-write: Load never raises on malformed data (it reports
// "absent" and the caller seeds defaults), and Save replaces the entire
// prior value.
//
// The store is a passive serialisation target. Entity ownership lives in
// the registries (device, schedule, audit, profile); the store knows
// nothing about the shapes it persists.
package store
