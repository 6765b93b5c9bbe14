// Package events carries typed mutation events from the state core to
// its observers.
//
// Every mutation path (device toggle, device create, schedule create,
// log append, notification, profile/theme change) publishes exactly one
// reconcile-triggering event after its state has been persisted. The
// rendering layer subscribes and re-reads authoritative snapshots; state
// logic never touches display code directly.
package events
