// Package schedule stores the panel's display-only schedule list.
// Schedules are created and listed but never executed.
package schedule
