// Package voice interprets free-form transcripts into device commands.
//
// Interpretation is deliberately best effort: a phrase pattern picks
// the action, a substring match picks the device, and anything that
// does not resolve is rejected with user-facing feedback rather than
// guessed at.
package voice
