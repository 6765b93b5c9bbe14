// Package profile holds the single owner's identity and theme choice.
package profile
