// Package database manages the SQLite connection for Hearth Core.
//
// It handles opening the database file with the right pragmas (WAL,
// busy timeout, foreign keys), applying embedded schema migrations at
// startup, and health checking the connection.
//
// SQLite is deliberate here: the panel is a single-operator local tool,
// so a single-writer embedded database with no external service is the
// right persistence shape.
package database
