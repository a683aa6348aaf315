// Package flashcard persists decks of saved translations.
//
// The whole store is a single record read, mutated and written back on every
// operation. Two backends implement the underlying key-value interface: an
// in-memory map for tests and a SQLite file for the CLI and the HTTP service.
package flashcard
