// Package processor contains the command-line workflows of wordhover. It
// orchestrates translation, dictionary lookups, the flashcard store, study
// sessions, batch imports and Anki export, and prints the results for the
// user. This package serves as the coordinator between the other components.
package processor
