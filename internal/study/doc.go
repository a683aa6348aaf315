// Package study runs flashcard study sessions over a deck.
//
// A session shows every card of the deck in round 1 and only the cards still
// unknown in later rounds. Results are written back to the store when a
// round completes or the session is finished early. Once every card of a
// round is known, the deck is reset so the next session starts a full pass.
package study
