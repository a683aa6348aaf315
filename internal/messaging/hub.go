// Package messaging fans out tagged messages between the surfaces of the
// application, e.g. from the HTTP service to connected event streams.
package messaging

import (
	"encoding/json"
	"sync"
)

// Message types
const (
	TypeTranslate      = "translate"
	TypeUpdateSettings = "updateSettings"
	TypeFlashcardSaved = "flashcardSaved"

	// Selection tooltip protocol of a single event stream
	TypeSelect  = "select"
	TypeHide    = "hide"
	TypePending = "pending"
	TypeTooltip = "tooltip"
)

// Message is a tagged message. Payload is one of the payload types below.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// TranslatePayload asks for a translation. The reply is tagged translate as
// well and carries {translation, hiragana}, or {translation: null} when the
// request was dropped because another one was running.
type TranslatePayload struct {
	Word           string `json:"word"`
	TargetLanguage string `json:"targetLanguage"`
}

// SettingsPayload carries changed settings
type SettingsPayload struct {
	TargetLanguage string `json:"targetLanguage"`
}

// FlashcardSavedPayload reports a saved card
type FlashcardSavedPayload struct {
	DeckID     string `json:"deckId"`
	TotalCount int    `json:"totalCount"`
}

// UpdateSettings builds an updateSettings message
func UpdateSettings(lang string) Message {
	return Message{Type: TypeUpdateSettings, Payload: SettingsPayload{TargetLanguage: lang}}
}

// FlashcardSaved builds a flashcardSaved message
func FlashcardSaved(deckID string, total int) Message {
	return Message{Type: TypeFlashcardSaved, Payload: FlashcardSavedPayload{DeckID: deckID, TotalCount: total}}
}

// Translate builds a translate message
func Translate(payload any) Message {
	return Message{Type: TypeTranslate, Payload: payload}
}

// Pending builds a pending message, sent while a selection is translated
func Pending(payload any) Message {
	return Message{Type: TypePending, Payload: payload}
}

// Tooltip builds a tooltip message carrying a finished translation
func Tooltip(payload any) Message {
	return Message{Type: TypeTooltip, Payload: payload}
}

// Hide builds a hide message
func Hide() Message {
	return Message{Type: TypeHide}
}

// Encode marshals a message for the wire
func (m Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// DefaultBuffer is the per subscriber queue length
const DefaultBuffer = 16

// Hub delivers published messages to all current subscribers. Delivery never
// blocks the publisher; a subscriber with a full queue misses the message.
type Hub struct {
	mu     sync.RWMutex
	subs   map[int]chan Message
	nextID int
	buffer int
}

// NewHub creates a hub
func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan Message), buffer: DefaultBuffer}
}

// Subscribe registers a subscriber. cancel closes the channel.
func (h *Hub) Subscribe() (<-chan Message, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Message, h.buffer)
	h.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Publish sends msg to every subscriber and returns how many received it
func (h *Hub) Publish(msg Message) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, ch := range h.subs {
		select {
		case ch <- msg:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribers returns the number of active subscribers
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
